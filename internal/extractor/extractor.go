// =============================================================================
// Payroll PDF Extractor - Record Extraction
// =============================================================================
//
// This module turns the plain text of one payroll document into line item
// records. It is a line-oriented pattern pass:
//
//   1. Letter date:       first DD.MM.YYYY in the text
//   2. Line items:        "<label> <amount> €" at the end of a line
//   3. Payment reference: 13-digit id followed by the "Erst.:" period codes
//   4. Stamping:          site, date, file name, billing office and booking
//                         period are copied onto every record
//
// Only amounts separated from the currency symbol by whitespace are table
// rows. "1.234,56€" inside running text is ignored.
//
// =============================================================================

package extractor

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/period"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/sites"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
)

// DefaultCurrency is the symbol expected after every table amount.
const DefaultCurrency = "€"

// ws also covers no-break spaces, which PDF text layers emit frequently.
const ws = `[\s\p{Zs}]`

var (
	letterDatePattern = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)
	footnotePattern   = regexp.MustCompile(ws + `*\d+\)` + ws + `*$`)
	paymentRefPattern = regexp.MustCompile(
		`\d{13}` + ws + `+Erst\.:` + ws + `+\d{2}/\d{4}` + ws + `*[A-Z]` + ws + `+\+` + ws + `+\d{2}/\d{4}` + ws + `*[A-Z]`,
	)
)

// Document is the extraction result for one file.
type Document struct {
	Filename         string
	LetterDate       string
	Site             string
	PaymentReference string
	Period           period.Period
	PeriodKnown      bool
	Records          []types.LineItemRecord
}

// Extractor parses document text into records.
type Extractor struct {
	resolver sites.Resolver
	keywords period.Keywords
	currency string
	linePat  *regexp.Regexp
	logger   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCurrency sets the currency symbol that terminates a table line.
func WithCurrency(symbol string) Option {
	return func(e *Extractor) {
		if symbol != "" {
			e.currency = symbol
		}
	}
}

// WithKeywords sets the label tokens used to choose the booking month.
func WithKeywords(kw period.Keywords) Option {
	return func(e *Extractor) {
		e.keywords = kw
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Extractor that resolves sites with resolver.
func New(resolver sites.Resolver, opts ...Option) *Extractor {
	e := &Extractor{
		resolver: resolver,
		keywords: period.DefaultKeywords(),
		currency: DefaultCurrency,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.linePat = regexp.MustCompile(
		`^(.+?)` + ws + `+(-?\d{1,3}(?:\.\d{3})*,\d{2})` + ws + `+` + regexp.QuoteMeta(e.currency) + ws + `*$`,
	)
	return e
}

// Extract parses text, the page texts of one document joined by newlines,
// and stamps the document metadata on every record. It never fails: absent
// values are left empty.
func (e *Extractor) Extract(text, filename string) Document {
	log := e.logger.With("document", filename)

	doc := Document{Filename: filename}

	if m := letterDatePattern.FindStringSubmatch(text); m != nil {
		doc.LetterDate = m[1]
		log.Debug("letter date found", "date", doc.LetterDate)
	} else {
		log.Warn("letter date not found")
	}

	items := e.scanLines(text, log)

	if e.resolver != nil {
		if site, ok := e.resolver.Resolve(text); ok {
			doc.Site = site
		}
	}
	if doc.Site == "" {
		log.Debug("site not found")
	} else {
		log.Debug("site resolved", "site", doc.Site)
	}

	doc.PaymentReference = paymentRefPattern.FindString(text)

	doc.Period, doc.PeriodKnown = period.Parse(filename)
	if !doc.PeriodKnown {
		log.Warn("no A/B period in file name")
	}

	office := billingOffice(filename)
	doc.Records = make([]types.LineItemRecord, 0, len(items))
	for _, it := range items {
		rec := types.LineItemRecord{
			Position:         it.position,
			Amount:           it.amount,
			Site:             doc.Site,
			LetterDate:       doc.LetterDate,
			SourceDocument:   filename,
			BillingOffice:    office,
			PaymentReference: doc.PaymentReference,
		}
		if doc.PeriodKnown {
			rec.BookingPeriod = doc.Period.For(it.position, e.keywords)
		}
		doc.Records = append(doc.Records, rec)
	}

	log.Info("document extracted", "positions", len(doc.Records))
	return doc
}

type lineItem struct {
	position string
	amount   decimal.Decimal
}

func (e *Extractor) scanLines(text string, log *slog.Logger) []lineItem {
	var items []lineItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := e.linePat.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		position := footnotePattern.ReplaceAllString(strings.TrimSpace(m[1]), "")
		amount, err := ParseAmount(m[2])
		if err != nil {
			log.Warn("skipping unparsable amount", "line", line, "error", err)
			continue
		}

		items = append(items, lineItem{
			position: position,
			amount:   amount,
		})
		log.Debug("✓ line item", "position", position, "amount", m[2]+" "+e.currency)
	}
	return items
}

// billingOffice returns the first four characters of the file name.
func billingOffice(filename string) string {
	r := []rune(filename)
	if len(r) > 4 {
		r = r[:4]
	}
	return string(r)
}

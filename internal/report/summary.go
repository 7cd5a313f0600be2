// Package report turns a batch of line items into the spreadsheet and CSV
// exports, and computes the figures shown in the summary sheet and on the
// console.
package report

import (
	"errors"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
)

// Sheet names of the workbook.
const (
	SheetLineItems = "Tabellenpositionen"
	SheetSummary   = "Zusammenfassung"
	SheetSites     = "Standort-Übersicht"
)

// Column headers of the line item table, in report order.
const (
	ColPosition         = "Position"
	ColAmount           = "Betrag (€)"
	ColSite             = "Standort"
	ColLetterDate       = "Datum des Anschreibens"
	ColSourceDocument   = "Quelldatei"
	ColBillingOffice    = "Abrechnungsstelle"
	ColPaymentReference = "Verwendungszweck"
	ColBookingPeriod    = "Buchungsperiode"
)

// Columns lists the line item headers in report order.
var Columns = []string{
	ColPosition,
	ColAmount,
	ColSite,
	ColLetterDate,
	ColSourceDocument,
	ColBillingOffice,
	ColPaymentReference,
	ColBookingPeriod,
}

// remainingLabel marks the line carrying the amount still to be paid.
const remainingLabel = "verbleibender betrag"

// ErrNoData is returned when a report is requested for an empty batch.
var ErrNoData = errors.New("no line items to report")

// totalFormatter renders cents as "1,234.56".
var totalFormatter = money.NewFormatter(2, ".", ",", "", "1")

// SiteTotal is one row of the per-site sheet.
type SiteTotal struct {
	Site  string
	Count int
	Sum   decimal.Decimal
}

// Summary holds the aggregate figures of a batch.
type Summary struct {
	Positions int
	Total     decimal.Decimal
	Sites     int
	Files     int
	BySite    []SiteTotal

	// Remaining is the amount on the first "verbleibender Betrag" line.
	Remaining    decimal.Decimal
	HasRemaining bool
}

// Summarize aggregates records. Records without a site are grouped under an
// empty site name but do not count as a distinct site.
func Summarize(records []types.LineItemRecord) Summary {
	s := Summary{Positions: len(records), Total: decimal.Zero}

	files := make(map[string]struct{})
	bySite := make(map[string]*SiteTotal)

	for _, r := range records {
		s.Total = s.Total.Add(r.Amount)
		files[r.SourceDocument] = struct{}{}

		st, ok := bySite[r.Site]
		if !ok {
			st = &SiteTotal{Site: r.Site, Sum: decimal.Zero}
			bySite[r.Site] = st
		}
		st.Count++
		st.Sum = st.Sum.Add(r.Amount)

		if !s.HasRemaining && strings.Contains(strings.ToLower(r.Position), remainingLabel) {
			s.Remaining = r.Amount
			s.HasRemaining = true
		}
	}

	s.Files = len(files)
	for site, st := range bySite {
		if site != "" {
			s.Sites++
		}
		s.BySite = append(s.BySite, *st)
	}
	sort.Slice(s.BySite, func(i, j int) bool { return s.BySite[i].Site < s.BySite[j].Site })

	return s
}

// FormatTotal renders d rounded to cents with a comma thousands separator
// and a decimal point, e.g. "1,234.56".
func FormatTotal(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return totalFormatter.Format(cents)
}

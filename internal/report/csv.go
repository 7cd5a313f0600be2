package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/extractor"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
)

// csvRow is the CSV shape of a line item. Amounts keep the German notation
// of the source documents.
type csvRow struct {
	Position         string `csv:"Position"`
	Amount           string `csv:"Betrag (€)"`
	Site             string `csv:"Standort"`
	LetterDate       string `csv:"Datum des Anschreibens"`
	SourceDocument   string `csv:"Quelldatei"`
	BillingOffice    string `csv:"Abrechnungsstelle"`
	PaymentReference string `csv:"Verwendungszweck"`
	BookingPeriod    string `csv:"Buchungsperiode"`
}

func toCSVRows(records []types.LineItemRecord) []*csvRow {
	rows := make([]*csvRow, 0, len(records))
	for _, r := range records {
		row := &csvRow{
			Position:         r.Position,
			Amount:           extractor.FormatAmount(r.Amount),
			Site:             r.Site,
			LetterDate:       r.LetterDate,
			SourceDocument:   r.SourceDocument,
			BillingOffice:    r.BillingOffice,
			PaymentReference: r.PaymentReference,
		}
		if r.HasBookingPeriod() {
			row.BookingPeriod = strconv.Itoa(r.BookingPeriod)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the line item table to out, separated by semicolons.
func WriteCSV(out io.Writer, records []types.LineItemRecord) error {
	if len(records) == 0 {
		return ErrNoData
	}

	w := csv.NewWriter(out)
	w.Comma = ';'
	if err := gocsv.MarshalCSV(toCSVRows(records), gocsv.NewSafeCSVWriter(w)); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	w.Flush()
	return w.Error()
}

// WriteCSVFile writes the line item table to path.
func WriteCSVFile(path string, records []types.LineItemRecord) error {
	if len(records) == 0 {
		return ErrNoData
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv create %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

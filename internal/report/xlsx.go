package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
)

const amountFormat = "#,##0.00"

// XLSXWriter produces the three-sheet workbook.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter returns a writer. A nil logger uses slog.Default().
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteFile saves the workbook for records at path.
func (w *XLSXWriter) WriteFile(path string, records []types.LineItemRecord) error {
	f, err := w.build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx save %s: %w", path, err)
	}
	return nil
}

// WriteTo writes the workbook for records to out.
func (w *XLSXWriter) WriteTo(out io.Writer, records []types.LineItemRecord) (int64, error) {
	f, err := w.build(records)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := f.WriteTo(out)
	if err != nil {
		return n, fmt.Errorf("xlsx write: %w", err)
	}
	return n, nil
}

// Bytes returns the workbook for records.
func (w *XLSXWriter) Bytes(records []types.LineItemRecord) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *XLSXWriter) build(records []types.LineItemRecord) (*excelize.File, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}
	start := time.Now()

	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetLineItems); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetSites} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	numFmt := amountFormat
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeLineItems(f, records, amountStyle, headerStyle); err != nil {
		return nil, err
	}

	summary := Summarize(records)
	if err := writeSummary(f, summary, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSites(f, summary, amountStyle, headerStyle); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	w.logger.Info("report.xlsx.ok",
		"rows", len(records),
		"sites", len(summary.BySite),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	ok = true
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeLineItems(f *excelize.File, records []types.LineItemRecord, amountStyle, headerStyle int) error {
	const sheet = SheetLineItems
	if err := writeHeader(f, sheet, Columns, headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		values := []any{
			r.Position,
			r.Amount.InexactFloat64(),
			r.Site,
			r.LetterDate,
			r.SourceDocument,
			r.BillingOffice,
			r.PaymentReference,
			nil,
		}
		if r.HasBookingPeriod() {
			values[7] = r.BookingPeriod
		}

		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s row %d: %w", sheet, row, err)
			}
		}
	}

	lastAmount, _ := excelize.CoordinatesToCellName(2, len(records)+1)
	if err := f.SetCellStyle(sheet, "B2", lastAmount, amountStyle); err != nil {
		return fmt.Errorf("%s amount style: %w", sheet, err)
	}

	_ = f.SetColWidth(sheet, "A", "A", 40) // position
	_ = f.SetColWidth(sheet, "B", "B", 14) // amount
	_ = f.SetColWidth(sheet, "C", "C", 24) // site
	_ = f.SetColWidth(sheet, "D", "D", 22) // letter date
	_ = f.SetColWidth(sheet, "E", "E", 36) // source
	_ = f.SetColWidth(sheet, "F", "F", 18)
	_ = f.SetColWidth(sheet, "G", "G", 48) // payment reference
	_ = f.SetColWidth(sheet, "H", "H", 16)
	return nil
}

func writeSummary(f *excelize.File, s Summary, headerStyle int) error {
	const sheet = SheetSummary
	if err := writeHeader(f, sheet, []string{"Metrik", "Wert"}, headerStyle); err != nil {
		return err
	}

	rows := [][]any{
		{"Anzahl Positionen", s.Positions},
		{"Gesamtsumme (€)", FormatTotal(s.Total)},
		{"Anzahl Standorte", s.Sites},
		{"Anzahl Dateien", s.Files},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func writeSites(f *excelize.File, s Summary, amountStyle, headerStyle int) error {
	const sheet = SheetSites
	if err := writeHeader(f, sheet, []string{"Standort", "Anzahl Positionen", "Gesamtbetrag (€)"}, headerStyle); err != nil {
		return err
	}

	for i, st := range s.BySite {
		row := []any{st.Site, st.Count, st.Sum.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	if len(s.BySite) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(s.BySite)+1)
		if err := f.SetCellStyle(sheet, "C2", last, amountStyle); err != nil {
			return fmt.Errorf("%s amount style: %w", sheet, err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 26)
	_ = f.SetColWidth(sheet, "B", "C", 18)
	return nil
}

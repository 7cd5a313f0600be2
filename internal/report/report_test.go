package report

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
)

func sampleRecords() []types.LineItemRecord {
	return []types.LineItemRecord{
		{
			Position:         "Besoldung November",
			Amount:           decimal.RequireFromString("2000"),
			Site:             "Karlsruhe",
			LetterDate:       "05.09.2025",
			SourceDocument:   "7002 10-2025A+11-2025B.pdf",
			BillingOffice:    "7002",
			PaymentReference: "1234567890123 Erst.: 10/2025 A + 11/2025 B",
			BookingPeriod:    11,
		},
		{
			Position:       "Vergütung Oktober",
			Amount:         decimal.RequireFromString("1234.56"),
			Site:           "Karlsruhe",
			LetterDate:     "05.09.2025",
			SourceDocument: "7002 10-2025A+11-2025B.pdf",
			BillingOffice:  "7002",
			BookingPeriod:  10,
		},
		{
			Position:       "Verbleibender Betrag",
			Amount:         decimal.RequireFromString("-12.34"),
			SourceDocument: "brief.pdf",
			BillingOffice:  "brie",
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords())

	assert.Equal(t, 3, s.Positions)
	assert.True(t, decimal.RequireFromString("3222.22").Equal(s.Total))
	assert.Equal(t, 1, s.Sites, "records without a site do not count as a site")
	assert.Equal(t, 2, s.Files)

	require.Len(t, s.BySite, 2)
	assert.Equal(t, "", s.BySite[0].Site)
	assert.Equal(t, 1, s.BySite[0].Count)
	assert.Equal(t, "Karlsruhe", s.BySite[1].Site)
	assert.Equal(t, 2, s.BySite[1].Count)
	assert.True(t, decimal.RequireFromString("3234.56").Equal(s.BySite[1].Sum))

	require.True(t, s.HasRemaining)
	assert.True(t, decimal.RequireFromString("-12.34").Equal(s.Remaining))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Positions)
	assert.True(t, s.Total.IsZero())
	assert.False(t, s.HasRemaining)
	assert.Empty(t, s.BySite)
}

func TestFormatTotal(t *testing.T) {
	tests := map[string]string{
		"3222.22":      "3,222.22",
		"-1234567.891": "-1,234,567.89",
		"0":            "0.00",
		"0.05":         "0.05",
		"999.995":      "1,000.00",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FormatTotal(decimal.RequireFromString(in)))
		})
	}
}

func TestXLSXWriterWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PDF_Extract_20251205_143022.xlsx")
	w := NewXLSXWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, w.WriteFile(path, sampleRecords()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetLineItems, SheetSummary, SheetSites}, f.GetSheetList())

	rows, err := f.GetRows(SheetLineItems)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "Besoldung November", rows[1][0])
	assert.Equal(t, "Karlsruhe", rows[1][2])
	assert.Equal(t, "05.09.2025", rows[1][3])
	assert.Equal(t, "7002", rows[1][5])
	assert.Equal(t, "11", rows[1][7])

	raw, err := f.GetCellValue(SheetLineItems, "B3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1234.56", raw)

	period, err := f.GetCellValue(SheetLineItems, "H4")
	require.NoError(t, err)
	assert.Empty(t, period, "unknown booking period stays blank")

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Metrik", "Wert"},
		{"Anzahl Positionen", "3"},
		{"Gesamtsumme (€)", "3,222.22"},
		{"Anzahl Standorte", "1"},
		{"Anzahl Dateien", "2"},
	}, summary)

	sites, err := f.GetRows(SheetSites)
	require.NoError(t, err)
	require.Len(t, sites, 3)
	assert.Equal(t, []string{"Standort", "Anzahl Positionen", "Gesamtbetrag (€)"}, sites[0])
	assert.Equal(t, "Karlsruhe", sites[2][0])
	assert.Equal(t, "2", sites[2][1])
}

func TestXLSXWriterBytes(t *testing.T) {
	data, err := NewXLSXWriter(nil).Bytes(sampleRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 3)
}

func TestXLSXWriterRejectsEmptyBatch(t *testing.T) {
	err := NewXLSXWriter(nil).WriteFile(filepath.Join(t.TempDir(), "x.xlsx"), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(Columns, ";"), lines[0])
	assert.Equal(t, "Vergütung Oktober;1.234,56;Karlsruhe;05.09.2025;7002 10-2025A+11-2025B.pdf;7002;;10", lines[2])
	assert.Equal(t, "Verbleibender Betrag;-12,34;;;brief.pdf;brie;;", lines[3])
}

func TestWriteCSVFileRejectsEmptyBatch(t *testing.T) {
	err := WriteCSVFile(filepath.Join(t.TempDir(), "x.csv"), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

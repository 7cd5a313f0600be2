package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/config"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/pdftext"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/report"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
	"github.com/ginjaninja78/payroll-pdf-extractor/pkg/utils"
)

func TestErrorType(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"invalid": {fmt.Errorf("%w: a.pdf", pdftext.ErrInvalidPDF), "INVALID_PDF"},
		"no text": {fmt.Errorf("%w: a.pdf", pdftext.ErrNoTextLayer), "NO_TEXT_LAYER"},
		"decode":  {fmt.Errorf("%w: a.pdf", pdftext.ErrDecode), "DECODE_ERROR"},
		"other":   {errors.New("boom"), "PROCESSING_ERROR"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorType(tt.err))
		})
	}
}

func TestInputLabel(t *testing.T) {
	assert.Equal(t, "12_2025", inputLabel("/data/12_2025.zip"))
	assert.Equal(t, "input", inputLabel("./input/"))
}

func TestWriteReports(t *testing.T) {
	c := config.Default()
	c.OutputDir = t.TempDir()
	c.OutputFormat = "both"
	c.ReportNameFormat = "PDF_Extract_{input}.xlsx"
	c.InputDir = "/data/12_2025.zip"

	records := []types.LineItemRecord{{
		Position:       "Vergütung Oktober",
		Amount:         decimal.RequireFromString("1234.56"),
		SourceDocument: "7002 10-2025A+11-2025B.pdf",
		BillingOffice:  "7002",
		BookingPeriod:  10,
	}}

	files, err := writeReports(c, records, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(c.OutputDir, "PDF_Extract_12_2025.xlsx"),
		filepath.Join(c.OutputDir, "PDF_Extract_12_2025.csv"),
	}, files)
	for _, f := range files {
		assert.True(t, utils.FileExists(f), f)
	}
}

func TestProcessingSummary(t *testing.T) {
	result := &types.BatchResult{
		Discovered: 2,
		Documents: []types.DocumentOutcome{
			{Path: "a.pdf", Records: 3, Pages: 2, Duration: time.Second},
			{Path: "b.pdf", Err: pdftext.ErrNoTextLayer},
		},
	}
	s := report.Summary{Positions: 3, Total: decimal.RequireFromString("1500")}

	got := processingSummary("./input", time.Now(), result, s, []string{"out.xlsx"})
	assert.Equal(t, 2, got.TotalFiles)
	assert.Equal(t, 1, got.SuccessfulFiles)
	assert.Equal(t, 1, got.FailedFiles)
	assert.Equal(t, "1,500.00", got.TotalAmount)
	require.Len(t, got.ProcessedFiles, 1)
	assert.Equal(t, 2, got.ProcessedFiles[0].Pages)
	require.Len(t, got.FailedFilesList, 1)
	assert.Equal(t, "b.pdf", got.FailedFilesList[0].InputFile)
	assert.NotEmpty(t, got.RunID)
}

func TestApplyOverridesFromEnvironment(t *testing.T) {
	t.Setenv("PAYEXTRACT_OUTPUT_DIR", "/tmp/reports")
	t.Setenv("PAYEXTRACT_CACHE_TEXT", "false")
	t.Setenv("PAYEXTRACT_KEYWORDS_COMPENSATION_B", "entgelt")
	initConfig()
	defer viper.Reset()

	c := config.Default()
	applyOverrides(c)

	assert.Equal(t, "/tmp/reports", c.OutputDir)
	assert.False(t, c.CacheText)
	assert.Equal(t, "entgelt", c.Keywords.CompensationB)
	assert.Equal(t, "./input", c.InputDir)
}

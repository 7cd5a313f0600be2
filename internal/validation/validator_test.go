package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
)

func goodRecord() types.LineItemRecord {
	return types.LineItemRecord{
		Position:       "Vergütung Oktober",
		Amount:         decimal.RequireFromString("1234.56"),
		Site:           "Karlsruhe",
		LetterDate:     "05.09.2025",
		SourceDocument: "7002 10-2025A+11-2025B.pdf",
		BillingOffice:  "7002",
		BookingPeriod:  10,
	}
}

func TestValidateCleanRecord(t *testing.T) {
	result := NewValidator().ValidateAll([]types.LineItemRecord{goodRecord()})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.RecordsValidated)
}

func TestValidateRecordFindings(t *testing.T) {
	tests := map[string]struct {
		mutate   func(r *types.LineItemRecord)
		field    string
		severity string
	}{
		"empty position":  {func(r *types.LineItemRecord) { r.Position = " " }, FieldPosition, SeverityError},
		"zero amount":     {func(r *types.LineItemRecord) { r.Amount = decimal.Zero }, FieldAmount, SeverityWarning},
		"missing date":    {func(r *types.LineItemRecord) { r.LetterDate = "" }, FieldLetterDate, SeverityWarning},
		"impossible date": {func(r *types.LineItemRecord) { r.LetterDate = "31.02.2025" }, FieldLetterDate, SeverityWarning},
		"no site":         {func(r *types.LineItemRecord) { r.Site = "" }, FieldSite, SeverityWarning},
		"no period":       {func(r *types.LineItemRecord) { r.BookingPeriod = 0 }, FieldBookingPeriod, SeverityWarning},
		"letter office":   {func(r *types.LineItemRecord) { r.BillingOffice = "brie" }, FieldBillingOffice, SeverityWarning},
		"short office":    {func(r *types.LineItemRecord) { r.BillingOffice = "a.p" }, FieldBillingOffice, SeverityWarning},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := goodRecord()
			tt.mutate(&r)

			findings := NewValidator().ValidateRecord(7, r)
			require.Len(t, findings, 1)
			assert.Equal(t, tt.field, findings[0].Field)
			assert.Equal(t, tt.severity, findings[0].Severity)
			assert.Equal(t, 7, findings[0].Row)
			assert.Equal(t, r.SourceDocument, findings[0].SourceDocument)
		})
	}
}

func TestValidateAllCounts(t *testing.T) {
	noSite := goodRecord()
	noSite.Site = ""
	noLabel := goodRecord()
	noLabel.Position = ""

	result := NewValidator().ValidateAll([]types.LineItemRecord{goodRecord(), noSite, noLabel})
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 3, result.Errors[1].Row)
}

func TestValidationOptions(t *testing.T) {
	noSite := goodRecord()
	noSite.Site = ""

	strict := NewValidatorWithOptions(ValidationOptions{TreatWarningsAsErrors: true})
	assert.False(t, strict.ValidateAll([]types.LineItemRecord{noSite}).IsValid)

	skip := NewValidatorWithOptions(ValidationOptions{SkipSiteCheck: true})
	assert.Empty(t, skip.ValidateAll([]types.LineItemRecord{noSite}).Errors)

	custom := NewValidatorWithOptions(ValidationOptions{
		CustomValidators: []CustomValidatorFunc{
			func(r types.LineItemRecord) *ValidationError {
				if r.Amount.IsNegative() {
					return &ValidationError{Field: FieldAmount, Message: "negative amount"}
				}
				return nil
			},
		},
	})
	negative := goodRecord()
	negative.Amount = decimal.RequireFromString("-12.34")
	findings := custom.ValidateRecord(1, negative)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, negative.SourceDocument, findings[0].SourceDocument)
}

func TestFormatAndWriteErrorLog(t *testing.T) {
	assert.Equal(t, "No validation findings.", FormatErrors(nil))

	r := goodRecord()
	r.Site = ""
	findings := Validate([]types.LineItemRecord{r})
	require.Len(t, findings, 1)
	assert.Equal(t,
		"[WARNING] 7002 10-2025A+11-2025B.pdf, row 1, field 'Standort': no site matched the document address (value: '')",
		findings[0].Error())

	path := filepath.Join(t.TempDir(), "validation_log.txt")
	require.NoError(t, WriteErrorLog(findings, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Validation completed with 1 finding(s)")
	assert.Contains(t, string(data), "field 'Standort'")
}

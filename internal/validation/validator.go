// =============================================================================
// Payroll PDF Extractor - Data Quality Checks
// =============================================================================
//
// This module checks extracted line items for values that usually point at
// a problem with the source document or the site catalog:
//   - Empty position labels
//   - Missing or impossible letter dates
//   - Lines without a resolved site
//   - Unknown booking months
//   - Billing office codes that are not four digits
//   - Zero amounts
//
// VALIDATION STRATEGY:
//   Checks never remove or change records. They produce findings that are
//   printed, logged and written to the validation log, so the report always
//   contains everything that was extracted.
//
// SEVERITY:
//   - "error"   : the record is unusable for booking (e.g. no position label)
//   - "warning" : the record needs a manual look
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Field names used in findings. They match the report columns.
const (
	FieldPosition      = "Position"
	FieldAmount        = "Betrag"
	FieldSite          = "Standort"
	FieldLetterDate    = "Datum des Anschreibens"
	FieldBillingOffice = "Abrechnungsstelle"
	FieldBookingPeriod = "Buchungsperiode"
)

// letterDateLayout is the DD.MM.YYYY layout of letter dates.
const letterDateLayout = "02.01.2006"

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the report column the finding refers to.
	Field string

	// Value is the offending value.
	Value string

	// Message is a human-readable description.
	Message string

	// SourceDocument is the PDF the record came from.
	SourceDocument string

	// Row is the 1-based record index in the batch, matching the report row
	// below the header.
	Row int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s, row %d, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.SourceDocument,
		e.Row,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the findings for a batch.
type ValidationResult struct {
	// IsValid is true if there are no errors (and, with TreatWarningsAsErrors,
	// no warnings).
	IsValid bool

	// Errors contains all findings, including warnings, in record order.
	Errors []*ValidationError

	// ErrorCount is the number of findings with SeverityError.
	ErrorCount int

	// WarningCount is the number of findings with SeverityWarning.
	WarningCount int

	// RecordsValidated is the number of records checked.
	RecordsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// CustomValidatorFunc is an additional check. It returns a finding, or nil
// when the record passes.
type CustomValidatorFunc func(r types.LineItemRecord) *ValidationError

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning invalidate the result.
	// Default: false
	TreatWarningsAsErrors bool

	// SkipSiteCheck disables the missing-site warning, for catalogs that
	// deliberately leave some offices unmapped.
	// Default: false
	SkipSiteCheck bool

	// CustomValidators run after the built-in checks, in order.
	CustomValidators []CustomValidatorFunc
}

// Validator checks line item records.
type Validator struct {
	options ValidationOptions
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{}
}

// NewValidator creates a new Validator with default options.
func NewValidator() *Validator {
	return NewValidatorWithOptions(DefaultValidationOptions())
}

// NewValidatorWithOptions creates a new Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks records with the default options and returns the findings.
//
// PARAMETERS:
//   - records: The extracted records, in report order.
//
// RETURNS:
//   - A slice of findings, empty when every record passes.
func Validate(records []types.LineItemRecord) []*ValidationError {
	return NewValidator().ValidateAll(records).Errors
}

// ValidateAll checks every record and returns a detailed result.
func (v *Validator) ValidateAll(records []types.LineItemRecord) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}

	for i, r := range records {
		for _, finding := range v.ValidateRecord(i+1, r) {
			result.Errors = append(result.Errors, finding)

			if finding.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
				continue
			}
			result.WarningCount++
			if v.options.TreatWarningsAsErrors {
				result.IsValid = false
			}
		}
	}

	return result
}

// ValidateRecord checks a single record. row is stamped on every finding.
func (v *Validator) ValidateRecord(row int, r types.LineItemRecord) []*ValidationError {
	var findings []*ValidationError

	add := func(severity, field, value, message string) {
		findings = append(findings, &ValidationError{
			Severity:       severity,
			Field:          field,
			Value:          value,
			Message:        message,
			SourceDocument: r.SourceDocument,
			Row:            row,
		})
	}

	if strings.TrimSpace(r.Position) == "" {
		add(SeverityError, FieldPosition, r.Position, "position label is empty")
	}

	if r.Amount.IsZero() {
		add(SeverityWarning, FieldAmount, r.Amount.StringFixed(2), "amount is zero")
	}

	if msg := validateLetterDate(r.LetterDate); msg != "" {
		add(SeverityWarning, FieldLetterDate, r.LetterDate, msg)
	}

	if !v.options.SkipSiteCheck && r.Site == "" {
		add(SeverityWarning, FieldSite, r.Site, "no site matched the document address")
	}

	if !r.HasBookingPeriod() {
		add(SeverityWarning, FieldBookingPeriod, strconv.Itoa(r.BookingPeriod), "booking month unknown")
	}

	if msg := validateBillingOffice(r.BillingOffice); msg != "" {
		add(SeverityWarning, FieldBillingOffice, r.BillingOffice, msg)
	}

	for _, custom := range v.options.CustomValidators {
		if f := custom(r); f != nil {
			if f.Severity == "" {
				f.Severity = SeverityWarning
			}
			if f.SourceDocument == "" {
				f.SourceDocument = r.SourceDocument
			}
			f.Row = row
			findings = append(findings, f)
		}
	}

	return findings
}

// =============================================================================
// FIELD CHECKS
// =============================================================================
// Each check returns an empty string when the value passes, or a message.

// validateLetterDate checks that a DD.MM.YYYY date exists on the calendar.
func validateLetterDate(value string) string {
	if value == "" {
		return "letter date not found"
	}
	if _, err := time.Parse(letterDateLayout, value); err != nil {
		return "not a valid calendar date"
	}
	return ""
}

// validateBillingOffice expects a four-digit office code.
func validateBillingOffice(value string) string {
	if len(value) != 4 {
		return "expected a four-digit office code"
	}
	for _, c := range value {
		if !unicode.IsDigit(c) {
			return "expected a four-digit office code"
		}
	}
	return ""
}

// =============================================================================
// OUTPUT
// =============================================================================

// FormatErrors formats findings for display or logging.
//
// PARAMETERS:
//   - errors: The findings to format.
//
// RETURNS:
//   - A formatted string containing all findings.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation findings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes findings to filePath.
//
// PARAMETERS:
//   - errors: The findings to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create validation log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Payroll PDF Extractor - Validation Log\nGenerated: %s\n\n",
		time.Now().Format("2006-01-02 15:04:05"))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush validation log: %w", err)
	}
	return file.Close()
}

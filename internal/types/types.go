// =============================================================================
// Payroll PDF Extractor - Shared Types
// =============================================================================
//
// This package contains the record types shared by the extraction pipeline
// and the report writers. Types defined here are used by:
//   - extractor
//   - batch
//   - report
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItemRecord is one parsed amount line from a payroll document.
// Optional values use their zero value when absent.
type LineItemRecord struct {
	// Position is the label of the line with any trailing footnote marker removed.
	Position string

	// Amount is the signed amount in the document currency.
	Amount decimal.Decimal

	// Site is the resolved office location. Empty when no catalog entry matched.
	Site string

	// LetterDate is the first DD.MM.YYYY date of the document, kept verbatim.
	LetterDate string

	// SourceDocument is the base name of the PDF the line came from.
	SourceDocument string

	// BillingOffice is the first four characters of SourceDocument.
	BillingOffice string

	// PaymentReference is the literal payment reference text, if any.
	PaymentReference string

	// BookingPeriod is the month (1-12) the amount is booked to. 0 means unknown.
	BookingPeriod int
}

// HasBookingPeriod reports whether a booking month could be derived.
func (r LineItemRecord) HasBookingPeriod() bool {
	return r.BookingPeriod >= 1 && r.BookingPeriod <= 12
}

// =============================================================================
// BATCH RESULT
// =============================================================================

// DocumentOutcome records what happened to a single document in a batch.
type DocumentOutcome struct {
	// Path is the full path of the document on disk.
	Path string

	// Records is the number of line items extracted.
	Records int

	// Pages is the page count, when known.
	Pages int

	// Err is set when the document was skipped.
	Err error

	// Duration is the time spent on this document.
	Duration time.Duration
}

// Failed reports whether the document was skipped.
func (o DocumentOutcome) Failed() bool {
	return o.Err != nil
}

// BatchResult is the aggregated output of one batch run.
type BatchResult struct {
	// Records are sorted by (SourceDocument, Position) once the run completes.
	Records []LineItemRecord

	// Documents holds one outcome per discovered PDF, in processing order.
	Documents []DocumentOutcome

	// Discovered is the number of PDFs found under the root.
	Discovered int
}

// Empty reports the "no data" outcome.
func (b *BatchResult) Empty() bool {
	return b == nil || len(b.Records) == 0
}

// FailedDocuments returns the outcomes of skipped documents.
func (b *BatchResult) FailedDocuments() []DocumentOutcome {
	if b == nil {
		return nil
	}
	var failed []DocumentOutcome
	for _, d := range b.Documents {
		if d.Failed() {
			failed = append(failed, d)
		}
	}
	return failed
}

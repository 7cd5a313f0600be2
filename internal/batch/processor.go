// =============================================================================
// Payroll PDF Extractor - Batch Processor
// =============================================================================
//
// The batch processor runs the extraction pipeline over every PDF below a
// root directory:
//
//   1. Discover *.pdf files recursively (extension match ignores case)
//   2. For each document, strictly one after another:
//      a. Report progress (index, total, path)
//      b. Optionally validate it with the prober
//      c. Read the page text
//      d. Extract and stamp line items
//   3. Sort all records by (source document, position)
//
// A document that fails at any step contributes zero records. The failure is
// logged and recorded in the result, and the batch carries on.
//
// =============================================================================

package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/extractor"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/pdftext"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
	"github.com/ginjaninja78/payroll-pdf-extractor/pkg/utils"
)

// ProgressFunc is called before each document with its 1-based index.
type ProgressFunc func(current, total int, path string)

// Processor extracts line items from a directory of PDFs.
type Processor struct {
	source     pdftext.Source
	extractor  *extractor.Extractor
	prober     pdftext.Prober
	progress   ProgressFunc
	sortInputs bool
	logger     *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Processor) { p.progress = fn }
}

// WithProber validates every document before reading its text.
func WithProber(pr pdftext.Prober) Option {
	return func(p *Processor) { p.prober = pr }
}

// WithSortedInputs processes documents in full-path order.
func WithSortedInputs(sorted bool) Option {
	return func(p *Processor) { p.sortInputs = sorted }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Processor reading text from source.
func New(source pdftext.Source, ex *extractor.Extractor, opts ...Option) *Processor {
	p := &Processor{
		source:    source,
		extractor: ex,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every PDF below root.
//
// RETURNS:
//   - The batch result. It is never nil when err is nil; use Empty() to
//     detect the "no data" outcome.
//   - An error if root cannot be scanned, or ctx.Err() when the run was
//     cancelled. A cancelled run still returns the records collected so far.
func (p *Processor) Run(ctx context.Context, root string) (*types.BatchResult, error) {
	files, err := utils.NewFileManager(root, "").DiscoverPDFs(p.sortInputs)
	if err != nil {
		return nil, err
	}

	result := &types.BatchResult{Discovered: len(files)}
	if len(files) == 0 {
		p.logger.Info("no PDF files found", "root", root)
		return result, nil
	}

	total := len(files)
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("batch cancelled", "processed", i, "total", total)
			finish(result)
			return result, err
		}

		if p.progress != nil {
			p.progress(i+1, total, path)
		}

		outcome, records := p.processDocument(ctx, path)
		result.Documents = append(result.Documents, outcome)
		result.Records = append(result.Records, records...)
	}

	finish(result)
	if result.Empty() {
		p.logger.Info("no data found", "root", root, "documents", total)
	}
	return result, nil
}

// processDocument never lets a failure escape: errors and panics become a
// failed outcome with no records.
func (p *Processor) processDocument(ctx context.Context, path string) (outcome types.DocumentOutcome, records []types.LineItemRecord) {
	start := time.Now()
	outcome.Path = path
	log := p.logger.With("path", path)

	defer func() {
		if r := recover(); r != nil {
			records = nil
			outcome.Records = 0
			outcome.Err = fmt.Errorf("panic while processing %s: %v", filepath.Base(path), r)
		}
		outcome.Duration = time.Since(start)
		if outcome.Err != nil {
			log.Error("✗ document skipped", "error", outcome.Err)
		}
	}()

	if p.prober != nil {
		pages, err := p.prober.Probe(path)
		if err != nil {
			outcome.Err = err
			return outcome, nil
		}
		outcome.Pages = pages
	}

	text, pages, err := pdftext.Text(ctx, p.source, path)
	if err != nil {
		outcome.Err = err
		return outcome, nil
	}
	if outcome.Pages == 0 {
		outcome.Pages = pages
	}

	doc := p.extractor.Extract(text, filepath.Base(path))
	outcome.Records = len(doc.Records)
	log.Debug("✓ document processed", "pages", outcome.Pages, "positions", outcome.Records)
	return outcome, doc.Records
}

// finish sorts the records by source document, then position.
func finish(result *types.BatchResult) {
	sort.SliceStable(result.Records, func(i, j int) bool {
		a, b := result.Records[i], result.Records[j]
		if a.SourceDocument != b.SourceDocument {
			return a.SourceDocument < b.SourceDocument
		}
		return a.Position < b.Position
	})
}

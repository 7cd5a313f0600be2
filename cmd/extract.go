// =============================================================================
// Payroll PDF Extractor - Extract Command
// =============================================================================
//
// This file defines the 'extract' command, the main command of the tool. It
// orchestrates the whole extraction pipeline.
//
// COMMAND USAGE:
//   extractor extract [flags]
//
// FLAGS:
//   --input        : Input directory or .zip bundle (default from config)
//   --output       : Output directory (default from config)
//   --format       : Report format: xlsx, csv or both
//   --engine       : Text engine: native or pdftotext
//   --probe        : Validate each PDF with pdfcpu before reading it
//   --sort-inputs  : Process documents in path order
//   --dry-run      : Extract and summarise without writing files
//
// PROCESSING PIPELINE:
//   1. Load configuration (config.yaml, .env, environment, flags)
//   2. Unpack the input bundle if a .zip was given
//   3. Process every PDF, one at a time
//   4. Print the summary and data quality findings
//   5. Write the report file(s)
//   6. Write the error log, validation log and processing summary
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/batch"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/bundle"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/config"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/extractor"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/pdftext"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/report"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/sites"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/types"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/validation"
	"github.com/ginjaninja78/payroll-pdf-extractor/pkg/utils"
)

// textCacheTTL bounds how long decoded page texts are kept during a run.
const textCacheTTL = 30 * time.Minute

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun extracts and summarises without writing output files.
var dryRun bool

// =============================================================================
// EXTRACT COMMAND DEFINITION
// =============================================================================

// extractCmd represents the 'extract' command.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract line items from payroll PDFs into a report",
	Long: `The extract command scans the input directory (or ZIP bundle) recursively
for PDF files and extracts every amount line from each document.

Documents are processed one at a time. A document that cannot be read is
logged and skipped; the remaining documents are still processed.

On success:
  - The report is written to the output directory
  - A summary is printed to the console

When no line items were found, no report is written and the command
exits successfully.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	flags.String("input", "", "Input directory or .zip bundle")
	flags.String("output", "", "Output directory")
	flags.String("format", "", "Report format: xlsx, csv or both")
	flags.String("engine", "", "Text engine: native or pdftotext")
	flags.Bool("probe", false, "Validate each PDF with pdfcpu before reading it")
	flags.Bool("sort-inputs", false, "Process documents in path order")
	flags.BoolVar(&dryRun, "dry-run", false, "Extract and summarise without writing files")

	// Flags win over environment and config.yaml.
	_ = viper.BindPFlag("input_dir", flags.Lookup("input"))
	_ = viper.BindPFlag("output_dir", flags.Lookup("output"))
	_ = viper.BindPFlag("output_format", flags.Lookup("format"))
	_ = viper.BindPFlag("text_engine", flags.Lookup("engine"))
	_ = viper.BindPFlag("probe_documents", flags.Lookup("probe"))
	_ = viper.BindPFlag("sort_inputs", flags.Lookup("sort-inputs"))
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runExtract is the main function that orchestrates the extraction pipeline.
func runExtract(cmd *cobra.Command) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== Payroll PDF Extractor ===")
	fmt.Println("Loading configuration...")

	mainConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(mainConfig)
	defer closeLog()
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// STEP 2: RESOLVE THE INPUT
	// =========================================================================

	root := mainConfig.InputDir
	if bundle.IsZip(root) {
		fmt.Printf("Unpacking bundle %s...\n", root)
		dir, cleanup, err := bundle.ExtractTemp(root)
		if err != nil {
			return fmt.Errorf("failed to unpack bundle: %w", err)
		}
		defer cleanup()
		root = dir
	}

	// =========================================================================
	// STEP 3: PROCESS DOCUMENTS
	// =========================================================================

	processor, cache, err := buildProcessor(mainConfig, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Processing PDF files in %s...\n", mainConfig.InputDir)

	result, err := processor.Run(ctx, root)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nExtraction interrupted, no report written.")
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	if cache != nil {
		hits, misses := cache.Stats()
		logger.Debug("text cache", "hits", hits, "misses", misses)
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	summary := report.Summarize(result.Records)
	failed := result.FailedDocuments()

	for _, d := range failed {
		fmt.Printf("  ✗ %s: %v\n", filepath.Base(d.Path), d.Err)
	}

	fmt.Println("\n=== Extraction Complete ===")
	fmt.Printf("Documents found: %d\n", result.Discovered)
	fmt.Printf("Processed:       %d\n", len(result.Documents)-len(failed))
	fmt.Printf("Skipped:         %d\n", len(failed))
	fmt.Printf("Positions:       %d\n", summary.Positions)
	fmt.Printf("Sites:           %d\n", summary.Sites)
	fmt.Printf("Total amount:    %s €\n", report.FormatTotal(summary.Total))
	if summary.HasRemaining {
		fmt.Printf("Remaining:       %s €\n", report.FormatTotal(summary.Remaining))
	}
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	quality := validation.NewValidator().ValidateAll(result.Records)
	if len(quality.Errors) > 0 {
		fmt.Printf("Data quality:    %d error(s), %d warning(s)\n", quality.ErrorCount, quality.WarningCount)
		for _, finding := range quality.Errors {
			logger.Debug("validation finding", "finding", finding.Error())
		}
	}

	if dryRun {
		fmt.Println("\nDry run: no files written.")
		return nil
	}

	// =========================================================================
	// STEP 5: WRITE REPORTS
	// =========================================================================

	fm := utils.NewFileManager(root, mainConfig.OutputDir)
	if err := fm.EnsureOutputDir(); err != nil {
		return err
	}

	var reportFiles []string
	if result.Empty() {
		fmt.Println("\nNo line items found, no report written.")
	} else {
		reportFiles, err = writeReports(mainConfig, result.Records, logger)
		if err != nil {
			return err
		}
		for _, f := range reportFiles {
			fmt.Printf("  ✓ %s\n", f)
		}
	}

	// =========================================================================
	// STEP 6: WRITE LOGS
	// =========================================================================

	if mainConfig.WriteErrorLog && len(failed) > 0 {
		logPath, err := utils.WriteErrorLog(errorLogEntries(failed), mainConfig.OutputDir)
		if err != nil {
			logger.Warn("error log not written", "error", err)
		} else {
			fmt.Printf("\nSkipped documents have been logged to %s\n", logPath)
		}
	}

	if mainConfig.WriteErrorLog && len(quality.Errors) > 0 {
		logPath := filepath.Join(mainConfig.OutputDir,
			fmt.Sprintf("validation_log_%s.txt", time.Now().Format("20060102_150405")))
		if err := validation.WriteErrorLog(quality.Errors, logPath); err != nil {
			logger.Warn("validation log not written", "error", err)
		} else {
			fmt.Printf("Data quality findings have been logged to %s\n", logPath)
		}
	}

	if mainConfig.WriteSummaryLog {
		s := processingSummary(mainConfig.InputDir, startTime, result, summary, reportFiles)
		if _, err := utils.WriteSummaryLog(s, mainConfig.OutputDir); err != nil {
			logger.Warn("summary log not written", "error", err)
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// buildProcessor wires the text source, site resolver and extractor for c.
// The returned cache is nil when text caching is disabled.
func buildProcessor(c *config.MainConfig, logger *slog.Logger) (*batch.Processor, *pdftext.CachedSource, error) {
	var source pdftext.Source
	switch c.TextEngine {
	case "pdftotext":
		source = pdftext.NewPdftotextSource(c.PdftotextPath, nil, logger)
	default:
		source = pdftext.NewNativeSource(logger)
	}

	var cache *pdftext.CachedSource
	if c.CacheText {
		cache = pdftext.NewCachedSource(source, textCacheTTL)
		source = cache
	}

	catalog, err := c.Catalog()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid site catalog: %w", err)
	}
	resolver := sites.NewCatalogResolver(catalog, c.MatchMode())

	ex := extractor.New(resolver,
		extractor.WithCurrency(c.CurrencySymbol),
		extractor.WithKeywords(c.PeriodKeywords()),
		extractor.WithLogger(logger),
	)

	opts := []batch.Option{
		batch.WithLogger(logger),
		batch.WithSortedInputs(c.SortInputs),
		batch.WithProgress(printProgress),
	}
	if c.ProbeDocuments {
		opts = append(opts, batch.WithProber(pdftext.NewPdfcpuProber()))
	}

	return batch.New(source, ex, opts...), cache, nil
}

// printProgress prints one console line per document.
func printProgress(current, total int, path string) {
	fmt.Printf("  [%d/%d] %s\n", current, total, filepath.Base(path))
}

// writeReports writes the requested report formats and returns their paths.
// Both files share one generated base name.
func writeReports(c *config.MainConfig, records []types.LineItemRecord, logger *slog.Logger) ([]string, error) {
	params := map[string]string{"input": inputLabel(c.InputDir)}
	name := utils.GenerateOutputFileName(c.ReportNameFormat, params, ".xlsx")
	base := filepath.Join(c.OutputDir, strings.TrimSuffix(name, filepath.Ext(name)))

	var written []string
	if c.WantsXLSX() {
		path := base + ".xlsx"
		if err := report.NewXLSXWriter(logger).WriteFile(path, records); err != nil {
			return written, fmt.Errorf("failed to write report: %w", err)
		}
		written = append(written, path)
	}
	if c.WantsCSV() {
		path := base + ".csv"
		if err := report.WriteCSVFile(path, records); err != nil {
			return written, fmt.Errorf("failed to write CSV export: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}

// inputLabel is the {input} placeholder: the input folder or bundle name
// without extension.
func inputLabel(input string) string {
	name := filepath.Base(filepath.Clean(input))
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// errorLogEntries converts skipped documents into error log entries.
func errorLogEntries(failed []types.DocumentOutcome) []utils.ErrorLogEntry {
	entries := make([]utils.ErrorLogEntry, 0, len(failed))
	for _, d := range failed {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    time.Now(),
			FileName:     d.Path,
			ErrorType:    errorType(d.Err),
			ErrorMessage: d.Err.Error(),
		})
	}
	return entries
}

// errorType classifies a document failure for the error log.
func errorType(err error) string {
	switch {
	case errors.Is(err, pdftext.ErrInvalidPDF):
		return "INVALID_PDF"
	case errors.Is(err, pdftext.ErrNoTextLayer):
		return "NO_TEXT_LAYER"
	case errors.Is(err, pdftext.ErrDecode):
		return "DECODE_ERROR"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "CANCELLED"
	default:
		return "PROCESSING_ERROR"
	}
}

// processingSummary assembles the processing summary log for a run.
func processingSummary(input string, start time.Time, result *types.BatchResult, s report.Summary, reportFiles []string) utils.ProcessingSummary {
	summary := utils.ProcessingSummary{
		RunID:          utils.NewRunID(),
		StartTime:      start,
		EndTime:        time.Now(),
		InputDir:       input,
		ReportFiles:    reportFiles,
		TotalFiles:     result.Discovered,
		TotalPositions: s.Positions,
		TotalAmount:    report.FormatTotal(s.Total),
	}

	for _, d := range result.Documents {
		if d.Failed() {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    d.Path,
				ErrorMessage: d.Err.Error(),
			})
			continue
		}
		summary.SuccessfulFiles++
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   d.Path,
			Pages:       d.Pages,
			Positions:   d.Records,
			ProcessTime: d.Duration,
		})
	}
	return summary
}

// =============================================================================
// Payroll PDF Extractor - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration (config.yaml). Every option has a default, so the extractor
// also runs without a configuration file.
//
// CONFIGURATION SOURCES (highest precedence first):
//   1. Command line flags
//   2. PAYEXTRACT_* environment variables (optionally from a .env file)
//   3. config.yaml
//   4. Built-in defaults
//
// Flags and environment variables are layered on top in the cmd package.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/period"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/sites"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the folder scanned (recursively) for PDFs, or a .zip bundle.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is where reports and logs are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an optional log file. Logs always go to stderr as well.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ReportNameFormat defines the report file name.
	// Placeholders: {timestamp}, {date}, {time}, {uuid}
	// Default: "PDF_Extract_{timestamp}.xlsx"
	ReportNameFormat string `yaml:"report_name_format"`

	// OutputFormat selects the report files: "xlsx", "csv" or "both".
	// Default: "xlsx"
	OutputFormat string `yaml:"output_format"`

	// WriteErrorLog writes error_log_<timestamp>.txt when documents were skipped.
	// Default: true
	WriteErrorLog bool `yaml:"write_error_log"`

	// WriteSummaryLog writes processing_summary_<timestamp>.txt after each run.
	// Default: false
	WriteSummaryLog bool `yaml:"write_summary_log"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// SortInputs processes documents in full-path order.
	SortInputs bool `yaml:"sort_inputs"`

	// TextEngine selects the PDF text decoder: "native" or "pdftotext".
	// Default: "native"
	TextEngine string `yaml:"text_engine"`

	// PdftotextPath is the pdftotext binary used by the "pdftotext" engine.
	// Default: "pdftotext"
	PdftotextPath string `yaml:"pdftotext_path"`

	// ProbeDocuments validates each PDF with pdfcpu before reading it.
	ProbeDocuments bool `yaml:"probe_documents"`

	// CacheText decodes documents with identical content only once per run.
	// Default: true
	CacheText bool `yaml:"cache_text"`

	// =========================================================================
	// EXTRACTION SETTINGS
	// =========================================================================

	// CurrencySymbol must follow every table amount, separated by whitespace.
	// Default: "€"
	CurrencySymbol string `yaml:"currency_symbol"`

	// Keywords select the booking month of a line from its label.
	Keywords KeywordConfig `yaml:"keywords"`

	// SiteMatching is "lenient" (street + house number anywhere) or
	// "strict" (full address as a whole word).
	// Default: "lenient"
	SiteMatching string `yaml:"site_matching"`

	// Sites is the ordered address catalog. The first matching entry wins.
	// Default: the built-in catalog.
	Sites []sites.Entry `yaml:"sites"`
}

// KeywordConfig holds the compensation-type tokens.
type KeywordConfig struct {
	// CompensationA lines are booked to the "A" month of the file name.
	// Default: "vergütung"
	CompensationA string `yaml:"compensation_a"`

	// CompensationB lines are booked to the "B" month of the file name.
	// Default: "besoldung"
	CompensationB string `yaml:"compensation_b"`
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validOutputFormats = []string{"xlsx", "csv", "both"}
	validTextEngines   = []string{"native", "pdftotext"}
)

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *MainConfig {
	config := &MainConfig{
		WriteErrorLog: true,
		CacheText:     true,
	}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// ParseMainConfig parses YAML on top of the defaults. Keys missing from the
// document keep their default value.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	config := Default()
	config.Sites = nil

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "PDF_Extract_{timestamp}.xlsx"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "xlsx"
	}
	if config.TextEngine == "" {
		config.TextEngine = "native"
	}
	if config.PdftotextPath == "" {
		config.PdftotextPath = "pdftotext"
	}
	if config.CurrencySymbol == "" {
		config.CurrencySymbol = "€"
	}
	if config.Keywords.CompensationA == "" {
		config.Keywords.CompensationA = period.DefaultKeywords().CompensationA
	}
	if config.Keywords.CompensationB == "" {
		config.Keywords.CompensationB = period.DefaultKeywords().CompensationB
	}
	if config.SiteMatching == "" {
		config.SiteMatching = "lenient"
	}
	if len(config.Sites) == 0 {
		config.Sites = sites.DefaultEntries()
	}
}

// Validate checks enumerated values and the site catalog. It does not touch
// the file system.
func (c *MainConfig) Validate() error {
	var errs []error

	c.LogLevel = strings.ToLower(c.LogLevel)
	if !oneOf(c.LogLevel, validLogLevels) {
		errs = append(errs, fmt.Errorf("log_level %q: must be one of %s", c.LogLevel, strings.Join(validLogLevels, ", ")))
	}

	c.OutputFormat = strings.ToLower(c.OutputFormat)
	if !oneOf(c.OutputFormat, validOutputFormats) {
		errs = append(errs, fmt.Errorf("output_format %q: must be one of %s", c.OutputFormat, strings.Join(validOutputFormats, ", ")))
	}

	c.TextEngine = strings.ToLower(c.TextEngine)
	if !oneOf(c.TextEngine, validTextEngines) {
		errs = append(errs, fmt.Errorf("text_engine %q: must be one of %s", c.TextEngine, strings.Join(validTextEngines, ", ")))
	}

	if _, err := sites.ParseMatchMode(c.SiteMatching); err != nil {
		errs = append(errs, fmt.Errorf("site_matching: %w", err))
	}

	if strings.EqualFold(c.Keywords.CompensationA, c.Keywords.CompensationB) {
		errs = append(errs, fmt.Errorf("keywords: compensation_a and compensation_b must differ"))
	}

	if _, err := sites.NewCatalog(c.Sites); err != nil {
		errs = append(errs, fmt.Errorf("sites: %w", err))
	}

	return errors.Join(errs...)
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Catalog builds the immutable site catalog.
func (c *MainConfig) Catalog() (*sites.Catalog, error) {
	return sites.NewCatalog(c.Sites)
}

// MatchMode returns the parsed site matching mode.
func (c *MainConfig) MatchMode() sites.MatchMode {
	m, _ := sites.ParseMatchMode(c.SiteMatching)
	return m
}

// PeriodKeywords returns the compensation keywords.
func (c *MainConfig) PeriodKeywords() period.Keywords {
	return period.Keywords{
		CompensationA: c.Keywords.CompensationA,
		CompensationB: c.Keywords.CompensationB,
	}
}

// WantsXLSX reports whether an Excel report is requested.
func (c *MainConfig) WantsXLSX() bool {
	return c.OutputFormat == "xlsx" || c.OutputFormat == "both"
}

// WantsCSV reports whether a CSV export is requested.
func (c *MainConfig) WantsCSV() bool {
	return c.OutputFormat == "csv" || c.OutputFormat == "both"
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}

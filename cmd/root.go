// =============================================================================
// Payroll PDF Extractor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'extract', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (extractor)
//   ├── extractCmd  (extractor extract)
//   ├── validateCmd (extractor validate)
//   ├── sitesCmd    (extractor sites)
//   └── versionCmd  (extractor version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading .env and PAYEXTRACT_* environment variables through Viper
//   3. Layering flags and environment on top of config.yaml
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/config"
	"github.com/ginjaninja78/payroll-pdf-extractor/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// envPrefix is the prefix of all environment overrides, e.g. PAYEXTRACT_OUTPUT_DIR.
const envPrefix = "PAYEXTRACT"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Payroll PDF Extractor - Turn payroll statement letters into an Excel report",

	Long: `Payroll PDF Extractor reads a folder (or ZIP bundle) of payroll statement
PDFs, extracts every amount line from the statement tables, enriches each line
with the letter date, office site, billing office, payment reference and
booking month, and writes one consolidated report.

Key Features:
  - Recursive PDF discovery, one document at a time
  - Failed documents are logged and skipped, the batch carries on
  - Excel report with line items, summary and per-site totals
  - Optional CSV export
  - Configurable site catalog and matching mode

Example Usage:
  extractor extract                           # Process ./input into ./output
  extractor extract --input ./12_2025.zip     # Process a ZIP bundle
  extractor extract --format both --dry-run   # Summarise without writing files
  extractor validate                          # Validate configuration
  extractor sites                             # Show the site catalog`,

	SilenceErrors: true,
	SilenceUsage:  true,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig loads .env and enables PAYEXTRACT_* environment overrides.
// The YAML file itself is read by the config package.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// =============================================================================
// CONFIGURATION HELPERS
// =============================================================================

// loadConfig returns the effective configuration: defaults, then config.yaml,
// then environment, then flags.
//
// A missing config file is only an error when --config was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	explicit := cmd.Flags().Changed("config")

	var mainConfig *config.MainConfig
	if _, err := os.Stat(cfgFile); err == nil || explicit {
		mainConfig, err = config.LoadMainConfig(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load main config: %w", err)
		}
	} else {
		mainConfig = config.Default()
	}

	applyOverrides(mainConfig)

	if err := mainConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return mainConfig, nil
}

// applyOverrides copies every key set through the environment or a changed
// flag into c.
func applyOverrides(c *config.MainConfig) {
	overrideString(&c.InputDir, "input_dir")
	overrideString(&c.OutputDir, "output_dir")
	overrideString(&c.LogFile, "log_file")
	overrideString(&c.LogLevel, "log_level")
	overrideString(&c.ReportNameFormat, "report_name_format")
	overrideString(&c.OutputFormat, "output_format")
	overrideString(&c.TextEngine, "text_engine")
	overrideString(&c.PdftotextPath, "pdftotext_path")
	overrideString(&c.CurrencySymbol, "currency_symbol")
	overrideString(&c.SiteMatching, "site_matching")
	overrideString(&c.Keywords.CompensationA, "keywords.compensation_a")
	overrideString(&c.Keywords.CompensationB, "keywords.compensation_b")

	overrideBool(&c.SortInputs, "sort_inputs")
	overrideBool(&c.ProbeDocuments, "probe_documents")
	overrideBool(&c.CacheText, "cache_text")
	overrideBool(&c.WriteErrorLog, "write_error_log")
	overrideBool(&c.WriteSummaryLog, "write_summary_log")
}

func overrideString(dst *string, key string) {
	if viper.IsSet(key) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
}

func overrideBool(dst *bool, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetBool(key)
	}
}

// newLogger builds the logger for c and installs it as the slog default.
func newLogger(c *config.MainConfig) (*slog.Logger, func() error, error) {
	logger, closeFn, err := logging.New(c.LogLevel, c.LogFile, viper.GetBool("verbose"))
	if err != nil {
		return nil, closeFn, err
	}
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

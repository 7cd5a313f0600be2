// =============================================================================
// Payroll PDF Extractor - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It checks the effective
// configuration and, optionally, an input bundle without extracting it.
//
// COMMAND USAGE:
//   extractor validate
//   extractor validate --bundle ./12_2025.zip
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/bundle"
)

// bundlePath is the ZIP bundle checked by 'validate --bundle'.
var bundlePath string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and an optional input bundle",
	Long: `Validate loads config.yaml, applies environment overrides and checks every
setting, including the site catalog. With --bundle it also checks that a ZIP
bundle contains only PDF files. Nothing is extracted or written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Println("✓ Configuration is valid")
		fmt.Printf("  Input:         %s\n", mainConfig.InputDir)
		fmt.Printf("  Output:        %s\n", mainConfig.OutputDir)
		fmt.Printf("  Format:        %s\n", mainConfig.OutputFormat)
		fmt.Printf("  Text engine:   %s\n", mainConfig.TextEngine)
		fmt.Printf("  Site matching: %s\n", mainConfig.MatchMode())
		fmt.Printf("  Sites:         %d\n", len(mainConfig.Sites))

		if bundlePath == "" {
			return nil
		}

		members, err := bundle.Validate(bundlePath)
		if err != nil {
			fmt.Printf("✗ %s\n", bundlePath)
			return fmt.Errorf("invalid bundle: %w", err)
		}
		fmt.Printf("✓ Bundle %s contains %d PDF file(s)\n", bundlePath, len(members))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(
		&bundlePath,
		"bundle",
		"",
		"ZIP bundle to check (only PDF files are allowed)",
	)
}

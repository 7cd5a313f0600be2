// =============================================================================
// Payroll PDF Extractor - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Payroll PDF Extractor CLI. It
// delegates command execution to the cmd package.
//
// USAGE:
//   extractor extract      - Extract line items from all PDFs in the input
//   extractor validate     - Validate configuration (and a ZIP bundle)
//   extractor sites        - Show the site catalog
//   extractor version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Extraction pipeline and report writers
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/payroll-pdf-extractor/cmd"
)

func main() {
	cmd.Execute()
}

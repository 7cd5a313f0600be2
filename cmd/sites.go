// =============================================================================
// Payroll PDF Extractor - Sites Command
// =============================================================================
//
// This file defines the 'sites' command. It prints the effective site
// catalog in match order, or resolves the site of a text file.
//
// COMMAND USAGE:
//   extractor sites
//   extractor sites --text ./letter.txt
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/sites"
)

// textFile is resolved against the catalog by 'sites --text'.
var textFile string

// sitesCmd represents the 'sites' command.
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Show the site catalog or resolve the site of a text file",

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		catalog, err := mainConfig.Catalog()
		if err != nil {
			return fmt.Errorf("invalid site catalog: %w", err)
		}
		resolver := sites.NewCatalogResolver(catalog, mainConfig.MatchMode())

		if textFile != "" {
			data, err := os.ReadFile(textFile)
			if err != nil {
				return fmt.Errorf("failed to read text file: %w", err)
			}
			if site, ok := resolver.Resolve(string(data)); ok {
				fmt.Printf("✓ %s\n", site)
			} else {
				fmt.Println("✗ no site matched")
			}
			return nil
		}

		fmt.Printf("Site catalog (%d entries, %s matching):\n", catalog.Len(), resolver.Mode())
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i, e := range catalog.Entries() {
			fmt.Fprintf(w, "  %d.\t%s\t%s\n", i+1, e.Address, e.Site)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)

	sitesCmd.Flags().StringVar(&textFile, "text", "", "Resolve the site of a plain text file")
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/gridtariff/internal/importer"
)

var importCustomer string

var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import Calculation Entries from a CSV file",
	Long: `Reads entries from a CSV file with a header row. Columns are matched by name:
customer, kw, kwh (or usage) and timestamp (or time/date). Each row is saved through
the normal save path, so computed fields are refreshed as rows are added.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importCustomer, "customer", "", "Customer for rows without a customer column")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening CSV: %w", err)
	}
	defer file.Close()

	entries, err := importer.ParseCSV(file, importCustomer)
	if err != nil {
		return fmt.Errorf("parsing CSV: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No rows found")
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	for i := range entries {
		if err := a.db.Save(ctx, &entries[i]); err != nil {
			return fmt.Errorf("saving row %d: %w", i+1, err)
		}
	}

	fmt.Printf("✓ Imported %s entries from %s\n", humanize.Comma(int64(len(entries))), args[0])
	return nil
}

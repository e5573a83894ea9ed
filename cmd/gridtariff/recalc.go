package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var recalcCustomer string

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recompute stored entries",
	Long:  `Re-saves stored entries so overall_avg and monthly_tariffs reflect the current data and rates.`,
	RunE:  runRecalc,
}

func init() {
	recalcCmd.Flags().StringVar(&recalcCustomer, "customer", "", "Only recompute entries for this customer")
	rootCmd.AddCommand(recalcCmd)
}

func runRecalc(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	entries, err := a.db.ListEntries(ctx, recalcCustomer)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	for i := range entries {
		if err := a.db.Save(ctx, &entries[i]); err != nil {
			return fmt.Errorf("saving %s: %w", entries[i].Name, err)
		}
	}

	fmt.Printf("✓ Recomputed %s entries\n", humanize.Comma(int64(len(entries))))
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	listCustomer string
	listTariffs  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entries",
	Long:  `Displays stored Calculation Entries with their computed fields.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCustomer, "customer", "", "Filter by customer")
	listCmd.Flags().BoolVar(&listTariffs, "tariffs", false, "Show each entry's stored monthly tariffs")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.db.ListEntries(context.Background(), listCustomer)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	fmt.Printf("%-36s  %-16s  %-20s  %8s  %8s  %11s  %s\n", "Name", "Customer", "Timestamp", "kW", "kWh", "overall_avg", "Modified")
	fmt.Println("------------------------------------------------------------------------------------------------------------------------")
	for _, e := range entries {
		fmt.Printf("%-36s  %-16s  %-20s  %8s  %8s  %11.2f  %s\n",
			e.Name, e.CustomerName, formatTimestamp(e.Timestamp),
			formatValue(e.KW), formatValue(e.KWh), e.OverallAvg, humanize.Time(e.Modified))
		if listTariffs {
			tariffs, err := formatTariffs(e.MonthlyTariffs)
			if err != nil {
				a.logger.Warn("unreadable monthly tariffs", "entry", e.Name, "error", err)
				continue
			}
			fmt.Println(tariffs)
		}
	}
	fmt.Println("------------------------------------------------------------------------------------------------------------------------")
	fmt.Printf("Total: %s entries\n", humanize.Comma(int64(len(entries))))

	return nil
}

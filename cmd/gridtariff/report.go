package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridtariff/internal/hook"
)

var (
	reportCustomer string
	reportJSON     bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a customer's averages and monthly tariffs",
	Long:  `Computes the overall average and monthly tariffs from stored entries without saving anything.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportCustomer, "customer", "", "Customer to report on (default: all entries)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print monthly tariffs as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	avg := a.calc.OverallAverage(ctx, reportCustomer)
	monthly := a.calc.MonthlyTariffs(ctx, reportCustomer)

	if reportJSON {
		data, err := hook.EncodeTariffs(monthly)
		if err != nil {
			return err
		}
		fmt.Println(data)
		return nil
	}

	label := reportCustomer
	if label == "" {
		label = "all customers"
	}
	rates := a.calc.Rates()

	fmt.Printf("\n%s\n", label)
	fmt.Println("----------------------------------------")
	fmt.Printf("Average kW:  %10.2f\n", avg.AverageKW)
	fmt.Printf("Average kWh: %10.2f\n", avg.AverageKWh)
	fmt.Printf("overall_avg: %10.2f\n", avg.AverageKW+avg.AverageKWh)
	fmt.Println("----------------------------------------")

	if len(monthly) == 0 {
		fmt.Println("No timestamped entries")
		return nil
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)

	fmt.Printf("%-8s  %12s  %12s\n", "Month", fmt.Sprintf("Low @%.2f", rates.Low), fmt.Sprintf("High @%.2f", rates.High))
	fmt.Println("----------------------------------------")
	for _, m := range months {
		fmt.Printf("%-8s  %12.2f  %12.2f\n", m, monthly[m].LowTariff, monthly[m].HighTariff)
	}

	return nil
}

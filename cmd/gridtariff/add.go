package main

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridtariff/pkg/models"
)

var (
	addName      string
	addCustomer  string
	addKW        float64
	addKWh       float64
	addTimestamp string
	addEpoch     int64
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a Calculation Entry",
	Long: `Saves a new Calculation Entry. Before it is written, the customer's overall average
and monthly tariffs are recomputed from the stored entries and set on the new entry.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "Entry name (default: generated)")
	addCmd.Flags().StringVar(&addCustomer, "customer", "", "Customer name")
	addCmd.Flags().Float64Var(&addKW, "kw", 0, "Instantaneous power in kW")
	addCmd.Flags().Float64Var(&addKWh, "kwh", 0, "Energy in kWh")
	addCmd.Flags().StringVar(&addTimestamp, "timestamp", "", "Reading time (ISO-8601, e.g. 2024-01-15T02:00:00)")
	addCmd.Flags().Int64Var(&addEpoch, "epoch", 0, "Reading time as Unix seconds (alternative to --timestamp)")
	addCmd.MarkFlagsMutuallyExclusive("timestamp", "epoch")
	_ = addCmd.MarkFlagRequired("customer")
	rootCmd.AddCommand(addCmd)
}

// checkFinite rejects Inf and NaN flag values, which cannot be averaged or
// serialized into monthly_tariffs.
func checkFinite(flag string, v float64) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Errorf("--%s must be a finite number, got %v", flag, v)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	doc := &models.CalculationEntry{
		Name:         addName,
		CustomerName: addCustomer,
	}
	if cmd.Flags().Changed("kw") {
		if err := checkFinite("kw", addKW); err != nil {
			return err
		}
		doc.KW = &addKW
	}
	if cmd.Flags().Changed("kwh") {
		if err := checkFinite("kwh", addKWh); err != nil {
			return err
		}
		doc.KWh = &addKWh
	}
	switch {
	case addTimestamp != "":
		doc.Timestamp = addTimestamp
	case cmd.Flags().Changed("epoch"):
		doc.Timestamp = addEpoch
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.Save(context.Background(), doc); err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}

	fmt.Printf("✓ Saved %s for %s\n", doc.Name, doc.CustomerName)
	fmt.Printf("  overall_avg:     %.2f\n", doc.OverallAvg)
	fmt.Printf("  monthly_tariffs: %s\n", doc.MonthlyTariffs)
	return nil
}

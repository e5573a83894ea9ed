package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ratesLow  float64
	ratesHigh float64
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show or set the tariff rates",
	Long: `Shows the low and high period rates used for monthly tariffs. With --low or --high
the new rate is written to the config file. Stored entries keep their old tariffs until
they are recalculated with 'gridtariff recalc'.`,
	RunE: runRates,
}

func init() {
	ratesCmd.Flags().Float64Var(&ratesLow, "low", 0, "Rate for the low period (23:00-06:00)")
	ratesCmd.Flags().Float64Var(&ratesHigh, "high", 0, "Rate for the high period (06:00-23:00)")
	rootCmd.AddCommand(ratesCmd)
}

// checkRate rejects rates the config getters would silently replace with
// the defaults.
func checkRate(flag string, v float64) error {
	if err := checkFinite(flag, v); err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("--%s must be greater than 0, got %v", flag, v)
	}
	return nil
}

func runRates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	changed := false
	if cmd.Flags().Changed("low") {
		if err := checkRate("low", ratesLow); err != nil {
			return err
		}
		cfg.Tariff.LowRate = ratesLow
		changed = true
	}
	if cmd.Flags().Changed("high") {
		if err := checkRate("high", ratesHigh); err != nil {
			return err
		}
		cfg.Tariff.HighRate = ratesHigh
		changed = true
	}

	if changed {
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("✓ Rates saved to %s\n", getConfigPath())
	}

	fmt.Printf("Low rate:  %.4g\n", cfg.GetLowRate())
	fmt.Printf("High rate: %.4g\n", cfg.GetHighRate())
	if changed {
		fmt.Println("Run 'gridtariff recalc' to update stored entries")
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridtariff/internal/publisher"
)

var publishCustomer string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish computed tariffs to MQTT and Home Assistant",
	Long: `Computes each customer's overall average and monthly tariffs and publishes them as a
retained MQTT message and/or a Home Assistant entity state.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishCustomer, "customer", "", "Customer to publish (default: every customer)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.MQTT.Enabled && !a.cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	pub, err := publisher.New(a.cfg.MQTT, a.cfg.GetTopicPrefix(), a.cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	ctx := context.Background()
	customers := []string{publishCustomer}
	if publishCustomer == "" {
		customers, err = a.db.ListCustomers(ctx)
		if err != nil {
			return fmt.Errorf("listing customers: %w", err)
		}
	}

	if len(customers) == 0 {
		fmt.Println("No customers found")
		return nil
	}

	published := 0
	for i, customer := range customers {
		avg := a.calc.OverallAverage(ctx, customer)
		summary := publisher.Summary{
			Customer:       customer,
			OverallAvg:     avg.AverageKW + avg.AverageKWh,
			AverageKW:      avg.AverageKW,
			AverageKWh:     avg.AverageKWh,
			MonthlyTariffs: a.calc.MonthlyTariffs(ctx, customer),
			UpdatedAt:      time.Now(),
		}

		fmt.Printf("[%d/%d] Publishing %s (overall_avg %.2f)... ", i+1, len(customers), customer, summary.OverallAvg)
		if err := pub.Publish(summary); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			a.logger.Warn("publish failed", "customer", customer, "error", err)
			continue
		}
		fmt.Printf("✓\n")
		published++
	}

	fmt.Printf("\nPublished %d/%d customers\n", published, len(customers))
	return nil
}

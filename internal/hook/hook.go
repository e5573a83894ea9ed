// Package hook updates a Calculation Entry's computed fields before it is saved.
package hook

import (
	"context"
	"fmt"

	"github.com/go-json-experiment/json"

	"github.com/jgoulah/gridtariff/pkg/models"
)

// Aggregator computes the metrics written onto an entry
type Aggregator interface {
	OverallAverage(ctx context.Context, customer string) models.OverallAverage
	MonthlyTariffs(ctx context.Context, customer string) models.MonthlyTariffs
}

// Hook fills in overall_avg and monthly_tariffs on save
type Hook struct {
	calc Aggregator
}

// New creates a hook backed by calc
func New(calc Aggregator) *Hook {
	return &Hook{calc: calc}
}

// BeforeSave recomputes the customer's metrics and writes them onto doc.
// overall_avg is the sum of the average kW and the average kWh.
func (h *Hook) BeforeSave(ctx context.Context, doc *models.CalculationEntry, method string) error {
	avg := h.calc.OverallAverage(ctx, doc.CustomerName)
	monthly := h.calc.MonthlyTariffs(ctx, doc.CustomerName)

	doc.OverallAvg = avg.AverageKW + avg.AverageKWh

	data, err := EncodeTariffs(monthly)
	if err != nil {
		return err
	}
	doc.MonthlyTariffs = data
	return nil
}

// EncodeTariffs serializes monthly tariffs as a JSON object with sorted keys.
// Numbers use the shortest form that round-trips, so 1.0 is written as 1 and
// 0.9 as 0.9.
func EncodeTariffs(monthly models.MonthlyTariffs) (string, error) {
	if monthly == nil {
		monthly = models.MonthlyTariffs{}
	}
	data, err := json.Marshal(monthly, json.Deterministic(true))
	if err != nil {
		return "", fmt.Errorf("encoding monthly tariffs: %w", err)
	}
	return string(data), nil
}

// DecodeTariffs parses a stored monthly_tariffs field. Empty input yields an
// empty mapping.
func DecodeTariffs(data string) (models.MonthlyTariffs, error) {
	monthly := models.MonthlyTariffs{}
	if data == "" {
		return monthly, nil
	}
	if err := json.Unmarshal([]byte(data), &monthly); err != nil {
		return nil, fmt.Errorf("decoding monthly tariffs: %w", err)
	}
	return monthly, nil
}

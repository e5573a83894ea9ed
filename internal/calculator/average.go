package calculator

import (
	"context"
	"fmt"

	"github.com/jgoulah/gridtariff/pkg/models"
)

// OverallAverage returns the mean kW and kWh across the customer's entries,
// or across every entry when customer is empty. Failures are logged and
// produce a zero result.
func (c *Calculator) OverallAverage(ctx context.Context, customer string) (avg models.OverallAverage) {
	defer func() {
		if r := recover(); r != nil {
			c.log.LogError("overall average", fmt.Sprintf("Error in overall average: %v", r))
			avg = models.OverallAverage{}
		}
	}()

	entries, err := c.store.GetAll(ctx, models.EntryDoctype, customerFilters(customer), []string{"kw", "kwh"})
	if err != nil {
		c.log.LogError("overall average", fmt.Sprintf("Error in overall average: %v", err))
		return models.OverallAverage{}
	}
	if len(entries) == 0 {
		return models.OverallAverage{}
	}

	var totalKW, totalKWh float64
	for _, entry := range entries {
		totalKW += toFloat(entry["kw"])
		totalKWh += toFloat(entry["kwh"])
	}

	count := float64(len(entries))
	return models.OverallAverage{
		AverageKW:  round2(totalKW / count),
		AverageKWh: round2(totalKWh / count),
	}
}

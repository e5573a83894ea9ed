package calculator

import (
	"context"
	"fmt"

	"github.com/jgoulah/gridtariff/pkg/models"
)

// MonthKeyLayout formats the month a reading belongs to
const MonthKeyLayout = "2006-01"

type periodValues struct {
	low  []float64
	high []float64
}

// MonthlyTariffs groups kWh readings by month and tariff period and prices
// the average of each group. Entries without a usable timestamp are skipped.
// Failures are logged and produce an empty result.
func (c *Calculator) MonthlyTariffs(ctx context.Context, customer string) (result models.MonthlyTariffs) {
	defer func() {
		if r := recover(); r != nil {
			c.log.LogError("monthly tariffs", fmt.Sprintf("Error in monthly tariffs: %v", r))
			result = models.MonthlyTariffs{}
		}
	}()

	entries, err := c.store.GetAll(ctx, models.EntryDoctype, customerFilters(customer), []string{"timestamp", "kwh"})
	if err != nil {
		c.log.LogError("monthly tariffs", fmt.Sprintf("Error in monthly tariffs: %v", err))
		return models.MonthlyTariffs{}
	}

	grouped := make(map[string]*periodValues)
	for _, entry := range entries {
		raw := entry["timestamp"]
		if isBlank(raw) {
			continue
		}

		// Unlike Classify, an unreadable timestamp drops the entry
		ts := ParseTimestamp(raw, c.loc)
		if !ts.Parsed() {
			continue
		}

		month := ts.Time.Format(MonthKeyLayout)
		values, ok := grouped[month]
		if !ok {
			values = &periodValues{}
			grouped[month] = values
		}

		kwh := toFloat(entry["kwh"])
		if c.Classify(ts.Time) == models.PeriodLow {
			values.low = append(values.low, kwh)
		} else {
			values.high = append(values.high, kwh)
		}
	}

	result = make(models.MonthlyTariffs, len(grouped))
	for month, values := range grouped {
		result[month] = models.MonthlyTariff{
			LowTariff:  round2(mean(values.low) * c.rates.Low),
			HighTariff: round2(mean(values.high) * c.rates.High),
		}
	}
	return result
}

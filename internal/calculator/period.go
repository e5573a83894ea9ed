package calculator

import (
	"time"

	"github.com/jgoulah/gridtariff/pkg/models"
)

// Low period runs from 23:00 up to 06:00
const (
	lowStartHour = 23
	lowEndHour   = 6
)

// PeriodAt classifies t by its hour in t's own location
func PeriodAt(t time.Time) models.TariffPeriod {
	hour := t.Hour()
	if hour >= lowStartHour || hour < lowEndHour {
		return models.PeriodLow
	}
	return models.PeriodHigh
}

// Classify returns the tariff period for a time value or ISO-8601 text.
// Anything else, including epoch numbers and text that does not parse, is
// classified using the current time instead.
func (c *Calculator) Classify(v any) models.TariffPeriod {
	ts := ParseTimestamp(v, c.loc)
	switch ts.Kind {
	case FromTime, FromText:
		return PeriodAt(ts.Time)
	default:
		return PeriodAt(c.now().In(c.loc))
	}
}

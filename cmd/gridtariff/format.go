package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jgoulah/gridtariff/internal/hook"
)

// formatValue renders an optional reading, "-" when missing
func formatValue(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

// formatTimestamp renders a stored timestamp of any representation
func formatTimestamp(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// formatTariffs renders a stored monthly_tariffs field as one
// "month low/high" line per month, oldest first.
func formatTariffs(raw string) (string, error) {
	monthly, err := hook.DecodeTariffs(raw)
	if err != nil {
		return "", err
	}
	if len(monthly) == 0 {
		return "  (no monthly tariffs)", nil
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)

	lines := make([]string, 0, len(months))
	for _, m := range months {
		lines = append(lines, fmt.Sprintf("  %-8s  low %8.2f  high %8.2f", m, monthly[m].LowTariff, monthly[m].HighTariff))
	}
	return strings.Join(lines, "\n"), nil
}

// Package importer reads Calculation Entries from CSV exports.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jgoulah/gridtariff/pkg/models"
)

// ParseCSV reads entries from r. The header row decides which columns hold
// the customer, kw, kwh and timestamp; rows without a customer column use
// defaultCustomer. Blank or unreadable numbers are stored as missing.
func ParseCSV(r io.Reader, defaultCustomer string) ([]models.CalculationEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	customerCol := -1
	kwCol := -1
	kwhCol := -1
	timestampCol := -1

	for i, col := range header {
		colLower := strings.ToLower(strings.TrimSpace(col))
		switch {
		case strings.Contains(colLower, "customer"):
			customerCol = i
		case colLower == "kwh" || strings.Contains(colLower, "usage") || strings.Contains(colLower, "energy"):
			kwhCol = i
		case colLower == "kw" || strings.Contains(colLower, "power") || strings.Contains(colLower, "demand"):
			kwCol = i
		case strings.Contains(colLower, "timestamp") || strings.Contains(colLower, "time") || strings.Contains(colLower, "date"):
			if timestampCol == -1 {
				timestampCol = i
			}
		}
	}

	if kwCol == -1 && kwhCol == -1 {
		return nil, fmt.Errorf("could not find kw or kwh columns in CSV. Header: %v", header)
	}
	if customerCol == -1 && defaultCustomer == "" {
		return nil, fmt.Errorf("CSV has no customer column and no default customer was given")
	}

	var results []models.CalculationEntry
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", line, err)
		}

		entry := models.CalculationEntry{CustomerName: defaultCustomer}
		if v := column(record, customerCol); v != "" {
			entry.CustomerName = v
		}
		entry.KW = parseNumber(column(record, kwCol), "kw")
		entry.KWh = parseNumber(column(record, kwhCol), "kwh")
		entry.Timestamp = parseTimestamp(column(record, timestampCol))

		results = append(results, entry)
	}

	return results, nil
}

func column(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseNumber parses a kW or kWh value, tolerating thousands separators and
// a trailing unit. Infinities and NaN are treated as missing.
func parseNumber(s, unit string) *float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ToLower(s)
	s = strings.TrimSuffix(s, unit)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseTimestamp keeps text as-is and turns bare numbers into epoch values
func parseTimestamp(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

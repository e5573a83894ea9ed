package models

import "time"

// EntryDoctype is the record type name used when querying the store
const EntryDoctype = "Calculation Entry"

// CalculationEntry represents a single customer usage record
type CalculationEntry struct {
	Name           string    `json:"name"`
	CustomerName   string    `json:"customer_name"`
	KW             *float64  `json:"kw"`
	KWh            *float64  `json:"kwh"`
	Timestamp      any       `json:"timestamp"` // ISO-8601 text, epoch number or time.Time
	OverallAvg     float64   `json:"overall_avg"`
	MonthlyTariffs string    `json:"monthly_tariffs"` // JSON-encoded MonthlyTariffs
	Modified       time.Time `json:"modified"`
}

// Record is one row returned by a store query, keyed by field name.
// Values may be nil.
type Record map[string]any

// TariffPeriod is the time-of-use period a reading falls into
type TariffPeriod string

const (
	PeriodLow  TariffPeriod = "Low"
	PeriodHigh TariffPeriod = "High"
)

// OverallAverage holds the mean kW and kWh across a customer's entries
type OverallAverage struct {
	AverageKW  float64 `json:"average_kw"`
	AverageKWh float64 `json:"average_kwh"`
}

// MonthlyTariff holds the tariff estimates for one month
type MonthlyTariff struct {
	LowTariff  float64 `json:"low_tariff"`
	HighTariff float64 `json:"high_tariff"`
}

// MonthlyTariffs maps a "YYYY-MM" key to that month's tariffs
type MonthlyTariffs map[string]MonthlyTariff

// ErrorLog is one persisted diagnostic message
type ErrorLog struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Creation time.Time `json:"creation"`
}

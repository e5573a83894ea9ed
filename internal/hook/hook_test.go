package hook

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridtariff/internal/calculator"
	"github.com/jgoulah/gridtariff/pkg/models"
)

type stubAggregator struct {
	avg       models.OverallAverage
	monthly   models.MonthlyTariffs
	customers []string
}

func (s *stubAggregator) OverallAverage(ctx context.Context, customer string) models.OverallAverage {
	s.customers = append(s.customers, customer)
	return s.avg
}

func (s *stubAggregator) MonthlyTariffs(ctx context.Context, customer string) models.MonthlyTariffs {
	s.customers = append(s.customers, customer)
	return s.monthly
}

type sliceStore []models.Record

func (s sliceStore) GetAll(ctx context.Context, doctype string, filters map[string]any, fields []string) ([]models.Record, error) {
	var out []models.Record
	for _, rec := range s {
		if want, ok := filters["customer_name"]; ok && rec["customer_name"] != want {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type discardLog struct{}

func (discardLog) LogError(title, message string) {}

func TestBeforeSave(t *testing.T) {
	agg := &stubAggregator{
		avg: models.OverallAverage{AverageKW: 5.0, AverageKWh: 2.5},
		monthly: models.MonthlyTariffs{
			"2024-02": {LowTariff: 0.25, HighTariff: 3},
			"2024-01": {LowTariff: 1, HighTariff: 6},
		},
	}
	doc := &models.CalculationEntry{CustomerName: "acme"}

	err := New(agg).BeforeSave(context.Background(), doc, "before_save")
	require.NoError(t, err)

	assert.Equal(t, 7.5, doc.OverallAvg)
	assert.Equal(t, `{"2024-01":{"low_tariff":1,"high_tariff":6},"2024-02":{"low_tariff":0.25,"high_tariff":3}}`, doc.MonthlyTariffs)
	assert.Equal(t, []string{"acme", "acme"}, agg.customers)
}

func TestBeforeSave_EmptyResults(t *testing.T) {
	doc := &models.CalculationEntry{CustomerName: "nobody", OverallAvg: 42, MonthlyTariffs: "stale"}

	err := New(&stubAggregator{}).BeforeSave(context.Background(), doc, "before_save")
	require.NoError(t, err)

	assert.Equal(t, 0.0, doc.OverallAvg)
	assert.Equal(t, "{}", doc.MonthlyTariffs)
}

func TestBeforeSave_WithCalculator(t *testing.T) {
	store := sliceStore{
		{"customer_name": "acme", "kw": nil, "kwh": 10.0, "timestamp": "2024-01-15T02:00:00"},
		{"customer_name": "acme", "kw": 10.0, "kwh": 20.0, "timestamp": "2024-01-20T14:00:00"},
		{"customer_name": "other", "kw": 99.0, "kwh": 99.0, "timestamp": "2024-01-20T14:00:00"},
	}
	calc := calculator.New(store, discardLog{}, calculator.Options{Location: time.UTC})
	h := New(calc)

	first := &models.CalculationEntry{CustomerName: "acme"}
	require.NoError(t, h.BeforeSave(context.Background(), first, "before_save"))

	assert.Equal(t, 20.0, first.OverallAvg)
	assert.Equal(t, `{"2024-01":{"low_tariff":1,"high_tariff":6}}`, first.MonthlyTariffs)

	second := &models.CalculationEntry{CustomerName: "acme"}
	require.NoError(t, h.BeforeSave(context.Background(), second, "validate"))

	assert.Equal(t, first.OverallAvg, second.OverallAvg)
	assert.Equal(t, first.MonthlyTariffs, second.MonthlyTariffs)
}

func TestBeforeSave_NonFiniteStoredValues(t *testing.T) {
	store := sliceStore{
		{"customer_name": "acme", "kw": math.Inf(1), "kwh": math.Inf(1), "timestamp": "2024-01-15T02:00:00"},
		{"customer_name": "acme", "kw": 2.0, "kwh": 20.0, "timestamp": "2024-01-15T02:00:00"},
	}
	calc := calculator.New(store, discardLog{}, calculator.Options{Location: time.UTC})

	doc := &models.CalculationEntry{CustomerName: "acme"}
	require.NoError(t, New(calc).BeforeSave(context.Background(), doc, "before_save"))

	assert.Equal(t, 11.0, doc.OverallAvg)
	assert.Equal(t, `{"2024-01":{"low_tariff":1,"high_tariff":0}}`, doc.MonthlyTariffs)
}

func TestDecodeTariffs(t *testing.T) {
	monthly, err := DecodeTariffs(`{"2024-01":{"low_tariff":1,"high_tariff":6}}`)
	require.NoError(t, err)
	assert.Equal(t, models.MonthlyTariffs{"2024-01": {LowTariff: 1, HighTariff: 6}}, monthly)

	monthly, err = DecodeTariffs("")
	require.NoError(t, err)
	assert.Empty(t, monthly)

	_, err = DecodeTariffs("{not json")
	assert.Error(t, err)
}

// Package calculator computes average usage and time-of-use tariffs for
// Calculation Entry records.
package calculator

import (
	"context"
	"time"

	"github.com/jgoulah/gridtariff/pkg/models"
)

// Store is the read side of the record store
type Store interface {
	GetAll(ctx context.Context, doctype string, filters map[string]any, fields []string) ([]models.Record, error)
}

// ErrorLogger receives failures that the calculator absorbs
type ErrorLogger interface {
	LogError(title, message string)
}

// Rates holds the per-period multipliers applied to average kWh
type Rates struct {
	Low  float64
	High float64
}

// DefaultRates are the low and high period rates
var DefaultRates = Rates{Low: 0.1, High: 0.3}

// Options configures a Calculator. Zero values select the defaults.
type Options struct {
	Rates    Rates
	Location *time.Location   // used for naive timestamps and epoch values (default time.Local)
	Now      func() time.Time // clock used when a timestamp cannot be classified
}

// Calculator runs the aggregations against a Store
type Calculator struct {
	store Store
	log   ErrorLogger
	rates Rates
	loc   *time.Location
	now   func() time.Time
}

// New creates a calculator reading from store and reporting failures to log
func New(store Store, log ErrorLogger, opts Options) *Calculator {
	c := &Calculator{
		store: store,
		log:   log,
		rates: opts.Rates,
		loc:   opts.Location,
		now:   opts.Now,
	}
	if c.rates == (Rates{}) {
		c.rates = DefaultRates
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Rates returns the rates in effect
func (c *Calculator) Rates() Rates {
	return c.rates
}

func customerFilters(customer string) map[string]any {
	filters := map[string]any{}
	if customer != "" {
		filters["customer_name"] = customer
	}
	return filters
}

// Package fx converts multi-currency totals into an organization's base
// currency using a sparse table of directional rates.
package fx

import (
	"finance/internal/models"

	"github.com/shopspring/decimal"
)

// divisionPlaces bounds the precision of inverted rates.
const divisionPlaces = 16

type pair struct {
	from string
	to   string
}

// RateTable holds at most one stored direction per currency pair and derives
// the other direction by inversion on read.
type RateTable struct {
	rates map[pair]decimal.Decimal
}

func NewRateTable(defaults []models.ExchangeDefault) RateTable {
	rates := make(map[pair]decimal.Decimal, len(defaults))
	for _, d := range defaults {
		if !d.Rate.IsPositive() {
			continue
		}
		rates[pair{from: d.FromCurrency, to: d.ToCurrency}] = d.Rate
	}
	return RateTable{rates: rates}
}

// RateToBase returns the factor f such that amountInBase = amountInCurrency × f.
// A stored (base → currency, R) yields R; a stored (currency → base, R)
// yields 1/R. The boolean is false when neither direction is stored.
func (t RateTable) RateToBase(base, currency string) (decimal.Decimal, bool) {
	if base == currency {
		return decimal.NewFromInt(1), true
	}
	if rate, ok := t.rates[pair{from: base, to: currency}]; ok {
		return rate, true
	}
	if rate, ok := t.rates[pair{from: currency, to: base}]; ok {
		return decimal.NewFromInt(1).DivRound(rate, divisionPlaces), true
	}
	return decimal.Zero, false
}

package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"finance/internal/money"

	"github.com/shopspring/decimal"
)

var (
	errInvalidAmount = errors.New("invalid amount")
	errInvalidRate   = errors.New("invalid rate")
)

// parseAmount reads a positive amount for currency. The returned code is the
// error code to send back when parsing fails.
func parseAmount(raw, currency string) (decimal.Decimal, string, error) {
	amount, err := money.ParseAmount(raw, currency)
	if errors.Is(err, money.ErrTooManyDecimals) {
		return decimal.Zero, "too_many_decimals", err
	}
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, "invalid_amount", errInvalidAmount
	}
	return amount, "", nil
}

// parseRate accepts up to ten fraction digits, the column scale.
func parseRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errInvalidRate
	}
	if !rate.Equal(rate.Round(10)) {
		return decimal.Zero, errInvalidRate
	}
	return rate, nil
}

// optionalString distinguishes an absent JSON field from an explicit null.
func optionalString(raw json.RawMessage) (*string, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, err
	}
	return &value, true, nil
}

func emptyToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}

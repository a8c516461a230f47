package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// MaxAmount is the exclusive upper bound of a storable amount.
var MaxAmount = decimal.New(1, 18)

// DisplayLocale is the locale used by Format.
var DisplayLocale = language.BrazilianPortuguese

var zeroDecimalCurrencies = map[string]struct{}{
	"ARS": {},
	"CLP": {},
	"COP": {},
	"MXN": {},
	"PYG": {},
	"DOP": {},
	"UYU": {},
	"PEN": {},
}

// Decimals returns the number of fraction digits used by currency.
// Unknown codes use two.
func Decimals(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[NormalizeCode(currency)]; ok {
		return 0
	}
	return 2
}

// Round rounds half away from zero to the currency's smallest unit.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(Decimals(currency))
}

// FitsPrecision reports whether amount has no digits below the currency's smallest unit.
func FitsPrecision(amount decimal.Decimal, currency string) bool {
	return amount.Equal(Round(amount, currency))
}

// String renders amount as a plain fixed-point string, the wire representation.
func String(amount decimal.Decimal, currency string) string {
	return Round(amount, currency).StringFixed(Decimals(currency))
}

// Format renders amount for display, e.g. "1.234,56 USD". The integer part
// is grouped by the locale and the fraction digits are copied exactly, so no
// float conversion takes place. Amounts outside the storable range are
// rendered without grouping.
func Format(amount decimal.Decimal, currency string) string {
	code := NormalizeCode(currency)
	places := Decimals(code)
	rounded := Round(amount, code)
	if !WithinRange(rounded) {
		return rounded.StringFixed(places) + " " + code
	}
	printer := message.NewPrinter(DisplayLocale)
	whole := rounded.Abs().Truncate(0)
	text := printer.Sprint(number.Decimal(whole.IntPart()))
	if places > 0 {
		fraction := rounded.Abs().Sub(whole).Shift(places).IntPart()
		text += decimalSeparator(printer) + fmt.Sprintf("%0*d", places, fraction)
	}
	if rounded.IsNegative() {
		text = "-" + text
	}
	return text + " " + code
}

// WithinRange reports whether amount fits the NUMERIC(20,2) amount columns.
func WithinRange(amount decimal.Decimal) bool {
	return amount.Abs().LessThan(MaxAmount)
}

func decimalSeparator(printer *message.Printer) string {
	sample := printer.Sprint(number.Decimal(1.5, number.Scale(1)))
	return strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "5")
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseAmount parses a plain decimal string ("1234.5", "-3", "+0.25") and
// rejects fractions finer than the currency allows.
func ParseAmount(input, currency string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	negative := false
	switch trimmed[0] {
	case '-':
		negative = true
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}
	parts := strings.SplitN(trimmed, ".", 2)
	wholePart := parts[0]
	if wholePart == "" {
		wholePart = "0"
	}
	if !isDigits(wholePart) {
		return decimal.Zero, ErrInvalidAmount
	}
	fracPart := ""
	if len(parts) == 2 {
		fracPart = strings.TrimRight(parts[1], "0")
		if parts[1] == "" || !isDigits(parts[1]) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if int32(len(fracPart)) > Decimals(currency) {
		return decimal.Zero, ErrTooManyDecimals
	}
	raw := wholePart
	if fracPart != "" {
		raw += "." + fracPart
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

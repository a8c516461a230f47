package validator

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidDate     = errors.New("invalid date")
)

const DateLayout = "2006-01-02"

var (
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

func ValidateCurrency(code string) error {
	if !currencyRegex.MatchString(code) {
		return ErrInvalidCurrency
	}
	return nil
}

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > 120 {
		return ErrInvalidName
	}
	return nil
}

// ParseDate parses a calendar date and returns it at UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

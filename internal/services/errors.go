package services

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Validation errors: the caller can fix the input.
var (
	ErrInvalidAmount             = errors.New("invalid amount")
	ErrTooManyDecimals           = errors.New("amount has too many decimal places for currency")
	ErrInvalidExchangeRate       = errors.New("invalid exchange rate")
	ErrSameAccountTransfer       = errors.New("cannot transfer to same account")
	ErrCurrencyMismatch          = errors.New("currency does not match account")
	ErrInvalidCurrency           = errors.New("invalid currency code")
	ErrInvalidName               = errors.New("invalid name")
	ErrInvalidAccountType        = errors.New("invalid account type")
	ErrInvalidTransactionType    = errors.New("invalid transaction type")
	ErrInvalidStatus             = errors.New("invalid status")
	ErrInvalidDate               = errors.New("invalid date")
	ErrCategoryNotInOrganization = errors.New("category does not belong to organization")
	ErrSameCurrencyPair          = errors.New("exchange pair needs two different currencies")
	ErrReverseRateExists         = errors.New("reverse exchange pair already stored")
	ErrInvalidSpread             = errors.New("invalid spread")
	ErrEmptyUpdate               = errors.New("nothing to update")
	ErrTransferAmountTooSmall    = errors.New("converted amount rounds to zero in destination currency")
	ErrAmountOutOfRange          = errors.New("amount exceeds storable range")
)

// Not-found errors: the referenced id is unknown within the organization.
var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrAccountNotFound         = errors.New("account not found")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrTransferNotFound        = errors.New("transfer not found")
	ErrBudgetNotFound          = errors.New("budget not found")
	ErrExchangeDefaultNotFound = errors.New("exchange default not found")
)

var validationErrors = []error{
	ErrInvalidAmount, ErrTooManyDecimals, ErrInvalidExchangeRate, ErrSameAccountTransfer,
	ErrCurrencyMismatch, ErrInvalidCurrency, ErrInvalidName, ErrInvalidAccountType,
	ErrInvalidTransactionType, ErrInvalidStatus, ErrInvalidDate, ErrCategoryNotInOrganization,
	ErrSameCurrencyPair, ErrReverseRateExists, ErrInvalidSpread, ErrEmptyUpdate,
	ErrTransferAmountTooSmall, ErrAmountOutOfRange,
}

// Column bounds: rates are NUMERIC(20,10) and spreads NUMERIC(7,4).
var (
	maxExchangeRate = decimal.New(1, 10)
	maxSpreadPct    = decimal.New(1, 3)
)

func rateWithinRange(rate decimal.Decimal) bool {
	return rate.LessThan(maxExchangeRate)
}

var notFoundErrors = []error{
	ErrOrganizationNotFound, ErrAccountNotFound, ErrTransactionNotFound,
	ErrTransferNotFound, ErrBudgetNotFound, ErrExchangeDefaultNotFound,
}

func IsValidation(err error) bool {
	return matchesAny(err, validationErrors)
}

func IsNotFound(err error) bool {
	return matchesAny(err, notFoundErrors)
}

func matchesAny(err error, targets []error) bool {
	if err == nil {
		return false
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

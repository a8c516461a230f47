package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeBank  AccountType = "bank"
	AccountTypeCard  AccountType = "card"
	AccountTypeCash  AccountType = "cash"
	AccountTypeOther AccountType = "other"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCard, AccountTypeCash, AccountTypeOther:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

type TransactionStatus string

const (
	StatusRealized TransactionStatus = "realizado"
	StatusPlanned  TransactionStatus = "previsto"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusRealized || s == StatusPlanned
}

type Organization struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BaseCurrency string    `json:"base_currency"`
	CreatedAt    time.Time `json:"created_at"`
}

type Account struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	Name           string      `json:"name"`
	Currency       string      `json:"currency"`
	Type           AccountType `json:"type"`
	CreatedAt      time.Time   `json:"created_at"`
}

type Category struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

// Budget with a nil CategoryID is a general budget.
type Budget struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	CategoryID     *string         `json:"category_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (b Budget) IsGeneral() bool {
	return b.CategoryID == nil
}

// Transaction is one ledger row. Amount is a positive magnitude in the
// account's currency; the sign comes from Type.
type Transaction struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	AccountID      string            `json:"account_id"`
	CategoryID     *string           `json:"category_id"`
	Type           TransactionType   `json:"type"`
	Status         TransactionStatus `json:"status"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	Date           time.Time         `json:"date"`
	Note           *string           `json:"note"`
	TransferID     *string           `json:"transfer_id"`
	ExchangeRate   decimal.Decimal   `json:"exchange_rate"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (t Transaction) IsTransferLeg() bool {
	return t.TransferID != nil
}

// Signed returns the amount with income positive and expense negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ExchangeDefault stores one direction of a currency pair: one unit of
// ToCurrency is worth Rate units of FromCurrency.
type ExchangeDefault struct {
	OrganizationID string          `json:"organization_id"`
	FromCurrency   string          `json:"from_currency"`
	ToCurrency     string          `json:"to_currency"`
	Rate           decimal.Decimal `json:"rate"`
	SpreadPct      decimal.Decimal `json:"spread_pct"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

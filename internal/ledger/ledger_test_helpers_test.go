package ledger

import (
	"time"

	"finance/internal/models"

	"github.com/shopspring/decimal"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(value string) *string {
	return &value
}

type rowOption func(*models.Transaction)

func withCategory(id string) rowOption {
	return func(t *models.Transaction) { t.CategoryID = strPtr(id) }
}

func withTransfer(id string) rowOption {
	return func(t *models.Transaction) { t.TransferID = strPtr(id) }
}

func withStatus(status models.TransactionStatus) rowOption {
	return func(t *models.Transaction) { t.Status = status }
}

func withDate(date time.Time) rowOption {
	return func(t *models.Transaction) { t.Date = date }
}

func withID(id string) rowOption {
	return func(t *models.Transaction) { t.ID = id }
}

func row(accountID string, txType models.TransactionType, amount, currency string, opts ...rowOption) models.Transaction {
	t := models.Transaction{
		ID:           accountID + "-" + string(txType) + "-" + amount,
		AccountID:    accountID,
		Type:         txType,
		Status:       models.StatusRealized,
		Amount:       decimal.RequireFromString(amount),
		Currency:     currency,
		Date:         day(2024, time.March, 10),
		ExchangeRate: decimal.NewFromInt(1),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

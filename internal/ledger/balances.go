// Package ledger derives read-only views from transaction rows: account
// balances, monthly expense totals, budget consumption and the grouped
// activity feed.
package ledger

import (
	"sort"

	"finance/internal/models"

	"github.com/shopspring/decimal"
)

type AccountBalance struct {
	AccountID string          `json:"account_id"`
	Currency  string          `json:"currency"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountBalances sums realized rows per account. Every account in accounts
// appears in the result even without activity; rows for accounts not in the
// list are reported too, keyed by the row's own currency. Transfer legs count.
func AccountBalances(accounts []models.Account, rows []models.Transaction) []AccountBalance {
	byAccount := make(map[string]*AccountBalance, len(accounts))
	order := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if _, ok := byAccount[account.ID]; ok {
			continue
		}
		byAccount[account.ID] = &AccountBalance{AccountID: account.ID, Currency: account.Currency}
		order = append(order, account.ID)
	}
	for _, row := range rows {
		if row.Status != models.StatusRealized {
			continue
		}
		entry, ok := byAccount[row.AccountID]
		if !ok {
			entry = &AccountBalance{AccountID: row.AccountID, Currency: row.Currency}
			byAccount[row.AccountID] = entry
			order = append(order, row.AccountID)
		}
		switch row.Type {
		case models.TransactionTypeIncome:
			entry.Income = entry.Income.Add(row.Amount)
		case models.TransactionTypeExpense:
			entry.Expense = entry.Expense.Add(row.Amount)
		}
	}
	result := make([]AccountBalance, 0, len(order))
	for _, id := range order {
		entry := byAccount[id]
		entry.Balance = entry.Income.Sub(entry.Expense)
		result = append(result, *entry)
	}
	return result
}

// NetByCurrency returns income minus expense of realized rows per currency.
func NetByCurrency(rows []models.Transaction) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, row := range rows {
		if row.Status != models.StatusRealized || !row.Type.Valid() {
			continue
		}
		totals[row.Currency] = totals[row.Currency].Add(row.Signed())
	}
	return totals
}

func sortedKeys(values map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

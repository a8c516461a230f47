package ledger

import (
	"sort"
	"time"

	"finance/internal/models"

	"github.com/shopspring/decimal"
)

// Scope of an ExpenseTotal row.
type Scope string

const (
	ScopeCategory      Scope = "category"
	ScopeUncategorized Scope = "uncategorized"
	ScopeAll           Scope = "all"
)

// ExpenseTotal is the realized, non-transfer spending of one month for a
// (category, currency) pair. CategoryID is set only for ScopeCategory.
type ExpenseTotal struct {
	Scope      Scope           `json:"scope"`
	CategoryID *string         `json:"category_id"`
	Currency   string          `json:"currency"`
	Total      decimal.Decimal `json:"total"`
}

type expenseKey struct {
	scope      Scope
	categoryID string
	currency   string
}

// MonthBounds returns the first day of anchor's month and the first day of
// the following month, both at UTC midnight.
func MonthBounds(anchor time.Time) (time.Time, time.Time) {
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func inMonth(date, anchor time.Time) bool {
	return date.Year() == anchor.Year() && date.Month() == anchor.Month()
}

// MonthExpenseTotals groups realized expenses of anchor's month by category
// and currency, plus one ScopeAll row per currency. Transfer legs and planned
// rows are skipped.
func MonthExpenseTotals(rows []models.Transaction, anchor time.Time) []ExpenseTotal {
	totals := map[expenseKey]decimal.Decimal{}
	for _, row := range rows {
		if row.Type != models.TransactionTypeExpense || row.Status != models.StatusRealized {
			continue
		}
		if row.IsTransferLeg() || !inMonth(row.Date, anchor) {
			continue
		}
		key := expenseKey{scope: ScopeUncategorized, currency: row.Currency}
		if row.CategoryID != nil {
			key = expenseKey{scope: ScopeCategory, categoryID: *row.CategoryID, currency: row.Currency}
		}
		totals[key] = totals[key].Add(row.Amount)
		all := expenseKey{scope: ScopeAll, currency: row.Currency}
		totals[all] = totals[all].Add(row.Amount)
	}
	result := make([]ExpenseTotal, 0, len(totals))
	for key, total := range totals {
		item := ExpenseTotal{Scope: key.scope, Currency: key.currency, Total: total}
		if key.scope == ScopeCategory {
			categoryID := key.categoryID
			item.CategoryID = &categoryID
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Currency != result[j].Currency {
			return result[i].Currency < result[j].Currency
		}
		if result[i].Scope != result[j].Scope {
			return scopeRank(result[i].Scope) < scopeRank(result[j].Scope)
		}
		return derefString(result[i].CategoryID) < derefString(result[j].CategoryID)
	})
	return result
}

// ExpenseIndex looks up month totals by scope.
type ExpenseIndex map[expenseKey]decimal.Decimal

func IndexExpenseTotals(totals []ExpenseTotal) ExpenseIndex {
	index := make(ExpenseIndex, len(totals))
	for _, total := range totals {
		index[expenseKey{scope: total.Scope, categoryID: derefString(total.CategoryID), currency: total.Currency}] = total.Total
	}
	return index
}

// Category returns the category's total in currency, zero when absent.
func (idx ExpenseIndex) Category(categoryID, currency string) decimal.Decimal {
	return idx[expenseKey{scope: ScopeCategory, categoryID: categoryID, currency: currency}]
}

// All returns the all-categories total in currency, zero when absent.
func (idx ExpenseIndex) All(currency string) decimal.Decimal {
	return idx[expenseKey{scope: ScopeAll, currency: currency}]
}

func scopeRank(scope Scope) int {
	switch scope {
	case ScopeAll:
		return 0
	case ScopeCategory:
		return 1
	default:
		return 2
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

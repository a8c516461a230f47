package ledger

import (
	"finance/internal/models"

	"github.com/shopspring/decimal"
)

type BudgetConsumption struct {
	Budget    models.Budget   `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Overspent bool            `json:"overspent"`
}

// SummaryLine is the rolled-up limit and spending for one currency.
type SummaryLine struct {
	Currency  string          `json:"currency"`
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type BudgetSummary struct {
	GeneralOnly    bool          `json:"general_only"`
	Lines          []SummaryLine `json:"lines"`
	OverspentCount int           `json:"overspent_count"`
}

// Consumption matches each budget to its month total: category budgets to
// (category, currency), general budgets to (all, currency). Missing totals
// count as zero.
func Consumption(budgets []models.Budget, index ExpenseIndex) []BudgetConsumption {
	result := make([]BudgetConsumption, 0, len(budgets))
	for _, budget := range budgets {
		var spent decimal.Decimal
		if budget.IsGeneral() {
			spent = index.All(budget.Currency)
		} else {
			spent = index.Category(*budget.CategoryID, budget.Currency)
		}
		result = append(result, BudgetConsumption{
			Budget:    budget,
			Spent:     spent,
			Remaining: budget.Amount.Sub(spent),
			Overspent: spent.GreaterThan(budget.Amount),
		})
	}
	return result
}

// Summarize rolls consumption up per currency. When any general budget
// exists only general budgets are summed; otherwise all category budgets are.
func Summarize(items []BudgetConsumption) BudgetSummary {
	generalOnly := false
	for _, item := range items {
		if item.Budget.IsGeneral() {
			generalOnly = true
			break
		}
	}
	limits := map[string]decimal.Decimal{}
	spent := map[string]decimal.Decimal{}
	summary := BudgetSummary{GeneralOnly: generalOnly}
	for _, item := range items {
		if item.Budget.IsGeneral() != generalOnly {
			continue
		}
		currency := item.Budget.Currency
		limits[currency] = limits[currency].Add(item.Budget.Amount)
		spent[currency] = spent[currency].Add(item.Spent)
		if item.Overspent {
			summary.OverspentCount++
		}
	}
	currencies := sortedKeys(limits)
	summary.Lines = make([]SummaryLine, 0, len(currencies))
	for _, currency := range currencies {
		summary.Lines = append(summary.Lines, SummaryLine{
			Currency:  currency,
			Limit:     limits[currency],
			Spent:     spent[currency],
			Remaining: limits[currency].Sub(spent[currency]),
		})
	}
	return summary
}

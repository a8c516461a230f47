package ledger

import (
	"testing"
	"time"

	"finance/internal/models"
)

func TestConsumptionMatchesScopes(t *testing.T) {
	rows := []models.Transaction{
		row("a1", models.TransactionTypeExpense, "150", "USD", withCategory("food")),
		row("a1", models.TransactionTypeExpense, "50", "USD"),
	}
	index := IndexExpenseTotals(MonthExpenseTotals(rows, day(2024, time.March, 1)))
	budgets := []models.Budget{
		{ID: "general", Amount: dec("1000"), Currency: "USD"},
		{ID: "food", CategoryID: strPtr("food"), Amount: dec("100"), Currency: "USD"},
		{ID: "food-eur", CategoryID: strPtr("food"), Amount: dec("100"), Currency: "EUR"},
	}
	items := Consumption(budgets, index)
	if !items[0].Spent.Equal(dec("200")) || items[0].Overspent {
		t.Fatalf("unexpected general consumption: %#v", items[0])
	}
	if !items[1].Spent.Equal(dec("150")) || !items[1].Overspent || !items[1].Remaining.Equal(dec("-50")) {
		t.Fatalf("unexpected food consumption: %#v", items[1])
	}
	if !items[2].Spent.IsZero() {
		t.Fatalf("missing currency should be zero: %#v", items[2])
	}
}

func TestSummarizeGeneralBudgetWins(t *testing.T) {
	items := Consumption([]models.Budget{
		{ID: "general", Amount: dec("1000"), Currency: "USD"},
		{ID: "food", CategoryID: strPtr("food"), Amount: dec("200"), Currency: "USD"},
	}, IndexExpenseTotals(nil))
	summary := Summarize(items)
	if !summary.GeneralOnly {
		t.Fatalf("expected general-only summary")
	}
	if len(summary.Lines) != 1 || !summary.Lines[0].Limit.Equal(dec("1000")) {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestSummarizeCategoryBudgetsPerCurrency(t *testing.T) {
	rows := []models.Transaction{
		row("a1", models.TransactionTypeExpense, "300", "USD", withCategory("food")),
	}
	index := IndexExpenseTotals(MonthExpenseTotals(rows, day(2024, time.March, 1)))
	items := Consumption([]models.Budget{
		{ID: "food", CategoryID: strPtr("food"), Amount: dec("200"), Currency: "USD"},
		{ID: "fun", CategoryID: strPtr("fun"), Amount: dec("50"), Currency: "USD"},
		{ID: "food-brl", CategoryID: strPtr("food"), Amount: dec("900"), Currency: "BRL"},
	}, index)
	summary := Summarize(items)
	if summary.GeneralOnly {
		t.Fatalf("expected category summary")
	}
	if len(summary.Lines) != 2 || summary.Lines[0].Currency != "BRL" || summary.Lines[1].Currency != "USD" {
		t.Fatalf("unexpected lines: %#v", summary.Lines)
	}
	usd := summary.Lines[1]
	if !usd.Limit.Equal(dec("250")) || !usd.Spent.Equal(dec("300")) || !usd.Remaining.Equal(dec("-50")) {
		t.Fatalf("unexpected USD line: %#v", usd)
	}
	if summary.OverspentCount != 1 {
		t.Fatalf("unexpected overspent count: %d", summary.OverspentCount)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.GeneralOnly || len(summary.Lines) != 0 || summary.OverspentCount != 0 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

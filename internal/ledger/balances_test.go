package ledger

import (
	"testing"

	"finance/internal/models"
)

func TestAccountBalancesRealizedOnly(t *testing.T) {
	accounts := []models.Account{
		{ID: "a1", Currency: "USD"},
		{ID: "a2", Currency: "BRL"},
		{ID: "idle", Currency: "EUR"},
	}
	rows := []models.Transaction{
		row("a1", models.TransactionTypeIncome, "1000", "USD"),
		row("a1", models.TransactionTypeExpense, "250.50", "USD"),
		row("a1", models.TransactionTypeIncome, "9999", "USD", withStatus(models.StatusPlanned)),
		row("a1", models.TransactionTypeExpense, "9999", "USD", withStatus(models.StatusPlanned)),
		row("a1", models.TransactionTypeExpense, "100", "USD", withTransfer("tr-1")),
		row("a2", models.TransactionTypeIncome, "520", "BRL", withTransfer("tr-1")),
	}
	balances := AccountBalances(accounts, rows)
	if len(balances) != 3 {
		t.Fatalf("unexpected balances: %#v", balances)
	}
	want := map[string]string{"a1": "649.5", "a2": "520", "idle": "0"}
	for _, balance := range balances {
		if !balance.Balance.Equal(dec(want[balance.AccountID])) {
			t.Fatalf("account %s: got %s want %s", balance.AccountID, balance.Balance, want[balance.AccountID])
		}
	}
}

func TestAccountBalancesToleratesUnknownAccount(t *testing.T) {
	rows := []models.Transaction{
		row("gone", models.TransactionTypeIncome, "10", "USD", withTransfer("tr-9")),
	}
	balances := AccountBalances(nil, rows)
	if len(balances) != 1 || balances[0].AccountID != "gone" || !balances[0].Balance.Equal(dec("10")) {
		t.Fatalf("unexpected balances: %#v", balances)
	}
}

func TestNetByCurrencyIgnoresPlanned(t *testing.T) {
	rows := []models.Transaction{
		row("a1", models.TransactionTypeIncome, "100", "USD"),
		row("a1", models.TransactionTypeExpense, "40", "USD"),
		row("a2", models.TransactionTypeExpense, "10", "BRL"),
		row("a2", models.TransactionTypeIncome, "500", "BRL", withStatus(models.StatusPlanned)),
	}
	net := NetByCurrency(rows)
	if !net["USD"].Equal(dec("60")) || !net["BRL"].Equal(dec("-10")) {
		t.Fatalf("unexpected net: %#v", net)
	}
}

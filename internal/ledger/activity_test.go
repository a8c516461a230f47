package ledger

import (
	"testing"
	"time"

	"finance/internal/models"
)

func TestGroupActivityBuildsTransfer(t *testing.T) {
	rows := []models.Transaction{
		row("a1", models.TransactionTypeExpense, "100", "USD", withTransfer("tr-1"), withID("leg-out"), withDate(day(2024, time.March, 10))),
		row("a2", models.TransactionTypeIncome, "520", "BRL", withTransfer("tr-1"), withID("leg-in"), withDate(day(2024, time.March, 12)), withStatus(models.StatusPlanned)),
		row("a1", models.TransactionTypeExpense, "9", "USD", withID("coffee"), withDate(day(2024, time.March, 11))),
	}
	items := GroupActivity(rows)
	if len(items) != 2 {
		t.Fatalf("unexpected items: %#v", items)
	}
	transfer := items[0]
	if transfer.Kind != ItemTransfer || transfer.TransferID != "tr-1" {
		t.Fatalf("expected transfer first, got %#v", transfer)
	}
	if !transfer.Date.Equal(day(2024, time.March, 12)) {
		t.Fatalf("expected later leg date, got %v", transfer.Date)
	}
	if transfer.Status != models.StatusPlanned {
		t.Fatalf("expected planned status, got %s", transfer.Status)
	}
	if transfer.From.ID != "leg-out" || transfer.To.ID != "leg-in" {
		t.Fatalf("unexpected legs: %#v %#v", transfer.From, transfer.To)
	}
	if items[1].Kind != ItemSingle || items[1].Transaction.ID != "coffee" {
		t.Fatalf("unexpected single: %#v", items[1])
	}
}

func TestGroupActivityOrphanLegIsSingle(t *testing.T) {
	rows := []models.Transaction{
		row("a2", models.TransactionTypeIncome, "520", "BRL", withTransfer("tr-1"), withID("leg-in")),
	}
	items := GroupActivity(rows)
	if len(items) != 1 || items[0].Kind != ItemSingle || items[0].Transaction.ID != "leg-in" {
		t.Fatalf("unexpected items: %#v", items)
	}
	if items[0].Status != models.StatusRealized {
		t.Fatalf("unexpected status: %s", items[0].Status)
	}
}

func TestGroupActivityTwoSameTypeLegsStaySingle(t *testing.T) {
	rows := []models.Transaction{
		row("a1", models.TransactionTypeExpense, "1", "USD", withTransfer("tr-2"), withID("x")),
		row("a2", models.TransactionTypeExpense, "2", "USD", withTransfer("tr-2"), withID("y")),
	}
	items := GroupActivity(rows)
	if len(items) != 2 || items[0].Kind != ItemSingle || items[1].Kind != ItemSingle {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestGroupActivityBothRealized(t *testing.T) {
	rows := []models.Transaction{
		row("a2", models.TransactionTypeIncome, "100", "USD", withTransfer("tr-3"), withID("in")),
		row("a1", models.TransactionTypeExpense, "100", "USD", withTransfer("tr-3"), withID("out")),
	}
	items := GroupActivity(rows)
	if len(items) != 1 || items[0].Status != models.StatusRealized || items[0].From.ID != "out" {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestGroupActivityExtraGroupRowsStaySingle(t *testing.T) {
	rows := []models.Transaction{
		row("a1", models.TransactionTypeExpense, "100", "USD", withTransfer("tr-4"), withID("e1"), withDate(day(2024, time.March, 12))),
		row("a2", models.TransactionTypeIncome, "100", "USD", withTransfer("tr-4"), withID("i1"), withDate(day(2024, time.March, 12))),
		row("a1", models.TransactionTypeExpense, "5", "USD", withTransfer("tr-4"), withID("e2"), withDate(day(2024, time.March, 11))),
		row("a2", models.TransactionTypeIncome, "5", "USD", withTransfer("tr-4"), withID("i2"), withDate(day(2024, time.March, 10))),
	}
	items := GroupActivity(rows)
	if len(items) != 3 {
		t.Fatalf("expected one transfer and two singles, got %#v", items)
	}
	if items[0].Kind != ItemTransfer || items[0].From.ID != "e1" || items[0].To.ID != "i1" {
		t.Fatalf("unexpected transfer: %#v", items[0])
	}
	if items[1].Kind != ItemSingle || items[1].Transaction.ID != "e2" {
		t.Fatalf("expected e2 as single, got %#v", items[1])
	}
	if items[2].Kind != ItemSingle || items[2].Transaction.ID != "i2" {
		t.Fatalf("expected i2 as single, got %#v", items[2])
	}
}

func TestGroupActivityThirdLegIsKept(t *testing.T) {
	rows := []models.Transaction{
		row("a1", models.TransactionTypeExpense, "100", "USD", withTransfer("tr-5"), withID("e1")),
		row("a2", models.TransactionTypeIncome, "100", "USD", withTransfer("tr-5"), withID("i1")),
		row("a1", models.TransactionTypeExpense, "7", "USD", withTransfer("tr-5"), withID("e2")),
	}
	items := GroupActivity(rows)
	seen := map[string]int{}
	for _, item := range items {
		if item.Kind == ItemTransfer {
			seen[item.From.ID+"/"+item.To.ID]++
		} else {
			seen[item.Transaction.ID]++
		}
	}
	if len(items) != 2 || seen["e1/i1"] != 1 || seen["e2"] != 1 {
		t.Fatalf("unexpected grouping: %v", seen)
	}
}

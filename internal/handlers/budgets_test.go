package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"finance/internal/models"

	"github.com/shopspring/decimal"
)

func TestCreateBudgetGeneral(t *testing.T) {
	var gotCategory *string
	var gotAmount decimal.Decimal
	handler := newTestHandler(stubCatalog{
		createBudgetFn: func(_ context.Context, _, _ string, categoryID *string, amount decimal.Decimal, currency string) (models.Budget, error) {
			gotCategory, gotAmount = categoryID, amount
			return models.Budget{ID: "b-1", Amount: amount, Currency: currency}, nil
		},
	}, stubLedger{}, stubReports{}).Routes()
	rr := serveAuthorized(t, handler, http.MethodPost, "/organizations/org-1/budgets", `{"amount":"1000","currency":"USD"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotCategory != nil || !gotAmount.Equal(dec("1000")) {
		t.Fatalf("unexpected budget request: %v %s", gotCategory, gotAmount)
	}
}

func TestCreateBudgetRejectsBadAmount(t *testing.T) {
	handler := newTestHandler(stubCatalog{}, stubLedger{}, stubReports{}).Routes()
	rr := serveAuthorized(t, handler, http.MethodPost, "/organizations/org-1/budgets", `{"amount":"abc","currency":"USD"}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "invalid_amount") {
		t.Fatalf("expected invalid_amount, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBudgetOverviewInvalidMonth(t *testing.T) {
	handler := newTestHandler(stubCatalog{}, stubLedger{}, stubReports{}).Routes()
	rr := serveAuthorized(t, handler, http.MethodGet, "/organizations/org-1/budgets/overview?month=2024-13-01", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

package handlers

import (
	"context"
	"net/http"
	"testing"

	"finance/internal/models"
	"finance/internal/services"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCreateTransactionWithoutRate(t *testing.T) {
	var got services.TransactionRequest
	handler := newTestHandler(stubCatalog{}, stubLedger{
		createTransactionFn: func(_ context.Context, req services.TransactionRequest) (models.Transaction, error) {
			got = req
			return models.Transaction{ID: "tx-1"}, nil
		},
	}, stubReports{}).Routes()
	body := `{"account_id":"a1","type":"expense","amount":"12.50","currency":"USD","date":"2024-03-01","category_id":""}`
	rr := serveAuthorized(t, handler, http.MethodPost, "/organizations/org-1/transactions", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !got.ExchangeRate.IsZero() || got.CategoryID != nil || got.Type != models.TransactionTypeExpense {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestCreateTransactionInvalidDate(t *testing.T) {
	handler := newTestHandler(stubCatalog{}, stubLedger{}, stubReports{}).Routes()
	body := `{"account_id":"a1","type":"expense","amount":"1","currency":"USD","date":"03/01/2024"}`
	rr := serveAuthorized(t, handler, http.MethodPost, "/organizations/org-1/transactions", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpdateTransactionDistinguishesNullFromAbsent(t *testing.T) {
	var got services.TransactionPatch
	handler := newTestHandler(stubCatalog{}, stubLedger{
		updateTransactionFn: func(_ context.Context, _, _, _ string, patch services.TransactionPatch) (models.Transaction, error) {
			got = patch
			return models.Transaction{}, nil
		},
	}, stubReports{}).Routes()
	rr := serveAuthorized(t, handler, http.MethodPatch, "/organizations/org-1/transactions/tx-1", `{"note":null,"status":"realizado"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !got.NoteSet || got.Note != nil {
		t.Fatalf("expected note to be cleared: %+v", got)
	}
	if got.CategorySet {
		t.Fatalf("category was not sent and must stay untouched")
	}
	if got.Status == nil || *got.Status != models.StatusRealized {
		t.Fatalf("unexpected status: %v", got.Status)
	}
}

func TestDeleteTransactionNoContent(t *testing.T) {
	var gotID string
	handler := newTestHandler(stubCatalog{}, stubLedger{
		deleteTransactionFn: func(_ context.Context, _, _ string, transactionID string) error {
			gotID = transactionID
			return nil
		},
	}, stubReports{}).Routes()
	rr := serveAuthorized(t, handler, http.MethodDelete, "/organizations/org-1/transactions/tx-7", "")
	if rr.Code != http.StatusNoContent || gotID != "tx-7" {
		t.Fatalf("expected 204 for tx-7, got %d (%s)", rr.Code, gotID)
	}
}

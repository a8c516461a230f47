package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance/internal/auth"
	"finance/internal/config"
	"finance/internal/fx"
	"finance/internal/ledger"
	"finance/internal/logging"
	"finance/internal/models"
	"finance/internal/services"
	"finance/internal/store"
	"finance/internal/websocket"

	"github.com/shopspring/decimal"
)

type stubMemberStore struct {
	member bool
}

func (s stubMemberStore) IsMember(context.Context, string, string) (bool, error) {
	return s.member, nil
}

type stubCatalog struct {
	createAccountFn         func(ctx context.Context, orgID, actorID, name, currency string, accountType models.AccountType) (models.Account, error)
	createBudgetFn          func(ctx context.Context, orgID, actorID string, categoryID *string, amount decimal.Decimal, currency string) (models.Budget, error)
	upsertExchangeDefaultFn func(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string, rate decimal.Decimal, spreadPct *decimal.Decimal) (models.ExchangeDefault, error)
	deleteExchangeDefaultFn func(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string) error
}

func (s stubCatalog) CreateOrganization(_ context.Context, creatorID, name, baseCurrency string) (models.Organization, error) {
	return models.Organization{ID: "org-new", Name: name, BaseCurrency: baseCurrency}, nil
}

func (s stubCatalog) GetOrganization(_ context.Context, orgID string) (models.Organization, error) {
	return models.Organization{ID: orgID, BaseCurrency: "USD"}, nil
}

func (s stubCatalog) UpdateBaseCurrency(_ context.Context, orgID, _ string, currency string) (models.Organization, error) {
	return models.Organization{ID: orgID, BaseCurrency: currency}, nil
}

func (s stubCatalog) CreateAccount(ctx context.Context, orgID, actorID, name, currency string, accountType models.AccountType) (models.Account, error) {
	if s.createAccountFn == nil {
		return models.Account{ID: "acc-1", OrganizationID: orgID, Name: name, Currency: currency, Type: accountType}, nil
	}
	return s.createAccountFn(ctx, orgID, actorID, name, currency, accountType)
}

func (s stubCatalog) ListAccounts(context.Context, string) ([]models.Account, error) {
	return []models.Account{}, nil
}

func (s stubCatalog) CreateCategory(_ context.Context, orgID, _ string, name string) (models.Category, error) {
	return models.Category{ID: "cat-1", OrganizationID: orgID, Name: name}, nil
}

func (s stubCatalog) ListCategories(context.Context, string) ([]models.Category, error) {
	return []models.Category{}, nil
}

func (s stubCatalog) CreateBudget(ctx context.Context, orgID, actorID string, categoryID *string, amount decimal.Decimal, currency string) (models.Budget, error) {
	if s.createBudgetFn == nil {
		return models.Budget{ID: "b-1", OrganizationID: orgID, CategoryID: categoryID, Amount: amount, Currency: currency}, nil
	}
	return s.createBudgetFn(ctx, orgID, actorID, categoryID, amount, currency)
}

func (s stubCatalog) ListBudgets(context.Context, string) ([]models.Budget, error) {
	return []models.Budget{}, nil
}

func (s stubCatalog) UpdateBudget(_ context.Context, orgID, _ string, budgetID string, amount *decimal.Decimal, currency *string) (models.Budget, error) {
	return models.Budget{ID: budgetID, OrganizationID: orgID}, nil
}

func (s stubCatalog) DeleteBudget(context.Context, string, string, string) error {
	return nil
}

func (s stubCatalog) ListExchangeDefaults(context.Context, string) ([]models.ExchangeDefault, error) {
	return []models.ExchangeDefault{}, nil
}

func (s stubCatalog) UpsertExchangeDefault(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string, rate decimal.Decimal, spreadPct *decimal.Decimal) (models.ExchangeDefault, error) {
	if s.upsertExchangeDefaultFn == nil {
		return models.ExchangeDefault{OrganizationID: orgID, FromCurrency: fromCurrency, ToCurrency: toCurrency, Rate: rate}, nil
	}
	return s.upsertExchangeDefaultFn(ctx, orgID, actorID, fromCurrency, toCurrency, rate, spreadPct)
}

func (s stubCatalog) DeleteExchangeDefault(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string) error {
	if s.deleteExchangeDefaultFn == nil {
		return nil
	}
	return s.deleteExchangeDefaultFn(ctx, orgID, actorID, fromCurrency, toCurrency)
}

type stubLedger struct {
	createTransferFn       func(ctx context.Context, req services.TransferRequest) (services.Transfer, error)
	createTransactionFn    func(ctx context.Context, req services.TransactionRequest) (models.Transaction, error)
	updateTransactionFn    func(ctx context.Context, orgID, actorID, transactionID string, patch services.TransactionPatch) (models.Transaction, error)
	deleteTransactionFn    func(ctx context.Context, orgID, actorID, transactionID string) error
	deleteTransferFn       func(ctx context.Context, orgID, actorID, transferID string) error
	updateTransferStatusFn func(ctx context.Context, orgID, actorID, transferID string, status models.TransactionStatus) error
}

func (s stubLedger) CreateTransfer(ctx context.Context, req services.TransferRequest) (services.Transfer, error) {
	if s.createTransferFn == nil {
		return services.Transfer{}, nil
	}
	return s.createTransferFn(ctx, req)
}

func (s stubLedger) CreateTransaction(ctx context.Context, req services.TransactionRequest) (models.Transaction, error) {
	if s.createTransactionFn == nil {
		return models.Transaction{}, nil
	}
	return s.createTransactionFn(ctx, req)
}

func (s stubLedger) UpdateTransaction(ctx context.Context, orgID, actorID, transactionID string, patch services.TransactionPatch) (models.Transaction, error) {
	if s.updateTransactionFn == nil {
		return models.Transaction{}, nil
	}
	return s.updateTransactionFn(ctx, orgID, actorID, transactionID, patch)
}

func (s stubLedger) DeleteTransaction(ctx context.Context, orgID, actorID, transactionID string) error {
	if s.deleteTransactionFn == nil {
		return nil
	}
	return s.deleteTransactionFn(ctx, orgID, actorID, transactionID)
}

func (s stubLedger) DeleteTransfer(ctx context.Context, orgID, actorID, transferID string) error {
	if s.deleteTransferFn == nil {
		return nil
	}
	return s.deleteTransferFn(ctx, orgID, actorID, transferID)
}

func (s stubLedger) UpdateTransferStatus(ctx context.Context, orgID, actorID, transferID string, status models.TransactionStatus) error {
	if s.updateTransferStatusFn == nil {
		return nil
	}
	return s.updateTransferStatusFn(ctx, orgID, actorID, transferID, status)
}

type stubReports struct {
	expenseTotalsFn func(ctx context.Context, orgID string, anchor time.Time) ([]ledger.ExpenseTotal, error)
	orgBalanceFn    func(ctx context.Context, orgID string) (fx.OrgBalance, error)
	auditFn         func(ctx context.Context, orgID string, limit, offset int) ([]store.AuditEntry, error)
}

func (s stubReports) ListTransactions(context.Context, string, *time.Time) ([]models.Transaction, error) {
	return []models.Transaction{}, nil
}

func (s stubReports) ListActivity(context.Context, string, *time.Time) ([]ledger.ActivityItem, error) {
	return []ledger.ActivityItem{}, nil
}

func (s stubReports) ListAccountBalances(context.Context, string) ([]ledger.AccountBalance, error) {
	return []ledger.AccountBalance{}, nil
}

func (s stubReports) ListMonthExpenseTotals(ctx context.Context, orgID string, anchor time.Time) ([]ledger.ExpenseTotal, error) {
	if s.expenseTotalsFn == nil {
		return []ledger.ExpenseTotal{}, nil
	}
	return s.expenseTotalsFn(ctx, orgID, anchor)
}

func (s stubReports) BudgetOverview(context.Context, string, time.Time) (services.BudgetOverview, error) {
	return services.BudgetOverview{}, nil
}

func (s stubReports) ComputeOrgBalance(ctx context.Context, orgID string) (fx.OrgBalance, error) {
	if s.orgBalanceFn == nil {
		return fx.OrgBalance{}, nil
	}
	return s.orgBalanceFn(ctx, orgID)
}

func (s stubReports) ListAuditLog(ctx context.Context, orgID string, limit, offset int) ([]store.AuditEntry, error) {
	if s.auditFn == nil {
		return []store.AuditEntry{}, nil
	}
	return s.auditFn(ctx, orgID, limit, offset)
}

func newTestHandler(catalog CatalogService, ledgerService LedgerService, reports ReportService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		JWTSecret:      "secret",
		AllowedOrigins: "*",
	}
	return New(cfg, logging.Discard(), catalog, ledgerService, reports, stubMemberStore{member: true}, websocket.NewHub())
}

func serveAuthorized(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rr, req)
	return rr
}

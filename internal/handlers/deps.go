package handlers

import (
	"context"
	"time"

	"finance/internal/fx"
	"finance/internal/ledger"
	"finance/internal/models"
	"finance/internal/services"
	"finance/internal/store"

	"github.com/shopspring/decimal"
)

type CatalogService interface {
	CreateOrganization(ctx context.Context, creatorID, name, baseCurrency string) (models.Organization, error)
	GetOrganization(ctx context.Context, orgID string) (models.Organization, error)
	UpdateBaseCurrency(ctx context.Context, orgID, actorID, currency string) (models.Organization, error)
	CreateAccount(ctx context.Context, orgID, actorID, name, currency string, accountType models.AccountType) (models.Account, error)
	ListAccounts(ctx context.Context, orgID string) ([]models.Account, error)
	CreateCategory(ctx context.Context, orgID, actorID, name string) (models.Category, error)
	ListCategories(ctx context.Context, orgID string) ([]models.Category, error)
	CreateBudget(ctx context.Context, orgID, actorID string, categoryID *string, amount decimal.Decimal, currency string) (models.Budget, error)
	ListBudgets(ctx context.Context, orgID string) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, orgID, actorID, budgetID string, amount *decimal.Decimal, currency *string) (models.Budget, error)
	DeleteBudget(ctx context.Context, orgID, actorID, budgetID string) error
	ListExchangeDefaults(ctx context.Context, orgID string) ([]models.ExchangeDefault, error)
	UpsertExchangeDefault(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string, rate decimal.Decimal, spreadPct *decimal.Decimal) (models.ExchangeDefault, error)
	DeleteExchangeDefault(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string) error
}

type LedgerService interface {
	CreateTransfer(ctx context.Context, req services.TransferRequest) (services.Transfer, error)
	CreateTransaction(ctx context.Context, req services.TransactionRequest) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, orgID, actorID, transactionID string, patch services.TransactionPatch) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, orgID, actorID, transactionID string) error
	DeleteTransfer(ctx context.Context, orgID, actorID, transferID string) error
	UpdateTransferStatus(ctx context.Context, orgID, actorID, transferID string, status models.TransactionStatus) error
}

type ReportService interface {
	ListTransactions(ctx context.Context, orgID string, month *time.Time) ([]models.Transaction, error)
	ListActivity(ctx context.Context, orgID string, month *time.Time) ([]ledger.ActivityItem, error)
	ListAccountBalances(ctx context.Context, orgID string) ([]ledger.AccountBalance, error)
	ListMonthExpenseTotals(ctx context.Context, orgID string, anchor time.Time) ([]ledger.ExpenseTotal, error)
	BudgetOverview(ctx context.Context, orgID string, anchor time.Time) (services.BudgetOverview, error)
	ComputeOrgBalance(ctx context.Context, orgID string) (fx.OrgBalance, error)
	ListAuditLog(ctx context.Context, orgID string, limit, offset int) ([]store.AuditEntry, error)
}

package services

import (
	"context"
	"sync"

	"finance/internal/events"
	"finance/internal/models"
	"finance/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func strPtr(value string) *string {
	return &value
}

type stubAccountStore struct {
	getForShareFn func(ctx context.Context, tx store.Getter, orgID, accountID string) (models.Account, error)
	createFn      func(ctx context.Context, tx store.Execer, account models.Account) error
	listFn        func(ctx context.Context, orgID string) ([]models.Account, error)
}

func (s stubAccountStore) GetForShare(ctx context.Context, tx store.Getter, orgID, accountID string) (models.Account, error) {
	return s.getForShareFn(ctx, tx, orgID, accountID)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Execer, account models.Account) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, account)
}

func (s stubAccountStore) ListByOrganization(ctx context.Context, orgID string) ([]models.Account, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, orgID)
}

type stubCategoryStore struct {
	existsFn func(ctx context.Context, orgID, categoryID string) (bool, error)
	createFn func(ctx context.Context, tx store.Execer, category models.Category) error
}

func (s stubCategoryStore) Exists(ctx context.Context, orgID, categoryID string) (bool, error) {
	if s.existsFn == nil {
		return true, nil
	}
	return s.existsFn(ctx, orgID, categoryID)
}

func (s stubCategoryStore) Create(ctx context.Context, tx store.Execer, category models.Category) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, category)
}

func (s stubCategoryStore) ListByOrganization(context.Context, string) ([]models.Category, error) {
	return nil, nil
}

type stubTransactionStore struct {
	insertFn               func(ctx context.Context, tx store.Execer, rows []models.Transaction) error
	getForUpdateFn         func(ctx context.Context, tx store.Getter, orgID, transactionID string) (models.Transaction, error)
	updateDetailsFn        func(ctx context.Context, tx store.Execer, t models.Transaction) (int64, error)
	deleteFn               func(ctx context.Context, tx store.Execer, orgID, transactionID string) (int64, error)
	deleteByTransferFn     func(ctx context.Context, tx store.Selecter, orgID, transferID string) ([]string, error)
	updateTransferStatusFn func(ctx context.Context, tx store.Selecter, orgID, transferID string, status models.TransactionStatus) ([]string, error)
	listFn                 func(ctx context.Context, orgID string, filter store.TransactionFilter) ([]models.Transaction, error)
}

func (s stubTransactionStore) Insert(ctx context.Context, tx store.Execer, rows []models.Transaction) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, rows)
}

func (s stubTransactionStore) GetForUpdate(ctx context.Context, tx store.Getter, orgID, transactionID string) (models.Transaction, error) {
	return s.getForUpdateFn(ctx, tx, orgID, transactionID)
}

func (s stubTransactionStore) UpdateDetails(ctx context.Context, tx store.Execer, t models.Transaction) (int64, error) {
	if s.updateDetailsFn == nil {
		return 1, nil
	}
	return s.updateDetailsFn(ctx, tx, t)
}

func (s stubTransactionStore) Delete(ctx context.Context, tx store.Execer, orgID, transactionID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, orgID, transactionID)
}

func (s stubTransactionStore) DeleteByTransfer(ctx context.Context, tx store.Selecter, orgID, transferID string) ([]string, error) {
	return s.deleteByTransferFn(ctx, tx, orgID, transferID)
}

func (s stubTransactionStore) UpdateTransferStatus(ctx context.Context, tx store.Selecter, orgID, transferID string, status models.TransactionStatus) ([]string, error) {
	return s.updateTransferStatusFn(ctx, tx, orgID, transferID, status)
}

func (s stubTransactionStore) List(ctx context.Context, orgID string, filter store.TransactionFilter) ([]models.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, orgID, filter)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, entry store.AuditEntry) error
	listFn func(ctx context.Context, orgID string, limit, offset int) ([]store.AuditEntry, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, entry store.AuditEntry) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, entry)
}

func (s stubAuditStore) List(ctx context.Context, orgID string, limit, offset int) ([]store.AuditEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, orgID, limit, offset)
}

type recordingPublisher struct {
	mu     sync.Mutex
	err    error
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type stubOrganizationStore struct {
	createFn             func(ctx context.Context, tx store.Execer, org models.Organization) error
	getByIDFn            func(ctx context.Context, orgID string) (models.Organization, error)
	updateBaseCurrencyFn func(ctx context.Context, tx store.Execer, orgID, currency string) (int64, error)
}

func (s stubOrganizationStore) Create(ctx context.Context, tx store.Execer, org models.Organization) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, org)
}

func (s stubOrganizationStore) GetByID(ctx context.Context, orgID string) (models.Organization, error) {
	return s.getByIDFn(ctx, orgID)
}

func (s stubOrganizationStore) UpdateBaseCurrency(ctx context.Context, tx store.Execer, orgID, currency string) (int64, error) {
	if s.updateBaseCurrencyFn == nil {
		return 1, nil
	}
	return s.updateBaseCurrencyFn(ctx, tx, orgID, currency)
}

type stubMemberStore struct {
	addFn func(ctx context.Context, tx store.Execer, orgID, userID string) error
}

func (s stubMemberStore) Add(ctx context.Context, tx store.Execer, orgID, userID string) error {
	if s.addFn == nil {
		return nil
	}
	return s.addFn(ctx, tx, orgID, userID)
}

type stubBudgetStore struct {
	createFn  func(ctx context.Context, tx store.Execer, budget models.Budget) error
	getByIDFn func(ctx context.Context, orgID, budgetID string) (models.Budget, error)
	listFn    func(ctx context.Context, orgID string) ([]models.Budget, error)
	updateFn  func(ctx context.Context, tx store.Execer, budget models.Budget) (int64, error)
	deleteFn  func(ctx context.Context, tx store.Execer, orgID, budgetID string) (int64, error)
}

func (s stubBudgetStore) Create(ctx context.Context, tx store.Execer, budget models.Budget) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, budget)
}

func (s stubBudgetStore) GetByID(ctx context.Context, orgID, budgetID string) (models.Budget, error) {
	return s.getByIDFn(ctx, orgID, budgetID)
}

func (s stubBudgetStore) ListByOrganization(ctx context.Context, orgID string) ([]models.Budget, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, orgID)
}

func (s stubBudgetStore) Update(ctx context.Context, tx store.Execer, budget models.Budget) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, budget)
}

func (s stubBudgetStore) Delete(ctx context.Context, tx store.Execer, orgID, budgetID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, orgID, budgetID)
}

type stubExchangeStore struct {
	listFn       func(ctx context.Context, orgID string) ([]models.ExchangeDefault, error)
	pairExistsFn func(ctx context.Context, tx store.Getter, orgID, fromCurrency, toCurrency string) (bool, error)
	upsertFn     func(ctx context.Context, tx store.Getter, rate models.ExchangeDefault) (models.ExchangeDefault, error)
	deleteFn     func(ctx context.Context, tx store.Execer, orgID, fromCurrency, toCurrency string) (int64, error)
}

func (s stubExchangeStore) ListByOrganization(ctx context.Context, orgID string) ([]models.ExchangeDefault, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, orgID)
}

func (s stubExchangeStore) PairExists(ctx context.Context, tx store.Getter, orgID, fromCurrency, toCurrency string) (bool, error) {
	if s.pairExistsFn == nil {
		return false, nil
	}
	return s.pairExistsFn(ctx, tx, orgID, fromCurrency, toCurrency)
}

func (s stubExchangeStore) Upsert(ctx context.Context, tx store.Getter, rate models.ExchangeDefault) (models.ExchangeDefault, error) {
	if s.upsertFn == nil {
		return rate, nil
	}
	return s.upsertFn(ctx, tx, rate)
}

func (s stubExchangeStore) Delete(ctx context.Context, tx store.Execer, orgID, fromCurrency, toCurrency string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, orgID, fromCurrency, toCurrency)
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"finance/internal/fx"
	"finance/internal/ledger"
	"finance/internal/models"
	"finance/internal/store"

	"golang.org/x/sync/errgroup"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// ReportService derives read models from the transaction set. Every figure
// is recomputed from stored rows on each call.
type ReportService struct {
	organizations OrganizationReader
	accounts      AccountLister
	budgets       BudgetLister
	transactions  TransactionLister
	exchange      ExchangeLister
	audit         AuditLister
}

type OrganizationReader interface {
	GetByID(ctx context.Context, orgID string) (models.Organization, error)
}

type AccountLister interface {
	ListByOrganization(ctx context.Context, orgID string) ([]models.Account, error)
}

type BudgetLister interface {
	ListByOrganization(ctx context.Context, orgID string) ([]models.Budget, error)
}

type TransactionLister interface {
	List(ctx context.Context, orgID string, filter store.TransactionFilter) ([]models.Transaction, error)
}

type ExchangeLister interface {
	ListByOrganization(ctx context.Context, orgID string) ([]models.ExchangeDefault, error)
}

type AuditLister interface {
	List(ctx context.Context, orgID string, limit, offset int) ([]store.AuditEntry, error)
}

type ReportStores struct {
	Organizations OrganizationReader
	Accounts      AccountLister
	Budgets       BudgetLister
	Transactions  TransactionLister
	Exchange      ExchangeLister
	Audit         AuditLister
}

func NewReportService(stores ReportStores) *ReportService {
	return &ReportService{
		organizations: stores.Organizations,
		accounts:      stores.Accounts,
		budgets:       stores.Budgets,
		transactions:  stores.Transactions,
		exchange:      stores.Exchange,
		audit:         stores.Audit,
	}
}

// ListTransactions returns rows newest first. A non-nil month restricts the
// result to the calendar month containing it.
func (s *ReportService) ListTransactions(ctx context.Context, orgID string, month *time.Time) ([]models.Transaction, error) {
	filter := store.TransactionFilter{}
	if month != nil {
		start, end := ledger.MonthBounds(*month)
		filter.From = &start
		filter.To = &end
	}
	return s.transactions.List(ctx, orgID, filter)
}

func (s *ReportService) ListActivity(ctx context.Context, orgID string, month *time.Time) ([]ledger.ActivityItem, error) {
	rows, err := s.ListTransactions(ctx, orgID, month)
	if err != nil {
		return nil, err
	}
	return ledger.GroupActivity(rows), nil
}

func (s *ReportService) ListAccountBalances(ctx context.Context, orgID string) ([]ledger.AccountBalance, error) {
	accounts, rows, err := s.accountsAndRealized(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return ledger.AccountBalances(accounts, rows), nil
}

func (s *ReportService) ListMonthExpenseTotals(ctx context.Context, orgID string, anchor time.Time) ([]ledger.ExpenseTotal, error) {
	rows, err := s.realizedInMonth(ctx, orgID, anchor)
	if err != nil {
		return nil, err
	}
	return ledger.MonthExpenseTotals(rows, anchor), nil
}

type BudgetOverview struct {
	Month   string                     `json:"month"`
	Budgets []ledger.BudgetConsumption `json:"budgets"`
	Summary ledger.BudgetSummary       `json:"summary"`
}

func (s *ReportService) BudgetOverview(ctx context.Context, orgID string, anchor time.Time) (BudgetOverview, error) {
	var (
		budgets []models.Budget
		rows    []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListByOrganization(gctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.realizedInMonth(gctx, orgID, anchor)
		return err
	})
	if err := g.Wait(); err != nil {
		return BudgetOverview{}, err
	}
	index := ledger.IndexExpenseTotals(ledger.MonthExpenseTotals(rows, anchor))
	items := ledger.Consumption(budgets, index)
	start, _ := ledger.MonthBounds(anchor)
	return BudgetOverview{
		Month:   start.Format("2006-01"),
		Budgets: items,
		Summary: ledger.Summarize(items),
	}, nil
}

// ComputeOrgBalance loads the organization, its rate table, accounts and
// realized rows concurrently, then converts everything to the base currency.
func (s *ReportService) ComputeOrgBalance(ctx context.Context, orgID string) (fx.OrgBalance, error) {
	var (
		org      models.Organization
		defaults []models.ExchangeDefault
		accounts []models.Account
		rows     []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		org, err = s.organizations.GetByID(gctx, orgID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrganizationNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		defaults, err = s.exchange.ListByOrganization(gctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.ListByOrganization(gctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.transactions.List(gctx, orgID, store.TransactionFilter{Status: models.StatusRealized})
		return err
	})
	if err := g.Wait(); err != nil {
		return fx.OrgBalance{}, err
	}
	return fx.Resolve(org.BaseCurrency, fx.NewRateTable(defaults), accounts, rows), nil
}

// ListAuditLog pages through audit entries, newest first.
func (s *ReportService) ListAuditLog(ctx context.Context, orgID string, limit, offset int) ([]store.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.audit.List(ctx, orgID, limit, offset)
}

func (s *ReportService) accountsAndRealized(ctx context.Context, orgID string) ([]models.Account, []models.Transaction, error) {
	var (
		accounts []models.Account
		rows     []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.ListByOrganization(gctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.transactions.List(gctx, orgID, store.TransactionFilter{Status: models.StatusRealized})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return accounts, rows, nil
}

func (s *ReportService) realizedInMonth(ctx context.Context, orgID string, anchor time.Time) ([]models.Transaction, error) {
	start, end := ledger.MonthBounds(anchor)
	return s.transactions.List(ctx, orgID, store.TransactionFilter{
		From:   &start,
		To:     &end,
		Status: models.StatusRealized,
	})
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"finance/internal/db"
	"finance/internal/models"
	"finance/internal/money"
	"finance/internal/store"
	"finance/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CatalogService manages the reference data the ledger points at:
// organizations, accounts, categories, budgets and exchange defaults.
type CatalogService struct {
	txRunner            db.TxRunner
	organizations       OrganizationStore
	members             MemberWriter
	accounts            AccountStore
	categories          CategoryStore
	budgets             BudgetStore
	exchange            ExchangeStore
	audit               AuditStore
	log                 logrus.FieldLogger
	defaultBaseCurrency string
	now                 func() time.Time
}

type OrganizationStore interface {
	Create(ctx context.Context, tx store.Execer, org models.Organization) error
	GetByID(ctx context.Context, orgID string) (models.Organization, error)
	UpdateBaseCurrency(ctx context.Context, tx store.Execer, orgID, currency string) (int64, error)
}

type MemberWriter interface {
	Add(ctx context.Context, tx store.Execer, orgID, userID string) error
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, account models.Account) error
	ListByOrganization(ctx context.Context, orgID string) ([]models.Account, error)
}

type CategoryStore interface {
	Create(ctx context.Context, tx store.Execer, category models.Category) error
	Exists(ctx context.Context, orgID, categoryID string) (bool, error)
	ListByOrganization(ctx context.Context, orgID string) ([]models.Category, error)
}

type BudgetStore interface {
	Create(ctx context.Context, tx store.Execer, budget models.Budget) error
	GetByID(ctx context.Context, orgID, budgetID string) (models.Budget, error)
	ListByOrganization(ctx context.Context, orgID string) ([]models.Budget, error)
	Update(ctx context.Context, tx store.Execer, budget models.Budget) (int64, error)
	Delete(ctx context.Context, tx store.Execer, orgID, budgetID string) (int64, error)
}

type ExchangeStore interface {
	ListByOrganization(ctx context.Context, orgID string) ([]models.ExchangeDefault, error)
	PairExists(ctx context.Context, tx store.Getter, orgID, fromCurrency, toCurrency string) (bool, error)
	Upsert(ctx context.Context, tx store.Getter, rate models.ExchangeDefault) (models.ExchangeDefault, error)
	Delete(ctx context.Context, tx store.Execer, orgID, fromCurrency, toCurrency string) (int64, error)
}

type CatalogStores struct {
	Organizations OrganizationStore
	Members       MemberWriter
	Accounts      AccountStore
	Categories    CategoryStore
	Budgets       BudgetStore
	Exchange      ExchangeStore
	Audit         AuditStore
}

func NewCatalogService(txRunner db.TxRunner, stores CatalogStores, defaultBaseCurrency string, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		txRunner:            txRunner,
		organizations:       stores.Organizations,
		members:             stores.Members,
		accounts:            stores.Accounts,
		categories:          stores.Categories,
		budgets:             stores.Budgets,
		exchange:            stores.Exchange,
		audit:               stores.Audit,
		log:                 log,
		defaultBaseCurrency: money.NormalizeCode(defaultBaseCurrency),
		now:                 time.Now,
	}
}

// CreateOrganization stores the organization and makes creatorID its first
// member in the same transaction.
func (s *CatalogService) CreateOrganization(ctx context.Context, creatorID, name, baseCurrency string) (models.Organization, error) {
	name = strings.TrimSpace(name)
	if err := validator.ValidateName(name); err != nil {
		return models.Organization{}, ErrInvalidName
	}
	currency := money.NormalizeCode(baseCurrency)
	if currency == "" {
		currency = s.defaultBaseCurrency
	}
	if err := validator.ValidateCurrency(currency); err != nil {
		return models.Organization{}, ErrInvalidCurrency
	}
	org := models.Organization{
		ID:           uuid.NewString(),
		Name:         name,
		BaseCurrency: currency,
		CreatedAt:    s.now().UTC(),
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.organizations.Create(ctx, tx, org); err != nil {
			return err
		}
		if err := s.members.Add(ctx, tx, org.ID, creatorID); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, auditEntry(org.ID, creatorID, "organization.create", "organization", org.ID, map[string]string{
			"base_currency": currency,
		}))
	})
	if err != nil {
		return models.Organization{}, err
	}
	s.log.WithFields(logrus.Fields{"org_id": org.ID, "base_currency": currency}).Info("organization created")
	return org, nil
}

func (s *CatalogService) GetOrganization(ctx context.Context, orgID string) (models.Organization, error) {
	org, err := s.organizations.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Organization{}, ErrOrganizationNotFound
		}
		return models.Organization{}, err
	}
	return org, nil
}

// UpdateBaseCurrency changes the reporting currency. Stored rows and
// exchange defaults are left as they are.
func (s *CatalogService) UpdateBaseCurrency(ctx context.Context, orgID, actorID, currency string) (models.Organization, error) {
	currency = money.NormalizeCode(currency)
	if err := validator.ValidateCurrency(currency); err != nil {
		return models.Organization{}, ErrInvalidCurrency
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.organizations.UpdateBaseCurrency(ctx, tx, orgID, currency)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrganizationNotFound
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "organization.base_currency", "organization", orgID, map[string]string{
			"base_currency": currency,
		}))
	})
	if err != nil {
		return models.Organization{}, err
	}
	return s.GetOrganization(ctx, orgID)
}

func (s *CatalogService) CreateAccount(ctx context.Context, orgID, actorID, name, currency string, accountType models.AccountType) (models.Account, error) {
	name = strings.TrimSpace(name)
	currency = money.NormalizeCode(currency)
	if accountType == "" {
		accountType = models.AccountTypeBank
	}
	switch {
	case validator.ValidateName(name) != nil:
		return models.Account{}, ErrInvalidName
	case validator.ValidateCurrency(currency) != nil:
		return models.Account{}, ErrInvalidCurrency
	case !accountType.Valid():
		return models.Account{}, ErrInvalidAccountType
	}
	account := models.Account{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		Currency:       currency,
		Type:           accountType,
		CreatedAt:      s.now().UTC(),
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.accounts.Create(ctx, tx, account); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "account.create", "account", account.ID, map[string]string{
			"currency": currency,
		}))
	})
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (s *CatalogService) ListAccounts(ctx context.Context, orgID string) ([]models.Account, error) {
	return s.accounts.ListByOrganization(ctx, orgID)
}

func (s *CatalogService) CreateCategory(ctx context.Context, orgID, actorID, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validator.ValidateName(name); err != nil {
		return models.Category{}, ErrInvalidName
	}
	category := models.Category{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		CreatedAt:      s.now().UTC(),
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.categories.Create(ctx, tx, category); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "category.create", "category", category.ID, nil))
	})
	if err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, orgID string) ([]models.Category, error) {
	return s.categories.ListByOrganization(ctx, orgID)
}

func (s *CatalogService) CreateBudget(ctx context.Context, orgID, actorID string, categoryID *string, amount decimal.Decimal, currency string) (models.Budget, error) {
	currency = money.NormalizeCode(currency)
	if err := validateBudget(amount, currency); err != nil {
		return models.Budget{}, err
	}
	if err := s.checkCategory(ctx, orgID, categoryID); err != nil {
		return models.Budget{}, err
	}
	budget := models.Budget{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		CategoryID:     categoryID,
		Amount:         amount,
		Currency:       currency,
		CreatedAt:      s.now().UTC(),
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.budgets.Create(ctx, tx, budget); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "budget.create", "budget", budget.ID, map[string]string{
			"amount":   money.String(amount, currency),
			"currency": currency,
		}))
	})
	if err != nil {
		return models.Budget{}, err
	}
	return budget, nil
}

func (s *CatalogService) ListBudgets(ctx context.Context, orgID string) ([]models.Budget, error) {
	return s.budgets.ListByOrganization(ctx, orgID)
}

// UpdateBudget changes the limit and/or currency of a budget. Nil arguments
// keep the stored value.
func (s *CatalogService) UpdateBudget(ctx context.Context, orgID, actorID, budgetID string, amount *decimal.Decimal, currency *string) (models.Budget, error) {
	if amount == nil && currency == nil {
		return models.Budget{}, ErrEmptyUpdate
	}
	budget, err := s.budgets.GetByID(ctx, orgID, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Budget{}, ErrBudgetNotFound
		}
		return models.Budget{}, err
	}
	if amount != nil {
		budget.Amount = *amount
	}
	if currency != nil {
		budget.Currency = money.NormalizeCode(*currency)
	}
	if err := validateBudget(budget.Amount, budget.Currency); err != nil {
		return models.Budget{}, err
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.budgets.Update(ctx, tx, budget)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBudgetNotFound
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "budget.update", "budget", budgetID, map[string]string{
			"amount":   money.String(budget.Amount, budget.Currency),
			"currency": budget.Currency,
		}))
	})
	if err != nil {
		return models.Budget{}, err
	}
	return budget, nil
}

func (s *CatalogService) DeleteBudget(ctx context.Context, orgID, actorID, budgetID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.budgets.Delete(ctx, tx, orgID, budgetID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBudgetNotFound
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "budget.delete", "budget", budgetID, nil))
	})
}

func validateBudget(amount decimal.Decimal, currency string) error {
	if validator.ValidateCurrency(currency) != nil {
		return ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !money.WithinRange(amount) {
		return ErrAmountOutOfRange
	}
	if !money.FitsPrecision(amount, currency) {
		return ErrTooManyDecimals
	}
	return nil
}

func (s *CatalogService) ListExchangeDefaults(ctx context.Context, orgID string) ([]models.ExchangeDefault, error) {
	return s.exchange.ListByOrganization(ctx, orgID)
}

// UpsertExchangeDefault stores the rate for (from, to). Only one direction of
// a pair may exist, so the call fails when (to, from) is already stored.
func (s *CatalogService) UpsertExchangeDefault(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string, rate decimal.Decimal, spreadPct *decimal.Decimal) (models.ExchangeDefault, error) {
	fromCurrency = money.NormalizeCode(fromCurrency)
	toCurrency = money.NormalizeCode(toCurrency)
	spread := decimal.Zero
	if spreadPct != nil {
		spread = *spreadPct
	}
	switch {
	case validator.ValidateCurrency(fromCurrency) != nil, validator.ValidateCurrency(toCurrency) != nil:
		return models.ExchangeDefault{}, ErrInvalidCurrency
	case fromCurrency == toCurrency:
		return models.ExchangeDefault{}, ErrSameCurrencyPair
	case !rate.IsPositive(), !rateWithinRange(rate):
		return models.ExchangeDefault{}, ErrInvalidExchangeRate
	case spread.IsNegative(), !spread.LessThan(maxSpreadPct), !spread.Equal(spread.Round(4)):
		return models.ExchangeDefault{}, ErrInvalidSpread
	}
	var saved models.ExchangeDefault
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		reverse, err := s.exchange.PairExists(ctx, tx, orgID, toCurrency, fromCurrency)
		if err != nil {
			return err
		}
		if reverse {
			return ErrReverseRateExists
		}
		saved, err = s.exchange.Upsert(ctx, tx, models.ExchangeDefault{
			OrganizationID: orgID,
			FromCurrency:   fromCurrency,
			ToCurrency:     toCurrency,
			Rate:           rate,
			SpreadPct:      spread,
		})
		if err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "exchange_default.upsert", "exchange_default", fromCurrency+"/"+toCurrency, map[string]string{
			"rate": rate.String(),
		}))
	})
	if err != nil {
		return models.ExchangeDefault{}, err
	}
	s.log.WithFields(logrus.Fields{
		"org_id": orgID,
		"pair":   fromCurrency + "/" + toCurrency,
		"rate":   rate.String(),
	}).Info("exchange default saved")
	return saved, nil
}

func (s *CatalogService) DeleteExchangeDefault(ctx context.Context, orgID, actorID, fromCurrency, toCurrency string) error {
	fromCurrency = money.NormalizeCode(fromCurrency)
	toCurrency = money.NormalizeCode(toCurrency)
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.exchange.Delete(ctx, tx, orgID, fromCurrency, toCurrency)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrExchangeDefaultNotFound
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "exchange_default.delete", "exchange_default", fromCurrency+"/"+toCurrency, nil))
	})
}

func (s *CatalogService) checkCategory(ctx context.Context, orgID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	ok, err := s.categories.Exists(ctx, orgID, *categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotInOrganization
	}
	return nil
}

package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"finance/internal/db"
	"finance/internal/events"
	"finance/internal/models"
	"finance/internal/money"
	"finance/internal/store"
	"finance/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LedgerService owns every write to the transactions table, including the
// two-leg representation of transfers.
type LedgerService struct {
	txRunner     db.TxRunner
	accounts     LedgerAccountStore
	categories   CategoryLookup
	transactions LedgerTransactionStore
	audit        AuditStore
	publisher    events.Publisher
	log          logrus.FieldLogger
	now          func() time.Time
}

type LedgerAccountStore interface {
	GetForShare(ctx context.Context, tx store.Getter, orgID, accountID string) (models.Account, error)
}

type CategoryLookup interface {
	Exists(ctx context.Context, orgID, categoryID string) (bool, error)
}

type LedgerTransactionStore interface {
	Insert(ctx context.Context, tx store.Execer, rows []models.Transaction) error
	GetForUpdate(ctx context.Context, tx store.Getter, orgID, transactionID string) (models.Transaction, error)
	UpdateDetails(ctx context.Context, tx store.Execer, t models.Transaction) (int64, error)
	Delete(ctx context.Context, tx store.Execer, orgID, transactionID string) (int64, error)
	DeleteByTransfer(ctx context.Context, tx store.Selecter, orgID, transferID string) ([]string, error)
	UpdateTransferStatus(ctx context.Context, tx store.Selecter, orgID, transferID string, status models.TransactionStatus) ([]string, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, entry store.AuditEntry) error
}

// NewLedgerService wires the coordinator. A nil publisher disables events.
func NewLedgerService(txRunner db.TxRunner, accounts LedgerAccountStore, categories CategoryLookup, transactions LedgerTransactionStore, audit AuditStore, publisher events.Publisher, log logrus.FieldLogger) *LedgerService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		audit:        audit,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

type TransferRequest struct {
	OrganizationID string
	ActorID        string
	FromAccountID  string
	ToAccountID    string
	CategoryID     *string
	Amount         decimal.Decimal
	ExchangeRate   decimal.Decimal
	CurrencyFrom   string
	CurrencyTo     string
	Date           time.Time
	Note           *string
	Status         models.TransactionStatus
}

type Transfer struct {
	TransferID string             `json:"transfer_id"`
	From       models.Transaction `json:"from"`
	To         models.Transaction `json:"to"`
}

// CreateTransfer records a transfer as an expense leg on the source account
// and an income leg on the destination account, written in one statement.
// The income leg carries amount × rate rounded to the destination currency.
func (s *LedgerService) CreateTransfer(ctx context.Context, req TransferRequest) (Transfer, error) {
	currencyFrom := money.NormalizeCode(req.CurrencyFrom)
	currencyTo := money.NormalizeCode(req.CurrencyTo)
	if err := validateTransfer(req, currencyFrom, currencyTo); err != nil {
		return Transfer{}, err
	}
	status := req.Status
	if status == "" {
		status = models.StatusRealized
	}
	if !status.Valid() {
		return Transfer{}, ErrInvalidStatus
	}
	if err := s.checkCategory(ctx, req.OrganizationID, req.CategoryID); err != nil {
		return Transfer{}, err
	}

	transferID := uuid.NewString()
	createdAt := s.now().UTC()
	note := normalizeNote(req.Note)
	from := models.Transaction{
		ID:             uuid.NewString(),
		OrganizationID: req.OrganizationID,
		AccountID:      req.FromAccountID,
		CategoryID:     req.CategoryID,
		Type:           models.TransactionTypeExpense,
		Status:         status,
		Amount:         req.Amount,
		Currency:       currencyFrom,
		Date:           req.Date,
		Note:           note,
		TransferID:     &transferID,
		ExchangeRate:   decimal.NewFromInt(1),
		CreatedAt:      createdAt,
	}
	to := from
	to.ID = uuid.NewString()
	to.AccountID = req.ToAccountID
	to.Type = models.TransactionTypeIncome
	to.Amount = money.Round(req.Amount.Mul(req.ExchangeRate), currencyTo)
	to.Currency = currencyTo
	to.ExchangeRate = req.ExchangeRate
	if !to.Amount.IsPositive() {
		return Transfer{}, ErrTransferAmountTooSmall
	}
	if !money.WithinRange(to.Amount) {
		return Transfer{}, ErrAmountOutOfRange
	}

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		fromAccount, toAccount, err := lockTwoAccounts(ctx, tx, s.accounts, req.OrganizationID, req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}
		if fromAccount.Currency != currencyFrom || toAccount.Currency != currencyTo {
			return ErrCurrencyMismatch
		}
		if err := s.transactions.Insert(ctx, tx, []models.Transaction{from, to}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, auditEntry(req.OrganizationID, req.ActorID, "transfer.create", "transfer", transferID, map[string]string{
			"from_transaction_id": from.ID,
			"to_transaction_id":   to.ID,
			"amount":              money.String(from.Amount, from.Currency),
			"exchange_rate":       to.ExchangeRate.String(),
		}))
	})
	if err != nil {
		return Transfer{}, err
	}
	s.log.WithFields(logrus.Fields{
		"org_id":      req.OrganizationID,
		"transfer_id": transferID,
		"from":        req.FromAccountID,
		"to":          req.ToAccountID,
	}).Info("transfer created")
	s.notify(ctx, events.Event{
		Type:           events.TransferCreated,
		OrganizationID: req.OrganizationID,
		TransactionIDs: []string{from.ID, to.ID},
		TransferID:     transferID,
	})
	return Transfer{TransferID: transferID, From: from, To: to}, nil
}

func validateTransfer(req TransferRequest, currencyFrom, currencyTo string) error {
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !money.WithinRange(req.Amount) {
		return ErrAmountOutOfRange
	}
	if !req.ExchangeRate.IsPositive() || !rateWithinRange(req.ExchangeRate) {
		return ErrInvalidExchangeRate
	}
	if req.FromAccountID == req.ToAccountID {
		return ErrSameAccountTransfer
	}
	if validator.ValidateCurrency(currencyFrom) != nil || validator.ValidateCurrency(currencyTo) != nil {
		return ErrInvalidCurrency
	}
	if !money.FitsPrecision(req.Amount, currencyFrom) {
		return ErrTooManyDecimals
	}
	if currencyFrom == currencyTo && !req.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		return ErrInvalidExchangeRate
	}
	if req.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

type TransactionRequest struct {
	OrganizationID string
	ActorID        string
	AccountID      string
	CategoryID     *string
	Type           models.TransactionType
	Status         models.TransactionStatus
	Amount         decimal.Decimal
	Currency       string
	Date           time.Time
	Note           *string
	TransferID     *string
	ExchangeRate   decimal.Decimal
}

// CreateTransaction records a single ledger row. A supplied transfer id is
// stored as given; no sibling leg is created.
func (s *LedgerService) CreateTransaction(ctx context.Context, req TransactionRequest) (models.Transaction, error) {
	currency := money.NormalizeCode(req.Currency)
	status := req.Status
	if status == "" {
		status = models.StatusRealized
	}
	rate := req.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	switch {
	case !req.Type.Valid():
		return models.Transaction{}, ErrInvalidTransactionType
	case !status.Valid():
		return models.Transaction{}, ErrInvalidStatus
	case !req.Amount.IsPositive():
		return models.Transaction{}, ErrInvalidAmount
	case !money.WithinRange(req.Amount):
		return models.Transaction{}, ErrAmountOutOfRange
	case !rate.IsPositive(), !rateWithinRange(rate):
		return models.Transaction{}, ErrInvalidExchangeRate
	case validator.ValidateCurrency(currency) != nil:
		return models.Transaction{}, ErrInvalidCurrency
	case !money.FitsPrecision(req.Amount, currency):
		return models.Transaction{}, ErrTooManyDecimals
	case req.Date.IsZero():
		return models.Transaction{}, ErrInvalidDate
	}
	if err := s.checkCategory(ctx, req.OrganizationID, req.CategoryID); err != nil {
		return models.Transaction{}, err
	}
	transaction := models.Transaction{
		ID:             uuid.NewString(),
		OrganizationID: req.OrganizationID,
		AccountID:      req.AccountID,
		CategoryID:     req.CategoryID,
		Type:           req.Type,
		Status:         status,
		Amount:         req.Amount,
		Currency:       currency,
		Date:           req.Date,
		Note:           normalizeNote(req.Note),
		TransferID:     req.TransferID,
		ExchangeRate:   rate,
		CreatedAt:      s.now().UTC(),
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForShare(ctx, tx, req.OrganizationID, req.AccountID)
		if err != nil {
			return accountLookupError(err)
		}
		if account.Currency != currency {
			return ErrCurrencyMismatch
		}
		if err := s.transactions.Insert(ctx, tx, []models.Transaction{transaction}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, auditEntry(req.OrganizationID, req.ActorID, "transaction.create", "transaction", transaction.ID, map[string]string{
			"type":   string(transaction.Type),
			"amount": money.String(transaction.Amount, transaction.Currency),
		}))
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.notify(ctx, events.Event{
		Type:           events.TransactionCreated,
		OrganizationID: req.OrganizationID,
		TransactionIDs: []string{transaction.ID},
		TransferID:     derefString(transaction.TransferID),
	})
	return transaction, nil
}

// TransactionPatch lists the fields UpdateTransaction may change. Note and
// CategoryID are applied only when their Set flag is true; a nil value then
// clears the field.
type TransactionPatch struct {
	Note        *string
	NoteSet     bool
	CategoryID  *string
	CategorySet bool
	Date        *time.Time
	Status      *models.TransactionStatus
}

func (p TransactionPatch) empty() bool {
	return !p.NoteSet && !p.CategorySet && p.Date == nil && p.Status == nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, orgID, actorID, transactionID string, patch TransactionPatch) (models.Transaction, error) {
	if patch.empty() {
		return models.Transaction{}, ErrEmptyUpdate
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return models.Transaction{}, ErrInvalidStatus
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return models.Transaction{}, ErrInvalidDate
	}
	if patch.CategorySet {
		if err := s.checkCategory(ctx, orgID, patch.CategoryID); err != nil {
			return models.Transaction{}, err
		}
	}
	var updated models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.transactions.GetForUpdate(ctx, tx, orgID, transactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if patch.NoteSet {
			current.Note = normalizeNote(patch.Note)
		}
		if patch.CategorySet {
			current.CategoryID = patch.CategoryID
		}
		if patch.Date != nil {
			current.Date = *patch.Date
		}
		if patch.Status != nil {
			current.Status = *patch.Status
		}
		affected, err := s.transactions.UpdateDetails(ctx, tx, current)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTransactionNotFound
		}
		updated = current
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "transaction.update", "transaction", transactionID, map[string]string{
			"status": string(current.Status),
		}))
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.notify(ctx, events.Event{
		Type:           events.TransactionUpdated,
		OrganizationID: orgID,
		TransactionIDs: []string{transactionID},
		TransferID:     derefString(updated.TransferID),
	})
	return updated, nil
}

// DeleteTransaction removes one row. Deleting a transfer leg this way leaves
// its sibling in place.
func (s *LedgerService) DeleteTransaction(ctx context.Context, orgID, actorID, transactionID string) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.transactions.Delete(ctx, tx, orgID, transactionID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTransactionNotFound
		}
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "transaction.delete", "transaction", transactionID, nil))
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.Event{
		Type:           events.TransactionDeleted,
		OrganizationID: orgID,
		TransactionIDs: []string{transactionID},
	})
	return nil
}

// DeleteTransfer removes every row sharing transferID, whether one or two.
func (s *LedgerService) DeleteTransfer(ctx context.Context, orgID, actorID, transferID string) error {
	var removed []string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		ids, err := s.transactions.DeleteByTransfer(ctx, tx, orgID, transferID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrTransferNotFound
		}
		removed = ids
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "transfer.delete", "transfer", transferID, map[string]string{
			"transaction_ids": strings.Join(ids, ","),
		}))
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"org_id":      orgID,
		"transfer_id": transferID,
		"legs":        len(removed),
	}).Info("transfer deleted")
	s.notify(ctx, events.Event{
		Type:           events.TransferDeleted,
		OrganizationID: orgID,
		TransactionIDs: removed,
		TransferID:     transferID,
	})
	return nil
}

// UpdateTransferStatus moves every leg of a transfer to status together.
func (s *LedgerService) UpdateTransferStatus(ctx context.Context, orgID, actorID, transferID string, status models.TransactionStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	var touched []string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		ids, err := s.transactions.UpdateTransferStatus(ctx, tx, orgID, transferID, status)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrTransferNotFound
		}
		touched = ids
		return s.audit.Log(ctx, tx, auditEntry(orgID, actorID, "transfer.status", "transfer", transferID, map[string]string{
			"status": string(status),
		}))
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"org_id":      orgID,
		"transfer_id": transferID,
		"status":      status,
	}).Info("transfer status changed")
	s.notify(ctx, events.Event{
		Type:           events.TransferStatusChanged,
		OrganizationID: orgID,
		TransactionIDs: touched,
		TransferID:     transferID,
	})
	return nil
}

func (s *LedgerService) checkCategory(ctx context.Context, orgID string, categoryID *string) error {
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

// notify publishes after commit. Failures are logged, never returned.
func (s *LedgerService) notify(ctx context.Context, event events.Event) {
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"org_id": event.OrganizationID,
			"event":  event.Type,
		}).Warn("ledger event not delivered")
	}
}

// lockTwoAccounts reads both accounts in id order so concurrent transfers
// between the same pair cannot deadlock.
func lockTwoAccounts(ctx context.Context, tx store.Getter, accounts LedgerAccountStore, orgID, firstID, secondID string) (models.Account, models.Account, error) {
	leftID, rightID := orderedIDs(firstID, secondID)
	left, err := accounts.GetForShare(ctx, tx, orgID, leftID)
	if err != nil {
		return models.Account{}, models.Account{}, accountLookupError(err)
	}
	right, err := accounts.GetForShare(ctx, tx, orgID, rightID)
	if err != nil {
		return models.Account{}, models.Account{}, accountLookupError(err)
	}
	if firstID == leftID {
		return left, right, nil
	}
	return right, left, nil
}

func orderedIDs(firstID, secondID string) (string, string) {
	if firstID <= secondID {
		return firstID, secondID
	}
	return secondID, firstID
}

func accountLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	return err
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func auditEntry(orgID, actorID, action, entityType, entityID string, data map[string]string) store.AuditEntry {
	entry := store.AuditEntry{
		OrganizationID: orgID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
	}
	if actorID != "" {
		entry.ActorUserID = &actorID
	}
	if len(data) > 0 {
		payload, _ := json.Marshal(data)
		entry.Data = string(payload)
	}
	return entry
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

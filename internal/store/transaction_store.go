package store

import (
	"context"
	"strings"
	"time"

	"finance/internal/models"

	"github.com/shopspring/decimal"
)

const transactionColumns = `id, organization_id, account_id, category_id, type, status, amount, currency, date, note, transfer_id, exchange_rate, created_at`

type TransactionStore struct {
	db DB
}

type transactionRow struct {
	ID             string          `db:"id"`
	OrganizationID string          `db:"organization_id"`
	AccountID      string          `db:"account_id"`
	CategoryID     *string         `db:"category_id"`
	Type           string          `db:"type"`
	Status         string          `db:"status"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	Date           time.Time       `db:"date"`
	Note           *string         `db:"note"`
	TransferID     *string         `db:"transfer_id"`
	ExchangeRate   decimal.Decimal `db:"exchange_rate"`
	CreatedAt      time.Time       `db:"created_at"`
}

func (r transactionRow) toModel() models.Transaction {
	return models.Transaction{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		AccountID:      r.AccountID,
		CategoryID:     r.CategoryID,
		Type:           models.TransactionType(r.Type),
		Status:         models.TransactionStatus(r.Status),
		Amount:         r.Amount,
		Currency:       r.Currency,
		Date:           r.Date,
		Note:           r.Note,
		TransferID:     r.TransferID,
		ExchangeRate:   r.ExchangeRate,
		CreatedAt:      r.CreatedAt,
	}
}

func transactionArgs(t models.Transaction) []any {
	return []any{
		t.ID, t.OrganizationID, t.AccountID, t.CategoryID, string(t.Type), string(t.Status),
		t.Amount, t.Currency, sqlDate(t.Date), t.Note, t.TransferID, t.ExchangeRate, t.CreatedAt,
	}
}

// TransactionFilter narrows List. Zero values mean no restriction; To is exclusive.
type TransactionFilter struct {
	From   *time.Time
	To     *time.Time
	Status models.TransactionStatus
}

// sqlDate keeps DATE parameters independent of the session time zone.
func sqlDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Insert writes all rows in one multi-row statement.
func (s *TransactionStore) Insert(ctx context.Context, tx Execer, rows []models.Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	columnCount := strings.Count(transactionColumns, ",") + 1
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*columnCount)
	for i, row := range rows {
		holders := make([]string, columnCount)
		for j := range holders {
			holders[j] = placeholder(i*columnCount + j + 1)
		}
		values = append(values, "("+strings.Join(holders, ", ")+")")
		args = append(args, transactionArgs(row)...)
	}
	query := "INSERT INTO transactions (" + transactionColumns + ") VALUES " + strings.Join(values, ", ")
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (s *TransactionStore) GetForUpdate(ctx context.Context, tx Getter, orgID, transactionID string) (models.Transaction, error) {
	var row transactionRow
	err := tx.GetContext(ctx, &row, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE organization_id = $1 AND id = $2
		FOR UPDATE
	`, orgID, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row.toModel(), nil
}

// UpdateDetails writes the mutable fields of t: category, status, date, note.
func (s *TransactionStore) UpdateDetails(ctx context.Context, tx Execer, t models.Transaction) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = $1, status = $2, date = $3, note = $4
		WHERE organization_id = $5 AND id = $6
	`, t.CategoryID, string(t.Status), sqlDate(t.Date), t.Note, t.OrganizationID, t.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TransactionStore) Delete(ctx context.Context, tx Execer, orgID, transactionID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE organization_id = $1 AND id = $2
	`, orgID, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByTransfer removes every leg of a transfer and returns the removed ids.
func (s *TransactionStore) DeleteByTransfer(ctx context.Context, tx Selecter, orgID, transferID string) ([]string, error) {
	var ids []string
	err := tx.SelectContext(ctx, &ids, `
		DELETE FROM transactions
		WHERE organization_id = $1 AND transfer_id = $2
		RETURNING id
	`, orgID, transferID)
	return ids, err
}

// UpdateTransferStatus sets status on every leg of a transfer and returns the touched ids.
func (s *TransactionStore) UpdateTransferStatus(ctx context.Context, tx Selecter, orgID, transferID string, status models.TransactionStatus) ([]string, error) {
	var ids []string
	err := tx.SelectContext(ctx, &ids, `
		UPDATE transactions
		SET status = $1
		WHERE organization_id = $2 AND transfer_id = $3
		RETURNING id
	`, string(status), orgID, transferID)
	return ids, err
}

func (s *TransactionStore) List(ctx context.Context, orgID string, filter TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE organization_id = $1`
	args := []any{orgID}
	if filter.From != nil {
		args = append(args, sqlDate(*filter.From))
		query += " AND date >= " + placeholder(len(args))
	}
	if filter.To != nil {
		args = append(args, sqlDate(*filter.To))
		query += " AND date < " + placeholder(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += " AND status = " + placeholder(len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"
	var rows []transactionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.toModel())
	}
	return transactions, nil
}

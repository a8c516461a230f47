package store

import (
	"context"
	"time"

	"finance/internal/models"
)

type AccountStore struct {
	db DB
}

type accountRow struct {
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	Name           string    `db:"name"`
	Currency       string    `db:"currency"`
	Type           string    `db:"type"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r accountRow) toModel() models.Account {
	return models.Account{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		Currency:       r.Currency,
		Type:           models.AccountType(r.Type),
		CreatedAt:      r.CreatedAt,
	}
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, account models.Account) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, organization_id, name, currency, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, account.ID, account.OrganizationID, account.Name, account.Currency, string(account.Type), account.CreatedAt)
	return err
}

func (s *AccountStore) GetByID(ctx context.Context, orgID, accountID string) (models.Account, error) {
	return getAccount(ctx, s.db, `
		SELECT id, organization_id, name, currency, type, created_at
		FROM accounts
		WHERE organization_id = $1 AND id = $2
	`, orgID, accountID)
}

// GetForShare reads an account inside tx and keeps it from being deleted
// until the transaction ends.
func (s *AccountStore) GetForShare(ctx context.Context, tx Getter, orgID, accountID string) (models.Account, error) {
	return getAccount(ctx, tx, `
		SELECT id, organization_id, name, currency, type, created_at
		FROM accounts
		WHERE organization_id = $1 AND id = $2
		FOR SHARE
	`, orgID, accountID)
}

func (s *AccountStore) ListByOrganization(ctx context.Context, orgID string) ([]models.Account, error) {
	var rows []accountRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, organization_id, name, currency, type, created_at
		FROM accounts
		WHERE organization_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toModel())
	}
	return accounts, nil
}

func getAccount(ctx context.Context, getter Getter, query string, args ...any) (models.Account, error) {
	var row accountRow
	if err := getter.GetContext(ctx, &row, query, args...); err != nil {
		return models.Account{}, err
	}
	return row.toModel(), nil
}

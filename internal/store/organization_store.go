package store

import (
	"context"
	"time"

	"finance/internal/models"
)

type OrganizationStore struct {
	db DB
}

type organizationRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	BaseCurrency string    `db:"base_currency"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r organizationRow) toModel() models.Organization {
	return models.Organization{
		ID:           r.ID,
		Name:         r.Name,
		BaseCurrency: r.BaseCurrency,
		CreatedAt:    r.CreatedAt,
	}
}

func NewOrganizationStore(db DB) *OrganizationStore {
	return &OrganizationStore{db: db}
}

func (s *OrganizationStore) Create(ctx context.Context, tx Execer, org models.Organization) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO organizations (id, name, base_currency, created_at)
		VALUES ($1, $2, $3, $4)
	`, org.ID, org.Name, org.BaseCurrency, org.CreatedAt)
	return err
}

func (s *OrganizationStore) GetByID(ctx context.Context, orgID string) (models.Organization, error) {
	var row organizationRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, base_currency, created_at
		FROM organizations
		WHERE id = $1
	`, orgID)
	if err != nil {
		return models.Organization{}, err
	}
	return row.toModel(), nil
}

func (s *OrganizationStore) UpdateBaseCurrency(ctx context.Context, tx Execer, orgID, currency string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE organizations
		SET base_currency = $1
		WHERE id = $2
	`, currency, orgID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

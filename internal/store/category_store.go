package store

import (
	"context"
	"time"

	"finance/internal/models"
)

type CategoryStore struct {
	db DB
}

type categoryRow struct {
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	Name           string    `db:"name"`
	CreatedAt      time.Time `db:"created_at"`
}

func NewCategoryStore(db DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, tx Execer, category models.Category) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO categories (id, organization_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, category.ID, category.OrganizationID, category.Name, category.CreatedAt)
	return err
}

// Exists reports whether categoryID belongs to orgID.
func (s *CategoryStore) Exists(ctx context.Context, orgID, categoryID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM categories
		WHERE organization_id = $1 AND id = $2
	`, orgID, categoryID)
	return count > 0, err
}

func (s *CategoryStore) ListByOrganization(ctx context.Context, orgID string) ([]models.Category, error) {
	var rows []categoryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, organization_id, name, created_at
		FROM categories
		WHERE organization_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, models.Category{
			ID:             row.ID,
			OrganizationID: row.OrganizationID,
			Name:           row.Name,
			CreatedAt:      row.CreatedAt,
		})
	}
	return categories, nil
}

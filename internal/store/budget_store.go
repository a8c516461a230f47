package store

import (
	"context"
	"time"

	"finance/internal/models"

	"github.com/shopspring/decimal"
)

type BudgetStore struct {
	db DB
}

type budgetRow struct {
	ID             string          `db:"id"`
	OrganizationID string          `db:"organization_id"`
	CategoryID     *string         `db:"category_id"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	CreatedAt      time.Time       `db:"created_at"`
}

func (r budgetRow) toModel() models.Budget {
	return models.Budget{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		CategoryID:     r.CategoryID,
		Amount:         r.Amount,
		Currency:       r.Currency,
		CreatedAt:      r.CreatedAt,
	}
}

func NewBudgetStore(db DB) *BudgetStore {
	return &BudgetStore{db: db}
}

func (s *BudgetStore) Create(ctx context.Context, tx Execer, budget models.Budget) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO budgets (id, organization_id, category_id, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, budget.ID, budget.OrganizationID, budget.CategoryID, budget.Amount, budget.Currency, budget.CreatedAt)
	return err
}

func (s *BudgetStore) GetByID(ctx context.Context, orgID, budgetID string) (models.Budget, error) {
	var row budgetRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, organization_id, category_id, amount, currency, created_at
		FROM budgets
		WHERE organization_id = $1 AND id = $2
	`, orgID, budgetID)
	if err != nil {
		return models.Budget{}, err
	}
	return row.toModel(), nil
}

func (s *BudgetStore) ListByOrganization(ctx context.Context, orgID string) ([]models.Budget, error) {
	var rows []budgetRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, organization_id, category_id, amount, currency, created_at
		FROM budgets
		WHERE organization_id = $1
		ORDER BY category_id NULLS FIRST, currency
	`, orgID)
	if err != nil {
		return nil, err
	}
	budgets := make([]models.Budget, 0, len(rows))
	for _, row := range rows {
		budgets = append(budgets, row.toModel())
	}
	return budgets, nil
}

func (s *BudgetStore) Update(ctx context.Context, tx Execer, budget models.Budget) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE budgets
		SET amount = $1, currency = $2
		WHERE organization_id = $3 AND id = $4
	`, budget.Amount, budget.Currency, budget.OrganizationID, budget.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BudgetStore) Delete(ctx context.Context, tx Execer, orgID, budgetID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM budgets
		WHERE organization_id = $1 AND id = $2
	`, orgID, budgetID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package store

import (
	"context"
	"time"

	"finance/internal/models"

	"github.com/shopspring/decimal"
)

type ExchangeStore struct {
	db DB
}

type exchangeDefaultRow struct {
	OrganizationID string          `db:"organization_id"`
	FromCurrency   string          `db:"from_currency"`
	ToCurrency     string          `db:"to_currency"`
	Rate           decimal.Decimal `db:"rate"`
	SpreadPct      decimal.Decimal `db:"spread_pct"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (r exchangeDefaultRow) toModel() models.ExchangeDefault {
	return models.ExchangeDefault{
		OrganizationID: r.OrganizationID,
		FromCurrency:   r.FromCurrency,
		ToCurrency:     r.ToCurrency,
		Rate:           r.Rate,
		SpreadPct:      r.SpreadPct,
		UpdatedAt:      r.UpdatedAt,
	}
}

func NewExchangeStore(db DB) *ExchangeStore {
	return &ExchangeStore{db: db}
}

func (s *ExchangeStore) ListByOrganization(ctx context.Context, orgID string) ([]models.ExchangeDefault, error) {
	var rows []exchangeDefaultRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT organization_id, from_currency, to_currency, rate, spread_pct, updated_at
		FROM org_exchange_defaults
		WHERE organization_id = $1
		ORDER BY from_currency, to_currency
	`, orgID)
	if err != nil {
		return nil, err
	}
	defaults := make([]models.ExchangeDefault, 0, len(rows))
	for _, row := range rows {
		defaults = append(defaults, row.toModel())
	}
	return defaults, nil
}

// PairExists reports whether (from, to) is stored for orgID, read inside tx.
func (s *ExchangeStore) PairExists(ctx context.Context, tx Getter, orgID, fromCurrency, toCurrency string) (bool, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM org_exchange_defaults
		WHERE organization_id = $1 AND from_currency = $2 AND to_currency = $3
	`, orgID, fromCurrency, toCurrency)
	return count > 0, err
}

func (s *ExchangeStore) Upsert(ctx context.Context, tx Getter, rate models.ExchangeDefault) (models.ExchangeDefault, error) {
	var row exchangeDefaultRow
	err := tx.GetContext(ctx, &row, `
		INSERT INTO org_exchange_defaults (organization_id, from_currency, to_currency, rate, spread_pct, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (organization_id, from_currency, to_currency)
		DO UPDATE SET rate = EXCLUDED.rate, spread_pct = EXCLUDED.spread_pct, updated_at = NOW()
		RETURNING organization_id, from_currency, to_currency, rate, spread_pct, updated_at
	`, rate.OrganizationID, rate.FromCurrency, rate.ToCurrency, rate.Rate, rate.SpreadPct)
	if err != nil {
		return models.ExchangeDefault{}, err
	}
	return row.toModel(), nil
}

func (s *ExchangeStore) Delete(ctx context.Context, tx Execer, orgID, fromCurrency, toCurrency string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM org_exchange_defaults
		WHERE organization_id = $1 AND from_currency = $2 AND to_currency = $3
	`, orgID, fromCurrency, toCurrency)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditStore struct {
	db DB
}

type AuditEntry struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	ActorUserID    *string   `db:"actor_user_id" json:"actor_user_id"`
	Action         string    `db:"action" json:"action"`
	EntityType     string    `db:"entity_type" json:"entity_type"`
	EntityID       string    `db:"entity_id" json:"entity_id"`
	Data           string    `db:"data" json:"data"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Log(ctx context.Context, tx Execer, entry AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Data == "" {
		entry.Data = "{}"
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, organization_id, actor_user_id, action, entity_type, entity_id, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.OrganizationID, entry.ActorUserID, entry.Action, entry.EntityType, entry.EntityID, entry.Data)
	return err
}

func (s *AuditStore) List(ctx context.Context, orgID string, limit, offset int) ([]AuditEntry, error) {
	var rows []AuditEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, organization_id, actor_user_id, action, entity_type, entity_id, data::text AS data, created_at
		FROM audit_logs
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

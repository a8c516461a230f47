// Package events carries ledger change notifications to interested parties
// after a write has been committed.
package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	TransactionCreated    Type = "transaction.created"
	TransactionUpdated    Type = "transaction.updated"
	TransactionDeleted    Type = "transaction.deleted"
	TransferCreated       Type = "transfer.created"
	TransferDeleted       Type = "transfer.deleted"
	TransferStatusChanged Type = "transfer.status_changed"
)

type Event struct {
	Type           Type      `json:"type"`
	OrganizationID string    `json:"organization_id"`
	TransactionIDs []string  `json:"transaction_ids"`
	TransferID     string    `json:"transfer_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Fanout delivers an event to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, publisher := range f {
		if publisher == nil {
			continue
		}
		if err := publisher.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

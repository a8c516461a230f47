package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"finance/internal/events"
)

// Hub tracks live connections per organization and pushes ledger events to
// them. Slow clients drop messages instead of blocking writers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(orgID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[orgID] == nil {
		h.clients[orgID] = make(map[*Client]struct{})
	}
	h.clients[orgID][client] = struct{}{}
}

func (h *Hub) Unregister(orgID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[orgID] == nil {
		return
	}
	delete(h.clients[orgID], client)
	if len(h.clients[orgID]) == 0 {
		delete(h.clients, orgID)
	}
}

func (h *Hub) ClientCount(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[orgID])
}

// Publish implements events.Publisher.
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[event.OrganizationID] {
		select {
		case client.send <- payload:
		default:
		}
	}
	return nil
}

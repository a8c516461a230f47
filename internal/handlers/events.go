package handlers

import (
	"net/http"

	"finance/internal/websocket"
)

// Events streams the organization's ledger change events over a websocket.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(w, r, h.hub, orgID(r))
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type upsertExchangeDefaultRequest struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Rate         string  `json:"rate"`
	SpreadPct    *string `json:"spread_pct"`
}

func (h *Handler) ListExchangeDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.catalog.ListExchangeDefaults(r.Context(), orgID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, defaults)
}

func (h *Handler) UpsertExchangeDefault(w http.ResponseWriter, r *http.Request) {
	var req upsertExchangeDefaultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rate, err := parseRate(req.Rate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_exchange_rate")
		return
	}
	var spread *decimal.Decimal
	if req.SpreadPct != nil {
		parsed, err := decimal.NewFromString(*req.SpreadPct)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_spread")
			return
		}
		spread = &parsed
	}
	saved, err := h.catalog.UpsertExchangeDefault(r.Context(), orgID(r), actorID(r), req.FromCurrency, req.ToCurrency, rate, spread)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteExchangeDefault(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.DeleteExchangeDefault(r.Context(), orgID(r), actorID(r), chi.URLParam(r, "from"), chi.URLParam(r, "to"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

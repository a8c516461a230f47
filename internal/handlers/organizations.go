package handlers

import (
	"net/http"
)

type createOrganizationRequest struct {
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	org, err := h.catalog.CreateOrganization(r.Context(), actorID(r), req.Name, req.BaseCurrency)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, org)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.catalog.GetOrganization(r.Context(), orgID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, org)
}

type baseCurrencyRequest struct {
	BaseCurrency string `json:"base_currency"`
}

func (h *Handler) UpdateBaseCurrency(w http.ResponseWriter, r *http.Request) {
	var req baseCurrencyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	org, err := h.catalog.UpdateBaseCurrency(r.Context(), orgID(r), actorID(r), req.BaseCurrency)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, org)
}

func (h *Handler) OrgBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.reports.ComputeOrgBalance(r.Context(), orgID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

func (h *Handler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reports.ListAuditLog(r.Context(), orgID(r), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

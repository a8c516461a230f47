package handlers

import (
	"net/http"

	"finance/internal/models"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.catalog.ListAccounts(r.Context(), orgID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.catalog.CreateAccount(r.Context(), orgID(r), actorID(r), req.Name, req.Currency, models.AccountType(req.Type))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

func (h *Handler) ListAccountBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.reports.ListAccountBalances(r.Context(), orgID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, balances)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context(), orgID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), orgID(r), actorID(r), req.Name)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

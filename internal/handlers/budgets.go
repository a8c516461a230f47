package handlers

import (
	"net/http"

	"finance/internal/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createBudgetRequest struct {
	CategoryID *string `json:"category_id"`
	Amount     string  `json:"amount"`
	Currency   string  `json:"currency"`
}

func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.catalog.ListBudgets(r.Context(), orgID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, budgets)
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, code, err := parseAmount(req.Amount, req.Currency)
	if err != nil {
		respondError(w, http.StatusBadRequest, code)
		return
	}
	budget, err := h.catalog.CreateBudget(r.Context(), orgID(r), actorID(r), emptyToNil(req.CategoryID), amount, req.Currency)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, budget)
}

type updateBudgetRequest struct {
	Amount   *string `json:"amount"`
	Currency *string `json:"currency"`
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var amount *decimal.Decimal
	if req.Amount != nil {
		// Precision is checked by the service once the final currency is known.
		parsed, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		amount = &parsed
	}
	var currency *string
	if req.Currency != nil {
		normalized := money.NormalizeCode(*req.Currency)
		currency = &normalized
	}
	budget, err := h.catalog.UpdateBudget(r.Context(), orgID(r), actorID(r), chi.URLParam(r, "budgetID"), amount, currency)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteBudget(r.Context(), orgID(r), actorID(r), chi.URLParam(r, "budgetID")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) BudgetOverview(w http.ResponseWriter, r *http.Request) {
	anchor, err := h.monthAnchor(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_month")
		return
	}
	overview, err := h.reports.BudgetOverview(r.Context(), orgID(r), anchor)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (h *Handler) ListMonthExpenseTotals(w http.ResponseWriter, r *http.Request) {
	anchor, err := h.monthAnchor(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_month")
		return
	}
	totals, err := h.reports.ListMonthExpenseTotals(r.Context(), orgID(r), anchor)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"finance/internal/models"
	"finance/internal/services"
	"finance/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createTransactionRequest struct {
	AccountID    string  `json:"account_id"`
	CategoryID   *string `json:"category_id"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency"`
	Date         string  `json:"date"`
	Note         *string `json:"note"`
	TransferID   *string `json:"transfer_id"`
	ExchangeRate string  `json:"exchange_rate"`
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := optionalMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_month")
		return
	}
	transactions, err := h.reports.ListTransactions(r.Context(), orgID(r), month)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	month, err := optionalMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_month")
		return
	}
	items, err := h.reports.ListActivity(r.Context(), orgID(r), month)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AccountID == "" {
		respondError(w, http.StatusBadRequest, "account_id_required")
		return
	}
	amount, code, err := parseAmount(req.Amount, req.Currency)
	if err != nil {
		respondError(w, http.StatusBadRequest, code)
		return
	}
	date, err := validator.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rate := decimal.Zero
	if req.ExchangeRate != "" {
		if rate, err = parseRate(req.ExchangeRate); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_exchange_rate")
			return
		}
	}
	created, err := h.ledger.CreateTransaction(r.Context(), services.TransactionRequest{
		OrganizationID: orgID(r),
		ActorID:        actorID(r),
		AccountID:      req.AccountID,
		CategoryID:     emptyToNil(req.CategoryID),
		Type:           models.TransactionType(req.Type),
		Status:         models.TransactionStatus(req.Status),
		Amount:         amount,
		Currency:       req.Currency,
		Date:           date,
		Note:           req.Note,
		TransferID:     emptyToNil(req.TransferID),
		ExchangeRate:   rate,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type updateTransactionRequest struct {
	Note       json.RawMessage `json:"note"`
	CategoryID json.RawMessage `json:"category_id"`
	Date       *string         `json:"date"`
	Status     *string         `json:"status"`
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var patch services.TransactionPatch
	var err error
	if patch.Note, patch.NoteSet, err = optionalString(req.Note); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if patch.CategoryID, patch.CategorySet, err = optionalString(req.CategoryID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	patch.CategoryID = emptyToNil(patch.CategoryID)
	if req.Date != nil {
		date, err := validator.ParseDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_date")
			return
		}
		patch.Date = &date
	}
	if req.Status != nil {
		status := models.TransactionStatus(*req.Status)
		patch.Status = &status
	}
	updated, err := h.ledger.UpdateTransaction(r.Context(), orgID(r), actorID(r), chi.URLParam(r, "transactionID"), patch)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteTransaction(r.Context(), orgID(r), actorID(r), chi.URLParam(r, "transactionID")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"finance/internal/models"
	"finance/internal/services"
	"finance/internal/validator"

	"github.com/go-chi/chi/v5"
)

type createTransferRequest struct {
	FromAccountID string  `json:"from_account_id"`
	ToAccountID   string  `json:"to_account_id"`
	CategoryID    *string `json:"category_id"`
	Amount        string  `json:"amount"`
	ExchangeRate  string  `json:"exchange_rate"`
	CurrencyFrom  string  `json:"currency_from"`
	CurrencyTo    string  `json:"currency_to"`
	Date          string  `json:"date"`
	Note          *string `json:"note"`
	Status        string  `json:"status"`
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FromAccountID == "" || req.ToAccountID == "" {
		respondError(w, http.StatusBadRequest, "account_id_required")
		return
	}
	amount, code, err := parseAmount(req.Amount, req.CurrencyFrom)
	if err != nil {
		respondError(w, http.StatusBadRequest, code)
		return
	}
	rate, err := parseRate(req.ExchangeRate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_exchange_rate")
		return
	}
	date, err := validator.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	transfer, err := h.ledger.CreateTransfer(r.Context(), services.TransferRequest{
		OrganizationID: orgID(r),
		ActorID:        actorID(r),
		FromAccountID:  req.FromAccountID,
		ToAccountID:    req.ToAccountID,
		CategoryID:     emptyToNil(req.CategoryID),
		Amount:         amount,
		ExchangeRate:   rate,
		CurrencyFrom:   req.CurrencyFrom,
		CurrencyTo:     req.CurrencyTo,
		Date:           date,
		Note:           req.Note,
		Status:         models.TransactionStatus(req.Status),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, transfer)
}

func (h *Handler) DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteTransfer(r.Context(), orgID(r), actorID(r), chi.URLParam(r, "transferID")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateTransferStatus(w http.ResponseWriter, r *http.Request) {
	var req transferStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	transferID := chi.URLParam(r, "transferID")
	if err := h.ledger.UpdateTransferStatus(r.Context(), orgID(r), actorID(r), transferID, models.TransactionStatus(req.Status)); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"transfer_id": transferID, "status": req.Status})
}

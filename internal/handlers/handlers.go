package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"finance/internal/middleware"
	"finance/internal/services"
	"finance/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	uniqueViolation   = "23505"
	checkViolation    = "23514"
	numericOutOfRange = "22003"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{services.ErrInvalidAmount, "invalid_amount"},
	{services.ErrTooManyDecimals, "too_many_decimals"},
	{services.ErrInvalidExchangeRate, "invalid_exchange_rate"},
	{services.ErrSameAccountTransfer, "same_account"},
	{services.ErrCurrencyMismatch, "currency_mismatch"},
	{services.ErrInvalidCurrency, "invalid_currency"},
	{services.ErrInvalidName, "invalid_name"},
	{services.ErrInvalidAccountType, "invalid_account_type"},
	{services.ErrInvalidTransactionType, "invalid_transaction_type"},
	{services.ErrInvalidStatus, "invalid_status"},
	{services.ErrInvalidDate, "invalid_date"},
	{services.ErrCategoryNotInOrganization, "category_not_in_organization"},
	{services.ErrSameCurrencyPair, "same_currency_pair"},
	{services.ErrReverseRateExists, "reverse_rate_exists"},
	{services.ErrInvalidSpread, "invalid_spread"},
	{services.ErrEmptyUpdate, "empty_update"},
	{services.ErrTransferAmountTooSmall, "transfer_amount_too_small"},
	{services.ErrAmountOutOfRange, "amount_out_of_range"},
	{services.ErrOrganizationNotFound, "organization_not_found"},
	{services.ErrAccountNotFound, "account_not_found"},
	{services.ErrTransactionNotFound, "transaction_not_found"},
	{services.ErrTransferNotFound, "transfer_not_found"},
	{services.ErrBudgetNotFound, "budget_not_found"},
	{services.ErrExchangeDefaultNotFound, "exchange_default_not_found"},
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to its status and code. Anything
// unrecognized is logged and reported as a 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case services.IsValidation(err):
		respondError(w, http.StatusBadRequest, errorCode(err))
	case services.IsNotFound(err):
		respondError(w, http.StatusNotFound, errorCode(err))
	case pqCode(err) == uniqueViolation:
		respondError(w, http.StatusConflict, "already_exists")
	case pqCode(err) == checkViolation:
		respondError(w, http.StatusBadRequest, "constraint_violation")
	case pqCode(err) == numericOutOfRange:
		respondError(w, http.StatusBadRequest, "value_out_of_range")
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}

func errorCode(err error) string {
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return "bad_request"
}

func pqCode(err error) pq.ErrorCode {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return false
	}
	return true
}

func orgID(r *http.Request) string {
	return chi.URLParam(r, "orgID")
}

func actorID(r *http.Request) string {
	userID, _ := middleware.UserIDFromContext(r.Context())
	return userID
}

// monthAnchor reads ?month=YYYY-MM-DD, defaulting to today in UTC.
func (h *Handler) monthAnchor(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return h.now().UTC(), nil
	}
	return validator.ParseDate(raw)
}

// optionalMonth is monthAnchor without the default.
func optionalMonth(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return nil, nil
	}
	parsed, err := validator.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return value
}

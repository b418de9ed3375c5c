package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/auth"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError переводит доменную ошибку в HTTP-статус. Детали внутренних
// ошибок наружу не уходят.
func writeError(w http.ResponseWriter, logger *log.Entry, err error) {
	switch {
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrStockNegative):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrSellerNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, auth.ErrTokenInvalid):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrLockTimeout):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "try again later"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "request timed out"})
	default:
		logger.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrCustomerNameRequired,
		domain.ErrCustomerEmailRequired,
		domain.ErrOrderLinesRequired,
		domain.ErrLineQtyInvalid,
		domain.ErrLineProductRequired,
		domain.ErrOrderStatusInvalid,
		domain.ErrPaymentStatusInvalid,
		domain.ErrNameRequired,
		domain.ErrPriceNegative,
		domain.ErrQuantityNegative,
		domain.ErrEmailRequired,
		domain.ErrPasswordRequired,
		domain.ErrPasswordMismatch,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

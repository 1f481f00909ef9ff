package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/iamcal77/e-shop-backened/internal/auth"
	"github.com/iamcal77/e-shop-backened/internal/repository"
	"github.com/iamcal77/e-shop-backened/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the service/repository error taxonomy to HTTP
// responses with stable codes. Storage errors never leak verbatim.
func handleServiceError(w http.ResponseWriter, err error) {
	var insufficient *repository.InsufficientStockError

	switch {
	case errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrVariantNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrEmptyOrMissingCart):
		respondError(w, http.StatusBadRequest, "empty_or_missing_cart", err.Error())
	case errors.As(err, &insufficient):
		respondError(w, http.StatusBadRequest, "insufficient_stock", insufficient.Error())
	case errors.Is(err, repository.ErrStockConstraintViolation):
		respondError(w, http.StatusBadRequest, "stock_constraint_violation", err.Error())
	case errors.Is(err, service.ErrConcurrencyConflict):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, repository.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

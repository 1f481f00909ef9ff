package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/iamcal77/e-shop-backened/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type CheckoutRequestDTO struct {
	CartID          int64   `json:"cart_id"`
	GuestEmail      *string `json:"guest_email,omitempty"`
	Line1           string  `json:"line1,omitempty"`
	City            string  `json:"city,omitempty"`
	Country         string  `json:"country,omitempty"`
	PaymentProvider string  `json:"payment_provider"`
	Currency        string  `json:"currency"`
	WarehouseID     int64   `json:"warehouse_id"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.CartID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "cart_id must be positive")
		return
	}
	if req.PaymentProvider == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "payment_provider is required")
		return
	}
	if req.WarehouseID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "warehouse_id must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "KES"
	}

	resp, err := h.checkout.Checkout(r.Context(), &service.CheckoutRequest{
		CartID:          req.CartID,
		GuestEmail:      req.GuestEmail,
		Line1:           req.Line1,
		City:            req.City,
		Country:         req.Country,
		PaymentProvider: req.PaymentProvider,
		Currency:        req.Currency,
		WarehouseID:     req.WarehouseID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

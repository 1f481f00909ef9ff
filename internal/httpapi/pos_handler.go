package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/iamcal77/e-shop-backened/internal/service"
)

type POSHandler struct {
	pos *service.POSService
}

func NewPOSHandler(pos *service.POSService) *POSHandler {
	return &POSHandler{pos: pos}
}

type POSSellRequestDTO struct {
	Items    []service.POSItem `json:"items"`
	Currency string            `json:"currency"`
}

func (h *POSHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req POSSellRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "items must not be empty")
		return
	}
	for _, it := range req.Items {
		if it.ProductVariantID <= 0 || it.Quantity < 1 || it.Price < 0 {
			respondError(w, http.StatusBadRequest, "validation_error", "each item needs a positive variant_id, quantity >= 1 and a non-negative price")
			return
		}
	}
	if req.Currency == "" {
		req.Currency = "KES"
	}

	order, err := h.pos.Sell(r.Context(), nil, req.Items, req.Currency)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
		"total":    order.Total,
		"currency": order.Currency,
	})
}

func (h *POSHandler) Sales(w http.ResponseWriter, r *http.Request) {
	orders, err := h.pos.Sales(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

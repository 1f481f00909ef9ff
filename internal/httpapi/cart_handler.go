package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iamcal77/e-shop-backened/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemRequestDTO struct {
	ProductVariantID int64 `json:"variant_id"`
	Quantity         int   `json:"quantity"`
}

// AddItem adds or increments a cart line. Without a cart_id query param
// a new guest cart is created and returned in the view.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := optionalCartID(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.ProductVariantID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "variant_id must be positive")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "validation_error", "quantity must be between 1 and 99")
		return
	}

	view, err := h.carts.AddItem(r.Context(), cartID, req.ProductVariantID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := requiredCartID(w, r)
	if !ok {
		return
	}

	view, err := h.carts.GetCart(r.Context(), cartID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, ok := requiredCartID(w, r)
	if !ok {
		return
	}
	variantID, ok := variantIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "validation_error", "quantity must be between 1 and 99")
		return
	}

	view, err := h.carts.UpdateQuantity(r.Context(), cartID, variantID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := requiredCartID(w, r)
	if !ok {
		return
	}
	variantID, ok := variantIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.carts.RemoveItem(r.Context(), cartID, variantID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := requiredCartID(w, r)
	if !ok {
		return
	}

	view, err := h.carts.ClearCart(r.Context(), cartID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) MarkAbandoned(w http.ResponseWriter, r *http.Request) {
	cartID, ok := requiredCartID(w, r)
	if !ok {
		return
	}

	if err := h.carts.MarkAbandoned(r.Context(), cartID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

// optionalCartID parses the cart_id query param if present. ok=false
// means a response was already written.
func optionalCartID(w http.ResponseWriter, r *http.Request) (*int64, bool) {
	raw := r.URL.Query().Get("cart_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "cart_id must be a positive integer")
		return nil, false
	}
	return &id, true
}

func requiredCartID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("cart_id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "cart_id query parameter is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "cart_id must be a positive integer")
		return 0, false
	}
	return id, true
}

func variantIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "variant_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "variant_id must be a positive integer")
		return 0, false
	}
	return id, true
}

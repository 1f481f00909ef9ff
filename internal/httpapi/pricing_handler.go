package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// PricingStore is the repository surface behind the pricing CRUD.
type PricingStore interface {
	CreateDiscount(ctx context.Context, d *domain.Discount) error
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	CreateCoupon(ctx context.Context, c *domain.Coupon) error
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	CreatePriceRule(ctx context.Context, p *domain.PriceRule) error
	ListPriceRules(ctx context.Context) ([]domain.PriceRule, error)
	CreateTaxRule(ctx context.Context, t *domain.TaxRule) error
	ListTaxRules(ctx context.Context) ([]domain.TaxRule, error)
}

type PricingHandler struct {
	store PricingStore
}

func NewPricingHandler(store PricingStore) *PricingHandler {
	return &PricingHandler{store: store}
}

func (h *PricingHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var d domain.Discount
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	switch d.Type {
	case "percentage", "fixed", "tiered":
	default:
		respondError(w, http.StatusBadRequest, "validation_error", "type must be one of percentage, fixed, tiered")
		return
	}
	if d.Value < 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "value must not be negative")
		return
	}

	if err := h.store.CreateDiscount(r.Context(), &d); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (h *PricingHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.store.ListDiscounts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, discounts)
}

func (h *PricingHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var c domain.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if c.Code == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "code is required")
		return
	}
	if c.DiscountID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "discount_id must be positive")
		return
	}

	if err := h.store.CreateCoupon(r.Context(), &c); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *PricingHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.store.ListCoupons(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, coupons)
}

func (h *PricingHandler) CreatePriceRule(w http.ResponseWriter, r *http.Request) {
	var p domain.PriceRule
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if p.ProductVariantID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "product_variant_id must be positive")
		return
	}
	if p.Price < 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "price must not be negative")
		return
	}

	if err := h.store.CreatePriceRule(r.Context(), &p); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *PricingHandler) ListPriceRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.ListPriceRules(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

func (h *PricingHandler) CreateTaxRule(w http.ResponseWriter, r *http.Request) {
	var t domain.TaxRule
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if t.Region == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "region is required")
		return
	}
	if t.TaxPercentage < 0 || t.TaxPercentage > 100 {
		respondError(w, http.StatusBadRequest, "validation_error", "tax_percentage must be between 0 and 100")
		return
	}

	if err := h.store.CreateTaxRule(r.Context(), &t); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (h *PricingHandler) ListTaxRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.ListTaxRules(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

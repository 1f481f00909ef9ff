package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// CatalogStore is the repository surface behind the catalog CRUD.
type CatalogStore interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateVariant(ctx context.Context, v *domain.ProductVariant) error
	CreateCategory(ctx context.Context, c *domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateWarehouse(ctx context.Context, w *domain.Warehouse) error
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
}

type CatalogHandler struct {
	store CatalogStore
}

func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

type CreateProductRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ProductType string `json:"product_type"`
	CategoryID  *int64 `json:"category_id,omitempty"`
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}
	if req.ProductType == "" {
		req.ProductType = "physical"
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ProductType: req.ProductType,
		CategoryID:  req.CategoryID,
	}
	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

type CreateVariantRequestDTO struct {
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	WeightKg float64 `json:"weight_kg"`
}

func (h *CatalogHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "product_id must be a positive integer")
		return
	}

	var req CreateVariantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.SKU == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "sku is required")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "price must not be negative")
		return
	}

	variant := &domain.ProductVariant{
		ProductID: productID,
		SKU:       req.SKU,
		Price:     req.Price,
		Size:      req.Size,
		Color:     req.Color,
		WeightKg:  req.WeightKg,
	}
	if err := h.store.CreateVariant(r.Context(), variant); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, variant)
}

type CreateCategoryRequestDTO struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}

	category := &domain.Category{Name: req.Name, ParentID: req.ParentID}
	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

type CreateWarehouseRequestDTO struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (h *CatalogHandler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req CreateWarehouseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}

	warehouse := &domain.Warehouse{Name: req.Name, Location: req.Location}
	if err := h.store.CreateWarehouse(r.Context(), warehouse); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, warehouse)
}

func (h *CatalogHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.store.ListWarehouses(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, warehouses)
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iamcal77/e-shop-backened/internal/service"
)

type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

type AdjustInventoryRequestDTO struct {
	ProductVariantID int64 `json:"variant_id"`
	WarehouseID      int64 `json:"warehouse_id"`
	QuantityDelta    int   `json:"quantity_delta"`
	ReorderLevel     *int  `json:"reorder_level,omitempty"`
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustInventoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.ProductVariantID <= 0 || req.WarehouseID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "variant_id and warehouse_id must be positive")
		return
	}
	if req.ReorderLevel != nil && *req.ReorderLevel < 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "reorder_level must not be negative")
		return
	}

	rec, err := h.inventory.Adjust(r.Context(), req.ProductVariantID, req.WarehouseID, req.QuantityDelta, req.ReorderLevel)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	variantID, err1 := strconv.ParseInt(r.URL.Query().Get("variant_id"), 10, 64)
	warehouseID, err2 := strconv.ParseInt(r.URL.Query().Get("warehouse_id"), 10, 64)
	if err1 != nil || err2 != nil || variantID <= 0 || warehouseID <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "variant_id and warehouse_id must be positive integers")
		return
	}

	rec, err := h.inventory.Get(r.Context(), variantID, warehouseID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

func (h *InventoryHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.inventory.Report(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

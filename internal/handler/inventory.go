package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cafe-fusion/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// InventoryStore defines the database methods needed by inventory handlers.
type InventoryStore interface {
	ListInventory(ctx context.Context) ([]database.InventoryItem, error)
	SetInventoryStock(ctx context.Context, arg database.SetInventoryStockParams) (database.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
}

// InventoryHandler handles staff stock management. Automatic consumption
// happens inside the order transaction; these endpoints cover restocks and
// corrections.
type InventoryHandler struct {
	store InventoryStore
}

func NewInventoryHandler(store InventoryStore) *InventoryHandler {
	return &InventoryHandler{store: store}
}

// RegisterRoutes registers inventory endpoints. Mounted behind the staff
// auth middleware.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory", h.List)
	r.Post("/inventory", h.Create)
	r.Put("/inventory/{id}/stock", h.SetStock)
}

// --- Request / Response types ---

type createInventoryItemRequest struct {
	MenuItemID *int64 `json:"menu_item_id"`
	Name       string `json:"name"`
	Stock      int32  `json:"stock"`
}

type setStockRequest struct {
	Stock int32 `json:"stock"`
}

type inventoryItemResponse struct {
	ID          int64      `json:"id"`
	MenuItemID  *int64     `json:"menu_item_id"`
	Name        string     `json:"name"`
	Stock       int32      `json:"stock"`
	LastRestock *time.Time `json:"last_restock"`
}

// --- Handlers ---

// List handles GET /staff/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventory(r.Context())
	if err != nil {
		writeInternalError(w, "list inventory", err)
		return
	}

	resp := make([]inventoryItemResponse, len(items))
	for i, it := range items {
		resp[i] = toInventoryItemResponse(it)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": resp})
}

// Create handles POST /staff/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "stock must be >= 0")
		return
	}

	item, err := h.store.CreateInventoryItem(r.Context(), database.CreateInventoryItemParams{
		MenuItemID: req.MenuItemID,
		Name:       req.Name,
		Stock:      req.Stock,
	})
	if err != nil {
		writeInternalError(w, "create inventory item", err)
		return
	}

	writeJSON(w, http.StatusCreated, toInventoryItemResponse(item))
}

// SetStock handles PUT /staff/inventory/{id}/stock for restocks and
// corrections. Negative values are floored to zero.
func (h *InventoryHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inventory item ID")
		return
	}

	var req setStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.SetInventoryStock(r.Context(), database.SetInventoryStockParams{
		ID:    id,
		Stock: req.Stock,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "inventory item not found")
			return
		}
		writeInternalError(w, "set inventory stock", err)
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemResponse(item))
}

func toInventoryItemResponse(it database.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:          it.ID,
		MenuItemID:  it.MenuItemID,
		Name:        it.Name,
		Stock:       it.Stock,
		LastRestock: it.LastRestock,
	}
}

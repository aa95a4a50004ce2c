package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cafe-fusion/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// MenuStore defines the database methods needed by menu handlers.
type MenuStore interface {
	ListMenuItems(ctx context.Context, arg database.ListMenuItemsParams) ([]database.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
}

// MenuHandler handles the public menu and staff menu management.
type MenuHandler struct {
	store MenuStore
}

func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterPublicRoutes registers the customer-facing menu endpoints.
func (h *MenuHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/menu", h.List)
	r.Get("/menu/{id}", h.Get)
}

// RegisterStaffRoutes registers menu management endpoints. Mounted behind
// the staff auth middleware.
func (h *MenuHandler) RegisterStaffRoutes(r chi.Router) {
	r.Post("/menu", h.Create)
}

// --- Request / Response types ---

type createMenuItemRequest struct {
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	PriceCents         int64   `json:"price_cents"`
	IsAvailableOnline  bool    `json:"is_available_online"`
	IsAvailableOffline bool    `json:"is_available_offline"`
	Tags               *string `json:"tags"`
}

type menuItemResponse struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	PriceCents         int64   `json:"price_cents"`
	IsAvailableOnline  bool    `json:"is_available_online"`
	IsAvailableOffline bool    `json:"is_available_offline"`
	Tags               *string `json:"tags"`
}

// --- Handlers ---

// List handles GET /menu. An optional mode query parameter narrows the list
// to one sales channel: ?mode=online or ?mode=offline.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var params database.ListMenuItemsParams
	switch mode := r.URL.Query().Get("mode"); mode {
	case "":
	case "online":
		params.OnlineOnly = true
	case "offline":
		params.OfflineOnly = true
	default:
		writeError(w, http.StatusBadRequest, "mode must be online or offline")
		return
	}

	items, err := h.store.ListMenuItems(r.Context(), params)
	if err != nil {
		writeInternalError(w, "list menu items", err)
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": resp})
}

// Get handles GET /menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item ID")
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeInternalError(w, "get menu item", err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Create handles POST /staff/menu.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	if req.PriceCents <= 0 {
		writeError(w, http.StatusBadRequest, "price_cents must be > 0")
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		Name:               req.Name,
		Category:           req.Category,
		PriceCents:         req.PriceCents,
		IsAvailableOnline:  req.IsAvailableOnline,
		IsAvailableOffline: req.IsAvailableOffline,
		Tags:               req.Tags,
	})
	if err != nil {
		writeInternalError(w, "create menu item", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

func toMenuItemResponse(m database.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Category:           m.Category,
		PriceCents:         m.PriceCents,
		IsAvailableOnline:  m.IsAvailableOnline,
		IsAvailableOffline: m.IsAvailableOffline,
		Tags:               m.Tags,
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cafe-fusion/api/internal/cart"
	"github.com/cafe-fusion/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// cartTokenHeader carries the opaque cart token between requests. The
// server issues one on the first add; the client echoes it back.
const cartTokenHeader = "X-Cart-Token"

// CartMenuStore is the slice of the menu needed to validate cart adds.
type CartMenuStore interface {
	GetMenuItem(ctx context.Context, id int64) (database.MenuItem, error)
}

// CartHandler handles the customer cart endpoints.
type CartHandler struct {
	carts *cart.Store
	store CartMenuStore
}

func NewCartHandler(carts *cart.Store, store CartMenuStore) *CartHandler {
	return &CartHandler{carts: carts, store: store}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/cart/items", h.Add)
	r.Get("/cart", h.View)
	r.Delete("/cart", h.Clear)
}

// --- Request / Response types ---

type addCartItemRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int32 `json:"quantity"`
}

type cartResponse struct {
	Token string           `json:"token"`
	Items map[string]int32 `json:"items"`
	Count int32            `json:"count"`
}

// --- Handlers ---

// Add handles POST /cart/items. Items must exist and be orderable online;
// full pricing and availability validation happens again at checkout.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be > 0")
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), req.MenuItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeInternalError(w, "get menu item", err)
		return
	}
	if !item.IsAvailableOnline {
		writeError(w, http.StatusBadRequest, item.Name+" is not available for online ordering")
		return
	}

	tok := tokenFromRequest(r)
	tok, items := h.carts.Add(tok, req.MenuItemID, req.Quantity)

	writeJSON(w, http.StatusOK, toCartResponse(tok, items))
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	tok := tokenFromRequest(r)
	items := h.carts.Get(tok)
	writeJSON(w, http.StatusOK, toCartResponse(tok, items))
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	tok := tokenFromRequest(r)
	h.carts.Clear(tok)
	writeJSON(w, http.StatusOK, toCartResponse(tok, nil))
}

// --- Helpers ---

// tokenFromRequest reads the cart token header. A missing or malformed
// token resolves to the zero UUID, which maps to an empty cart.
func tokenFromRequest(r *http.Request) uuid.UUID {
	tok, err := uuid.Parse(r.Header.Get(cartTokenHeader))
	if err != nil {
		return uuid.Nil
	}
	return tok
}

func toCartResponse(tok uuid.UUID, items map[string]int32) cartResponse {
	if items == nil {
		items = map[string]int32{}
	}
	var count int32
	for _, q := range items {
		count += q
	}
	token := ""
	if tok != uuid.Nil {
		token = tok.String()
	}
	return cartResponse{Token: token, Items: items, Count: count}
}

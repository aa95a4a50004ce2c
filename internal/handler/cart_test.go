package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cafe-fusion/api/internal/cart"
	"github.com/cafe-fusion/api/internal/database"
	"github.com/cafe-fusion/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockCartMenuStore struct {
	getMenuItemFn func(ctx context.Context, id int64) (database.MenuItem, error)
}

func (m *mockCartMenuStore) GetMenuItem(ctx context.Context, id int64) (database.MenuItem, error) {
	return m.getMenuItemFn(ctx, id)
}

func newCartRouter(store *mockCartMenuStore) (chi.Router, *cart.Store) {
	carts := cart.NewStore()
	h := handler.NewCartHandler(carts, store)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, carts
}

func onlineMenuStore() *mockCartMenuStore {
	return &mockCartMenuStore{
		getMenuItemFn: func(ctx context.Context, id int64) (database.MenuItem, error) {
			switch id {
			case 1:
				return database.MenuItem{ID: 1, Name: "Espresso", PriceCents: 18000, IsAvailableOnline: true}, nil
			case 3:
				return database.MenuItem{ID: 3, Name: "Counter Special", PriceCents: 9000, IsAvailableOnline: false, IsAvailableOffline: true}, nil
			}
			return database.MenuItem{}, pgx.ErrNoRows
		},
	}
}

func TestCartAddIssuesToken(t *testing.T) {
	r, _ := newCartRouter(onlineMenuStore())

	rec := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"menu_item_id": 1,
		"quantity":     2,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string           `json:"token"`
		Items map[string]int32 `json:"items"`
		Count int32            `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a cart token")
	}
	if resp.Items["1"] != 2 || resp.Count != 2 {
		t.Errorf("unexpected cart: %+v", resp)
	}

	// A second add with the token accumulates
	rec = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"menu_item_id": 1,
		"quantity":     1,
	}, map[string]string{"X-Cart-Token": resp.Token})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Items["1"] != 3 {
		t.Errorf("expected accumulated quantity 3, got %d", resp.Items["1"])
	}
}

func TestCartAddUnknownItem(t *testing.T) {
	r, _ := newCartRouter(onlineMenuStore())

	rec := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"menu_item_id": 999,
		"quantity":     1,
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartAddOfflineOnlyItem(t *testing.T) {
	r, _ := newCartRouter(onlineMenuStore())

	rec := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"menu_item_id": 3,
		"quantity":     1,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartAddBadQuantity(t *testing.T) {
	r, _ := newCartRouter(onlineMenuStore())

	rec := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"menu_item_id": 1,
		"quantity":     0,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartViewAndClear(t *testing.T) {
	r, carts := newCartRouter(onlineMenuStore())

	tok, _ := carts.Add(uuid.Nil, 1, 2)
	headers := map[string]string{"X-Cart-Token": tok.String()}

	rec := doJSON(t, r, http.MethodGet, "/cart", nil, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Items map[string]int32 `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Items["1"] != 2 {
		t.Errorf("expected quantity 2, got %d", resp.Items["1"])
	}

	rec = doJSON(t, r, http.MethodDelete, "/cart", nil, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if items := carts.Get(tok); len(items) != 0 {
		t.Errorf("expected empty cart after clear, got %v", items)
	}
}

func TestCartViewUnknownToken(t *testing.T) {
	r, _ := newCartRouter(onlineMenuStore())

	rec := doJSON(t, r, http.MethodGet, "/cart", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Items map[string]int32 `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected empty cart, got %v", resp.Items)
	}
}

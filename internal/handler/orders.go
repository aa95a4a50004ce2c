package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cafe-fusion/api/internal/cart"
	"github.com/cafe-fusion/api/internal/database"
	"github.com/cafe-fusion/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*service.OrderResult, error)
	CreateManualOrder(ctx context.Context, req service.ManualOrderRequest) (*service.OrderResult, error)
	CreateOfflineOrder(ctx context.Context, req service.OfflineOrderRequest) (*service.OrderResult, error)
}

// OrderStore defines the database methods needed by order read/update
// handlers. Satisfied by *database.Queries.
type OrderStore interface {
	GetOrder(ctx context.Context, id int64) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID int64) ([]database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// OrderMailer sends the customer-facing confirmation. Implementations must
// never fail the order; they log and move on.
type OrderMailer interface {
	SendOrderConfirmation(order database.Order, items []database.OrderItem)
}

// OrderBroadcaster pushes order events to the staff feed.
type OrderBroadcaster interface {
	BroadcastJSON(eventType string, payload interface{})
}

// OrderHandler handles order creation, reads, and lifecycle updates.
type OrderHandler struct {
	svc    OrderServicer
	store  OrderStore
	carts  *cart.Store
	mailer OrderMailer
	hub    OrderBroadcaster
}

func NewOrderHandler(svc OrderServicer, store OrderStore, carts *cart.Store, mailer OrderMailer, hub OrderBroadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, carts: carts, mailer: mailer, hub: hub}
}

// RegisterPublicRoutes registers the customer-facing order endpoints.
func (h *OrderHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/orders/checkout", h.Checkout)
	r.Get("/orders/{id}", h.Get)
}

// RegisterStaffRoutes registers order management endpoints. Mounted behind
// the staff auth middleware.
func (h *OrderHandler) RegisterStaffRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Post("/orders/manual", h.CreateManual)
	r.Post("/orders/offline", h.CreateOffline)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	CouponCode    string `json:"coupon_code"`
}

type manualOrderRequest struct {
	ItemsSpec     string `json:"items_spec"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Mode          string `json:"mode"`
	PaymentMode   string `json:"payment_mode"`
	Status        string `json:"status"`
	CouponCode    string `json:"coupon_code"`
}

type offlineOrderRequest struct {
	ItemsSpec     string `json:"items_spec"`
	PaymentMode   string `json:"payment_mode"`
	DiscountCents int64  `json:"discount_cents"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	CustomerEmail *string             `json:"customer_email"`
	Mode          string              `json:"mode"`
	Status        string              `json:"status"`
	SubtotalCents int64               `json:"subtotal_cents"`
	DiscountCents int64               `json:"discount_cents"`
	TotalCents    int64               `json:"total_cents"`
	CouponCode    *string             `json:"coupon_code"`
	PaymentMode   *string             `json:"payment_mode"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID             int64  `json:"id"`
	MenuItemID     int64  `json:"menu_item_id"`
	Name           string `json:"name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// --- Handlers ---

// Checkout handles POST /orders/checkout. The cart travels as a token
// header; it is cleared only after the order commits, so a failed checkout
// leaves the cart intact for retry.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tok := tokenFromRequest(r)
	items := h.carts.Get(tok)

	result, err := h.svc.Checkout(r.Context(), service.CheckoutRequest{
		Cart:          items,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		writeOrderError(w, err)
		return
	}

	h.carts.Clear(tok)
	h.notifyCreated(result)

	writeJSON(w, http.StatusCreated, toOrderResponse(result.Order, result.Items))
}

// CreateManual handles POST /staff/orders/manual.
func (h *OrderHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req manualOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.CreateManualOrder(r.Context(), service.ManualOrderRequest{
		ItemsSpec:     req.ItemsSpec,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Mode:          req.Mode,
		PaymentMode:   req.PaymentMode,
		Status:        req.Status,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		writeOrderError(w, err)
		return
	}

	h.notifyCreated(result)

	writeJSON(w, http.StatusCreated, toOrderResponse(result.Order, result.Items))
}

// CreateOffline handles POST /staff/orders/offline for counter bills.
func (h *OrderHandler) CreateOffline(w http.ResponseWriter, r *http.Request) {
	var req offlineOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DiscountCents < 0 {
		writeError(w, http.StatusBadRequest, "discount_cents must be >= 0")
		return
	}

	result, err := h.svc.CreateOfflineOrder(r.Context(), service.OfflineOrderRequest{
		ItemsSpec:     req.ItemsSpec,
		PaymentMode:   req.PaymentMode,
		DiscountCents: req.DiscountCents,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		writeOrderError(w, err)
		return
	}

	h.hub.BroadcastJSON("order_created", toOrderResponse(result.Order, result.Items))

	writeJSON(w, http.StatusCreated, toOrderResponse(result.Order, result.Items))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, "get order", err)
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), id)
	if err != nil {
		writeInternalError(w, "list order items", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, items))
}

// List handles GET /staff/orders with optional status, mode, and pagination
// query parameters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		Status: r.URL.Query().Get("status"),
		Mode:   r.URL.Query().Get("mode"),
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		writeInternalError(w, "list orders", err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o, nil)
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit, Offset: offset})
}

// UpdateStatus handles PATCH /staff/orders/{id}/status. The transition is
// validated against the lifecycle table, then applied with a compare-and-set
// so a concurrent update surfaces as a conflict instead of a lost write.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	current, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, "get order for status update", err)
		return
	}

	if err := service.ValidateStatusTransition(current.Status, req.Status); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		ID:         id,
		Status:     req.Status,
		FromStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Status changed between our read and write
			writeError(w, http.StatusConflict, "order status changed, please retry")
			return
		}
		writeInternalError(w, "update order status", err)
		return
	}

	h.hub.BroadcastJSON("order_status_changed", map[string]interface{}{
		"order_id": updated.ID,
		"status":   updated.Status,
	})

	writeJSON(w, http.StatusOK, toOrderResponse(updated, nil))
}

// --- Helpers ---

// notifyCreated fans out the side effects of a committed order: the staff
// feed and, in the background, the confirmation email.
func (h *OrderHandler) notifyCreated(result *service.OrderResult) {
	h.hub.BroadcastJSON("order_created", toOrderResponse(result.Order, result.Items))
	go h.mailer.SendOrderConfirmation(result.Order, result.Items)
}

// writeOrderError maps known service errors to HTTP status codes.
func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrInvalidSpec),
		errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrMissingCustomer),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidCoupon),
		errors.Is(err, service.ErrCouponThreshold):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, "create order", err)
	}
}

func toOrderResponse(o database.Order, items []database.OrderItem) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		Mode:          o.Mode,
		Status:        o.Status,
		SubtotalCents: o.SubtotalCents,
		DiscountCents: o.DiscountCents,
		TotalCents:    o.TotalCents,
		CouponCode:    o.CouponCode,
		PaymentMode:   o.PaymentMode,
		CreatedAt:     o.CreatedAt,
	}
	if len(items) > 0 {
		resp.Items = make([]orderItemResponse, len(items))
		for i, it := range items {
			resp.Items[i] = orderItemResponse{
				ID:             it.ID,
				MenuItemID:     it.MenuItemID,
				Name:           it.Name,
				Quantity:       it.Quantity,
				UnitPriceCents: it.UnitPriceCents,
				LineTotalCents: it.LineTotalCents,
			}
		}
	}
	return resp
}

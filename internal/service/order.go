package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cafe-fusion/api/internal/cart"
	"github.com/cafe-fusion/api/internal/database"
	"github.com/cafe-fusion/api/internal/enum"
	"github.com/jackc/pgx/v5"
)

// Errors returned by the order service.
var (
	ErrNoItems         = errors.New("no items provided")
	ErrItemNotFound    = errors.New("item not found")
	ErrItemUnavailable = errors.New("item not available for this order channel")
	ErrMissingCustomer = errors.New("missing required customer fields")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrInvalidStatus   = errors.New("invalid status")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (bound to a pool or a transaction).
type OrderStore interface {
	ListMenuItemsByIDs(ctx context.Context, ids []int64) ([]database.MenuItem, error)
	GetActiveCouponByCode(ctx context.Context, code string) (database.Coupon, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	DecrementInventoryStock(ctx context.Context, arg database.DecrementInventoryStockParams) error
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), letting the
// service run its stores inside the transactions it opens.
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService turns carts and item specs into priced, persisted orders.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CheckoutRequest is the validated input for an online checkout. Cart is a
// plain item-id-string to quantity mapping; the service never touches
// ambient session state.
type CheckoutRequest struct {
	Cart          map[string]int32
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	CouponCode    string
}

// ManualOrderRequest is a staff-entered web order from an items spec.
type ManualOrderRequest struct {
	ItemsSpec     string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Mode          string
	PaymentMode   string
	Status        string
	CouponCode    string
}

// OfflineOrderRequest is a POS bill. The discount is entered directly in
// cents; coupons never apply at the counter.
type OfflineOrderRequest struct {
	ItemsSpec     string
	PaymentMode   string
	DiscountCents int64
	CustomerName  string
	CustomerPhone string
}

// OrderResult is the created order with its line items.
type OrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// availability channel gating order creation.
type gate int

const (
	gateOnline gate = iota
	gateOffline
)

// orderSpec is the internal, fully-resolved input to createOrderTx.
type orderSpec struct {
	lines          []cart.Line
	gate           gate
	mode           string
	status         string
	couponCode     string
	directDiscount bool
	discountCents  int64
	customerName   string
	customerPhone  string
	customerEmail  *string
	paymentMode    *string
	decrementStock bool
}

// Checkout creates an online order from a cart mapping. The caller clears
// the cart only after this returns successfully, so any failure leaves the
// customer free to retry.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*OrderResult, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" || req.CustomerEmail == "" {
		return nil, ErrMissingCustomer
	}

	lines := cart.FromMap(req.Cart)
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	email := req.CustomerEmail
	return s.createOrderTx(ctx, orderSpec{
		lines:         lines,
		gate:          gateOnline,
		mode:          enum.OrderModeOnline,
		status:        enum.OrderStatusPending,
		couponCode:    req.CouponCode,
		customerName:  req.CustomerName,
		customerPhone: req.CustomerPhone,
		customerEmail: &email,
	})
}

// CreateManualOrder creates an order from a staff-typed items spec. Mode,
// payment mode, and initial status come from the request; availability is
// gated on the online flag, matching the web ordering channel it fronts.
func (s *OrderService) CreateManualOrder(ctx context.Context, req ManualOrderRequest) (*OrderResult, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return nil, ErrMissingCustomer
	}

	mode := req.Mode
	if mode == "" {
		mode = enum.OrderModeDineIn
	}
	if !isValidMode(mode) {
		return nil, ErrInvalidMode
	}

	status := req.Status
	if status == "" {
		status = enum.OrderStatusPending
	}
	if !isValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = enum.PaymentModeCash
	}

	lines, err := cart.ParseItemsSpec(req.ItemsSpec)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	var email *string
	if req.CustomerEmail != "" {
		email = &req.CustomerEmail
	}

	return s.createOrderTx(ctx, orderSpec{
		lines:         lines,
		gate:          gateOnline,
		mode:          mode,
		status:        status,
		couponCode:    req.CouponCode,
		customerName:  req.CustomerName,
		customerPhone: req.CustomerPhone,
		customerEmail: email,
		paymentMode:   &paymentMode,
	})
}

// CreateOfflineOrder creates a completed POS bill and consumes linked
// inventory in the same transaction. Payment and fulfillment happen
// synchronously at the counter, so there is no pending stage.
func (s *OrderService) CreateOfflineOrder(ctx context.Context, req OfflineOrderRequest) (*OrderResult, error) {
	lines, err := cart.ParseItemsSpec(req.ItemsSpec)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	name := req.CustomerName
	if name == "" {
		name = "Walk-in"
	}
	phone := req.CustomerPhone
	if phone == "" {
		phone = "-"
	}
	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = enum.PaymentModeCash
	}

	return s.createOrderTx(ctx, orderSpec{
		lines:          lines,
		gate:           gateOffline,
		mode:           enum.OrderModeOffline,
		status:         enum.OrderStatusCompleted,
		directDiscount: true,
		discountCents:  req.DiscountCents,
		customerName:   name,
		customerPhone:  phone,
		paymentMode:    &paymentMode,
		decrementStock: true,
	})
}

// createOrderTx validates availability, prices the lines, and persists the
// order with all its items atomically. The whole batch is rejected on the
// first failing line; nothing is written before validation passes.
func (s *OrderService) createOrderTx(ctx context.Context, spec orderSpec) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Batch-resolve menu items ---
	ids := make([]int64, 0, len(spec.lines))
	seen := make(map[int64]bool, len(spec.lines))
	for _, l := range spec.lines {
		if !seen[l.MenuItemID] {
			seen[l.MenuItemID] = true
			ids = append(ids, l.MenuItemID)
		}
	}
	menuItems, err := store.ListMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	byID := make(map[int64]database.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	// --- Availability gate, first failing line wins ---
	priced := make([]PricedLine, 0, len(spec.lines))
	for _, l := range spec.lines {
		mi, ok := byID[l.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("item %d: %w", l.MenuItemID, ErrItemNotFound)
		}
		switch spec.gate {
		case gateOnline:
			if !mi.IsAvailableOnline {
				return nil, fmt.Errorf("%s: %w", mi.Name, ErrItemUnavailable)
			}
		case gateOffline:
			if !mi.IsAvailableOffline {
				return nil, fmt.Errorf("%s: %w", mi.Name, ErrItemUnavailable)
			}
		}
		priced = append(priced, PricedLine{Item: mi, Quantity: l.Quantity})
	}

	// --- Price ---
	var quote Quote
	if spec.directDiscount {
		var subtotal int64
		for _, pl := range priced {
			subtotal += pl.Item.PriceCents * int64(pl.Quantity)
		}
		discount := clampDirectDiscount(spec.discountCents, subtotal)
		quote = Quote{SubtotalCents: subtotal, DiscountCents: discount, TotalCents: subtotal - discount}
	} else {
		quote, err = ComputeTotals(ctx, store, priced, spec.couponCode)
		if err != nil {
			return nil, err
		}
	}

	// --- Insert order ---
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerName:  spec.customerName,
		CustomerPhone: spec.customerPhone,
		CustomerEmail: spec.customerEmail,
		Mode:          spec.mode,
		Status:        spec.status,
		SubtotalCents: quote.SubtotalCents,
		DiscountCents: quote.DiscountCents,
		TotalCents:    quote.TotalCents,
		CouponCode:    quote.CouponCode,
		PaymentMode:   spec.paymentMode,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert items, capturing unit price and name at assembly time ---
	items := make([]database.OrderItem, 0, len(priced))
	for _, pl := range priced {
		unit := pl.Item.PriceCents
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:        order.ID,
			MenuItemID:     pl.Item.ID,
			Name:           pl.Item.Name,
			Quantity:       pl.Quantity,
			UnitPriceCents: unit,
			LineTotalCents: unit * int64(pl.Quantity),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	// --- Consume linked inventory (POS only) ---
	if spec.decrementStock {
		for _, pl := range priced {
			err := store.DecrementInventoryStock(ctx, database.DecrementInventoryStockParams{
				MenuItemID: pl.Item.ID,
				Quantity:   pl.Quantity,
			})
			if err != nil {
				return nil, fmt.Errorf("decrement stock: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: order, Items: items}, nil
}

// --- Helpers ---

func isValidMode(s string) bool {
	switch s {
	case enum.OrderModeOnline, enum.OrderModeOffline, enum.OrderModeDineIn:
		return true
	}
	return false
}

func isValidStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusConfirmed,
		enum.OrderStatusCancelled, enum.OrderStatusCompleted:
		return true
	}
	return false
}

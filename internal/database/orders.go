package database

import (
	"context"
	"time"
)

const createOrderSQL = `
	INSERT INTO orders (customer_name, customer_phone, customer_email, mode, status,
	                    subtotal_cents, discount_cents, total_cents, coupon_code, payment_mode)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, customer_name, customer_phone, customer_email, mode, status,
	          subtotal_cents, discount_cents, total_cents, coupon_code, payment_mode, created_at`

type CreateOrderParams struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Mode          string
	Status        string
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
	CouponCode    *string
	PaymentMode   *string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrderSQL,
		arg.CustomerName, arg.CustomerPhone, arg.CustomerEmail, arg.Mode, arg.Status,
		arg.SubtotalCents, arg.DiscountCents, arg.TotalCents, arg.CouponCode, arg.PaymentMode)
	return scanOrder(row)
}

const createOrderItemSQL = `
	INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price_cents, line_total_cents)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, order_id, menu_item_id, name, quantity, unit_price_cents, line_total_cents`

type CreateOrderItemParams struct {
	OrderID        int64
	MenuItemID     int64
	Name           string
	Quantity       int32
	UnitPriceCents int64
	LineTotalCents int64
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItemSQL,
		arg.OrderID, arg.MenuItemID, arg.Name, arg.Quantity, arg.UnitPriceCents, arg.LineTotalCents)
	var it OrderItem
	err := row.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.UnitPriceCents, &it.LineTotalCents)
	return it, err
}

const getOrderSQL = `
	SELECT id, customer_name, customer_phone, customer_email, mode, status,
	       subtotal_cents, discount_cents, total_cents, coupon_code, payment_mode, created_at
	FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderSQL, id))
}

const listOrderItemsByOrderSQL = `
	SELECT id, order_id, menu_item_id, name, quantity, unit_price_cents, line_total_cents
	FROM order_items WHERE order_id = $1 ORDER BY id ASC`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrderSQL, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.UnitPriceCents, &it.LineTotalCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const listOrdersSQL = `
	SELECT id, customer_name, customer_phone, customer_email, mode, status,
	       subtotal_cents, discount_cents, total_cents, coupon_code, payment_mode, created_at
	FROM orders
	WHERE ($1 = '' OR status = $1)
	  AND ($2 = '' OR mode = $2)
	ORDER BY created_at ASC
	LIMIT $3 OFFSET $4`

type ListOrdersParams struct {
	Status string
	Mode   string
	Limit  int32
	Offset int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersSQL, arg.Status, arg.Mode, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.Mode, &o.Status,
			&o.SubtotalCents, &o.DiscountCents, &o.TotalCents, &o.CouponCode, &o.PaymentMode, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const updateOrderStatusSQL = `
	UPDATE orders SET status = $2
	WHERE id = $1 AND status = $3
	RETURNING id, customer_name, customer_phone, customer_email, mode, status,
	          subtotal_cents, discount_cents, total_cents, coupon_code, payment_mode, created_at`

type UpdateOrderStatusParams struct {
	ID         int64
	Status     string
	FromStatus string
}

// UpdateOrderStatus transitions an order's status with a compare-and-set on
// the current status: pgx.ErrNoRows means the order is missing or its status
// changed between the caller's read and this write.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatusSQL, arg.ID, arg.Status, arg.FromStatus)
	return scanOrder(row)
}

type orderRow interface {
	Scan(dest ...any) error
}

func scanOrder(row orderRow) (Order, error) {
	var o Order
	var createdAt time.Time
	err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.Mode, &o.Status,
		&o.SubtotalCents, &o.DiscountCents, &o.TotalCents, &o.CouponCode, &o.PaymentMode, &createdAt)
	o.CreatedAt = createdAt
	return o, err
}

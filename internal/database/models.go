package database

import "time"

// All money columns are integer minor currency units (cents). Display
// formatting is a presentation concern and never enters this package.

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type MenuItem struct {
	ID                 int64
	Name               string
	Category           string
	PriceCents         int64
	IsAvailableOnline  bool
	IsAvailableOffline bool
	Tags               *string
}

type Coupon struct {
	ID               int64
	Code             string
	DiscountPercent  int32
	MinOrderCents    int64
	MaxDiscountCents int64
	IsActive         bool
}

type Order struct {
	ID            int64
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
	CreatedAt     time.Time
}

type OrderItem struct {
	ID             int64
	OrderID        int64
	MenuItemID     int64
	Name           string
	Quantity       int32
	UnitPriceCents int64
	LineTotalCents int64
}

type InventoryItem struct {
	ID          int64
	MenuItemID  *int64
	Name        string
	Stock       int32
	LastRestock *time.Time
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cafe-fusion/api/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Errors returned by the pricing engine.
var (
	ErrInvalidCoupon   = errors.New("invalid coupon code")
	ErrCouponThreshold = errors.New("order amount too low for this coupon")
)

// CouponStore is the single read the pricing engine performs.
type CouponStore interface {
	GetActiveCouponByCode(ctx context.Context, code string) (database.Coupon, error)
}

// PricedLine pairs a resolved menu item with an ordered quantity. The item's
// price at this moment is what the order captures.
type PricedLine struct {
	Item     database.MenuItem
	Quantity int32
}

// Quote is the result of pricing an order.
type Quote struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
	CouponCode    *string
}

// ComputeTotals prices the lines and applies at most one coupon. Coupon
// codes are trimmed and uppercased before lookup; only active coupons
// match. On success 0 <= discount <= subtotal and total >= 0 always hold.
// Pure over its inputs plus the one coupon read; no writes.
func ComputeTotals(ctx context.Context, store CouponStore, lines []PricedLine, couponCode string) (Quote, error) {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.Item.PriceCents * int64(l.Quantity)
	}

	quote := Quote{SubtotalCents: subtotal, TotalCents: subtotal}

	code := strings.ToUpper(strings.TrimSpace(couponCode))
	if code == "" {
		return quote, nil
	}

	coupon, err := store.GetActiveCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, ErrInvalidCoupon
		}
		return Quote{}, fmt.Errorf("get coupon: %w", err)
	}
	if subtotal < coupon.MinOrderCents {
		return Quote{}, ErrCouponThreshold
	}

	discount := percentOf(subtotal, coupon.DiscountPercent)
	if coupon.MaxDiscountCents > 0 && discount > coupon.MaxDiscountCents {
		discount = coupon.MaxDiscountCents
	}
	if discount > subtotal {
		discount = subtotal
	}

	quote.DiscountCents = discount
	quote.TotalCents = subtotal - discount
	quote.CouponCode = &coupon.Code
	return quote, nil
}

// percentOf computes percent of an integer cent amount, rounding half to
// even. Banker's rounding keeps repeated discounts from drifting upward.
func percentOf(subtotalCents int64, percent int32) int64 {
	return decimal.NewFromInt(subtotalCents).
		Mul(decimal.NewFromInt32(percent)).
		Div(decimal.NewFromInt(100)).
		RoundBank(0).
		IntPart()
}

// clampDirectDiscount bounds a staff-entered discount to [0, subtotal].
func clampDirectDiscount(discountCents, subtotalCents int64) int64 {
	if discountCents < 0 {
		return 0
	}
	if discountCents > subtotalCents {
		return subtotalCents
	}
	return discountCents
}

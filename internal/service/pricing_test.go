package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cafe-fusion/api/internal/database"
	"github.com/jackc/pgx/v5"
)

// mockCouponStore implements CouponStore with configurable behavior.
type mockCouponStore struct {
	getActiveCouponByCodeFn func(ctx context.Context, code string) (database.Coupon, error)
}

func (m *mockCouponStore) GetActiveCouponByCode(ctx context.Context, code string) (database.Coupon, error) {
	return m.getActiveCouponByCodeFn(ctx, code)
}

func menuItem(id int64, priceCents int64) database.MenuItem {
	return database.MenuItem{
		ID:                 id,
		Name:               "Item",
		Category:           "Coffee",
		PriceCents:         priceCents,
		IsAvailableOnline:  true,
		IsAvailableOffline: true,
	}
}

// fusion10 mirrors the standard sample coupon: 10% off orders of at least
// 300.00, capped at 50.00.
func fusion10() database.Coupon {
	return database.Coupon{
		ID:               1,
		Code:             "FUSION10",
		DiscountPercent:  10,
		MinOrderCents:    30000,
		MaxDiscountCents: 5000,
		IsActive:         true,
	}
}

func couponStoreWith(c database.Coupon) *mockCouponStore {
	return &mockCouponStore{
		getActiveCouponByCodeFn: func(ctx context.Context, code string) (database.Coupon, error) {
			if code == c.Code {
				return c, nil
			}
			return database.Coupon{}, pgx.ErrNoRows
		},
	}
}

func TestComputeTotals_NoCoupon(t *testing.T) {
	store := &mockCouponStore{
		getActiveCouponByCodeFn: func(ctx context.Context, code string) (database.Coupon, error) {
			t.Fatal("coupon store should not be queried without a code")
			return database.Coupon{}, nil
		},
	}

	quote, err := ComputeTotals(context.Background(), store, []PricedLine{
		{Item: menuItem(1, 18000), Quantity: 2},
		{Item: menuItem(2, 4000), Quantity: 1},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.SubtotalCents != 40000 {
		t.Errorf("expected subtotal 40000, got %d", quote.SubtotalCents)
	}
	if quote.DiscountCents != 0 {
		t.Errorf("expected no discount, got %d", quote.DiscountCents)
	}
	if quote.TotalCents != 40000 {
		t.Errorf("expected total 40000, got %d", quote.TotalCents)
	}
	if quote.CouponCode != nil {
		t.Errorf("expected no coupon code, got %v", *quote.CouponCode)
	}
}

func TestComputeTotals_PercentDiscount(t *testing.T) {
	quote, err := ComputeTotals(context.Background(), couponStoreWith(fusion10()), []PricedLine{
		{Item: menuItem(1, 40000), Quantity: 1},
	}, "FUSION10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.DiscountCents != 4000 {
		t.Errorf("expected discount 4000, got %d", quote.DiscountCents)
	}
	if quote.TotalCents != 36000 {
		t.Errorf("expected total 36000, got %d", quote.TotalCents)
	}
	if quote.CouponCode == nil || *quote.CouponCode != "FUSION10" {
		t.Errorf("expected coupon code FUSION10, got %v", quote.CouponCode)
	}
}

func TestComputeTotals_DiscountCapped(t *testing.T) {
	// 10% of 60000 is 6000, above the 5000 cap
	quote, err := ComputeTotals(context.Background(), couponStoreWith(fusion10()), []PricedLine{
		{Item: menuItem(1, 60000), Quantity: 1},
	}, "FUSION10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.DiscountCents != 5000 {
		t.Errorf("expected capped discount 5000, got %d", quote.DiscountCents)
	}
	if quote.TotalCents != 55000 {
		t.Errorf("expected total 55000, got %d", quote.TotalCents)
	}
}

func TestComputeTotals_ZeroCapMeansUncapped(t *testing.T) {
	c := fusion10()
	c.MaxDiscountCents = 0

	quote, err := ComputeTotals(context.Background(), couponStoreWith(c), []PricedLine{
		{Item: menuItem(1, 60000), Quantity: 1},
	}, "FUSION10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.DiscountCents != 6000 {
		t.Errorf("expected uncapped discount 6000, got %d", quote.DiscountCents)
	}
}

func TestComputeTotals_CodeNormalized(t *testing.T) {
	quote, err := ComputeTotals(context.Background(), couponStoreWith(fusion10()), []PricedLine{
		{Item: menuItem(1, 40000), Quantity: 1},
	}, "  fusion10  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DiscountCents != 4000 {
		t.Errorf("expected discount 4000, got %d", quote.DiscountCents)
	}
}

func TestComputeTotals_BelowThreshold(t *testing.T) {
	_, err := ComputeTotals(context.Background(), couponStoreWith(fusion10()), []PricedLine{
		{Item: menuItem(1, 20000), Quantity: 1},
	}, "FUSION10")
	if !errors.Is(err, ErrCouponThreshold) {
		t.Fatalf("expected ErrCouponThreshold, got %v", err)
	}
}

func TestComputeTotals_UnknownCoupon(t *testing.T) {
	_, err := ComputeTotals(context.Background(), couponStoreWith(fusion10()), []PricedLine{
		{Item: menuItem(1, 40000), Quantity: 1},
	}, "NOPE")
	if !errors.Is(err, ErrInvalidCoupon) {
		t.Fatalf("expected ErrInvalidCoupon, got %v", err)
	}
}

func TestPercentOf_BankersRounding(t *testing.T) {
	tests := []struct {
		subtotal int64
		percent  int32
		want     int64
	}{
		{250, 5, 12},  // 12.5 rounds to even 12
		{350, 5, 18},  // 17.5 rounds to even 18
		{40000, 10, 4000},
		{333, 10, 33}, // 33.3 rounds down
		{335, 10, 34}, // 33.5 rounds to even 34
		{0, 10, 0},
	}
	for _, tt := range tests {
		if got := percentOf(tt.subtotal, tt.percent); got != tt.want {
			t.Errorf("percentOf(%d, %d) = %d, want %d", tt.subtotal, tt.percent, got, tt.want)
		}
	}
}

func TestClampDirectDiscount(t *testing.T) {
	tests := []struct {
		discount int64
		subtotal int64
		want     int64
	}{
		{0, 1000, 0},
		{500, 1000, 500},
		{1500, 1000, 1000}, // clamped to subtotal
		{-100, 1000, 0},    // negative floored at zero
	}
	for _, tt := range tests {
		if got := clampDirectDiscount(tt.discount, tt.subtotal); got != tt.want {
			t.Errorf("clampDirectDiscount(%d, %d) = %d, want %d", tt.discount, tt.subtotal, got, tt.want)
		}
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cafe-fusion/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CouponStore defines the database methods needed by coupon handlers.
type CouponStore interface {
	CreateCoupon(ctx context.Context, arg database.CreateCouponParams) (database.Coupon, error)
	ListCoupons(ctx context.Context) ([]database.Coupon, error)
}

// CouponHandler handles staff coupon management.
type CouponHandler struct {
	store CouponStore
}

func NewCouponHandler(store CouponStore) *CouponHandler {
	return &CouponHandler{store: store}
}

// RegisterRoutes registers coupon endpoints. Mounted behind the staff auth
// middleware.
func (h *CouponHandler) RegisterRoutes(r chi.Router) {
	r.Get("/coupons", h.List)
	r.Post("/coupons", h.Create)
}

// --- Request / Response types ---

type createCouponRequest struct {
	Code             string `json:"code"`
	DiscountPercent  int32  `json:"discount_percent"`
	MinOrderCents    int64  `json:"min_order_cents"`
	MaxDiscountCents int64  `json:"max_discount_cents"`
	IsActive         *bool  `json:"is_active"`
}

type couponResponse struct {
	ID               int64  `json:"id"`
	Code             string `json:"code"`
	DiscountPercent  int32  `json:"discount_percent"`
	MinOrderCents    int64  `json:"min_order_cents"`
	MaxDiscountCents int64  `json:"max_discount_cents"`
	IsActive         bool   `json:"is_active"`
}

// --- Handlers ---

// List handles GET /staff/coupons.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.store.ListCoupons(r.Context())
	if err != nil {
		writeInternalError(w, "list coupons", err)
		return
	}

	resp := make([]couponResponse, len(coupons))
	for i, c := range coupons {
		resp[i] = toCouponResponse(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"coupons": resp})
}

// Create handles POST /staff/coupons. Codes are stored uppercase so lookup
// can normalize customer input the same way.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.DiscountPercent <= 0 || req.DiscountPercent > 100 {
		writeError(w, http.StatusBadRequest, "discount_percent must be between 1 and 100")
		return
	}
	if req.MinOrderCents < 0 {
		writeError(w, http.StatusBadRequest, "min_order_cents must be >= 0")
		return
	}
	if req.MaxDiscountCents < 0 {
		writeError(w, http.StatusBadRequest, "max_discount_cents must be >= 0")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	coupon, err := h.store.CreateCoupon(r.Context(), database.CreateCouponParams{
		Code:             code,
		DiscountPercent:  req.DiscountPercent,
		MinOrderCents:    req.MinOrderCents,
		MaxDiscountCents: req.MaxDiscountCents,
		IsActive:         active,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeError(w, http.StatusConflict, "coupon code already exists")
			return
		}
		writeInternalError(w, "create coupon", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCouponResponse(coupon))
}

func toCouponResponse(c database.Coupon) couponResponse {
	return couponResponse{
		ID:               c.ID,
		Code:             c.Code,
		DiscountPercent:  c.DiscountPercent,
		MinOrderCents:    c.MinOrderCents,
		MaxDiscountCents: c.MaxDiscountCents,
		IsActive:         c.IsActive,
	}
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cafe-fusion/api/internal/database"
	"github.com/go-chi/chi/v5"
)

// ReportStore defines the database methods needed by report handlers.
type ReportStore interface {
	GetDailySales(ctx context.Context, limit int32) ([]database.DailySalesRow, error)
	CountOrdersByMode(ctx context.Context) ([]database.CountRow, error)
	CountOrdersByStatus(ctx context.Context) ([]database.CountRow, error)
}

// ReportHandler handles staff sales reports.
type ReportHandler struct {
	store ReportStore
}

func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// RegisterRoutes registers report endpoints. Mounted behind the staff auth
// middleware.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/sales", h.DailySales)
	r.Get("/reports/summary", h.Summary)
}

// --- Response types ---

type dailySalesResponse struct {
	Day          string `json:"day"`
	Orders       int64  `json:"orders"`
	RevenueCents int64  `json:"revenue_cents"`
}

type summaryResponse struct {
	ByMode   map[string]int64 `json:"by_mode"`
	ByStatus map[string]int64 `json:"by_status"`
}

// --- Handlers ---

// DailySales handles GET /staff/reports/sales?days=N.
func (h *ReportHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	days := 7
	if s := r.URL.Query().Get("days"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			days = v
		}
	}
	if days > 90 {
		days = 90
	}

	rows, err := h.store.GetDailySales(r.Context(), int32(days))
	if err != nil {
		writeInternalError(w, "get daily sales", err)
		return
	}

	resp := make([]dailySalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = dailySalesResponse{
			Day:          row.Day.Format("2006-01-02"),
			Orders:       row.Orders,
			RevenueCents: row.RevenueCents,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sales": resp})
}

// Summary handles GET /staff/reports/summary with order counts grouped by
// mode and status.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	byMode, err := h.store.CountOrdersByMode(r.Context())
	if err != nil {
		writeInternalError(w, "count orders by mode", err)
		return
	}

	byStatus, err := h.store.CountOrdersByStatus(r.Context())
	if err != nil {
		writeInternalError(w, "count orders by status", err)
		return
	}

	resp := summaryResponse{
		ByMode:   make(map[string]int64, len(byMode)),
		ByStatus: make(map[string]int64, len(byStatus)),
	}
	for _, row := range byMode {
		resp.ByMode[row.Key] = row.Count
	}
	for _, row := range byStatus {
		resp.ByStatus[row.Key] = row.Count
	}

	writeJSON(w, http.StatusOK, resp)
}

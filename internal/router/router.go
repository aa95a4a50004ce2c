package router

import (
	"net/http"

	"github.com/cafe-fusion/api/internal/cart"
	"github.com/cafe-fusion/api/internal/config"
	"github.com/cafe-fusion/api/internal/database"
	"github.com/cafe-fusion/api/internal/enum"
	"github.com/cafe-fusion/api/internal/handler"
	"github.com/cafe-fusion/api/internal/mailer"
	mw "github.com/cafe-fusion/api/internal/middleware"
	"github.com/cafe-fusion/api/internal/service"
	"github.com/cafe-fusion/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, mail *mailer.Mailer) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Cart-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret, cfg.StaffSetupCode)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/staff/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Menu (public reads)
	menuHandler := handler.NewMenuHandler(queries)
	menuHandler.RegisterPublicRoutes(r)

	// Cart (public, token-addressed)
	carts := cart.NewStore()
	cartHandler := handler.NewCartHandler(carts, queries)
	cartHandler.RegisterRoutes(r)

	// Orders
	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, newOrderStore)
	orderHandler := handler.NewOrderHandler(orderService, queries, carts, mail, hub)
	orderHandler.RegisterPublicRoutes(r)

	// Staff routes
	r.Route("/staff", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.UserRoleStaff))

		menuHandler.RegisterStaffRoutes(r)
		orderHandler.RegisterStaffRoutes(r)

		inventoryHandler := handler.NewInventoryHandler(queries)
		inventoryHandler.RegisterRoutes(r)

		couponHandler := handler.NewCouponHandler(queries)
		couponHandler.RegisterRoutes(r)

		reportHandler := handler.NewReportHandler(queries)
		reportHandler.RegisterRoutes(r)
	})

	return r
}

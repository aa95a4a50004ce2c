package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/cafe-fusion/api/internal/config"
	"github.com/cafe-fusion/api/internal/database"
	"github.com/cafe-fusion/api/internal/mailer"
	"github.com/cafe-fusion/api/internal/router"
	"github.com/cafe-fusion/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}

	queries := database.New(pool)

	hub := ws.NewHub()
	go hub.Run()

	mail := mailer.New(cfg, logger)

	r := router.New(cfg, queries, pool, hub, mail)

	logger.Info("server listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

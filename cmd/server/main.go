package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"librarydesk/internal/app"
	"librarydesk/internal/config"
	"librarydesk/internal/server"
	"librarydesk/internal/util"
	"librarydesk/pkg/store"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCfg := app.Config{
		DatabaseURL:    cfg.DatabaseURL,
		SessionTTL:     sessionTTL,
		LoanPeriodDays: cfg.LoanPeriodDays,
		FinePerDay:     cfg.FinePerDay,
	}
	switch cfg.SessionStrategy {
	case "jwt":
		appCfg.JWTSecret = cfg.JWTSecret
	case "redis":
		appCfg.RedisAddr = cfg.RedisAddr
		appCfg.RedisPassword = cfg.RedisPassword
	}
	if cfg.SeedDemoData {
		seed := store.DefaultSeed()
		appCfg.Seed = &seed
	}

	appCore, err := app.New(appCfg)
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                     appCore,
		RedisAddr:               cfg.RedisAddr,
		RedisPassword:           cfg.RedisPassword,
		LoginRateLimitPerMinute: cfg.LoginRateLimitPerMinute,
		TrustForwardedFor:       cfg.TrustForwardedFor,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("library server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

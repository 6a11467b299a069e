package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/vendor-ops/internal/api"
	"github.com/example/vendor-ops/internal/auth"
	"github.com/example/vendor-ops/internal/bootstrap"
	"github.com/example/vendor-ops/internal/catalog"
	"github.com/example/vendor-ops/internal/command"
	"github.com/example/vendor-ops/internal/config"
	"github.com/example/vendor-ops/internal/fulfillment"
	"github.com/example/vendor-ops/internal/query"
	"github.com/example/vendor-ops/internal/restock"
	"github.com/example/vendor-ops/internal/vendor"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("[API] JWT_SECRET environment variable is required")
	}
	if len(cfg.JWT.Secret) < 32 {
		log.Fatal("[API] JWT_SECRET must be at least 32 characters long")
	}

	log.Println("[API] ========================================")
	log.Println("[API] Vendor Operations API")
	log.Println("[API] ========================================")
	log.Printf("[API] Auto-approval: max quantity %d, max total %s, delay %s",
		cfg.AutoApprove.MaxQuantity, cfg.AutoApprove.MaxTotalAmount, cfg.AutoApprove.Delay)

	backends, err := bootstrap.Open(ctx, cfg, "API")
	if err != nil {
		log.Fatalf("[API] %v", err)
	}
	defer backends.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, 15*time.Minute)

	resolver := vendor.NewResolver(backends.Docs, backends.KV)
	dispatcher := fulfillment.NewDispatcher(backends.Docs, backends.Ledger, backends.DispatcherOptions()...)
	commands := command.NewHandler(query.NewAggregator(backends.Docs), cfg.AutoApprove.Policy(), dispatcher)
	handlers := api.NewHandlers(commands, resolver, catalog.NewService(backends.Docs), restock.NewService(backends.Docs))

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(handlers, jwtService, resolver, api.RouterConfig{
		AllowOrigins: cfg.HTTP.AllowOrigins,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
	}

	go func() {
		log.Println("[API] ========================================")
		log.Printf("[API] Server started on :%s", cfg.HTTP.Port)
		log.Println("[API] ========================================")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}

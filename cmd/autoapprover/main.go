package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/vendor-ops/internal/bootstrap"
	"github.com/example/vendor-ops/internal/command"
	"github.com/example/vendor-ops/internal/config"
	"github.com/example/vendor-ops/internal/fulfillment"
	"github.com/example/vendor-ops/internal/metrics"
	"github.com/example/vendor-ops/internal/query"
	"github.com/example/vendor-ops/internal/sweep"
	"github.com/example/vendor-ops/internal/vendor"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[AutoApprover] %v", err)
	}

	log.Println("[AutoApprover] ========================================")
	log.Println("[AutoApprover] Auto-Approval Sweep")
	log.Println("[AutoApprover] ========================================")
	log.Printf("[AutoApprover] Interval: %s", cfg.AutoApprove.Interval)
	log.Printf("[AutoApprover] Policy: max quantity %d, max total %s, delay %s",
		cfg.AutoApprove.MaxQuantity, cfg.AutoApprove.MaxTotalAmount, cfg.AutoApprove.Delay)

	backends, err := bootstrap.Open(ctx, cfg, "AutoApprover")
	if err != nil {
		log.Fatalf("[AutoApprover] %v", err)
	}
	defer backends.Close()

	dispatcher := fulfillment.NewDispatcher(backends.Docs, backends.Ledger, backends.DispatcherOptions()...)
	commands := command.NewHandler(query.NewAggregator(backends.Docs), cfg.AutoApprove.Policy(), dispatcher)
	sweeper := sweep.NewSweeper(vendor.NewResolver(backends.Docs, backends.KV), commands)

	metrics.InitMetrics()

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(cfg.AutoApprove.Interval).Do(func() {
		if _, err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[AutoApprover] Sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("[AutoApprover] Failed to schedule sweep: %v", err)
	}
	s.StartAsync()

	// Metrics endpoint
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
	}
	go func() {
		log.Printf("[AutoApprover] Metrics on :%s/metrics", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[AutoApprover] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[AutoApprover] Shutting down...")
	cancel()
	s.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[AutoApprover] Shutdown error: %v", err)
	}
}

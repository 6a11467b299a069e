package api

import (
	"net/http"
	"time"

	"github.com/example/vendor-ops/internal/api/middleware"
	"github.com/example/vendor-ops/internal/auth"
	"github.com/example/vendor-ops/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	AllowOrigins []string
}

func NewRouter(handlers *Handlers, jwtService *auth.JWTService, resolver middleware.VendorResolver, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	metrics.InitMetrics()
	r.Use(metrics.PrometheusMiddleware())

	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		api.GET("/vendor", handlers.GetVendor)
		api.DELETE("/vendor/session", handlers.ForgetVendor)
	}

	scoped := api.Group("")
	scoped.Use(middleware.VendorMiddleware(resolver))
	{
		scoped.GET("/orders", handlers.ListOrders)
		scoped.GET("/orders/:id", handlers.GetOrder)
		scoped.POST("/orders/:id/approve", handlers.ApproveOrder)
		scoped.POST("/orders/:id/cancel", handlers.CancelOrder)
		scoped.POST("/orders/:id/processing", handlers.MarkProcessing)

		scoped.GET("/products", handlers.ListProducts)
		scoped.GET("/products/:id", handlers.GetProduct)
		scoped.GET("/categories", handlers.GetCategories)

		scoped.POST("/restock-requests", handlers.SubmitRestock)
	}

	return r
}

// corsConfig allows credentials only for an explicit origin list
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

package handlers

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/metrics"
)

// NewRouter mounts the API under /api and the Prometheus scrape endpoint at
// /metrics.
func NewRouter(h *Handler, cfg config.HTTP, log logger.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log))
	r.Use(m.GinMiddleware())

	// Trusted proxies (the platform load balancer sits in front)
	_ = r.SetTrustedProxies([]string{"0.0.0.0/0"})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api", Timeout(cfg.RequestTimeout))
	{
		api.GET("/health", h.Health)

		api.GET("/destinations", h.Destinations)
		api.POST("/destinations", h.Destinations)

		api.GET("/search", h.SearchQuery)
		api.POST("/search", h.Search)

		api.GET("/packages/:id", h.GetPackage)
		api.GET("/packages/:id/pdf", h.PackagePDF)

		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/:id", h.GetBooking)
		api.DELETE("/bookings/:id", h.CancelBooking)
	}
	return r
}

// Timeout puts a deadline on the request context. Upstream calls inherit it;
// a call that runs past it fails like any other upstream error.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, authentication, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/feedback-dashboard/docs"
	"github.com/tbourn/feedback-dashboard/internal/config"
	"github.com/tbourn/feedback-dashboard/internal/http/handlers"
	"github.com/tbourn/feedback-dashboard/internal/http/middleware"
	"github.com/tbourn/feedback-dashboard/internal/metrics"
)

// maxBodyBytes caps request bodies; only the login payload is ever read.
const maxBodyBytes = 64 << 10

// AuthService is what the router needs from the auth layer: the login
// operation for the handler and token verification for RequireAuth.
type AuthService interface {
	handlers.AuthService
	middleware.TokenVerifier
}

// Services bundles the application services mounted by RegisterRoutes.
type Services struct {
	Dashboard handlers.DashboardService
	Auth      AuthService
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), compression, CORS
// and security headers, health, metrics and docs endpoints, and then mounts
// the versioned API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (downloads and /metrics excluded)
//  8. CORS and Security headers
//
// Authentication and rate limiting are per group: POST /auth/login has its
// own per-IP bucket, every other API route requires a bearer token and is
// limited per user.
//
// It returns an error only when the Prometheus collectors clash with
// different collectors already registered under the same names.
func RegisterRoutes(r *gin.Engine, svc Services, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	if err := middleware.RegisterHTTPMetrics(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register dashboard metrics: %w", err)
	}

	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	exportPath := joinPath(apiBase, "/feedbacks/export")

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression. XLSX is already zipped and promhttp negotiates its own.
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{exportPath, "/metrics", "/swagger/"}),
	))

	// 8) CORS posture (safe defaults: allow all if none configured)
	exposed := []string{"X-Request-ID", "Content-Length", "Content-Disposition", "ETag", handlers.HeaderExportCount}
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", "X-Request-ID"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposed,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposed,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		NoStore:       false,
		EnablePolicy:  true,
		ExposeHeaders: []string{"Content-Disposition", handlers.HeaderExportCount},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = apiBase
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc.Dashboard, svc.Auth)

	loginRL := middleware.NewRateLimiter(cfg.LoginRateRPS, cfg.LoginRateBurst, middleware.KeyByIP())
	apiRL := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	api := groupWithPrefix(r, apiBase)
	{
		api.POST("/auth/login", loginRL.Handler(), h.Login)

		// Everything else needs a bearer token; the limiter keys on its user.
		protected := api.Group("", middleware.RequireAuth(svc.Auth), apiRL.Handler())
		protected.GET("/auth/me", h.Me)
		protected.GET("/feedbacks", h.ListFeedbacks)
		protected.GET("/feedbacks/stats", h.FeedbackStats)
		protected.GET("/feedbacks/export", h.ExportFeedbacks)
	}
	return nil
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(prefix, p string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	return prefix + p
}

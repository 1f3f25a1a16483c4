// Package httpapi wires the HTTP transport (Gin) to the catalog service,
// middleware, and route handlers. It centralizes cross-cutting concerns
// such as tracing, correlation IDs, logging, panic recovery, metrics,
// CORS, security headers, rate limiting, and static SPA serving.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Single-binary production posture: same-origin SPA serving with CORS
//     reserved for split-origin development
package httpapi

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-store-backend/internal/config"
	"github.com/tbourn/go-store-backend/internal/domain"
	"github.com/tbourn/go-store-backend/internal/http/handlers"
	"github.com/tbourn/go-store-backend/internal/http/middleware"
	"github.com/tbourn/go-store-backend/internal/repo"
	"github.com/tbourn/go-store-backend/internal/services"
)

// catalogRepoShim adapts the repository free functions to the
// services.CatalogRepo interface expected by the CatalogService. This
// keeps services decoupled from the concrete repo package while reusing
// existing functions.
type catalogRepoShim struct{}

// ListGamesPage proxies repo.ListGamesPage.
func (catalogRepoShim) ListGamesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Game, error) {
	return repo.ListGamesPage(ctx, db, offset, limit)
}

// CountGames proxies repo.CountGames.
func (catalogRepoShim) CountGames(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountGames(ctx, db)
}

// SearchGamesLike proxies repo.SearchGamesLike.
func (catalogRepoShim) SearchGamesLike(ctx context.Context, db *gorm.DB, term string, offset, limit int) ([]domain.Game, error) {
	return repo.SearchGamesLike(ctx, db, term, offset, limit)
}

// SearchGamesFTS proxies repo.SearchGamesFTS.
func (catalogRepoShim) SearchGamesFTS(ctx context.Context, db *gorm.DB, match string, offset, limit int) ([]domain.Game, error) {
	return repo.SearchGamesFTS(ctx, db, match, offset, limit)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given
// Gin engine. It configures observability (tracing, metrics), rate
// limiting, CORS and security headers, health and metrics endpoints, the
// public catalog API, and optional static SPA serving.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per IP)
//  9. CORS (when enabled) and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB); the API is GET-only but the cap
	// keeps junk POST bodies from being buffered.
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON pages and static assets
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS only when enabled (split-origin dev); in production the SPA
	// is served same-origin and no CORS headers are needed.
	if cfg.CORS.Enabled {
		corsCfg := cors.Config{
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "If-None-Match"},
			ExposeHeaders: []string{"X-Request-ID", "ETag", "Content-Length"},
			MaxAge:        12 * time.Hour,
		}
		if len(cfg.CORS.AllowedOrigins) == 0 {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
		}
		r.Use(cors.New(corsCfg))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks: JSON envelopes for API misses, SPA fallback for the rest.
	r.NoRoute(spaFallback(cfg.StaticDir))
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// Swagger UI (opt-in; serves the generated OpenAPI document)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: service ← repo/db
	catalogSvc := services.NewCatalogService(db, catalogRepoShim{})
	h := handlers.New(catalogSvc)

	// Public API
	r.GET("/list", h.ListGames)
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

// spaFallback returns the NoRoute handler. When staticDir is empty (API-only
// deployments) every unmatched route gets a JSON 404. Otherwise unmatched GET
// paths are served from the SPA build, with index.html as the fallback for
// client-side routes.
func spaFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if staticDir == "" || c.Request.Method != http.MethodGet {
			handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
			return
		}

		reqPath := strings.TrimPrefix(filepath.Clean(c.Request.URL.Path), "/")
		full := filepath.Join(staticDir, reqPath)
		// Never escape the static root (".." and friends).
		if !strings.HasPrefix(full, filepath.Clean(staticDir)) {
			handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
			return
		}
		if st, err := os.Stat(full); err == nil && !st.IsDir() {
			c.File(full)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}

// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Admin surface reachable only through a verified token path segment
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/victoria-clinic/internal/admintoken"
	"github.com/tbourn/victoria-clinic/internal/config"
	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/http/handlers"
	"github.com/tbourn/victoria-clinic/internal/http/middleware"
	"github.com/tbourn/victoria-clinic/internal/repo"
	"github.com/tbourn/victoria-clinic/internal/services"
	"github.com/tbourn/victoria-clinic/internal/telegram"
	"github.com/tbourn/victoria-clinic/internal/web"
)

// appointmentRepoShim adapts the repository free functions to the
// services.AppointmentRepo interface expected by the AppointmentService.
type appointmentRepoShim struct{}

// CreateAppointment proxies repo.CreateAppointment.
func (appointmentRepoShim) CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	return repo.CreateAppointment(ctx, db, a)
}

// GetAppointment proxies repo.GetAppointment.
func (appointmentRepoShim) GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	return repo.GetAppointment(ctx, db, id)
}

// CountAppointments proxies repo.CountAppointments (pagination support).
func (appointmentRepoShim) CountAppointments(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountAppointments(ctx, db)
}

// ListAppointmentsPage proxies repo.ListAppointmentsPage (pagination support).
func (appointmentRepoShim) ListAppointmentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Appointment, error) {
	return repo.ListAppointmentsPage(ctx, db, offset, limit)
}

// ListAppointments proxies repo.ListAppointments.
func (appointmentRepoShim) ListAppointments(ctx context.Context, db *gorm.DB) ([]domain.Appointment, error) {
	return repo.ListAppointments(ctx, db)
}

// UpdateAppointmentStatus proxies repo.UpdateAppointmentStatus.
func (appointmentRepoShim) UpdateAppointmentStatus(ctx context.Context, db *gorm.DB, id string, status domain.AppointmentStatus) error {
	return repo.UpdateAppointmentStatus(ctx, db, id, status)
}

// Deps are the collaborators built outside the router.
type Deps struct {
	// Notifier delivers appointment notices. Nil disables notices.
	Notifier *telegram.Notifier
	// Tokens verifies the admin token in /{token}/admin URLs.
	Tokens *admintoken.Manager
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: the landing page, the public form API, review moderation, the
// token-guarded admin panel, and the health, metrics and docs endpoints.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII and token scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. CORS and Security headers
//
// The rate limiter is attached per route to the public form endpoints only.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, scope, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		},
	))

	// 8) CORS posture (safe defaults: allow all if none configured)
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
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

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/notifier
	var (
		broadcaster services.Broadcaster
		diagnostics handlers.TelegramDiagnostics
	)
	if deps.Notifier != nil {
		broadcaster, diagnostics = deps.Notifier, deps.Notifier
	}
	apptSvc := services.NewAppointmentService(db, appointmentRepoShim{}, broadcaster)
	apptSvc.IdempotencyTTL = cfg.IdempotencyTTL
	reviewSvc := &services.ReviewService{DB: db}
	h := handlers.New(apptSvc, reviewSvc, diagnostics, cfg.AppName)

	// HTML pages and assets
	r.SetHTMLTemplate(web.MustTemplates())
	pages := r.Group("", gzip.Gzip(gzip.DefaultCompression), middleware.SecurityHeaders(middleware.SecurityOptions{
		CSP: middleware.DefaultCSP,
	}))
	{
		pages.GET("/", h.Index)
		pages.StaticFS("/static", web.Static())
		if cfg.ImagesDir != "" {
			pages.Static("/images", cfg.ImagesDir)
		}
	}

	// Public API
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	api := r.Group("/api")
	{
		// Forms
		api.POST("/appointments", rl.Handler(), h.CreateAppointment)
		api.POST("/reviews", rl.Handler(), h.CreateReview)

		// Reviews
		api.GET("/reviews", h.ListPublishedReviews)
		api.GET("/reviews/all", h.ListAllReviews)
		api.POST("/reviews/:id/publish", h.PublishReview)
		api.POST("/reviews/:id/unpublish", h.UnpublishReview)
		api.DELETE("/reviews/:id", h.DeleteReview)

		// Diagnostics
		api.GET("/telegram/test", h.TelegramTest)
	}

	// Admin
	verify := func(token string) error {
		if deps.Tokens == nil {
			return admintoken.ErrMalformed
		}
		_, err := deps.Tokens.Verify(token)
		return err
	}
	admin := r.Group("/:token/admin", middleware.AdminToken(verify), middleware.SecurityHeaders(middleware.SecurityOptions{
		NoStore: true,
		CSP:     middleware.DefaultCSP,
	}))
	{
		admin.GET("", gzip.Gzip(gzip.DefaultCompression), h.AdminPage)
		admin.GET("/api/appointments", h.ListAppointments)
		admin.PATCH("/api/appointments/:id/status", h.UpdateAppointmentStatus)
		admin.GET("/export/appointments.xlsx", h.ExportAppointments)
	}
}

// corsMiddleware builds the CORS handler for the JSON API.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", middleware.HeaderIdempotencyReplayed, "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
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

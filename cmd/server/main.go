// Command server runs the Victoria Clinic site: landing page, form API,
// review moderation and the token-guarded admin panel.
//
// @title          Victoria Clinic API
// @version        1.0
// @description    Appointment requests, reviews and admin tools of the Victoria cosmetology clinic site.
// @BasePath       /
// @schemes        http https
package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	_ "github.com/tbourn/victoria-clinic/docs"
	"github.com/tbourn/victoria-clinic/internal/admintoken"
	"github.com/tbourn/victoria-clinic/internal/config"
	httpapi "github.com/tbourn/victoria-clinic/internal/http"
	"github.com/tbourn/victoria-clinic/internal/observability"
	"github.com/tbourn/victoria-clinic/internal/repo"
	"github.com/tbourn/victoria-clinic/internal/sysutil"
	"github.com/tbourn/victoria-clinic/internal/telegram"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const idempotencySweepInterval = time.Hour

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	logger := log.With().Str("component", "server").Str("version", ver).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(c)
	}()

	db, err := repo.Open(cfg.DatabaseURL, cfg.OTEL.Enabled)
	if err != nil {
		return err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}

	tokens, err := admintoken.New(cfg.JWTSecret)
	if err != nil {
		return err
	}
	if cfg.UsesDefaultSecret() {
		logger.Warn().Msg("JWT_SECRET is the development default; set a real secret in production")
	}
	if sysutil.IsTruthy(os.Getenv("PRINT_ADMIN_URL")) {
		tok, err := tokens.Issue(cfg.AdminTokenDays)
		if err != nil {
			return err
		}
		logger.Info().Str("admin_path", "/"+tok+"/admin").Msg("admin panel")
	}

	notifier := telegram.New(cfg.Telegram, log.Logger)
	if !notifier.Enabled() {
		logger.Warn().Msg("TELEGRAM_BOT_TOKEN not set; appointment notices are disabled")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, httpapi.Deps{Notifier: notifier, Tokens: tokens}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go sweepIdempotency(ctx, db, idempotencySweepInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("app", cfg.AppName).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// sweepIdempotency removes expired Idempotency-Key records until ctx ends.
func sweepIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.DeleteExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("idempotency sweep")
			}
		}
	}
}

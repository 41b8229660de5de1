// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the database URL, admin secrets, the
// Telegram bot, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// TelegramConfig configures the appointment notifier bot.
type TelegramConfig struct {
	BotToken     string        // TELEGRAM_BOT_TOKEN; empty disables notifications
	ChatIDs      []string      // TELEGRAM_CHAT_IDS, comma separated
	APIEndpoint  string        // TELEGRAM_API_ENDPOINT, "%s" placeholders for token and method
	Timeout      time.Duration // per-call HTTP timeout
	UpdatesLimit int           // getUpdates limit, 1..100
}

// SMTPConfig is declared for completeness; nothing sends e-mail yet.
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	AdminEmail string
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s; broadcasts are synchronous
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// App
	AppName        string
	DatabaseURL    string // sqlite:///path, plain path, or postgres://...
	SecretKey      string
	JWTSecret      string
	AdminTokenDays int
	ImagesDir      string // on-disk photos served under /images

	// Integrations
	Telegram TelegramConfig
	SMTP     SMTPConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// DefaultTelegramEndpoint is the public Bot API URL template.
const DefaultTelegramEndpoint = "https://api.telegram.org/bot%s/%s"

const defaultSecret = "dev-secret-key-change-in-production"

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	secret := getenv("SECRET_KEY", defaultSecret)
	cfg := Config{
		// Server
		Port:              getenv("PORT", getenv("APP_PORT", "5000")),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// App
		AppName:        getenv("APP_NAME", "Victoria Clinic"),
		DatabaseURL:    getenv("DATABASE_URL", getenv("SQLALCHEMY_DATABASE_URI", "sqlite:///victoria.db")),
		SecretKey:      secret,
		JWTSecret:      getenv("JWT_SECRET", secret),
		AdminTokenDays: getint("ADMIN_TOKEN_DAYS", 365),
		ImagesDir:      getenv("IMAGES_DIR", "static/images"),

		// Integrations
		Telegram: TelegramConfig{
			BotToken:     strings.TrimSpace(getenv("TELEGRAM_BOT_TOKEN", "")),
			ChatIDs:      splitCSV(getenv("TELEGRAM_CHAT_IDS", "")),
			APIEndpoint:  getenv("TELEGRAM_API_ENDPOINT", DefaultTelegramEndpoint),
			Timeout:      getdur("TELEGRAM_TIMEOUT", 10*time.Second),
			UpdatesLimit: getint("TELEGRAM_UPDATES_LIMIT", 100),
		},
		SMTP: SMTPConfig{
			Host:       getenv("SMTP_HOST", ""),
			Port:       getint("SMTP_PORT", 0),
			User:       getenv("SMTP_USER", ""),
			Password:   getenv("SMTP_PASSWORD", ""),
			AdminEmail: getenv("ADMIN_EMAIL", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 1.0),
		RateBurst: getint("RATE_BURST", 5),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "victoria-clinic"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Telegram.UpdatesLimit < 1 || cfg.Telegram.UpdatesLimit > 100 {
		cfg.Telegram.UpdatesLimit = 100
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, errors.New("DATABASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return cfg, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.AdminTokenDays < 1 {
		return cfg, errors.New("ADMIN_TOKEN_DAYS must be >= 1")
	}
	if cfg.Telegram.Timeout <= 0 {
		return cfg, errors.New("TELEGRAM_TIMEOUT must be > 0")
	}
	if strings.Count(cfg.Telegram.APIEndpoint, "%s") != 2 {
		return cfg, errors.New("TELEGRAM_API_ENDPOINT must contain two %s placeholders")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// UsesDefaultSecret reports whether the JWT secret is still the development
// fallback. Callers log a warning in that case.
func (c Config) UsesDefaultSecret() bool { return c.JWTSecret == defaultSecret }

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

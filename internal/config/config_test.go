package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.DatabaseURL == "" || cfg.AppName == "" {
		t.Fatalf("unexpected empty config from MustLoad: %+v", cfg)
	}
}

// --- Load defaults ---

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "5000" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("server defaults unexpected: %+v", cfg)
	}
	if cfg.DatabaseURL != "sqlite:///victoria.db" {
		t.Fatalf("DatabaseURL default = %q", cfg.DatabaseURL)
	}
	if !cfg.UsesDefaultSecret() || cfg.JWTSecret != cfg.SecretKey {
		t.Fatalf("JWT secret should default to SECRET_KEY")
	}
	if cfg.AdminTokenDays != 365 {
		t.Fatalf("AdminTokenDays default = %d", cfg.AdminTokenDays)
	}
	if cfg.Telegram.BotToken != "" || cfg.Telegram.ChatIDs != nil {
		t.Fatalf("telegram should be disabled by default: %+v", cfg.Telegram)
	}
	if cfg.Telegram.APIEndpoint != DefaultTelegramEndpoint || cfg.Telegram.Timeout != 10*time.Second || cfg.Telegram.UpdatesLimit != 100 {
		t.Fatalf("telegram defaults unexpected: %+v", cfg.Telegram)
	}
	if cfg.OTEL.ServiceName != "victoria-clinic" || cfg.OTEL.Enabled {
		t.Fatalf("otel defaults unexpected: %+v", cfg.OTEL)
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_Overrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("GIN_MODE", "weird")    // normalizes to "release"
	t.Setenv("LOG_LEVEL", "warning") // normalizes to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")

	t.Setenv("APP_NAME", "Clinic")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/clinic")
	t.Setenv("SECRET_KEY", "s1")
	t.Setenv("JWT_SECRET", "j1")
	t.Setenv("ADMIN_TOKEN_DAYS", "30")

	t.Setenv("TELEGRAM_BOT_TOKEN", " 123:abc ")
	t.Setenv("TELEGRAM_CHAT_IDS", " 111, ,222 ,")
	t.Setenv("TELEGRAM_TIMEOUT", "3s")
	t.Setenv("TELEGRAM_UPDATES_LIMIT", "500") // out of range -> 100

	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	t.Setenv("RATE_RPS", "x")      // -> default
	t.Setenv("RATE_BURST", "nope") // -> default
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second || cfg.WriteTimeout != 3*time.Second || cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.AppName != "Clinic" || cfg.DatabaseURL != "postgres://u:p@db:5432/clinic" {
		t.Fatalf("app fields unexpected: %+v", cfg)
	}
	if cfg.SecretKey != "s1" || cfg.JWTSecret != "j1" || cfg.UsesDefaultSecret() || cfg.AdminTokenDays != 30 {
		t.Fatalf("secrets unexpected: %+v", cfg)
	}
	if cfg.Telegram.BotToken != "123:abc" ||
		!reflect.DeepEqual(cfg.Telegram.ChatIDs, []string{"111", "222"}) ||
		cfg.Telegram.Timeout != 3*time.Second ||
		cfg.Telegram.UpdatesLimit != 100 {
		t.Fatalf("telegram unexpected: %+v", cfg.Telegram)
	}
	if cfg.SMTP.Host != "smtp.example.com" || cfg.SMTP.Port != 587 || cfg.SMTP.AdminEmail != "admin@example.com" {
		t.Fatalf("smtp unexpected: %+v", cfg.SMTP)
	}
	if cfg.RateRPS != 1.0 || cfg.RateBurst != 5 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_LegacyDatabaseURIAndPort(t *testing.T) {
	t.Setenv("SQLALCHEMY_DATABASE_URI", "sqlite:///legacy.db")
	t.Setenv("APP_PORT", "7000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DatabaseURL != "sqlite:///legacy.db" || cfg.Port != "7000" {
		t.Fatalf("legacy keys not honored: %+v", cfg)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name, key, val, want string
	}{
		{"invalid LOG_LEVEL", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"empty PORT via spaces", "PORT", "   ", "PORT must not be empty"},
		{"non-positive timeouts", "READ_TIMEOUT", "0s", "timeouts must be positive"},
		{"max header bytes <= 0", "MAX_HEADER_BYTES", "0", "MAX_HEADER_BYTES"},
		{"empty DATABASE_URL", "DATABASE_URL", "   ", "DATABASE_URL must not be empty"},
		{"empty JWT_SECRET", "JWT_SECRET", "   ", "JWT_SECRET"},
		{"admin token days", "ADMIN_TOKEN_DAYS", "0", "ADMIN_TOKEN_DAYS"},
		{"telegram timeout", "TELEGRAM_TIMEOUT", "-1s", "TELEGRAM_TIMEOUT"},
		{"telegram endpoint", "TELEGRAM_API_ENDPOINT", "http://localhost/bot", "TELEGRAM_API_ENDPOINT"},
		{"rate rps negative", "RATE_RPS", "-1", "RATE_RPS"},
		{"rate burst < 1", "RATE_BURST", "0", "RATE_BURST"},
		{"hsts max age negative", "HSTS_MAX_AGE", "-1s", "HSTS_MAX_AGE"},
		{"idempotency ttl non-positive", "IDEMPOTENCY_TTL", "0s", "IDEMPOTENCY_TTL"},
		{"otel sample ratio out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %s validation error, got: %v", tc.want, err)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}
	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}
	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "Y", "on"} {
		t.Setenv("B_T", v)
		if !getbool("B_T", false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	for _, v := range []string{"0", "false", " no ", "N", "off"} {
		t.Setenv("B_F", v)
		if getbool("B_F", true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	want := []string{"a", "b", "c"}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}
}

// Ensure tests don't inherit a developer's shell configuration.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "APP_PORT", "DATABASE_URL", "SQLALCHEMY_DATABASE_URI", "SECRET_KEY", "JWT_SECRET", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_IDS"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

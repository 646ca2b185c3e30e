// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, rate limiting, outbound
// lead-delivery webhooks, telephony credentials, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benefitbuddy/go-leads-backend/internal/sysutil"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-leads-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// TwilioConfig holds the telephony credentials and numbers used by the voice
// IVR flow and outbound SMS alerts. All fields are optional: when AccountSID
// or AuthToken is empty, SMS sends degrade to a recorded "not configured"
// failure instead of an outbound call.
type TwilioConfig struct {
	AccountSID      string // TWILIO_ACCOUNT_SID
	AuthToken       string // TWILIO_AUTH_TOKEN
	FromNumber      string // TWILIO_PHONE_NUMBER (E.164)
	AdminAlertPhone string // ADMIN_ALERT_PHONE: SMS alert + hot-call transfer target
}

// WebhookConfig holds the outbound lead-pipeline destinations.
type WebhookConfig struct {
	SubmissionURL string        // WEBHOOK_URL: receives non-PII submission events
	LeadsURL      string        // LEADS_WEBHOOK_URL: lead events, falls back to SubmissionURL
	Timeout       time.Duration // WEBHOOK_TIMEOUT: bound per delivery attempt
	MaxAttempts   int           // WEBHOOK_MAX_ATTEMPTS: cap per channel
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath        string // SQLite path
	PublicBaseURL string // absolute URL used in voice webhook actions and receipt links

	// Secrets
	AdminKey      string // ADMIN_KEY: shared secret for the admin API
	ReceiptSecret string // LEAD_RECEIPT_SECRET, falls back to AdminKey

	// Rate limiting (requests per minute per client IP)
	SubmissionRatePerMin int // RATE_SUBMISSIONS_PER_MIN
	LeadRatePerMin       int // RATE_LEADS_PER_MIN (stricter)

	// Outbound integrations
	Webhooks WebhookConfig
	Twilio   TwilioConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

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
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// App
		DBPath:        getenv("DB_PATH", "app.db"),
		PublicBaseURL: strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		// Secrets
		AdminKey:      getenv("ADMIN_KEY", ""),
		ReceiptSecret: getenv("LEAD_RECEIPT_SECRET", ""),

		// Rate limiting
		SubmissionRatePerMin: getint("RATE_SUBMISSIONS_PER_MIN", 10),
		LeadRatePerMin:       getint("RATE_LEADS_PER_MIN", 5),

		// Outbound integrations
		Webhooks: WebhookConfig{
			SubmissionURL: getenv("WEBHOOK_URL", ""),
			LeadsURL:      getenv("LEADS_WEBHOOK_URL", ""),
			Timeout:       getdur("WEBHOOK_TIMEOUT", 10*time.Second),
			MaxAttempts:   getint("WEBHOOK_MAX_ATTEMPTS", 3),
		},
		Twilio: TwilioConfig{
			AccountSID:      getenv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:       getenv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:      getenv("TWILIO_PHONE_NUMBER", ""),
			AdminAlertPhone: getenv("ADMIN_ALERT_PHONE", ""),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-leads-backend"),
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
	// The receipt secret defaults to the admin key so a single-secret deploy
	// still issues verifiable agent links.
	cfg.ReceiptSecret = sysutil.FirstNonEmpty(cfg.ReceiptSecret, cfg.AdminKey)
	// The lead pipeline falls back to the general webhook when unset.
	cfg.Webhooks.LeadsURL = sysutil.FirstNonEmpty(cfg.Webhooks.LeadsURL, cfg.Webhooks.SubmissionURL)

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
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.SubmissionRatePerMin < 1 {
		return cfg, errors.New("RATE_SUBMISSIONS_PER_MIN must be >= 1")
	}
	if cfg.LeadRatePerMin < 1 {
		return cfg, errors.New("RATE_LEADS_PER_MIN must be >= 1")
	}
	if cfg.Webhooks.Timeout <= 0 {
		return cfg, errors.New("WEBHOOK_TIMEOUT must be > 0")
	}
	if cfg.Webhooks.MaxAttempts < 1 {
		return cfg, errors.New("WEBHOOK_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

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
		if sysutil.IsTruthy(v) {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
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

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}

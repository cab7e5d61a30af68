// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the feedback store, authentication,
// export presentation, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // EXPORT_TIMEZONE must resolve in images without /usr/share/zoneinfo
)

// Supported feedback store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "feedback-dashboard")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StoreConfig selects and addresses the feedback store.
type StoreConfig struct {
	Driver             string        // STORE_DRIVER: sqlite|mongo
	DBPath             string        // DB_PATH (sqlite)
	MongoURI           string        // MONGODB_URI (mongo)
	MongoDatabase      string        // MONGODB_DATABASE (mongo)
	FeedbackCollection string        // FEEDBACK_COLLECTION (mongo)
	FetchTimeout       time.Duration // FETCH_TIMEOUT, upper bound for one collection read
}

// AuthConfig holds the bearer token settings.
type AuthConfig struct {
	JWTSecret string        // JWT_SECRET (required, >= 16 bytes)
	Issuer    string        // JWT_ISSUER
	TokenTTL  time.Duration // JWT_TTL
}

// ExportConfig holds presentation settings for loaded records and exports.
type ExportConfig struct {
	AnonymousName string         // ANONYMOUS_NAME, placeholder for a missing user name
	TimeZone      string         // EXPORT_TIMEZONE (IANA name)
	Location      *time.Location // resolved from TimeZone
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 30s, exports included
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain on SIGTERM
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	Store  StoreConfig
	Auth   AuthConfig
	Export ExportConfig

	// Rate limiting
	RateRPS        float64 // tokens per second (>= 0)
	RateBurst      int     // bucket size (>= 1)
	LoginRateRPS   float64 // stricter bucket for POST /auth/login
	LoginRateBurst int

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
		WriteTimeout:      getdur("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		Store: StoreConfig{
			Driver:             strings.ToLower(strings.TrimSpace(getenv("STORE_DRIVER", DriverSQLite))),
			DBPath:             getenv("DB_PATH", "feedback.db"),
			MongoURI:           getenv("MONGODB_URI", ""),
			MongoDatabase:      getenv("MONGODB_DATABASE", "feedback"),
			FeedbackCollection: getenv("FEEDBACK_COLLECTION", "feedbacks"),
			FetchTimeout:       getdur("FETCH_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getenv("JWT_SECRET", ""),
			Issuer:    getenv("JWT_ISSUER", "feedback-dashboard"),
			TokenTTL:  getdur("JWT_TTL", 12*time.Hour),
		},
		Export: ExportConfig{
			AnonymousName: getenv("ANONYMOUS_NAME", "Anonymous user"),
			TimeZone:      getenv("EXPORT_TIMEZONE", "UTC"),
		},

		// Rate limiting
		RateRPS:        getfloat("RATE_RPS", 5.0),
		RateBurst:      getint("RATE_BURST", 10),
		LoginRateRPS:   getfloat("LOGIN_RATE_RPS", 0.2),
		LoginRateBurst: getint("LOGIN_RATE_BURST", 5),

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
			ServiceName: getenv("OTEL_SERVICE_NAME", "feedback-dashboard"),
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
	if cfg.Store.Driver == "mongodb" {
		cfg.Store.Driver = DriverMongo
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
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.Store.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case DriverMongo:
		if strings.TrimSpace(cfg.Store.MongoURI) == "" {
			return cfg, errors.New("MONGODB_URI must be set when STORE_DRIVER=mongo")
		}
		if strings.TrimSpace(cfg.Store.MongoDatabase) == "" || strings.TrimSpace(cfg.Store.FeedbackCollection) == "" {
			return cfg, errors.New("MONGODB_DATABASE and FEEDBACK_COLLECTION must not be empty")
		}
	default:
		return cfg, errors.New("STORE_DRIVER must be one of: sqlite, mongo")
	}
	if cfg.Store.FetchTimeout <= 0 {
		return cfg, errors.New("FETCH_TIMEOUT must be > 0")
	}
	if len(cfg.Auth.JWTSecret) < 16 {
		return cfg, errors.New("JWT_SECRET must be set to at least 16 bytes")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return cfg, errors.New("JWT_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Export.AnonymousName) == "" {
		return cfg, errors.New("ANONYMOUS_NAME must not be empty")
	}
	loc, err := time.LoadLocation(cfg.Export.TimeZone)
	if err != nil {
		return cfg, errors.New("EXPORT_TIMEZONE must be a valid IANA time zone")
	}
	cfg.Export.Location = loc
	if cfg.RateRPS < 0 || cfg.LoginRateRPS < 0 {
		return cfg, errors.New("RATE_RPS and LOGIN_RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 || cfg.LoginRateBurst < 1 {
		return cfg, errors.New("RATE_BURST and LOGIN_RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

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

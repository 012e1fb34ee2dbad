// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/umatomo/predict-api/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	DBURL                         string
	DBDisablePreparedBinary       bool
	CacheEnabled                  bool
	CacheTTL                      time.Duration
	CORSAllowedOrigins            []string
	SwaggerEnabled                bool
	PprofEnabled                  bool
	PprofAddr                     string
	AccountBaseURL                string
	AccountIntrospectPath         string
	AccountAdminKey               string
	AccountTimeout                time.Duration
	AccountCircuitEnabled         bool
	AccountCircuitFailureCount    int
	AccountCircuitOpenTimeout     time.Duration
	AccountCircuitHalfOpenMaxReq  int
	InternalJobToken              string
	RankingLimit                  int
	RankingMinPredictions         int
	PredictionAllowDuplicateSlots bool
	EvaluateWorkers               int
	RecomputeWorkers              int
	UptraceEnabled                bool
	UptraceDSN                    string
	UptraceLogsEnabled            bool
	UptraceCaptureRequestBody     bool
	UptraceRequestBodyMaxBytes    int
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	LogLevel                      logging.Level
}

// envReader reads typed values out of the environment and remembers the
// first parse failure, so Load stays a flat list of assignments.
type envReader struct {
	err error
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("parse %s: %w", key, err)
	}
}

func (e *envReader) check(ok bool, format string, args ...any) {
	if e.err == nil && !ok {
		e.err = fmt.Errorf(format, args...)
	}
}

func (e *envReader) str(key, fallback string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func (e *envReader) trimmed(key, fallback string) string {
	return strings.TrimSpace(e.str(key, fallback))
}

func (e *envReader) boolean(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return v
}

func (e *envReader) integer(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return v
}

func (e *envReader) duration(key, fallback string) time.Duration {
	v, err := time.ParseDuration(e.trimmed(key, fallback))
	if err != nil {
		e.fail(key, err)
		return 0
	}
	return v
}

// Load reads the full configuration, applying defaults and validating
// cross-field requirements. Unset variables fall back to dev defaults.
func Load() (Config, error) {
	var env envReader

	appEnv, err := parseAppEnv(env.str("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    env.str("APP_SERVICE_NAME", "predict-api"),
		ServiceVersion: env.str("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       env.str("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    env.duration("APP_READ_TIMEOUT", "10s"),
		WriteTimeout:   env.duration("APP_WRITE_TIMEOUT", "15s"),
		LogLevel:       parseLogLevel(env.str("APP_LOG_LEVEL", "info")),

		// An unset DB_URL selects the in-memory backend for local dev.
		DBURL:                   env.trimmed("DB_URL", ""),
		DBDisablePreparedBinary: env.boolean("DB_DISABLE_PREPARED_BINARY_RESULT", true),

		CacheEnabled: env.boolean("CACHE_ENABLED", true),
		CacheTTL:     env.duration("CACHE_TTL", "60s"),

		CORSAllowedOrigins: splitCSV(env.str("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:     env.boolean("SWAGGER_ENABLED", appEnv != EnvProd),

		AccountBaseURL:               env.str("ACCOUNT_BASE_URL", "http://localhost:8081"),
		AccountIntrospectPath:        env.str("ACCOUNT_INTROSPECT_PATH", "/v1/auth/introspect"),
		AccountAdminKey:              env.str("ACCOUNT_ADMIN_KEY", ""),
		AccountTimeout:               env.duration("ACCOUNT_TIMEOUT", "3s"),
		AccountCircuitEnabled:        env.boolean("ACCOUNT_CIRCUIT_ENABLED", true),
		AccountCircuitFailureCount:   env.integer("ACCOUNT_CIRCUIT_FAILURE_COUNT", 5),
		AccountCircuitOpenTimeout:    env.duration("ACCOUNT_CIRCUIT_OPEN_TIMEOUT", "15s"),
		AccountCircuitHalfOpenMaxReq: env.integer("ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ", 2),

		InternalJobToken: env.trimmed("INTERNAL_JOB_TOKEN", ""),

		RankingLimit:                  env.integer("RANKING_LIMIT", 20),
		RankingMinPredictions:         env.integer("RANKING_MIN_PREDICTIONS", 3),
		PredictionAllowDuplicateSlots: env.boolean("PREDICTION_ALLOW_DUPLICATE_SLOTS", false),
		EvaluateWorkers:               env.integer("SCORING_EVALUATE_WORKERS", 8),
		RecomputeWorkers:              env.integer("RECOMPUTE_WORKERS", 4),

		UptraceEnabled:             env.boolean("UPTRACE_ENABLED", false),
		UptraceDSN:                 env.trimmed("UPTRACE_DSN", ""),
		UptraceLogsEnabled:         env.boolean("UPTRACE_LOGS_ENABLED", true),
		UptraceCaptureRequestBody:  env.boolean("UPTRACE_CAPTURE_REQUEST_BODY", true),
		UptraceRequestBodyMaxBytes: env.integer("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192),

		PprofEnabled: env.boolean("PPROF_ENABLED", false),
		PprofAddr:    env.trimmed("PPROF_ADDR", ":6060"),

		PyroscopeEnabled:           env.boolean("PYROSCOPE_ENABLED", false),
		PyroscopeServerAddress:     env.trimmed("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAuthToken:         env.trimmed("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     env.trimmed("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: env.trimmed("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        env.duration("PYROSCOPE_UPLOAD_RATE", "15s"),
	}
	cfg.PyroscopeAppName = env.trimmed("PYROSCOPE_APP_NAME", cfg.ServiceName)

	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(env.str("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	env.check(cfg.CacheTTL > 0, "CACHE_TTL must be > 0")
	env.check(len(cfg.CORSAllowedOrigins) > 0, "CORS_ALLOWED_ORIGINS cannot be empty")
	env.check(cfg.RankingLimit >= 1, "RANKING_LIMIT must be >= 1")
	env.check(cfg.RankingMinPredictions >= 1, "RANKING_MIN_PREDICTIONS must be >= 1")
	env.check(cfg.EvaluateWorkers >= 1, "SCORING_EVALUATE_WORKERS must be >= 1")
	env.check(cfg.RecomputeWorkers >= 1, "RECOMPUTE_WORKERS must be >= 1")
	env.check(cfg.AccountCircuitFailureCount >= 1, "ACCOUNT_CIRCUIT_FAILURE_COUNT must be >= 1")
	env.check(cfg.AccountCircuitOpenTimeout > 0, "ACCOUNT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	env.check(cfg.AccountCircuitHalfOpenMaxReq >= 1, "ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	env.check(cfg.UptraceRequestBodyMaxBytes > 0, "UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	env.check(cfg.PyroscopeUploadRate > 0, "PYROSCOPE_UPLOAD_RATE must be > 0")
	env.check(!cfg.UptraceEnabled || cfg.UptraceDSN != "", "UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	env.check(!cfg.PprofEnabled || cfg.PprofAddr != "", "PPROF_ADDR is required when PPROF_ENABLED=true")
	env.check(!cfg.PyroscopeEnabled || cfg.PyroscopeServerAddress != "", "PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	env.check(!cfg.PyroscopeEnabled || cfg.PyroscopeAppName != "", "PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")

	if env.err != nil {
		return Config{}, env.err
	}
	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	switch value := strings.ToLower(strings.TrimSpace(v)); value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseUptraceDSNFromOTLPHeaders pulls the DSN out of the standard OTLP
// headers variable, the form Uptrace's own deploy templates use.
func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(item), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), "\"'")
	}
	return ""
}

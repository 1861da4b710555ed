package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

// DefaultSessionSecret is only acceptable for local development; startup
// warns when it is in use.
const DefaultSessionSecret = "change_me"

// Config stores runtime configuration for the service. Yahoo credentials
// are optional at boot: their absence surfaces as a misconfiguration on the
// auth routes instead of a startup failure.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	TrustProxy     bool
	LogLevel       logging.Level

	AppOrigin          string
	CORSAllowedOrigins []string

	YahooClientID       string
	YahooClientSecret   string
	YahooRedirectURI    string
	YahooAuthURL        string
	YahooTokenURL       string
	YahooAPIBaseURL     string
	YahooScope          string
	YahooAPITimeout     time.Duration
	YahooTokenTimeout   time.Duration
	YahooCircuitEnabled bool
	YahooCircuitFailure int
	YahooCircuitOpenFor time.Duration

	SessionSecret        string
	SessionSecretDefault bool
	SessionCookieName    string
	SessionCookieSecure  bool
	SessionMaxAge        time.Duration
	SessionStore         string
	SessionSweepInterval time.Duration

	DBURL                   string
	DBDisablePreparedBinary bool
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
	MetricsEnabled     bool

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "fantasy-matchup-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       resolveHTTPAddr(os.Getenv("APP_HTTP_ADDR"), os.Getenv("PORT")),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", getEnv("LOG_LEVEL", "info"))),

		AppOrigin: strings.TrimRight(strings.TrimSpace(getEnv("APP_ORIGIN", "")), "/"),

		YahooClientID:     strings.TrimSpace(getEnv("YAHOO_CLIENT_ID", "")),
		YahooClientSecret: strings.TrimSpace(getEnv("YAHOO_CLIENT_SECRET", "")),
		YahooRedirectURI:  strings.TrimSpace(getEnv("YAHOO_REDIRECT_URI", "")),
		YahooAuthURL:      strings.TrimSpace(getEnv("YAHOO_AUTH_URL", "https://api.login.yahoo.com/oauth2/request_auth")),
		YahooTokenURL:     strings.TrimSpace(getEnv("YAHOO_TOKEN_URL", "https://api.login.yahoo.com/oauth2/get_token")),
		YahooAPIBaseURL:   strings.TrimRight(strings.TrimSpace(getEnv("YAHOO_API_BASE_URL", "https://fantasysports.yahooapis.com/fantasy/v2")), "/"),
		YahooScope:        strings.TrimSpace(getEnv("YAHOO_SCOPE", "fspt-r")),

		SessionCookieName: strings.TrimSpace(getEnv("SESSION_COOKIE_NAME", "yahoo_sess")),
		SessionStore:      strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", SessionStoreMemory))),

		DBURL:         strings.TrimSpace(getEnv("DB_URL", "")),
		RedisAddr:     strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		UptraceDSN:                 strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "fantasy-matchup-api"),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}

	cfg.SessionSecret = getEnv("SESSION_SECRET", "")
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		cfg.SessionSecret = DefaultSessionSecret
		cfg.SessionSecretDefault = true
	}

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", ""))
	if cfg.AppOrigin != "" {
		cfg.CORSAllowedOrigins = append([]string{cfg.AppOrigin}, cfg.CORSAllowedOrigins...)
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = getEnvAsBool("APP_TRUST_PROXY", true); err != nil {
		return Config{}, err
	}

	if cfg.YahooAPITimeout, err = getEnvAsDuration("YAHOO_API_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.YahooTokenTimeout, err = getEnvAsDuration("YAHOO_TOKEN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.YahooCircuitEnabled, err = getEnvAsBool("YAHOO_CIRCUIT_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.YahooCircuitFailure, err = getEnvAsInt("YAHOO_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse YAHOO_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.YahooCircuitFailure <= 0 {
		return Config{}, fmt.Errorf("YAHOO_CIRCUIT_FAILURE_COUNT must be > 0")
	}
	if cfg.YahooCircuitOpenFor, err = getEnvAsDuration("YAHOO_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.SessionCookieName == "" {
		return Config{}, fmt.Errorf("SESSION_COOKIE_NAME cannot be empty")
	}
	if cfg.SessionCookieSecure, err = getEnvAsBool("SESSION_COOKIE_SECURE", true); err != nil {
		return Config{}, err
	}
	if cfg.SessionMaxAge, err = getEnvAsDuration("SESSION_MAX_AGE", "720h"); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweepInterval, err = getEnvAsDuration("SESSION_SWEEP_INTERVAL", "10m"); err != nil {
		return Config{}, err
	}

	switch cfg.SessionStore {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when SESSION_STORE=postgres")
		}
	case SessionStoreRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return Config{}, fmt.Errorf("invalid SESSION_STORE %q: valid values are %s, %s, %s",
			cfg.SessionStore, SessionStoreMemory, SessionStorePostgres, SessionStoreRedis)
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", false); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be >= 0")
	}

	if cfg.AuthRateLimitRPS, err = strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT_RPS", "1"), 64); err != nil {
		return Config{}, fmt.Errorf("parse AUTH_RATE_LIMIT_RPS: %w", err)
	}
	if cfg.AuthRateLimitRPS < 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.AuthRateLimitBurst, err = getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, fmt.Errorf("parse AUTH_RATE_LIMIT_BURST: %w", err)
	}
	if cfg.AuthRateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT_BURST must be > 0")
	}
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", true); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return cfg, nil
}

// YahooCredentialsMissing lists the OAuth settings that are not configured.
func (c Config) YahooCredentialsMissing() []string {
	var missing []string
	if c.YahooClientID == "" {
		missing = append(missing, "YAHOO_CLIENT_ID")
	}
	if c.YahooClientSecret == "" {
		missing = append(missing, "YAHOO_CLIENT_SECRET")
	}
	if c.YahooRedirectURI == "" {
		missing = append(missing, "YAHOO_REDIRECT_URI")
	}
	return missing
}

// resolveHTTPAddr prefers APP_HTTP_ADDR, then a bare PORT, then :10000.
func resolveHTTPAddr(httpAddr, port string) string {
	if addr := strings.TrimSpace(httpAddr); addr != "" {
		return addr
	}
	port = strings.TrimSpace(port)
	if port == "" {
		return ":10000"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
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

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}
	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

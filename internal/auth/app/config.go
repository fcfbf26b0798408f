package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTKey is returned when JWT_KEY is unset.
var ErrMissingJWTKey = errors.New("JWT_KEY must be set")

const (
	defaultJWTExpiryMinutes = 120
	maxJWTExpiryMinutes     = 365 * 24 * 60
)

type Config struct {
	JWTKey        string        // Required: HS256 signing secret
	JWTIssuer     string        // Optional: iss claim, checked on verify when set
	JWTAudience   string        // Optional: aud claim, checked on verify when set
	JWTExpiration time.Duration // Token lifetime, 1m to 1y (default: 120m)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // Path to SQLite database file (default: ./auth.db)
	DatabaseURL    string // Postgres DSN, required when the driver is postgres
	PepperFile     string // Path to file containing pepper for password hashing (default: ./pepper)

	SMTPHost     string // Empty logs outgoing mail instead of sending it
	SMTPPort     int    // (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string // (default: no-reply@edura.local)
	SupportEmail string // Quoted to locked accounts (default: support@edura.local)

	RateLimitEnabled bool           // (default: true)
	TrustedProxies   []netip.Prefix // Peers allowed to set X-Forwarded-For (default: none)

	Env                  string        // Environment (dev, staging, prod) (default: prod)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads .env when present, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		JWTKey:        os.Getenv("JWT_KEY"),
		JWTIssuer:     os.Getenv("JWT_ISSUER"),
		JWTAudience:   os.Getenv("JWT_AUDIENCE"),
		JWTExpiration: jwtExpiry(getEnvIntOrDefault("JWT_EXPIRES_MINUTES", defaultJWTExpiryMinutes)),

		DatabaseDriver: getEnvOrDefault("AUTH_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@edura.local"),
		SupportEmail: getEnvOrDefault("SUPPORT_EMAIL", "support@edura.local"),

		RateLimitEnabled: getEnvBoolOrDefault("RATELIMIT_ENABLED", true),

		Env:                  getEnvOrDefault("ENV", "prod"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	proxies, err := parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return cfg, err
	}
	cfg.TrustedProxies = proxies

	if cfg.JWTKey == "" {
		return cfg, ErrMissingJWTKey
	}
	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseURL == "" {
		return cfg, errors.New("AUTH_DATABASE_URL must be set for the postgres driver")
	}

	return cfg, nil
}

// jwtExpiry converts minutes to a lifetime. Values outside 1m..1y fall back
// to the default, which also keeps the multiplication from overflowing.
func jwtExpiry(minutes int) time.Duration {
	if minutes <= 0 || minutes > maxJWTExpiryMinutes {
		minutes = defaultJWTExpiryMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// parseTrustedProxies reads a comma separated list of CIDRs or bare IPs.
func parseTrustedProxies(value string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if strings.Contains(field, "/") {
			p, err := netip.ParsePrefix(field)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(field)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

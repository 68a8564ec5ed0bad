package app

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/metinatakli/cinema-booking/internal/middleware"
)

type Config struct {
	Port             int
	Env              string
	CatalogFile      string
	JournalFile      string
	OtelCollectorUrl string
	Redis            RedisConfig
	RateLimit        middleware.RateLimitConfig
	CORS             CORSConfig
	DisplayVersion   bool
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// parseConfig reads flags from args. Every flag falls back to an
// environment variable, which a .env file may have provided.
func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	var origins string

	fs.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "server port")
	fs.StringVar(&cfg.Env, "env", envString("ENV", "dev"), "Environment (dev|staging|prod)")

	fs.StringVar(&cfg.CatalogFile, "catalog-file", envString("CATALOG_FILE", ""), "YAML movie catalog, built-in catalog when empty")
	fs.StringVar(&cfg.JournalFile, "journal-file", envString("JOURNAL_FILE", ""), "File ticket events are appended to")
	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", envString("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")

	fs.StringVar(&cfg.Redis.URL, "redis-url", envString("REDIS_URL", ""), "Redis URL or address")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", envInt("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", envInt("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", envDuration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")

	fs.BoolVar(&cfg.RateLimit.Enabled, "ratelimit-enabled", envBool("RATELIMIT_ENABLED", true), "Rate limit bookings and cancellations (needs Redis)")
	fs.IntVar(&cfg.RateLimit.Capacity, "ratelimit-capacity", envInt("RATELIMIT_CAPACITY", 20), "Token bucket size per client")
	fs.IntVar(&cfg.RateLimit.RefillTokens, "ratelimit-refill", envInt("RATELIMIT_REFILL", 1), "Tokens added per refill interval")
	fs.DurationVar(&cfg.RateLimit.RefillInterval, "ratelimit-interval", envDuration("RATELIMIT_INTERVAL", 3*time.Second), "Refill interval")
	fs.DurationVar(&cfg.RateLimit.TTL, "ratelimit-ttl", envDuration("RATELIMIT_TTL", 10*time.Minute), "Idle bucket expiry")
	fs.StringVar(&cfg.RateLimit.Prefix, "ratelimit-prefix", envString("RATELIMIT_PREFIX", "cinema:rl"), "Redis key prefix for buckets")

	fs.StringVar(&origins, "cors-trusted-origins", envString("CORS_TRUSTED_ORIGINS", "*"), "Trusted CORS origins (space separated)")

	fs.BoolVar(&cfg.DisplayVersion, "version", false, "Display version and exit")

	err := fs.Parse(args)
	if err != nil {
		return Config{}, err
	}

	cfg.CORS.AllowedOrigins = strings.Fields(origins)

	return cfg, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}

	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}

	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}

	return def
}

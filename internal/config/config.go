package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_food/internal/ledger"
	"github.com/samber/lo"
)

type Config struct {
	HTTPPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers     []string
	OrderEventsTopic string
	AuditGroupID     string

	// Postgres is nil when POSTGRES_HOST is unset; the ledger is then disabled.
	Postgres *ledger.Credentials

	StripeSecretKey string
	FrontendURL     string
	AdminURL        string
	// AllowedOrigins is ALLOWED_ORIGINS when set, else the storefront and admin URLs.
	AllowedOrigins []string
	// JWTSecret has no default; cmd/api refuses to start without it.
	JWTSecret []byte
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "4000"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 1<<20)),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "food-del"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order-events"),
		AuditGroupID:     getEnv("AUDIT_GROUP_ID", "order-audit"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		FrontendURL:     strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5174"), "/"),
		AdminURL:        strings.TrimRight(getEnv("ADMIN_URL", "http://localhost:5173"), "/"),
		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
	}

	cfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = lo.Uniq([]string{cfg.FrontendURL, cfg.AdminURL})
	}

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		cfg.Postgres = &ledger.Credentials{
			Host:              host,
			Port:              getEnvInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "postgres"),
			Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:            getEnv("POSTGRES_DB", "food_ledger"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./internal/ledger/migrations"),
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

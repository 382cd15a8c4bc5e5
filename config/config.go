package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeProduction = "production"
	ModeTest       = "test"
)

type Config struct {
	Port string
	Mode string // "production" or "test"

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL string

	KafkaBrokers string // comma-separated; empty disables the event stream
	KafkaTopic   string

	// Settlement simulation. In production mode workers sleep a random
	// duration inside [Min, Max]; in test mode they sleep TestDelay.
	PaymentDelayMin time.Duration
	PaymentDelayMax time.Duration
	RefundDelayMin  time.Duration
	RefundDelayMax  time.Duration
	TestDelay       time.Duration

	// TestPaymentSuccess forces the settlement outcome in test mode.
	TestPaymentSuccess bool

	// WebhookRetryIntervals is the delay-before-next-attempt table indexed
	// by the attempt number that just failed.
	WebhookRetryIntervals []time.Duration
	WebhookTimeout        time.Duration

	IdempotencyTTL time.Duration
}

var (
	retryIntervals     = []time.Duration{0, 60 * time.Second, 300 * time.Second, 1800 * time.Second, 7200 * time.Second}
	testRetryIntervals = []time.Duration{0, 5 * time.Second, 10 * time.Second, 15 * time.Second, 20 * time.Second}
)

func LoadConfig() (*Config, error) {
	// No .env file is fine; fall back to the process environment.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Mode:             getEnv("GATEWAY_MODE", ModeProduction),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:       getEnv("KAFKA_PAYMENT_EVENTS_TOPIC", "payment-events"),
		PaymentDelayMin:  5 * time.Second,
		PaymentDelayMax:  10 * time.Second,
		RefundDelayMin:   3 * time.Second,
		RefundDelayMax:   5 * time.Second,
		TestDelay:        getDurationMs("TEST_PROCESSING_DELAY_MS", time.Second),
		WebhookTimeout:   5 * time.Second,
		IdempotencyTTL:   24 * time.Hour,
	}

	if cfg.Mode != ModeProduction && cfg.Mode != ModeTest {
		return nil, fmt.Errorf("invalid GATEWAY_MODE %q", cfg.Mode)
	}

	cfg.TestPaymentSuccess = getEnv("TEST_PAYMENT_SUCCESS", "true") != "false"

	if cfg.Mode == ModeTest {
		cfg.WebhookRetryIntervals = testRetryIntervals
	} else {
		cfg.WebhookRetryIntervals = retryIntervals
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

// IsTest reports whether the gateway runs with deterministic settlement.
func (c *Config) IsTest() bool { return c.Mode == ModeTest }

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationMs(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}

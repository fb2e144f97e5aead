package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "dev-secret-change-me"

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	Env            string
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string

	// Realtime heartbeat and handshake tuning.
	PingInterval     time.Duration
	PongTimeout      time.Duration
	HandshakeTimeout time.Duration

	AMQPURL   string // empty disables domain event publishing
	AMQPQueue string

	LikeAuditSchedule string // cron schedule, empty disables the audit
	StatsInterval     time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load loads configuration from an optional .env file and environment variables,
// falling back to defaults.
func Load() (*Config, error) {
	// A missing .env is fine, the environment is the source of truth in production.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "./artverse.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("WS_PING_INTERVAL", "25s")
	v.SetDefault("WS_PONG_TIMEOUT", "60s")
	v.SetDefault("WS_HANDSHAKE_TIMEOUT", "10s")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_QUEUE", "artverse_events")
	v.SetDefault("LIKE_AUDIT_SCHEDULE", "@every 1h")
	v.SetDefault("STATS_INTERVAL", "1m")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.AutomaticEnv()

	port, err := strconv.Atoi(strings.TrimSpace(v.GetString("PORT")))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cfg := &Config{
		ServerPort:        port,
		Env:               v.GetString("APP_ENV"),
		DatabaseDriver:    strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AMQPURL:           v.GetString("AMQP_URL"),
		AMQPQueue:         v.GetString("AMQP_QUEUE"),
		LikeAuditSchedule: strings.TrimSpace(v.GetString("LIKE_AUDIT_SCHEDULE")),
		RateLimitRPS:      v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TOKEN_TTL", &cfg.TokenTTL},
		{"WS_PING_INTERVAL", &cfg.PingInterval},
		{"WS_PONG_TIMEOUT", &cfg.PongTimeout},
		{"WS_HANDSHAKE_TIMEOUT", &cfg.HandshakeTimeout},
		{"STATS_INTERVAL", &cfg.StatsInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("STATS_INTERVAL must be positive")
	}
	if c.PongTimeout <= c.PingInterval {
		return fmt.Errorf("WS_PONG_TIMEOUT (%s) must exceed WS_PING_INTERVAL (%s)", c.PongTimeout, c.PingInterval)
	}
	return nil
}

// splitList turns a comma-separated env value into a clean slice.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if item := strings.TrimRight(strings.TrimSpace(p), "/"); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SessionSecret string // Required: HMAC secret for session tokens
	Issuer        string // Optional: issuer claim for session tokens (default: squadcap)
	BaseURL       string // Optional: public origin used in invitation links (default: http://localhost:8080)

	DatabaseFile  string        // Optional: path to SQLite database file (default: ./squadcap.db)
	RedisAddr     string        // Optional: Redis address for distributed rate limiting; empty means local-only
	RedisPassword string        // Optional: Redis password
	InvitationTTL time.Duration // Optional: lifetime of issued invitations (default: 72h)

	SMTPHost     string // Optional: SMTP relay host; empty disables mail delivery
	SMTPPort     int    // Optional: SMTP relay port (default: 587)
	SMTPUsername string // Optional: SMTP AUTH username
	SMTPPassword string // Optional: SMTP AUTH password
	SMTPFrom     string // Optional: From address for outgoing mail

	AdminEmail    string // Optional: seed admin email, used only when the user table is empty
	AdminPassword string // Optional: seed admin password

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Invitation expiry sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Issuer:        getEnvOrDefault("ISSUER", "squadcap"),
		BaseURL:       getEnvOrDefault("BASE_URL", "http://localhost:8080"),

		DatabaseFile:  getEnvOrDefault("DATABASE_FILE", "squadcap.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		InvitationTTL: getEnvDurationOrDefault("INVITATION_TTL", 72*time.Hour),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "noreply@squadcap.local"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

// Package config loads application configuration from environment
// variables. Required values are enforced with must(); tunables fall
// back to the documented defaults.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Strings for
// identifiers and secrets, ints for durations and limits.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	SessionTTLDays   int // bearer session validity in days
	ResetTokenTTLMin int // password reset token validity in minutes
	LoginMaxAttempts int // failed logins before lockout
	LoginLockoutSec  int // sliding lockout window in seconds

	LimiterBackend string // "memory" (default) or "redis"

	AppScheme string // deep link scheme for the mobile app
	WebURL    string // HTTPS base for links embedded in emails

	SMTPHost         string // SMTP relay host (empty disables delivery)
	SMTPPort         string // SMTP relay port
	SMTPUser         string // SMTP username (optional)
	SMTPPass         string // SMTP password (optional)
	EmailFromAddress string // From address for outbound mail
	EmailFromName    string // From display name for outbound mail

	MailQueueEnabled bool // route outbound mail through RabbitMQ
}

// Load reads configuration from the environment. Missing required
// variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		SessionTTLDays:   envInt("SESSION_TTL_DAYS", 30),
		ResetTokenTTLMin: envInt("RESET_TOKEN_TTL_MIN", 60),
		LoginMaxAttempts: envInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockoutSec:  envInt("LOGIN_LOCKOUT_SECONDS", 300),

		LimiterBackend: envStr("LOGIN_LIMITER_BACKEND", "memory"),

		AppScheme: envStr("APP_SCHEME", "lucaapp"),
		WebURL:    envStr("WEB_URL", "https://luca-app-dev.onrender.com"),

		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         envStr("SMTP_PORT", "587"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		EmailFromAddress: envStr("EMAIL_FROM_ADDRESS", "lucaapp12@gmail.com"),
		EmailFromName:    envStr("EMAIL_FROM_NAME", "Luca App Team"),

		MailQueueEnabled: envBool("MAIL_QUEUE_ENABLED", false),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid int for %s: %q, using default %d", key, v, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	SessionTTL      time.Duration
	AllowOrigins    []string
	CookieSecure    bool
	LogLevel        string
	LogstashTCPAddr string
	SwaggerSpecPath string

	MailProvider string
	MailBrand    string
	MailTimeout  time.Duration
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	ResendAPIKey string

	PasswordResetTTL           time.Duration
	PasswordResetPINLength     int
	PasswordResetSweepInterval time.Duration

	EngineerCacheTTL     time.Duration
	EngineerRosterPath   string
	EngineerRosterBucket string
	EngineerRosterObject string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     must("DATABASE_URL"),
		JWTSecret:       must("JWT_SECRET"),
		SessionTTL:      getDuration("SESSION_TTL", 24*time.Hour),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		CookieSecure:    getenv("COOKIE_SECURE", "false") == "true",
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		SwaggerSpecPath: getenv("SWAGGER_SPEC_PATH", "docs/swagger.yaml"),

		MailProvider: strings.ToLower(getenv("MAIL_PROVIDER", "smtp")),
		MailBrand:    getenv("MAIL_BRAND", "Hanuram Constructions"),
		MailTimeout:  getDuration("MAIL_TIMEOUT", 10*time.Second),
		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		ResendAPIKey: getenv("RESEND_API_KEY", ""),

		PasswordResetTTL:           getDuration("PASSWORD_RESET_TTL", 15*time.Minute),
		PasswordResetPINLength:     getInt("PASSWORD_RESET_PIN_LENGTH", 6),
		PasswordResetSweepInterval: getDuration("PASSWORD_RESET_SWEEP_INTERVAL", 5*time.Minute),

		EngineerCacheTTL:     getDuration("ENGINEER_CACHE_TTL", 10*time.Minute),
		EngineerRosterPath:   getenv("ENGINEER_ROSTER_PATH", ""),
		EngineerRosterBucket: getenv("ENGINEER_ROSTER_BUCKET", ""),
		EngineerRosterObject: getenv("ENGINEER_ROSTER_OBJECT", "engineers.json"),

		MinIOEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 5),
	}
}

// RosterFromObjectStore reports whether the engineer roster should be read
// from MinIO instead of the local file system.
func (c Config) RosterFromObjectStore() bool {
	return c.MinIOEndpoint != "" && c.EngineerRosterBucket != ""
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func getFloat(k string, d float64) float64 {
	if v, err := strconv.ParseFloat(getenv(k, ""), 64); err == nil && v > 0 {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// RequiredKeys must be present in production or the process refuses to start.
var RequiredKeys = []string{
	"SMTP_HOST",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
	"CONTACT_EMAIL_TO",
}

type Config struct {
	Port        string
	Env         string
	DBUrl       string
	FrontendURL string
	// SMTP relay for the contact form
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SMTPFromEmail   string // Verified sender, may differ from the SMTP login
	ContactEmailTo  string
	ContactEmailBcc string
	RelayTimeout    time.Duration
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Contact form rate limiting
	ContactRateLimitWindowSeconds int
	ContactRateLimitThreshold     int
	ContactSessionIdleMinutes     int
	// Feature flags
	MaintenanceMode      bool
	EnableErrorReporting bool

	values map[string]string
}

func LoadConfig() (*Config, error) {
	// Only effective locally; in production the platform provides the env
	_ = godotenv.Load()

	values := snapshotEnv()
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         environmentTag(),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:8080"), "/"),
		// SMTP Configuration
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:   getEnv("SMTP_FROM_EMAIL", "noreply@zephyrs24.com"),
		ContactEmailTo:  getEnv("CONTACT_EMAIL_TO", ""),
		ContactEmailBcc: getEnv("CONTACT_EMAIL_BCC", "frontdesk@zephyrs24.com"),
		RelayTimeout:    time.Duration(getEnvInt("RELAY_TIMEOUT_SECONDS", 30)) * time.Second,
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (5 messages per minute per IP)
		ContactRateLimitWindowSeconds: getEnvInt("CONTACT_RATE_LIMIT_WINDOW_SECONDS", 60),
		ContactRateLimitThreshold:     getEnvInt("CONTACT_RATE_LIMIT_THRESHOLD", 5),
		ContactSessionIdleMinutes:     getEnvInt("CONTACT_SESSION_IDLE_MINUTES", 30),
		// Feature flags
		MaintenanceMode: getEnvBool("MAINTENANCE_MODE", false),
		values:          values,
	}
	cfg.EnableErrorReporting = getEnvBool("ENABLE_ERROR_REPORTING", cfg.IsProduction())

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Contact inquiries will not be archived.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// New builds a Config from an explicit key/value set. Used by tests and tools
// that must not read the process environment.
func New(env string, values map[string]string) *Config {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Config{
		Port:            "8080",
		Env:             env,
		SMTPHost:        copied["SMTP_HOST"],
		SMTPPort:        "587",
		SMTPUsername:    copied["SMTP_USERNAME"],
		SMTPPassword:    copied["SMTP_PASSWORD"],
		ContactEmailTo:  copied["CONTACT_EMAIL_TO"],
		ContactEmailBcc: copied["CONTACT_EMAIL_BCC"],
		RelayTimeout:    30 * time.Second,
		values:          copied,
	}
}

// Get returns the raw value of a configuration key as it was at load time.
// Empty values count as absent.
func (c *Config) Get(key string) (string, bool) {
	v, ok := c.values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Environment returns the environment tag ("production", "development", ...).
func (c *Config) Environment() string {
	return c.Env
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// environmentTag resolves APP_ENV, falling back to GIN_MODE so that a release
// build without APP_ENV still behaves as production.
func environmentTag() string {
	if env := strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", ""))); env != "" {
		return env
	}
	if os.Getenv("GIN_MODE") == "release" {
		return EnvProduction
	}
	return EnvDevelopment
}

func snapshotEnv() map[string]string {
	values := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}
	return values
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

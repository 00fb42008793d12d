package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir   string
	LogLevel string

	DatabaseDriver string // memory | postgres | sqlite
	DatabaseURL    string // postgres DSN or sqlite file path

	PublicAPIKeys  []string
	AdminAPIKeys   []string
	AllowedOrigins []string
	PublicRPM      int
	PublicBurst    int
	AdminRPM       int
	AdminBurst     int

	// Probing
	ProbeMode     string // direct | relay | task
	HTTPTimeout   time.Duration
	RelayURL      string
	TaskAPIURL    string
	ProbeAPIKey   string
	RetryAttempts int
	RetryBackoff  time.Duration

	// Check cycle
	BatchSize     int
	BatchDelay    time.Duration
	CheckInterval time.Duration // 0 disables the in-process loop

	// Notifications
	NotifyMode         string // email | webhook | log
	NotifyWebhookURL   string
	NotifyWebhookKey   string
	NotifyRetryPending bool
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPassword       string
	SMTPFrom           string
}

// FromEnv reads the process environment. A .env file (ENV_FILE, default ".env")
// is loaded first when present; variables already set are never overridden.
func FromEnv() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	db := os.Getenv("DATABASE_URL")
	driver := strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if driver == "" {
		// empty URL means use the in-memory store
		driver = "memory"
		if db != "" {
			driver = "postgres"
		}
	}

	return Config{
		Addr:     firstNonEmpty(os.Getenv("API_ADDR"), os.Getenv("ADDR"), "127.0.0.1:8080"),
		LogDir:   getEnv("LOG_DIR", "logs"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseDriver: driver,
		DatabaseURL:    db,

		PublicAPIKeys:  splitList(os.Getenv("PUBLIC_API_KEYS")),
		AdminAPIKeys:   splitList(os.Getenv("ADMIN_API_KEYS")),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		PublicRPM:      getEnvInt("PUBLIC_RPM", 120, 0),
		PublicBurst:    getEnvInt("PUBLIC_BURST", 60, 1),
		AdminRPM:       getEnvInt("ADMIN_RPM", 60, 0),
		AdminBurst:     getEnvInt("ADMIN_BURST", 20, 1),

		ProbeMode:     strings.ToLower(getEnv("PROBE_MODE", "direct")),
		HTTPTimeout:   getEnvMillis("HTTP_TIMEOUT_MS", 10*time.Second, time.Millisecond),
		RelayURL:      getEnv("RELAY_URL", "https://api.allorigins.win/get"),
		TaskAPIURL:    os.Getenv("TASK_API_URL"),
		ProbeAPIKey:   os.Getenv("PROBE_API_KEY"),
		RetryAttempts: getEnvInt("RETRY_ATTEMPTS", 1, 1),
		RetryBackoff:  getEnvMillis("RETRY_BACKOFF_MS", 300*time.Millisecond, 0),

		BatchSize:     getEnvInt("CHECK_BATCH_SIZE", 10, 1),
		BatchDelay:    getEnvMillis("CHECK_BATCH_DELAY_MS", 5*time.Second, 0),
		CheckInterval: getEnvMillis("CHECK_INTERVAL_MS", 0, 0),

		NotifyMode:         strings.ToLower(getEnv("NOTIFY_MODE", "email")),
		NotifyWebhookURL:   os.Getenv("NOTIFY_WEBHOOK_URL"),
		NotifyWebhookKey:   os.Getenv("NOTIFY_WEBHOOK_KEY"),
		NotifyRetryPending: getEnvBool("NOTIFY_RETRY_PENDING", false),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587, 1),
		SMTPUser:           firstNonEmpty(os.Getenv("SMTP_USER"), os.Getenv("EMAIL_USER")),
		SMTPPassword:       firstNonEmpty(os.Getenv("SMTP_PASSWORD"), os.Getenv("EMAIL_PASSWORD")),
		SMTPFrom:           firstNonEmpty(os.Getenv("SMTP_FROM"), os.Getenv("SMTP_USER"), os.Getenv("EMAIL_USER")),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt falls back to def when the value is missing, malformed or below min.
func getEnvInt(key string, def, min int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			return n
		}
	}
	return def
}

// getEnvMillis reads a millisecond count; missing, malformed or below-min values give def.
// min must not be negative.
func getEnvMillis(key string, def, min time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			if d := time.Duration(ms) * time.Millisecond; d >= min {
				return d
			}
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

// splitList turns "a, b,,c" into [a b c].
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

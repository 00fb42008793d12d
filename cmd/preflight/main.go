// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/sitewatch/internal/config"
)

func main() {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	if len(cfg.AdminAPIKeys) == 0 {
		fail("ADMIN_API_KEYS is empty (admin routes, including /api/check-sites, are open).")
	}
	if len(cfg.PublicAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty (only admin keys can read).")
	}
	for name, v := range map[string]string{"ADMIN_API_KEYS": os.Getenv("ADMIN_API_KEYS"), "PUBLIC_API_KEYS": os.Getenv("PUBLIC_API_KEYS")} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}
	ok("API_ADDR=" + cfg.Addr)

	switch cfg.DatabaseDriver {
	case "memory":
		warn("DATABASE_URL empty: sites live in memory and are lost on restart.")
	case "postgres", "sqlite":
		if cfg.DatabaseDriver == "postgres" && cfg.DatabaseURL == "" {
			fail("DATABASE_DRIVER=postgres needs DATABASE_URL.")
		} else {
			ok("store=" + cfg.DatabaseDriver)
		}
	default:
		fail("DATABASE_DRIVER must be memory, postgres or sqlite, got " + cfg.DatabaseDriver)
	}

	switch cfg.ProbeMode {
	case "direct":
		ok("PROBE_MODE=direct")
	case "relay":
		ok("PROBE_MODE=relay via " + cfg.RelayURL)
	case "task":
		if cfg.TaskAPIURL == "" {
			fail("PROBE_MODE=task needs TASK_API_URL.")
		}
		if cfg.ProbeAPIKey == "" {
			warn("PROBE_API_KEY empty; most task APIs reject anonymous jobs.")
		}
	default:
		fail("PROBE_MODE must be direct, relay or task, got " + cfg.ProbeMode)
	}

	switch cfg.NotifyMode {
	case "email":
		if cfg.SMTPUser == "" || cfg.SMTPPassword == "" {
			fail("NOTIFY_MODE=email needs SMTP_USER and SMTP_PASSWORD.")
		} else {
			ok("SMTP " + cfg.SMTPHost + " as " + cfg.SMTPFrom)
		}
	case "webhook":
		if cfg.NotifyWebhookURL == "" {
			fail("NOTIFY_MODE=webhook needs NOTIFY_WEBHOOK_URL.")
		} else {
			ok("NOTIFY_WEBHOOK_URL=" + cfg.NotifyWebhookURL)
		}
	case "log":
		warn("NOTIFY_MODE=log: offline notifications are only logged.")
	default:
		fail("NOTIFY_MODE must be email, webhook or log, got " + cfg.NotifyMode)
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty: browsers will be blocked by CORS for cross-origin requests.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.CheckInterval == 0 {
		warn("CHECK_INTERVAL_MS=0: cycles run only when triggered (POST /api/check-sites or the CLI).")
	} else {
		ok("check loop every " + cfg.CheckInterval.String())
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}

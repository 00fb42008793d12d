package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/config"
	"github.com/hamed0406/sitewatch/internal/httpapi"
	apimw "github.com/hamed0406/sitewatch/internal/httpapi/middleware"
	"github.com/hamed0406/sitewatch/internal/logging"
	"github.com/hamed0406/sitewatch/internal/notify"
	"github.com/hamed0406/sitewatch/internal/probe"
	"github.com/hamed0406/sitewatch/internal/repo"
	"github.com/hamed0406/sitewatch/internal/repo/memory"
	"github.com/hamed0406/sitewatch/internal/repo/postgres"
	"github.com/hamed0406/sitewatch/internal/repo/sqlite"
	"github.com/hamed0406/sitewatch/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api_failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	prober, err := probe.New(probe.Options{
		Mode:          cfg.ProbeMode,
		Timeout:       cfg.HTTPTimeout,
		RelayURL:      cfg.RelayURL,
		TaskAPIURL:    cfg.TaskAPIURL,
		APIKey:        cfg.ProbeAPIKey,
		RetryAttempts: cfg.RetryAttempts,
		RetryBackoff:  cfg.RetryBackoff,
	})
	if err != nil {
		return fmt.Errorf("prober: %w", err)
	}

	smtp := notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	notifier, err := notify.New(notify.Options{
		Mode:       cfg.NotifyMode,
		WebhookURL: cfg.NotifyWebhookURL,
		WebhookKey: cfg.NotifyWebhookKey,
		SMTP:       smtp,
	}, logger)
	if err != nil {
		return fmt.Errorf("notifier: %w", err)
	}

	// POST /api/notify always delivers by email, whatever NOTIFY_MODE the checker uses.
	var mailer notify.Notifier
	if em, err := notify.NewEmail(smtp, logger); err != nil {
		logger.Warn("notify_endpoint_disabled", zap.Error(err))
	} else {
		mailer = em
	}

	checker := scheduler.NewChecker(logger, store, store, prober, notifier, scheduler.Config{
		BatchSize:                 cfg.BatchSize,
		BatchDelay:                cfg.BatchDelay,
		ProbeTimeout:              time.Duration(cfg.RetryAttempts) * (cfg.HTTPTimeout + cfg.RetryBackoff),
		RetryPendingNotifications: cfg.NotifyRetryPending,
	})
	go scheduler.NewLoop(logger, checker, cfg.CheckInterval).Run(ctx)

	api := httpapi.NewServer(logger, store, store, checker, mailer)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.String("store", cfg.DatabaseDriver),
			zap.String("probe_mode", cfg.ProbeMode),
			zap.String("notify_mode", cfg.NotifyMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("api_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.Store, error) {
	switch cfg.DatabaseDriver {
	case "memory":
		return memory.New(), nil
	case "postgres":
		st, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return st, nil
	case "sqlite":
		path := cfg.DatabaseURL
		if path == "" {
			path = "sitewatch.db"
		}
		st, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
}

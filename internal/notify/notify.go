package notify

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errInvalidConfig = errors.New("invalid notifier config")

// Notifier tells administrators that a site went OFFLINE. It reports delivery
// success and never fails the caller; causes are logged, and nothing is retried here.
type Notifier interface {
	Notify(ctx context.Context, siteName, siteURL string, recipients []string) bool
}

const (
	ModeEmail   = "email"
	ModeWebhook = "webhook"
	ModeLog     = "log"
)

type Options struct {
	Mode       string
	WebhookURL string
	WebhookKey string
	SMTP       SMTPConfig
}

// New builds the notifier selected by opts.Mode.
func New(opts Options, log *zap.Logger) (Notifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(opts.Mode)) {
	case "", ModeEmail:
		return NewEmail(opts.SMTP, log)
	case ModeWebhook:
		w, err := NewWebhook(opts.WebhookURL, log)
		if err != nil {
			return nil, err
		}
		w.APIKey = opts.WebhookKey
		return w, nil
	case ModeLog:
		return &LogNotifier{Logger: log}, nil
	}
	return nil, errors.Wrapf(errInvalidConfig, "unknown notify mode %q", opts.Mode)
}

// LogNotifier only writes the alert to the log. Meant for local runs without SMTP.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l *LogNotifier) Notify(ctx context.Context, siteName, siteURL string, recipients []string) bool {
	if len(recipients) == 0 {
		l.Logger.Warn("notify_no_recipients", zap.String("site", siteName))
		return false
	}
	l.Logger.Info("notify_logged",
		zap.String("site", siteName),
		zap.String("url", siteURL),
		zap.Strings("to", recipients),
	)
	return true
}

// cleanRecipients trims and drops empty addresses.
func cleanRecipients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

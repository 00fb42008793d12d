package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// WebhookNotifier hands the alert to a configured callback endpoint, such as
// another instance's POST /api/notify.
type WebhookNotifier struct {
	URL    string
	APIKey string // sent as X-API-Key when set
	Client *http.Client
	logger *zap.Logger
}

func NewWebhook(target string, log *zap.Logger) (*WebhookNotifier, error) {
	u, err := url.Parse(target)
	if target == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Wrapf(errInvalidConfig, "webhook url %q is not an http(s) URL", target)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookNotifier{
		URL:    target,
		Client: &http.Client{Timeout: 10 * time.Second},
		logger: log,
	}, nil
}

type webhookPayload struct {
	ClientName string   `json:"clientName"`
	ClientURL  string   `json:"clientUrl"`
	Recipients []string `json:"recipients"`
}

func (w *WebhookNotifier) Notify(ctx context.Context, siteName, siteURL string, recipients []string) bool {
	to := cleanRecipients(recipients)
	if len(to) == 0 {
		w.logger.Warn("notify_no_recipients", zap.String("site", siteName))
		return false
	}
	body, _ := json.Marshal(webhookPayload{ClientName: siteName, ClientURL: siteURL, Recipients: to})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		w.logger.Error("notify_webhook_failed", zap.String("site", siteName), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if w.APIKey != "" {
		req.Header.Set("X-API-Key", w.APIKey)
	}

	resp, err := w.Client.Do(req)
	if err != nil {
		w.logger.Error("notify_webhook_failed", zap.String("site", siteName), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		w.logger.Error("notify_webhook_failed",
			zap.String("site", siteName),
			zap.Int("status", resp.StatusCode),
		)
		return false
	}
	return true
}

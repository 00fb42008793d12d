package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/repo"
)

type notifyPayload struct {
	Name string `json:"clientName"`
	URL  string `json:"clientUrl"`
	// Recipients is sent by WebhookNotifier; the stored administrators are used instead.
	Recipients []string `json:"recipients,omitempty"`
}

// handleNotify emails every administrator that a site is OFFLINE. It is the
// receiving end of NOTIFY_MODE=webhook deployments.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if s.Notifier == nil {
		writeError(w, http.StatusServiceUnavailable, "notifications are not configured")
		return
	}
	var p notifyPayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	p.Name, p.URL = strings.TrimSpace(p.Name), strings.TrimSpace(p.URL)
	if p.Name == "" || p.URL == "" {
		writeError(w, http.StatusBadRequest, "clientName and clientUrl are required")
		return
	}

	emails, err := repo.AdminEmails(r.Context(), s.Admins)
	if err != nil {
		s.Logger.Error("notify_list_admins_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load administrators")
		return
	}
	if len(emails) == 0 {
		writeError(w, http.StatusInternalServerError, "no administrators to notify")
		return
	}
	if !s.Notifier.Notify(r.Context(), p.Name, p.URL, emails) {
		writeError(w, http.StatusInternalServerError, "notification failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "notification sent", "recipients": len(emails)})
}

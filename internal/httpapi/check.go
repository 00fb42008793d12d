package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/scheduler"
)

type checkResponse struct {
	Message string            `json:"message"`
	Report  *scheduler.Report `json:"report"`
}

// handleCheckSites runs one cycle synchronously.
// Query: batch_size (>= 1) and delay_ms (>= 0), both optional.
func (s *Server) handleCheckSites(w http.ResponseWriter, r *http.Request) {
	batchSize, delay := 0, time.Duration(-1)

	q := r.URL.Query()
	if v := q.Get("batch_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "batch_size must be a positive integer")
			return
		}
		batchSize = n
	}
	if v := q.Get("delay_ms"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			writeError(w, http.StatusBadRequest, "delay_ms must be a non-negative integer")
			return
		}
		delay = time.Duration(ms) * time.Millisecond
	}

	// the cycle finishes even if the caller hangs up
	ctx := context.WithoutCancel(r.Context())
	rep, err := s.Checker.RunCycle(ctx, batchSize, delay)
	if err != nil {
		s.Logger.Error("check_sites_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "check cycle did not start: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Message: rep.Message(), Report: rep})
}

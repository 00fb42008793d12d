package scheduler

import (
	"fmt"
	"time"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// Report summarises one completed cycle.
type Report struct {
	Batches      int           `json:"batches"`
	Checked      int           `json:"checked"`
	Online       int           `json:"online"`
	Offline      int           `json:"offline"`
	Notified     int           `json:"notified"`
	NotifyFailed int           `json:"notifyFailed"`
	Recovered    int           `json:"recovered"`
	Skipped      int           `json:"skipped"`
	Interrupted  bool          `json:"interrupted"`
	Errors       []SiteError   `json:"errors,omitempty"`
	Duration     time.Duration `json:"durationNs"`
}

type SiteError struct {
	SiteID domain.SiteID `json:"siteId"`
	URL    string        `json:"url"`
	Error  string        `json:"error"`
}

func (r *Report) Message() string {
	msg := fmt.Sprintf("checked %d sites in %d batches: %d online, %d offline, %d notified, %d notification failures, %d recovered",
		r.Checked, r.Batches, r.Online, r.Offline, r.Notified, r.NotifyFailed, r.Recovered)
	if n := len(r.Errors); n > 0 {
		msg += fmt.Sprintf(" (%d site errors)", n)
	}
	if r.Interrupted {
		msg += " (interrupted)"
	}
	return msg
}

// siteOutcome is what one site's check contributes to the report.
type siteOutcome struct {
	status       domain.Status
	skipped      bool
	notified     bool
	notifyFailed bool
	recovered    bool
	err          error
}

func (r *Report) add(site domain.MonitoredSite, o siteOutcome) {
	if o.skipped {
		r.Skipped++
		return
	}
	r.Checked++
	switch o.status {
	case domain.StatusOnline:
		r.Online++
	case domain.StatusOffline:
		r.Offline++
	}
	if o.notified {
		r.Notified++
	}
	if o.notifyFailed {
		r.NotifyFailed++
	}
	if o.recovered {
		r.Recovered++
	}
	if o.err != nil {
		r.Errors = append(r.Errors, SiteError{SiteID: site.ID, URL: site.URL, Error: o.err.Error()})
	}
}

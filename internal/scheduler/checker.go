package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/notify"
	"github.com/hamed0406/sitewatch/internal/probe"
	"github.com/hamed0406/sitewatch/internal/repo"
)

// ErrListSites means the cycle did not start because the site list could not be read.
var ErrListSites = errors.New("list sites")

const (
	DefaultBatchSize    = 10
	DefaultBatchDelay   = 5 * time.Second
	DefaultProbeTimeout = 10 * time.Second
)

type Config struct {
	BatchSize    int
	BatchDelay   time.Duration
	ProbeTimeout time.Duration
	// Guard is shared by every cycle of this checker. Nil means a fresh one.
	Guard *InFlight
	// RetryPendingNotifications re-sends for sites that are still OFFLINE but
	// whose earlier notification failed.
	RetryPendingNotifications bool
}

// Checker runs check cycles: probe every site, persist the result and
// notify administrators when a site goes OFFLINE.
type Checker struct {
	logger   *zap.Logger
	sites    repo.SiteStore
	admins   repo.AdminStore
	prober   probe.Prober
	notifier notify.Notifier
	cfg      Config
	guard    *InFlight

	sleep func(ctx context.Context, d time.Duration) error
}

func NewChecker(
	logger *zap.Logger,
	sites repo.SiteStore,
	admins repo.AdminStore,
	prober probe.Prober,
	notifier notify.Notifier,
	cfg Config,
) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = DefaultBatchDelay
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	guard := cfg.Guard
	if guard == nil {
		guard = NewInFlight()
	}
	return &Checker{
		logger:   logger,
		sites:    sites,
		admins:   admins,
		prober:   prober,
		notifier: notifier,
		cfg:      cfg,
		guard:    guard,
		sleep:    sleepCtx,
	}
}

// RunCycle checks every known site once. Batches run one after another with
// delay between them; sites within a batch are checked concurrently.
// batchSize < 1 and delay < 0 fall back to the configured values.
//
// The only error is a failure to list sites (wrapping ErrListSites). Per-site
// failures are logged and collected in the report. Cancelling ctx stops the
// cycle before the next batch; sites whose probe returns after cancellation
// are left untouched and the report is marked Interrupted.
func (c *Checker) RunCycle(ctx context.Context, batchSize int, delay time.Duration) (*Report, error) {
	if batchSize < 1 {
		batchSize = c.cfg.BatchSize
	}
	if delay < 0 {
		delay = c.cfg.BatchDelay
	}
	start := time.Now()

	sites, err := c.sites.ListSites(ctx)
	if err != nil {
		c.logger.Error("cycle_list_failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrListSites, err)
	}

	batches := Partition(sites, batchSize)
	c.logger.Info("cycle_started",
		zap.Int("sites", len(sites)),
		zap.Int("batch_size", batchSize),
		zap.Int("batches", len(batches)),
		zap.Duration("delay", delay),
	)

	rep := &Report{Batches: len(batches)}
	for i, batch := range batches {
		if i > 0 && delay > 0 {
			if err := c.sleep(ctx, delay); err != nil {
				c.logger.Warn("cycle_delay_interrupted", zap.Int("next_batch", i), zap.Error(err))
			}
		}
		// a cancelled context would turn every remaining probe into a false OFFLINE
		if err := ctx.Err(); err != nil {
			rep.Interrupted = true
			c.logger.Warn("cycle_interrupted",
				zap.Int("next_batch", i),
				zap.Int("unchecked", len(sites)-rep.Checked-rep.Skipped),
				zap.Error(err),
			)
			break
		}

		outcomes := make([]siteOutcome, len(batch))
		var wg sync.WaitGroup
		for j := range batch {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				outcomes[j] = c.checkSite(ctx, batch[j])
			}(j)
		}
		wg.Wait()

		for j, o := range outcomes {
			rep.add(batch[j], o)
		}
	}

	if rep.Skipped > 0 {
		rep.Interrupted = true
	}
	rep.Duration = time.Since(start)
	c.logger.Info("cycle_finished",
		zap.Int("checked", rep.Checked),
		zap.Int("offline", rep.Offline),
		zap.Int("notified", rep.Notified),
		zap.Int("notify_failed", rep.NotifyFailed),
		zap.Int("recovered", rep.Recovered),
		zap.Int("errors", len(rep.Errors)),
		zap.Bool("interrupted", rep.Interrupted),
		zap.Duration("took", rep.Duration),
	)
	return rep, nil
}

func (c *Checker) checkSite(ctx context.Context, site domain.MonitoredSite) siteOutcome {
	pctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	res := c.prober.Probe(pctx, site.URL)
	cancel()

	if ctx.Err() != nil {
		// the cycle was cancelled, not the site; keep the stored state
		return siteOutcome{skipped: true}
	}

	out := siteOutcome{status: res.Status}
	status, rt := res.Status, res.ResponseTimeMS
	if _, err := c.sites.UpdateSite(ctx, site.ID, domain.SiteUpdate{Status: &status, ResponseTimeMS: &rt}); err != nil {
		// the stored state is unknown now; leave transitions to the next cycle
		c.logger.Warn("site_update_failed",
			zap.Int64("site_id", int64(site.ID)),
			zap.String("url", site.URL),
			zap.Error(err),
		)
		out.err = fmt.Errorf("persist status: %w", err)
		return out
	}

	c.logger.Debug("site_checked",
		zap.Int64("site_id", int64(site.ID)),
		zap.String("url", site.URL),
		zap.String("old_status", string(site.Status)),
		zap.String("status", string(status)),
		zap.Int("http_status", res.HTTPStatus),
		zap.Int64("response_ms", rt),
		zap.String("reason", res.Reason),
	)

	switch {
	case site.Status == domain.StatusOnline && status == domain.StatusOffline:
		c.notifyOffline(ctx, site, &out)
	case site.Status == domain.StatusOffline && status == domain.StatusOffline &&
		!site.Notified && c.cfg.RetryPendingNotifications:
		c.notifyOffline(ctx, site, &out)
	case site.Status == domain.StatusOffline && status == domain.StatusOnline && site.Notified:
		reset := false
		if _, err := c.sites.UpdateSite(ctx, site.ID, domain.SiteUpdate{Notified: &reset}); err != nil {
			c.logger.Warn("site_reset_notified_failed", zap.Int64("site_id", int64(site.ID)), zap.Error(err))
			out.err = fmt.Errorf("reset notified: %w", err)
			return out
		}
		c.logger.Info("site_recovered", zap.Int64("site_id", int64(site.ID)), zap.String("url", site.URL))
		out.recovered = true
	}
	return out
}

func (c *Checker) notifyOffline(ctx context.Context, site domain.MonitoredSite, out *siteOutcome) {
	if !c.guard.TryAcquire(site.ID) {
		c.logger.Info("notify_in_flight", zap.Int64("site_id", int64(site.ID)))
		return
	}
	defer c.guard.Release(site.ID)

	recipients, err := repo.AdminEmails(ctx, c.admins)
	if err != nil {
		c.logger.Warn("notify_list_admins_failed", zap.Int64("site_id", int64(site.ID)), zap.Error(err))
		out.notifyFailed = true
		out.err = fmt.Errorf("list admins: %w", err)
		return
	}
	if len(recipients) == 0 {
		c.logger.Warn("notify_no_recipients", zap.Int64("site_id", int64(site.ID)), zap.String("url", site.URL))
		out.notifyFailed = true
		return
	}

	if !c.notifier.Notify(ctx, site.Name, site.URL, recipients) {
		c.logger.Warn("notify_failed",
			zap.Int64("site_id", int64(site.ID)),
			zap.String("url", site.URL),
			zap.Int("recipients", len(recipients)),
		)
		out.notifyFailed = true
		return
	}

	sent := true
	if _, err := c.sites.UpdateSite(ctx, site.ID, domain.SiteUpdate{Notified: &sent}); err != nil {
		// the email went out but the flag did not stick; the next cycle sees notified=false
		c.logger.Warn("site_notified_unpersisted",
			zap.Int64("site_id", int64(site.ID)),
			zap.String("url", site.URL),
			zap.Error(err),
		)
		out.err = fmt.Errorf("notification sent but not recorded: %w", err)
		return
	}
	out.notified = true
	c.logger.Info("site_offline_notified",
		zap.Int64("site_id", int64(site.ID)),
		zap.String("url", site.URL),
		zap.Int("recipients", len(recipients)),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

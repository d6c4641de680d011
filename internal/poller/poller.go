// Package poller runs the background reload loop that keeps the session
// workspace and game views from drifting too far from the store, and
// feeds the readiness probe.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"league-admin-service/internal/logging"
	"league-admin-service/internal/metrics"
)

const defaultInterval = 5 * time.Minute

// Reloader refreshes the in-memory state from the record store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Poller reloads the workspace on an interval.
type Poller struct {
	reloader Reloader
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the reload loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the loop has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(reloader Reloader, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		reloader: reloader,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins reloading until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "reload loop started",
			logging.FieldDurationMS, p.interval.Milliseconds())
		// Initial reload to warm the workspace on boot.
		p.reloadOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "reload loop stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "reload loop stopped")
				return
			case <-p.ticker.C:
				p.reloadOnce(ctx)
			}
		}
	}()
}

// Stop halts the reload loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

func (p *Poller) reloadOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)

	err := p.reloader.Reload(ctx)
	if p.metrics != nil {
		p.metrics.RecordReloadCycle(time.Since(start), err)
	}
	if err != nil {
		logging.Error(p.logger, "workspace reload failed", err,
			logging.FieldDurationMS, time.Since(start).Milliseconds())
		p.recordFailure(err, start)
		return
	}

	p.recordSuccess(start)
	logging.Info(p.logger, "workspace reloaded",
		logging.FieldDurationMS, time.Since(start).Milliseconds())
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the loop's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

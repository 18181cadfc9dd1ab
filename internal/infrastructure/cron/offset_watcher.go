package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Resyncer is the component that re-schedules every active reminder.
type Resyncer interface {
	ResyncAll(ctx context.Context) error
}

// OffsetWatcher detects changes of the effective zone's UTC offset
// while the service runs: a DST boundary crossing, or the effective
// zone itself changing. On a detected change it triggers one full
// resync so timers armed against the stale offset are corrected.
//
// The hourly cadence is deliberately coarse; Wake provides an
// immediate check for callers that just resumed (the service analog of
// a backgrounded tab regaining visibility).
type OffsetWatcher struct {
	cron     *cron.Cron
	zone     func() string
	resyncer Resyncer
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time

	mu         sync.Mutex
	primed     bool
	lastOffset int // minutes east of UTC
}

// NewOffsetWatcher creates an offset watcher. The zone function must
// return the currently effective IANA zone identifier.
func NewOffsetWatcher(zone func() string, resyncer Resyncer, interval time.Duration, log *zap.Logger) *OffsetWatcher {
	return &OffsetWatcher{
		cron:     cron.New(),
		zone:     zone,
		resyncer: resyncer,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the periodic offset checks.
func (w *OffsetWatcher) Start() error {
	cronExpr := fmt.Sprintf("@every %s", w.interval.String())

	if _, err := w.cron.AddFunc(cronExpr, w.Check); err != nil {
		return fmt.Errorf("failed to add offset check job: %w", err)
	}

	w.cron.Start()
	w.log.Info("offset watcher started", zap.Duration("interval", w.interval))
	return nil
}

// Stop stops the periodic checks and waits for a running check to finish.
func (w *OffsetWatcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("offset watcher stopped")
}

// Wake runs an immediate check, bounding the staleness window when the
// process resumes after a suspend.
func (w *OffsetWatcher) Wake() {
	w.Check()
}

// Check compares the effective zone's current UTC offset against the
// last observed value. The first check only records the baseline so
// startup never triggers a spurious resync; later mismatches update
// the baseline and trigger exactly one resync each.
func (w *OffsetWatcher) Check() {
	zone := w.zone()
	loc, err := time.LoadLocation(zone)
	if err != nil {
		w.log.Warn("effective zone did not resolve", zap.String("zone", zone), zap.Error(err))
		return
	}

	_, offsetSec := w.now().In(loc).Zone()
	offset := offsetSec / 60

	w.mu.Lock()
	if !w.primed {
		w.primed = true
		w.lastOffset = offset
		w.mu.Unlock()
		w.log.Debug("offset baseline recorded",
			zap.String("zone", zone),
			zap.Int("offset_minutes", offset),
		)
		return
	}
	if offset == w.lastOffset {
		w.mu.Unlock()
		return
	}
	previous := w.lastOffset
	w.lastOffset = offset
	w.mu.Unlock()

	w.log.Info("utc offset changed, rescheduling all reminders",
		zap.String("zone", zone),
		zap.Int("previous_minutes", previous),
		zap.Int("current_minutes", offset),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := w.resyncer.ResyncAll(ctx); err != nil {
		w.log.Error("resync after offset change failed", zap.Error(err))
	}
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"reminder-service/internal/domain/entity"
	"reminder-service/internal/domain/service"
)

const dispatchTimeout = 30 * time.Second

// pendingTimer is the registry's record of one armed single-shot timer.
// The generation guards against a callback that was queued before its
// entry was replaced or cancelled.
type pendingTimer struct {
	spec   entity.ReminderSpec
	fireAt time.Time
	gen    uint64
	timer  *time.Timer
}

type reminderScheduler struct {
	dispatcher service.Dispatcher
	log        *zap.Logger

	// Injection points for tests; default to the real clock and timers.
	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu     sync.Mutex
	timers map[string]*pendingTimer
	gen    uint64
}

// NewReminderScheduler creates the per-habit reminder registry.
func NewReminderScheduler(dispatcher service.Dispatcher, log *zap.Logger) service.ReminderScheduler {
	return &reminderScheduler{
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
		afterFunc:  time.AfterFunc,
		timers:     make(map[string]*pendingTimer),
	}
}

func (s *reminderScheduler) Schedule(ctx context.Context, spec entity.ReminderSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleLocked(spec)
}

// scheduleLocked resolves the next occurrence and arms the timer,
// replacing any existing entry for the habit. Caller holds s.mu.
func (s *reminderScheduler) scheduleLocked(spec entity.ReminderSpec) error {
	now := s.now()
	next, err := NextOccurrence(spec.LocalTime, spec.Zone, now)
	if err != nil {
		return fmt.Errorf("failed to resolve next occurrence for habit %s: %w", spec.HabitID, err)
	}

	s.cancelLocked(spec.HabitID)

	s.gen++
	gen := s.gen
	habitID := spec.HabitID

	delay := next.Sub(now)
	if delay < 0 {
		delay = 0
	}

	pt := &pendingTimer{spec: spec, fireAt: next, gen: gen}
	pt.timer = s.afterFunc(delay, func() { s.fire(habitID, gen) })
	s.timers[habitID] = pt

	s.log.Debug("reminder scheduled",
		zap.String("habit_id", habitID),
		zap.String("zone", spec.Zone),
		zap.String("local_time", spec.LocalTime.String()),
		zap.Time("fire_at", next),
	)
	return nil
}

// fire runs on the timer goroutine when a reminder comes due. It
// dispatches at most once, then re-arms the same spec for the next
// occurrence. The entry stays in the registry during the dispatch so a
// concurrent Cancel or Schedule removes or replaces it as usual; the
// reschedule is the last step and happens only if the registry still
// holds this exact generation, so a cancel or settings edit that lands
// mid-dispatch wins over the stale spec.
func (s *reminderScheduler) fire(habitID string, gen uint64) {
	s.mu.Lock()
	pt, ok := s.timers[habitID]
	if !ok || pt.gen != gen {
		// Cancelled or replaced after the callback was queued.
		s.mu.Unlock()
		return
	}
	spec := pt.spec
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	if err := s.dispatcher.Dispatch(ctx, spec); err != nil {
		// Best effort: the next occurrence is the de facto retry.
		s.log.Warn("reminder dispatch failed",
			zap.String("habit_id", habitID),
			zap.Error(err),
		)
	}
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	pt, ok = s.timers[habitID]
	if !ok || pt.gen != gen {
		// Cancelled or replaced while the dispatch was in flight; do
		// not restart the chain with the stale spec.
		return
	}
	if err := s.scheduleLocked(spec); err != nil {
		s.log.Error("failed to reschedule reminder",
			zap.String("habit_id", habitID),
			zap.Error(err),
		)
	}
}

func (s *reminderScheduler) Cancel(habitID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(habitID)
}

func (s *reminderScheduler) cancelLocked(habitID string) {
	if pt, ok := s.timers[habitID]; ok {
		pt.timer.Stop()
		delete(s.timers, habitID)
	}
}

func (s *reminderScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for habitID, pt := range s.timers {
		pt.timer.Stop()
		delete(s.timers, habitID)
	}
}

func (s *reminderScheduler) Pending(habitID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[habitID]
	return ok
}

func (s *reminderScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

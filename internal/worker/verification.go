package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Job runs once the delay for its order has elapsed.
type Job func(ctx context.Context, orderID string) error

// VerificationScheduler runs one delayed job per order id. Scheduling an id
// that already has a job replaces it.
type VerificationScheduler struct {
	clock  clockwork.Clock
	delay  time.Duration
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timers map[string]clockwork.Timer
	wg     sync.WaitGroup
}

func NewVerificationScheduler(clock clockwork.Clock, delay time.Duration, logger *slog.Logger) *VerificationScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &VerificationScheduler{
		clock:  clock,
		delay:  delay,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		timers: make(map[string]clockwork.Timer),
	}
}

func (s *VerificationScheduler) Delay() time.Duration {
	return s.delay
}

func (s *VerificationScheduler) Schedule(orderID string, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		s.logger.Warn("scheduler stopped, verification dropped", "order_id", orderID)
		return
	}

	if prev, ok := s.timers[orderID]; ok {
		if prev.Stop() {
			s.wg.Done()
		}
	}

	s.wg.Add(1)
	var timer clockwork.Timer
	timer = s.clock.AfterFunc(s.delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		if current, ok := s.timers[orderID]; ok && current == timer {
			delete(s.timers, orderID)
		}
		s.mu.Unlock()

		if err := job(s.ctx, orderID); err != nil {
			s.logger.Error("verification job failed", "order_id", orderID, "err", err)
		}
	})
	s.timers[orderID] = timer
}

// Cancel stops the pending job for orderID. It reports false when there was
// nothing left to stop.
func (s *VerificationScheduler) Cancel(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[orderID]
	if !ok {
		return false
	}
	delete(s.timers, orderID)

	if timer.Stop() {
		s.wg.Done()
		return true
	}
	return false
}

// Pending returns the number of jobs waiting for their delay.
func (s *VerificationScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop drops every pending job and waits for running ones to return.
func (s *VerificationScheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	for orderID, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, orderID)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

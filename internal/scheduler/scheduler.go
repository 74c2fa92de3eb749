// Package scheduler runs the periodic expiry and payment sweeps. It is an
// owned object with an explicit lifecycle; deadlines live in the database,
// so a restart loses nothing and the next sweep picks up any missed work.
package scheduler

import (
	"context"
	"sync"
	"time"

	"tiro/internal/metrics"

	"github.com/sirupsen/logrus"
)

const DefaultInterval = 5 * time.Minute

// EscrowSweeper is the slice of the escrow service the scheduler drives.
type EscrowSweeper interface {
	ExpireChats(ctx context.Context) (int, error)
	ReleaseScheduledPayments(ctx context.Context) (int, error)
}

type Scheduler struct {
	escrow   EscrowSweeper
	interval time.Duration
	log      *logrus.Logger

	mu      sync.Mutex // serializes sweeps; an overlapping tick is skipped
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

func New(escrow EscrowSweeper, interval time.Duration, log *logrus.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		escrow:   escrow,
		interval: interval,
		log:      log,
	}
}

// Start launches the background loop and runs both passes once eagerly so
// work that accumulated while the process was down is handled immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.loop()
	s.log.WithField("interval", s.interval).Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	<-done
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)

	s.Sweep(context.Background())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs the expiry pass then the payment pass. Both passes are
// idempotent, but a tick that fires while a sweep is still running is
// skipped rather than stacked.
func (s *Scheduler) Sweep(ctx context.Context) {
	if !s.mu.TryLock() {
		s.log.Debug("sweep already running, skipping tick")
		return
	}
	defer s.mu.Unlock()

	s.RunExpiryPass(ctx)
	s.RunPaymentPass(ctx)
}

// RunExpiryPass flags active chats past their deadline for admin review.
// Exposed for the maintenance endpoint.
func (s *Scheduler) RunExpiryPass(ctx context.Context) int {
	metrics.SweepRuns.WithLabelValues("expiry").Inc()
	flagged, err := s.escrow.ExpireChats(ctx)
	if err != nil {
		s.log.WithError(err).Error("expiry pass failed")
		return 0
	}
	if flagged > 0 {
		metrics.ChatsExpired.Add(float64(flagged))
		s.log.WithField("chats", flagged).Info("expiry pass flagged chats for review")
	}
	return flagged
}

// RunPaymentPass releases seller payments whose settlement delay elapsed.
func (s *Scheduler) RunPaymentPass(ctx context.Context) int {
	metrics.SweepRuns.WithLabelValues("payment").Inc()
	released, err := s.escrow.ReleaseScheduledPayments(ctx)
	if err != nil {
		s.log.WithError(err).Error("payment pass failed")
		return 0
	}
	if released > 0 {
		metrics.PaymentsReleased.Add(float64(released))
		s.log.WithField("payments", released).Info("payment pass released seller payments")
	}
	return released
}

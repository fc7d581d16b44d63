package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReservationExpirer expires pending reservations past their TTL
type ReservationExpirer interface {
	ExpireOverdue(ctx context.Context, ttl time.Duration) (int, error)
}

// ReservationSweeperConfig holds configuration for the reservation sweeper
type ReservationSweeperConfig struct {
	// Interval between sweeps
	Interval time.Duration
	// ReservationTTL is how long a pending reservation may wait for review
	ReservationTTL time.Duration
	// SweepTimeout is the maximum time for a single sweep run
	SweepTimeout time.Duration
}

// DefaultReservationSweeperConfig returns default configuration
func DefaultReservationSweeperConfig() ReservationSweeperConfig {
	return ReservationSweeperConfig{
		Interval:     10 * time.Minute,
		SweepTimeout: time.Minute,
	}
}

// ReservationSweeper periodically expires pending reservations that were
// never reviewed within the TTL, freeing the customer's pending slot.
type ReservationSweeper struct {
	expirer   ReservationExpirer
	logger    *zap.Logger
	config    ReservationSweeperConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReservationSweeper creates a new reservation sweeper
func NewReservationSweeper(expirer ReservationExpirer, logger *zap.Logger, config ReservationSweeperConfig) *ReservationSweeper {
	if config.Interval <= 0 {
		config.Interval = 10 * time.Minute
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = time.Minute
	}
	return &ReservationSweeper{
		expirer: expirer,
		logger:  logger,
		config:  config,
	}
}

// Start starts the sweeper loop
func (s *ReservationSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Reservation sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("reservation_ttl", s.config.ReservationTTL),
	)
	return nil
}

// Stop gracefully stops the sweeper
func (s *ReservationSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reservation sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reservation sweeper stop timed out")
		return ctx.Err()
	}
}

// TriggerImmediateSweep runs one sweep outside the schedule
func (s *ReservationSweeper) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.sweep(ctx)
	}()
	return nil
}

// IsRunning returns whether the sweeper is running
func (s *ReservationSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ReservationSweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Reservation sweeper loop stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReservationSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	startTime := time.Now()
	expired, err := s.expirer.ExpireOverdue(sweepCtx, s.config.ReservationTTL)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Reservation sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if expired > 0 {
		s.logger.Info("Reservation sweep expired overdue reservations",
			zap.Duration("duration", duration),
			zap.Int("expired", expired),
		)
	}
}

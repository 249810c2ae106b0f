package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrInvalidConfig is returned by NewChequeSweeper for unusable settings
var ErrInvalidConfig = errors.New("invalid cheque sweep configuration")

// OverdueChequeFinder lists pending cheques of every business line dated before the cutoff
type OverdueChequeFinder interface {
	FindOverdueCheques(ctx context.Context, cutoff time.Time) ([]finance.Payment, error)
}

// ChequeSweepConfig holds the overdue cheque sweep configuration
type ChequeSweepConfig struct {
	Enabled    bool
	Interval   time.Duration
	Grace      time.Duration
	RunTimeout time.Duration
}

// DefaultChequeSweepConfig returns default sweep configuration
func DefaultChequeSweepConfig() ChequeSweepConfig {
	return ChequeSweepConfig{
		Enabled:    true,
		Interval:   time.Hour,
		Grace:      72 * time.Hour,
		RunTimeout: 2 * time.Minute,
	}
}

func (c ChequeSweepConfig) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.Grace < 0 {
		return fmt.Errorf("%w: grace must not be negative", ErrInvalidConfig)
	}
	return nil
}

// SweepResult summarises one sweep
type SweepResult struct {
	Cutoff  time.Time
	Overdue int
}

// ChequeSweeper periodically reports pending cheques that are past their date
// by more than the grace period. Each one is published as a PaymentChequeOverdue event.
type ChequeSweeper struct {
	config    ChequeSweepConfig
	payments  OverdueChequeFinder
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewChequeSweeper creates a sweeper. It does nothing until Start is called.
func NewChequeSweeper(config ChequeSweepConfig, payments OverdueChequeFinder, publisher shared.EventPublisher, logger *zap.Logger) (*ChequeSweeper, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultChequeSweepConfig().RunTimeout
	}
	return &ChequeSweeper{
		config:    config,
		payments:  payments,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start runs a first sweep immediately and then one per interval
func (s *ChequeSweeper) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Cheque sweep disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Cheque sweep started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("grace", s.config.Grace),
	)
	return nil
}

// Stop stops the loop and waits for an in-flight sweep, bounded by ctx
func (s *ChequeSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Cheque sweep stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Cheque sweep stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *ChequeSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ChequeSweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		s.runWithTimeout(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *ChequeSweeper) runWithTimeout(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	if _, err := s.RunOnce(runCtx); err != nil && ctx.Err() == nil {
		s.logger.Error("Cheque sweep failed", zap.Error(err))
	}
}

// RunOnce performs a single sweep
func (s *ChequeSweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	now := s.now()
	result := SweepResult{Cutoff: now.Add(-s.config.Grace)}

	payments, err := s.payments.FindOverdueCheques(ctx, result.Cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to load overdue cheques: %w", err)
	}

	events := make([]shared.DomainEvent, 0, len(payments))
	for i := range payments {
		events = append(events, finance.NewChequeOverdueEvent(&payments[i], now))
	}
	result.Overdue = len(events)

	if len(events) > 0 && s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			return result, fmt.Errorf("failed to publish overdue cheque events: %w", err)
		}
	}

	s.logger.Info("Cheque sweep completed",
		zap.Time("cutoff", result.Cutoff),
		zap.Int("overdue", result.Overdue),
	)
	return result, nil
}

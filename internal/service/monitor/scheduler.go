package monitor

import (
	"context"
	"time"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/logger"
)

// Ticker runs one proximity tick.
type Ticker interface {
	Tick(ctx context.Context) (alarm.TickSummary, error)
}

// Scheduler invokes a Ticker on a fixed period until its context ends.
type Scheduler struct {
	// ticker is invoked on every period.
	ticker Ticker
	// interval is the period between ticks.
	interval time.Duration
}

// NewScheduler creates a scheduler; non-positive intervals fall back to ten seconds.
func NewScheduler(ticker Ticker, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &Scheduler{
		ticker:   ticker,
		interval: interval,
	}
}

// Run ticks once immediately and then on every interval. Tick errors are
// logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "scheduler")

	logger.InfoKV(ctx, "Polling proximity", "interval", s.interval.String())

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.ticker.Tick(ctx); err != nil && ctx.Err() == nil {
		logger.ErrorKV(ctx, "Tick failed", "error", err)
	}
}

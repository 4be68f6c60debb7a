package monitor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/domain/geo"
	"github.com/oshokin/pingo/internal/logger"
	"github.com/oshokin/pingo/internal/metrics"
	"github.com/oshokin/pingo/internal/repository/alarms"
	"github.com/oshokin/pingo/internal/service/dispatch"
	"github.com/oshokin/pingo/internal/service/location"
)

// Dispatcher executes the action of a fired alarm.
type Dispatcher interface {
	Dispatch(ctx context.Context, a *alarm.Alarm) dispatch.Report
}

// Monitor evaluates every alarm against the current position.
type Monitor struct {
	// store holds the alarm collection.
	store alarms.Repository
	// location provides the current position.
	location location.Provider
	// dispatcher runs actions of fired alarms.
	dispatcher Dispatcher
	// now is the clock; it is read once per tick.
	now func() time.Time
	// zone is the calendar used for weekday filtering.
	zone *time.Location
	// metrics is optional.
	metrics *metrics.Metrics
	// group collapses concurrent ticks into one.
	group singleflight.Group
	// ticks numbers ticks for log correlation.
	ticks atomic.Uint64
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// WithTimeZone sets the calendar used to compute today's weekday.
func WithTimeZone(zone *time.Location) Option {
	return func(m *Monitor) {
		if zone != nil {
			m.zone = zone
		}
	}
}

// WithMetrics records tick outcomes.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.metrics = mt
	}
}

// tickKey is the single-flight key shared by all ticks.
const tickKey = "tick"

// New creates a monitor.
func New(store alarms.Repository, provider location.Provider, dispatcher Dispatcher, opts ...Option) *Monitor {
	m := &Monitor{
		store:      store,
		location:   provider,
		dispatcher: dispatcher,
		now:        time.Now,
		zone:       time.Local,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Tick runs one proximity check. A call made while another tick is in flight
// waits for that tick and shares its result instead of starting a new one.
// An unavailable position ends the tick early without error; store failures
// are returned. If ctx ends first, Tick returns ctx.Err() while the shared
// tick runs to completion in the background.
func (m *Monitor) Tick(ctx context.Context) (alarm.TickSummary, error) {
	ch := m.group.DoChan(tickKey, func() (any, error) {
		// A tick is not cancelled half way through its store writes.
		return m.tick(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return alarm.TickSummary{}, ctx.Err()
	case res := <-ch:
		summary, _ := res.Val.(alarm.TickSummary) //nolint:errcheck // Always a TickSummary.

		return summary, res.Err
	}
}

func (m *Monitor) tick(ctx context.Context) (alarm.TickSummary, error) {
	var (
		started = time.Now()
		now     = m.now()
		summary alarm.TickSummary
	)

	ctx = logger.WithKV(ctx, "tick", m.ticks.Add(1))

	position, err := m.location.CurrentPosition(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Position unavailable, skipping tick", "error", err)
		m.metrics.ObserveTick(metrics.TickLocationError, time.Since(started))

		summary.PositionUnavailable = true

		return summary, nil
	}

	list, err := m.store.List(ctx)
	if err != nil {
		m.metrics.ObserveTick(metrics.TickStoreError, time.Since(started))

		return summary, fmt.Errorf("load alarms: %w", err)
	}

	today := alarm.WeekdayOf(now.In(m.zone))

	for _, a := range list {
		if !a.Enabled || !a.ActiveOn(today) {
			continue
		}

		summary.Evaluated++

		distance := geo.DistanceMeters(position, a.Center())

		decision := alarm.Decide(a, now, distance)
		if !decision.Fire {
			continue
		}

		summary.Fired++
		m.metrics.Fired(string(a.ActionType))

		logger.InfoKV(ctx, "Alarm fired",
			"alarm_id", a.ID,
			"name", a.Name,
			"distance_m", distance,
			"frequency", a.Frequency)

		report := m.dispatcher.Dispatch(ctx, decision.Alarm)
		summary.FailedSends += report.Failed

		// Timestamps are persisted even if dispatch failed. Only they are
		// written, so edits made during dispatch survive.
		if err = m.store.MarkNotified(ctx, a.ID,
			decision.Alarm.LastNotifiedAt,
			decision.Alarm.LastRepeatedNotifiedAt); err != nil {
			m.metrics.ObserveTick(metrics.TickStoreError, time.Since(started))

			return summary, fmt.Errorf("persist alarm %s: %w", a.ID, err)
		}
	}

	m.metrics.ObserveTick(metrics.TickOK, time.Since(started))
	logger.DebugKV(ctx, "Tick finished",
		"position", position.String(),
		"weekday", today,
		"evaluated", summary.Evaluated,
		"fired", summary.Fired)

	return summary, nil
}

package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/logger"
	"github.com/oshokin/pingo/internal/repository/alarms"
)

// Service exposes the monitor and the alarm store to transports.
type Service struct {
	// monitor runs ticks.
	monitor *Monitor
	// store holds the alarm collection.
	store alarms.Repository
}

// NewService creates the transport-facing service.
func NewService(m *Monitor, store alarms.Repository) *Service {
	return &Service{
		monitor: m,
		store:   store,
	}
}

// RunTick runs one proximity tick.
func (s *Service) RunTick(ctx context.Context) (alarm.TickSummary, error) {
	return s.monitor.Tick(ctx)
}

// ListAlarms returns every stored alarm.
func (s *Service) ListAlarms(ctx context.Context) ([]*alarm.Alarm, error) {
	return s.store.List(ctx)
}

// UpsertAlarm validates and stores an alarm, assigning an id to new ones.
func (s *Service) UpsertAlarm(ctx context.Context, a *alarm.Alarm) (*alarm.Alarm, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: alarm is required", alarm.ErrInvalidAlarm)
	}

	stored := a.Clone()
	stored.Name = strings.TrimSpace(stored.Name)

	if stored.ID == "" {
		stored.ID = alarm.NewID()
	} else if err := s.keepFireState(ctx, stored); err != nil {
		return nil, err
	}

	if err := stored.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Upsert(ctx, stored); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Alarm saved", "alarm_id", stored.ID, "name", stored.Name)

	return stored, nil
}

// keepFireState copies the fire timestamps of the stored alarm into a
// replacement that carries none, so an edit does not re-arm a fired alarm.
func (s *Service) keepFireState(ctx context.Context, a *alarm.Alarm) error {
	existing, err := s.store.Get(ctx, a.ID)
	if errors.Is(err, alarms.ErrNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	if a.LastNotifiedAt == nil {
		a.LastNotifiedAt = existing.LastNotifiedAt
	}

	if a.LastRepeatedNotifiedAt == nil {
		a.LastRepeatedNotifiedAt = existing.LastRepeatedNotifiedAt
	}

	return nil
}

// DeleteAlarm removes an alarm; unknown ids are ignored.
func (s *Service) DeleteAlarm(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alarm deleted", "alarm_id", id)

	return nil
}

// SetAlarmEnabled toggles an alarm.
func (s *Service) SetAlarmEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.store.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alarm toggled", "alarm_id", id, "enabled", enabled)

	return nil
}

package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/repository/alarms"
)

// TestService_UpsertAlarm assigns ids, trims names and rejects invalid alarms.
func TestService_UpsertAlarm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(newTestMonitor(store, &fakeProvider{position: here}, &fakeDispatcher{}, fixedClock(monday)), store)

	in := testAlarm("")
	in.Name = "  Bakery "

	saved, err := svc.UpsertAlarm(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, "Bakery", saved.Name)
	require.Empty(t, in.ID, "input must not be mutated")

	list, err := svc.ListAlarms(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	bad := testAlarm("x")
	bad.Radius = 0

	_, err = svc.UpsertAlarm(ctx, bad)
	require.ErrorIs(t, err, alarm.ErrInvalidAlarm)

	_, err = svc.UpsertAlarm(ctx, nil)
	require.ErrorIs(t, err, alarm.ErrInvalidAlarm)
}

// TestService_ToggleDeleteAndTick delegates to the store and the monitor.
func TestService_ToggleDeleteAndTick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore(testAlarm("a"))
	svc := NewService(newTestMonitor(store, &fakeProvider{position: here}, &fakeDispatcher{}, fixedClock(monday)), store)

	require.NoError(t, svc.SetAlarmEnabled(ctx, "a", false))
	require.ErrorIs(t, svc.SetAlarmEnabled(ctx, "missing", true), alarms.ErrNotFound)

	summary, err := svc.RunTick(ctx)
	require.NoError(t, err)
	require.Zero(t, summary.Evaluated)

	require.NoError(t, svc.DeleteAlarm(ctx, "a"))
	require.NoError(t, svc.DeleteAlarm(ctx, "a"))
	require.Nil(t, store.get("a"))
}

// TestService_UpsertAlarmKeepsFireState does not re-arm an alarm that
// already fired when it is replaced by an edit without timestamps.
func TestService_UpsertAlarmKeepsFireState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	firedAt := monday
	fired := testAlarm("a")
	fired.LastNotifiedAt = &firedAt

	store := newFakeStore(fired)
	d := &fakeDispatcher{}
	m := newTestMonitor(store, &fakeProvider{position: here}, d, fixedClock(monday.Add(time.Hour)))
	svc := NewService(m, store)

	edit := testAlarm("a")
	edit.Name = "Renamed"

	saved, err := svc.UpsertAlarm(ctx, edit)
	require.NoError(t, err)
	require.Equal(t, "Renamed", saved.Name)
	require.NotNil(t, saved.LastNotifiedAt)
	require.True(t, saved.LastNotifiedAt.Equal(monday))
	require.Nil(t, edit.LastNotifiedAt, "input must not be mutated")

	// Same UTC day: the edited once alarm stays quiet.
	summary, err := svc.RunTick(ctx)
	require.NoError(t, err)
	require.Equal(t, alarm.TickSummary{Evaluated: 1}, summary)
	require.Zero(t, d.count())

	// Explicit timestamps on the replacement win.
	earlier := monday.Add(-48 * time.Hour)
	edit.LastNotifiedAt = &earlier

	saved, err = svc.UpsertAlarm(ctx, edit)
	require.NoError(t, err)
	require.True(t, saved.LastNotifiedAt.Equal(earlier))
}

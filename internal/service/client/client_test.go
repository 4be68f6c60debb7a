package client

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/domain/geo"
)

// fakeAPI records calls made by the Runner.
type fakeAPI struct {
	alarms  []*alarm.Alarm
	summary alarm.TickSummary
	err     error
	deleted []string
	toggled map[string]bool
	saved   *alarm.Alarm
}

func (f *fakeAPI) RunTick(context.Context) (alarm.TickSummary, error) { return f.summary, f.err }

func (f *fakeAPI) ListAlarms(context.Context) ([]*alarm.Alarm, error) { return f.alarms, f.err }

func (f *fakeAPI) UpsertAlarm(_ context.Context, a *alarm.Alarm) (*alarm.Alarm, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.saved = a

	return a, nil
}

func (f *fakeAPI) DeleteAlarm(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)

	return f.err
}

func (f *fakeAPI) SetAlarmEnabled(_ context.Context, id string, enabled bool) error {
	if f.toggled == nil {
		f.toggled = make(map[string]bool)
	}

	f.toggled[id] = enabled

	return f.err
}

func newTestRunner(api API) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer

	r := NewRunner(api, &out)
	r.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	return r, &out
}

// TestRunner_List prints one line per alarm or a placeholder.
func TestRunner_List(t *testing.T) {
	t.Parallel()

	r, out := newTestRunner(&fakeAPI{})
	require.NoError(t, r.List(context.Background()))
	require.Equal(t, "No alarms\n", out.String())

	api := &fakeAPI{alarms: []*alarm.Alarm{
		alarm.New("Home", geo.Coordinate{}, 100, alarm.Monday),
		alarm.New("Work", geo.Coordinate{}, 100, alarm.Tuesday),
	}}
	r, out = newTestRunner(api)
	require.NoError(t, r.List(context.Background()))
	require.Contains(t, out.String(), "Home")
	require.Contains(t, out.String(), "Work")

	api.err = errors.New("unavailable")
	require.Error(t, r.List(context.Background()))
}

// TestRunner_Operations covers add, remove, enable and tick.
func TestRunner_Operations(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{summary: alarm.TickSummary{Evaluated: 2, Fired: 1}}
	r, out := newTestRunner(api)
	ctx := context.Background()

	a := alarm.New("Gym", geo.Coordinate{Latitude: 1, Longitude: 1}, 50, alarm.Friday)
	require.NoError(t, r.Add(ctx, a))
	require.Same(t, a, api.saved)

	require.NoError(t, r.Remove(ctx, "a-1"))
	require.Equal(t, []string{"a-1"}, api.deleted)

	require.NoError(t, r.SetEnabled(ctx, "a-2", false))
	require.NoError(t, r.SetEnabled(ctx, "a-3", true))
	require.Equal(t, map[string]bool{"a-2": false, "a-3": true}, api.toggled)

	require.NoError(t, r.Tick(ctx))

	text := out.String()
	require.Contains(t, text, "Gym")
	require.Contains(t, text, "Removed a-1")
	require.Contains(t, text, "Disabled a-2")
	require.Contains(t, text, "Enabled a-3")
	require.Contains(t, text, "2 evaluated")

	api.err = errors.New("boom")
	require.Error(t, r.Add(ctx, a))
	require.Error(t, r.Remove(ctx, "a-1"))
	require.Error(t, r.SetEnabled(ctx, "a-1", true))
	require.Error(t, r.Tick(ctx))
}

// TestBuildAlarm maps flags onto alarm fields.
func TestBuildAlarm(t *testing.T) {
	t.Parallel()

	a, err := BuildAlarm(AlarmFlags{
		Name:      " Office ",
		Latitude:  -23.55,
		Longitude: -46.63,
		Radius:    200,
		Days:      "mon, wed,FRI",
		Repeat:    true,
		Messages: []string{
			"sms:+55 11 99999-0000:arrived at 10:30",
			"Email:ana@example.com:here",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Office", a.Name)
	require.Equal(t, []alarm.Weekday{alarm.Monday, alarm.Wednesday, alarm.Friday}, a.Days)
	require.Equal(t, alarm.FrequencyRepeat, a.Frequency)
	require.Equal(t, alarm.ActionMessage, a.ActionType)
	require.Len(t, a.MessageActions, 2)
	require.Equal(t, "arrived at 10:30", a.MessageActions[0].Message)
	require.Equal(t, alarm.ChannelEmail, a.MessageActions[1].Type)
	require.NoError(t, a.Validate())

	r, err := BuildAlarm(AlarmFlags{ID: "fixed", Name: "Shop", Radius: 10, Days: "all", Reminder: "milk", Disabled: true})
	require.NoError(t, err)
	require.Equal(t, "fixed", r.ID)
	require.False(t, r.Enabled)
	require.Len(t, r.Days, 7)
	require.Equal(t, alarm.ActionReminder, r.ActionType)

	_, err = BuildAlarm(AlarmFlags{Days: "Seg"})
	require.ErrorIs(t, err, alarm.ErrUnknownWeekday)

	_, err = BuildAlarm(AlarmFlags{Days: "mon", Messages: []string{"sms-only"}})
	require.ErrorIs(t, err, errMessageFormat)
}

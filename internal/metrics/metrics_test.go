package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestMetrics_Counters checks that every recorder increments its labelled series.
func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTick(TickOK, 20*time.Millisecond)
	m.ObserveTick(TickOK, 30*time.Millisecond)
	m.ObserveTick(TickLocationError, time.Millisecond)
	m.Fired("message")
	m.Notified(nil)
	m.Notified(errors.New("no display"))
	m.Sent("sms", nil)
	m.Sent("sms", errors.New("rejected"))
	m.Sent("email", nil)

	require.InDelta(t, 2, testutil.ToFloat64(m.ticks.WithLabelValues(TickOK)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.ticks.WithLabelValues(TickLocationError)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.fires.WithLabelValues("message")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.notifications.WithLabelValues("error")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.sends.WithLabelValues("sms", "error")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.sends.WithLabelValues("email", "ok")), 0)

	count, err := testutil.GatherAndCount(reg, "pingo_tick_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// TestMetrics_Nil ignores every call on a nil receiver.
func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *Metrics

	require.NotPanics(t, func() {
		m.ObserveTick(TickOK, time.Second)
		m.Fired("none")
		m.Notified(nil)
		m.Sent("sms", nil)
	})
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/oshokin/pingo/internal/domain/alarm"
)

var faint = color.New(color.Faint)

// FormatAlarm renders one alarm as a single line.
func FormatAlarm(a *alarm.Alarm, now time.Time) string {
	if a == nil {
		return faint.Sprint("(invalid alarm)")
	}

	name := color.GreenString(a.Name)
	if !a.Enabled {
		name = faint.Sprint(a.Name + " (disabled)")
	}

	days := make([]string, 0, len(a.Days))
	for _, d := range a.Days {
		days = append(days, string(d))
	}

	return fmt.Sprintf("%s %s %s r=%.0fm [%s] %s %s - %s",
		faint.Sprint(a.ID),
		name,
		color.CyanString("(%.5f, %.5f)", a.Latitude, a.Longitude),
		a.Radius,
		strings.Join(days, ","),
		a.Frequency,
		formatAction(a),
		FormatLastFire(a, now))
}

// FormatLastFire describes when the alarm fired for its current frequency.
func FormatLastFire(a *alarm.Alarm, now time.Time) string {
	last := a.LastNotifiedAt
	if a.Frequency == alarm.FrequencyRepeat {
		last = a.LastRepeatedNotifiedAt
	}

	if last == nil {
		return faint.Sprint("never fired")
	}

	return "fired " + FormatRelativeTime(*last, now)
}

// FormatSummary renders the result of one tick.
func FormatSummary(s alarm.TickSummary) string {
	if s.PositionUnavailable {
		return color.YellowString("position unavailable, nothing evaluated")
	}

	fired := fmt.Sprintf("%d fired", s.Fired)
	if s.Fired > 0 {
		fired = color.GreenString(fired)
	}

	line := fmt.Sprintf("%d evaluated, %s", s.Evaluated, fired)
	if s.FailedSends > 0 {
		line += ", " + color.RedString("%d failed sends", s.FailedSends)
	}

	return line
}

// FormatRelativeTime formats t relative to now.
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	if diff < 0 {
		return color.YellowString("in the future")
	}

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	default:
		return plural(int(diff.Hours()/24), "day") //nolint:mnd // Hours per day.
	}
}

func formatAction(a *alarm.Alarm) string {
	switch a.ActionType {
	case alarm.ActionReminder:
		return color.MagentaString("reminder")
	case alarm.ActionMessage:
		return color.MagentaString("%d message(s)", len(a.MessageActions))
	default:
		return "notify"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}

	return fmt.Sprintf("%d %ss ago", n, unit)
}

package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/domain/geo"
)

// AlarmFlags are the raw alarm fields collected by the add command.
type AlarmFlags struct {
	// ID replaces an existing alarm when set.
	ID string
	// Name is the display label.
	Name string
	// Latitude of the geofence center.
	Latitude float64
	// Longitude of the geofence center.
	Longitude float64
	// Radius in meters.
	Radius float64
	// Days is a comma-separated list of weekday codes or "all".
	Days string
	// Repeat selects FrequencyRepeat instead of FrequencyOnce.
	Repeat bool
	// Disabled stores the alarm switched off.
	Disabled bool
	// Reminder sets a reminder action.
	Reminder string
	// Messages are message actions in "channel:target:text" form.
	Messages []string
}

// errMessageFormat is returned for malformed --message values.
var errMessageFormat = errors.New(`message must look like "channel:target:text"`)

// BuildAlarm converts flags into an alarm. Validation is left to the daemon.
func BuildAlarm(f AlarmFlags) (*alarm.Alarm, error) {
	days, err := ParseDays(f.Days)
	if err != nil {
		return nil, err
	}

	a := alarm.New(strings.TrimSpace(f.Name), geo.Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}, f.Radius, days...)
	if f.ID != "" {
		a.ID = f.ID
	}

	a.Enabled = !f.Disabled

	if f.Repeat {
		a.Frequency = alarm.FrequencyRepeat
	}

	switch {
	case len(f.Messages) > 0:
		a.ActionType = alarm.ActionMessage

		for _, raw := range f.Messages {
			action, err := ParseMessageAction(raw)
			if err != nil {
				return nil, err
			}

			a.MessageActions = append(a.MessageActions, action)
		}
	case f.Reminder != "":
		a.ActionType = alarm.ActionReminder
		a.ReminderDescription = f.Reminder
	}

	return a, nil
}

// ParseDays parses "Mon,Wed,Fri" or "all".
func ParseDays(s string) ([]alarm.Weekday, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return alarm.AllWeekdays(), nil
	}

	var days []alarm.Weekday

	for part := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		day, err := alarm.ParseWeekday(part)
		if err != nil {
			return nil, err
		}

		days = append(days, day)
	}

	return days, nil
}

// ParseMessageAction parses "channel:target:text". The text may contain colons.
func ParseMessageAction(s string) (alarm.MessageAction, error) {
	parts := strings.SplitN(s, ":", 3) //nolint:mnd // channel, target, text.
	if len(parts) != 3 {               //nolint:mnd // channel, target, text.
		return alarm.MessageAction{}, fmt.Errorf("%w: %q", errMessageFormat, s)
	}

	return alarm.MessageAction{
		ID:      alarm.NewID(),
		Type:    alarm.Channel(strings.ToLower(strings.TrimSpace(parts[0]))),
		Target:  strings.TrimSpace(parts[1]),
		Message: strings.TrimSpace(parts[2]),
	}, nil
}

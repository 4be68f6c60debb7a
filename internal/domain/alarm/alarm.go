package alarm

import (
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/pingo/internal/domain/geo"
)

// Frequency controls how often an alarm may fire while the user stays inside.
type Frequency string

const (
	// FrequencyOnce fires at most once per UTC calendar day.
	FrequencyOnce Frequency = "once"
	// FrequencyRepeat fires again once RepeatCooldown has elapsed.
	FrequencyRepeat Frequency = "repeat"
)

// ActionType selects what happens when an alarm fires.
type ActionType string

const (
	// ActionNone only shows the generic local notification.
	ActionNone ActionType = "none"
	// ActionReminder shows the reminder description as a local notification.
	ActionReminder ActionType = "reminder"
	// ActionMessage sends every message action and shows a summary.
	ActionMessage ActionType = "message"
)

// Channel is the outbound transport of a message action.
type Channel string

const (
	// ChannelSMS sends a text message to a phone number.
	ChannelSMS Channel = "sms"
	// ChannelEmail sends an e-mail.
	ChannelEmail Channel = "email"
	// ChannelWhatsApp sends a WhatsApp message to a phone number.
	ChannelWhatsApp Channel = "whatsapp"
)

// MaxMessageActions is the number of message actions an alarm can carry.
const MaxMessageActions = 3

// MessageAction is one outbound message sent when an alarm fires.
type MessageAction struct {
	// ID identifies the action inside its alarm; editors generate it.
	ID string `json:"id,omitempty"`
	// Type is the channel used to deliver the message.
	Type Channel `json:"type"`
	// Target is a phone number or an e-mail address depending on Type.
	Target string `json:"target"`
	// Message is the free-text body.
	Message string `json:"message"`
}

// Alarm is a location-bound alarm as persisted in the alarm store.
type Alarm struct {
	// ID is the generated unique identity of the alarm.
	ID string `json:"id"`
	// Name is the display label.
	Name string `json:"name"`
	// Latitude of the geofence center.
	Latitude float64 `json:"latitude"`
	// Longitude of the geofence center.
	Longitude float64 `json:"longitude"`
	// Radius is the inclusive geofence boundary in meters.
	Radius float64 `json:"radius"`
	// Days lists the weekdays on which the alarm is active.
	Days []Weekday `json:"days"`
	// Enabled alarms are evaluated; disabled ones are inert.
	Enabled bool `json:"enabled"`
	// Frequency is the notification frequency mode.
	Frequency Frequency `json:"frequency"`
	// ActionType selects the action performed on fire.
	ActionType ActionType `json:"actionType"`
	// ReminderDescription is the reminder text for ActionReminder.
	ReminderDescription string `json:"reminderDescription,omitempty"`
	// MessageActions are the messages sent for ActionMessage, in order.
	MessageActions []MessageAction `json:"messageActions,omitempty"`
	// LastNotifiedAt is the last FrequencyOnce fire.
	LastNotifiedAt *time.Time `json:"lastNotifiedAt,omitempty"`
	// LastRepeatedNotifiedAt is the last FrequencyRepeat fire, the cooldown anchor.
	LastRepeatedNotifiedAt *time.Time `json:"lastRepeatedNotifiedAt,omitempty"`
}

// NewID generates a new alarm or message action identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates an enabled once-per-day alarm with no action and a fresh ID.
func New(name string, center geo.Coordinate, radius float64, days ...Weekday) *Alarm {
	return &Alarm{
		ID:         NewID(),
		Name:       name,
		Latitude:   center.Latitude,
		Longitude:  center.Longitude,
		Radius:     radius,
		Days:       append([]Weekday(nil), days...),
		Enabled:    true,
		Frequency:  FrequencyOnce,
		ActionType: ActionNone,
	}
}

// Center returns the geofence center.
func (a *Alarm) Center() geo.Coordinate {
	return geo.Coordinate{
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
}

// ActiveOn reports whether day is one of the alarm's weekdays.
func (a *Alarm) ActiveOn(day Weekday) bool {
	for _, d := range a.Days {
		if d == day {
			return true
		}
	}

	return false
}

// Clone returns a deep copy so callers never share slices or timestamps.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a
	cloned.Days = append([]Weekday(nil), a.Days...)

	if a.MessageActions != nil {
		cloned.MessageActions = append([]MessageAction(nil), a.MessageActions...)
	}

	cloned.LastNotifiedAt = cloneTime(a.LastNotifiedAt)
	cloned.LastRepeatedNotifiedAt = cloneTime(a.LastRepeatedNotifiedAt)

	return &cloned
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t

	return &v
}

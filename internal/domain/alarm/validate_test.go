package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validAlarm() *Alarm {
	return &Alarm{
		ID:         "a-1",
		Name:       "Pharmacy",
		Latitude:   -22.9,
		Longitude:  -43.2,
		Radius:     120,
		Days:       []Weekday{Monday, Tuesday},
		Enabled:    true,
		Frequency:  FrequencyOnce,
		ActionType: ActionNone,
	}
}

// TestValidate_Invariants runs every alarm-level rule.
func TestValidate_Invariants(t *testing.T) {
	t.Parallel()

	require.NoError(t, validAlarm().Validate())

	cases := map[string]func(a *Alarm){
		"missing id":        func(a *Alarm) { a.ID = "" },
		"blank name":        func(a *Alarm) { a.Name = "  " },
		"bad latitude":      func(a *Alarm) { a.Latitude = 95 },
		"zero radius":       func(a *Alarm) { a.Radius = 0 },
		"negative radius":   func(a *Alarm) { a.Radius = -5 },
		"no days":           func(a *Alarm) { a.Days = nil },
		"unknown day":       func(a *Alarm) { a.Days = []Weekday{"Seg"} },
		"unknown frequency": func(a *Alarm) { a.Frequency = "hourly" },
		"unknown action":    func(a *Alarm) { a.ActionType = "alexa" },
		"none with reminder": func(a *Alarm) {
			a.ReminderDescription = "x"
		},
		"empty reminder": func(a *Alarm) {
			a.ActionType = ActionReminder
			a.ReminderDescription = " "
		},
		"message without actions": func(a *Alarm) {
			a.ActionType = ActionMessage
		},
		"too many messages": func(a *Alarm) {
			a.ActionType = ActionMessage
			for range MaxMessageActions + 1 {
				a.MessageActions = append(a.MessageActions, MessageAction{Type: ChannelSMS, Target: "123", Message: "hi"})
			}
		},
		"message with reminder": func(a *Alarm) {
			a.ActionType = ActionMessage
			a.ReminderDescription = "x"
			a.MessageActions = []MessageAction{{Type: ChannelSMS, Target: "123", Message: "hi"}}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := validAlarm()
			mutate(a)
			require.ErrorIs(t, a.Validate(), ErrInvalidAlarm)
		})
	}
}

// TestValidate_MessageActions covers per-channel target checks.
func TestValidate_MessageActions(t *testing.T) {
	t.Parallel()

	good := []MessageAction{
		{Type: ChannelSMS, Target: "+55 (11) 99999-0000", Message: "arrived"},
		{Type: ChannelEmail, Target: "ana@example.com", Message: "arrived"},
		{Type: ChannelWhatsApp, Target: "5511999990000", Message: "arrived"},
	}
	for _, m := range good {
		require.NoError(t, m.Validate(), m.Type)
	}

	bad := []MessageAction{
		{Type: ChannelSMS, Target: "call me", Message: "x"},
		{Type: ChannelEmail, Target: "not-an-address", Message: "x"},
		{Type: ChannelWhatsApp, Target: "123", Message: " "},
		{Type: "alexa", Target: "kitchen", Message: "x"},
		{Type: ChannelSMS, Target: "", Message: "x"},
	}
	for _, m := range bad {
		require.ErrorIs(t, m.Validate(), ErrInvalidAlarm, m.Type)
	}

	a := validAlarm()
	a.ActionType = ActionMessage
	a.MessageActions = good
	a.LastNotifiedAt = new(time.Time)
	require.NoError(t, a.Validate())
}

// TestDigits strips formatting from phone numbers.
func TestDigits(t *testing.T) {
	t.Parallel()

	require.Equal(t, "5511999990000", Digits("+55 (11) 99999-0000"))
	require.Empty(t, Digits("none"))
}

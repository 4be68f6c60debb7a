package alarm

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
)

// maxNameLength bounds the display label.
const maxNameLength = 255

// ErrInvalidAlarm wraps every validation failure.
var ErrInvalidAlarm = errors.New("invalid alarm")

// Validate checks the alarm invariants editors must respect before saving.
//
//nolint:cyclop // A flat list of checks reads better than helpers here.
func (a *Alarm) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return invalid("id is required")
	}

	if strings.TrimSpace(a.Name) == "" {
		return invalid("name cannot be empty")
	}

	if len(a.Name) > maxNameLength {
		return invalid("name too long (max %d characters)", maxNameLength)
	}

	if err := a.Center().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAlarm, err)
	}

	if !(a.Radius > 0) || math.IsInf(a.Radius, 0) {
		return invalid("radius must be a positive number of meters")
	}

	if len(a.Days) == 0 {
		return invalid("at least one weekday is required")
	}

	for _, d := range a.Days {
		if !d.Valid() {
			return invalid("unknown weekday %q", d)
		}
	}

	switch a.Frequency {
	case FrequencyOnce, FrequencyRepeat:
	default:
		return invalid("unknown frequency %q", a.Frequency)
	}

	return a.validateAction()
}

func (a *Alarm) validateAction() error {
	switch a.ActionType {
	case ActionNone:
		if a.ReminderDescription != "" || len(a.MessageActions) > 0 {
			return invalid("action %q takes no reminder or messages", a.ActionType)
		}
	case ActionReminder:
		if strings.TrimSpace(a.ReminderDescription) == "" {
			return invalid("reminder description cannot be empty")
		}

		if len(a.MessageActions) > 0 {
			return invalid("reminder alarms cannot carry messages")
		}
	case ActionMessage:
		if a.ReminderDescription != "" {
			return invalid("message alarms cannot carry a reminder description")
		}

		if len(a.MessageActions) == 0 {
			return invalid("add at least one message to send")
		}

		if len(a.MessageActions) > MaxMessageActions {
			return invalid("at most %d messages are allowed", MaxMessageActions)
		}

		for i := range a.MessageActions {
			if err := a.MessageActions[i].Validate(); err != nil {
				return fmt.Errorf("message %d: %w", i+1, err)
			}
		}
	default:
		return invalid("unknown action type %q", a.ActionType)
	}

	return nil
}

// Validate checks a single message action.
func (m *MessageAction) Validate() error {
	if strings.TrimSpace(m.Target) == "" {
		return invalid("message target cannot be empty")
	}

	if strings.TrimSpace(m.Message) == "" {
		return invalid("message text cannot be empty")
	}

	switch m.Type {
	case ChannelEmail:
		if _, err := mail.ParseAddress(m.Target); err != nil {
			return invalid("invalid e-mail address %q", m.Target)
		}
	case ChannelSMS, ChannelWhatsApp:
		if Digits(m.Target) == "" {
			return invalid("invalid phone number %q", m.Target)
		}
	default:
		return invalid("unknown message type %q", m.Type)
	}

	return nil
}

// Digits strips every non-digit from a phone number.
func Digits(phone string) string {
	var b strings.Builder

	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAlarm, fmt.Sprintf(format, args...))
}

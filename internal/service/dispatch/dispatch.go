package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/logger"
	"github.com/oshokin/pingo/internal/metrics"
	"github.com/oshokin/pingo/internal/service/messaging"
	"github.com/oshokin/pingo/internal/service/notify"
)

// Report summarizes one dispatch.
type Report struct {
	// Title is the notification title.
	Title string
	// Body is the notification body.
	Body string
	// Sent counts message actions delivered successfully.
	Sent int
	// Failed counts message actions that could not be delivered.
	Failed int
	// NotifyErr is the local notification failure, if any.
	NotifyErr error
}

// Dispatcher runs alarm actions against the notifier and message sender.
type Dispatcher struct {
	// notifier shows local notifications.
	notifier notify.Notifier
	// sender delivers message actions.
	sender messaging.Sender
	// metrics is optional.
	metrics *metrics.Metrics
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics records notification and send outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a dispatcher.
func New(notifier notify.Notifier, sender messaging.Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		sender:   sender,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch executes the action of a fired alarm. Failures are logged and
// reported, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, a *alarm.Alarm) Report {
	ctx = logger.WithKV(ctx, "alarm_id", a.ID)

	report := Report{
		Title: Title(a),
		Body:  Body(a),
	}

	if a.ActionType == alarm.ActionMessage {
		for i, action := range a.MessageActions {
			err := d.sender.Send(ctx, action)
			d.metrics.Sent(string(action.Type), err)

			if err != nil {
				report.Failed++

				logger.WarnKV(ctx, "Message action failed",
					"index", i,
					"channel", action.Type,
					"error", err)

				continue
			}

			report.Sent++
		}
	}

	report.NotifyErr = d.notifier.Notify(ctx, report.Title, report.Body)
	d.metrics.Notified(report.NotifyErr)

	if report.NotifyErr != nil {
		logger.WarnKV(ctx, "Local notification failed", "error", report.NotifyErr)
	}

	return report
}

// Title is the notification title of a fired alarm.
func Title(a *alarm.Alarm) string {
	return "Alarm: " + a.Name
}

// Body is the notification text of a fired alarm.
func Body(a *alarm.Alarm) string {
	switch a.ActionType {
	case alarm.ActionReminder:
		if desc := strings.TrimSpace(a.ReminderDescription); desc != "" {
			return "Reminder: " + desc
		}
	case alarm.ActionMessage:
		if len(a.MessageActions) > 0 {
			first := a.MessageActions[0]
			body := fmt.Sprintf("Message: %s (to %s)", first.Message, first.Target)

			if rest := len(a.MessageActions) - 1; rest > 0 {
				body += fmt.Sprintf(" and %d more message(s).", rest)
			}

			return body
		}
	case alarm.ActionNone:
	}

	return fmt.Sprintf("You are near %s!", a.Name)
}

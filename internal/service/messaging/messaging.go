package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/logger"
)

// Sender delivers one message action.
type Sender interface {
	Send(ctx context.Context, action alarm.MessageAction) error
}

var (
	// ErrChannelUnavailable is returned when no transport is configured for a channel.
	ErrChannelUnavailable = errors.New("messaging channel unavailable")
	// ErrRejected is returned when the gateway refuses a message.
	ErrRejected = errors.New("message rejected")
)

// New builds the sender selected in cfg.
func New(cfg config.Messaging) (Sender, error) {
	switch cfg.Kind {
	case config.MessagingLog, "":
		return NewLog(cfg.EmailSubject), nil
	case config.MessagingGateway:
		return NewGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unknown messaging kind %q", cfg.Kind)
	}
}

// Log records messages instead of sending them.
type Log struct {
	// subject is used for e-mail entries.
	subject string
}

// NewLog creates a dry-run sender.
func NewLog(subject string) *Log {
	return &Log{subject: subject}
}

// Send logs the message that would be delivered.
func (l *Log) Send(ctx context.Context, action alarm.MessageAction) error {
	kvs := []any{"channel", action.Type, "target", action.Target, "message", action.Message}

	switch action.Type {
	case alarm.ChannelEmail:
		kvs = append(kvs, "subject", l.subject)
	case alarm.ChannelWhatsApp:
		kvs = append(kvs, "link", WhatsAppLink(action.Target, action.Message))
	case alarm.ChannelSMS:
	default:
		return fmt.Errorf("%w: %s", ErrChannelUnavailable, action.Type)
	}

	logger.InfoKV(ctx, "Message not sent, dry run", kvs...)

	return nil
}

// WhatsAppLink builds a click-to-chat link with a prefilled message.
func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + alarm.Digits(phone) + "?text=" + url.QueryEscape(message)
}

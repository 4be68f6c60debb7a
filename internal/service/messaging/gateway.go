package messaging

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/logger"
	"github.com/oshokin/pingo/internal/version"
)

// Gateway posts messages to per-channel HTTP endpoints.
type Gateway struct {
	// client is the shared HTTP client.
	client *resty.Client
	// endpoints maps a channel to its send URL.
	endpoints map[alarm.Channel]string
	// subject is the e-mail subject line.
	subject string
}

// sendRequest is the JSON body posted to every endpoint.
type sendRequest struct {
	To      string `json:"to"`
	Text    string `json:"text"`
	Subject string `json:"subject,omitempty"`
	Link    string `json:"link,omitempty"`
}

// sendResponse is the optional JSON answer of an endpoint.
type sendResponse struct {
	ID string `json:"id"`
}

// NewGateway creates a gateway sender from configuration.
func NewGateway(cfg config.Messaging) *Gateway {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", version.UserAgent())

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	endpoints := make(map[alarm.Channel]string, 3)
	for channel, endpoint := range map[alarm.Channel]string{
		alarm.ChannelSMS:      cfg.SMSEndpoint,
		alarm.ChannelEmail:    cfg.EmailEndpoint,
		alarm.ChannelWhatsApp: cfg.WhatsAppEndpoint,
	} {
		if endpoint != "" {
			endpoints[channel] = endpoint
		}
	}

	return &Gateway{
		client:    client,
		endpoints: endpoints,
		subject:   cfg.EmailSubject,
	}
}

// Send posts one message to the endpoint of its channel.
func (g *Gateway) Send(ctx context.Context, action alarm.MessageAction) error {
	endpoint, ok := g.endpoints[action.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelUnavailable, action.Type)
	}

	body := sendRequest{
		To:   action.Target,
		Text: action.Message,
	}

	switch action.Type {
	case alarm.ChannelEmail:
		body.Subject = g.subject
	case alarm.ChannelSMS:
		body.To = alarm.Digits(action.Target)
	case alarm.ChannelWhatsApp:
		body.To = alarm.Digits(action.Target)
		body.Link = WhatsAppLink(action.Target, action.Message)
	}

	var result sendResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&body).
		SetResult(&result).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("send %s message: %w", action.Type, err)
	}

	if resp.IsError() {
		return fmt.Errorf("%w: %s gateway answered %d: %s", ErrRejected, action.Type, resp.StatusCode(), resp.String())
	}

	logger.DebugKV(ctx, "Message sent", "channel", action.Type, "gateway_id", result.ID)

	return nil
}

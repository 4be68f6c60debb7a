package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/domain/alarm"
)

type captured struct {
	path   string
	auth   string
	agent  string
	body   sendRequest
	status int
}

// gatewayServer records every request and answers with the given status.
func gatewayServer(t *testing.T, status int) (*httptest.Server, func() []captured) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []captured
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body sendRequest
		_ = json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		seen = append(seen, captured{
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			agent:  r.Header.Get("User-Agent"),
			body:   body,
			status: status,
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()

		return append([]captured(nil), seen...)
	}
}

func gatewayConfig(base string) config.Messaging {
	return config.Messaging{
		Kind:             config.MessagingGateway,
		SMSEndpoint:      base + "/sms",
		EmailEndpoint:    base + "/email",
		WhatsAppEndpoint: base + "/whatsapp",
		Token:            "secret",
		EmailSubject:     config.DefaultEmailSubject,
		Timeout:          time.Second,
	}
}

// TestGateway_Channels posts one request per channel with channel-specific fields.
func TestGateway_Channels(t *testing.T) {
	t.Parallel()

	srv, seen := gatewayServer(t, http.StatusAccepted)
	g := NewGateway(gatewayConfig(srv.URL))
	ctx := context.Background()

	require.NoError(t, g.Send(ctx, alarm.MessageAction{Type: alarm.ChannelSMS, Target: "+55 (11) 99999-0000", Message: "arrived"}))
	require.NoError(t, g.Send(ctx, alarm.MessageAction{Type: alarm.ChannelEmail, Target: "ana@example.com", Message: "arrived"}))
	require.NoError(t, g.Send(ctx, alarm.MessageAction{Type: alarm.ChannelWhatsApp, Target: "+55 11 99999-0000", Message: "on my way"}))

	got := seen()
	require.Len(t, got, 3)

	require.Equal(t, "/sms", got[0].path)
	require.Equal(t, "5511999990000", got[0].body.To)
	require.Equal(t, "Bearer secret", got[0].auth)
	require.Contains(t, got[0].agent, "pingo/")

	require.Equal(t, "/email", got[1].path)
	require.Equal(t, "ana@example.com", got[1].body.To)
	require.Equal(t, "PinGo alert", got[1].body.Subject)

	require.Equal(t, "/whatsapp", got[2].path)
	require.Equal(t, "5511999990000", got[2].body.To)
	require.Equal(t, "https://wa.me/5511999990000?text=on+my+way", got[2].body.Link)
	require.Equal(t, "on my way", got[2].body.Text)
}

// TestGateway_Failures covers rejected requests and unconfigured channels.
func TestGateway_Failures(t *testing.T) {
	t.Parallel()

	srv, _ := gatewayServer(t, http.StatusBadRequest)
	cfg := gatewayConfig(srv.URL)
	cfg.EmailEndpoint = ""

	g := NewGateway(cfg)
	ctx := context.Background()

	err := g.Send(ctx, alarm.MessageAction{Type: alarm.ChannelSMS, Target: "123", Message: "x"})
	require.ErrorIs(t, err, ErrRejected)

	err = g.Send(ctx, alarm.MessageAction{Type: alarm.ChannelEmail, Target: "ana@example.com", Message: "x"})
	require.ErrorIs(t, err, ErrChannelUnavailable)
}

// TestLog_Send accepts known channels only.
func TestLog_Send(t *testing.T) {
	t.Parallel()

	s, err := New(config.Messaging{Kind: config.MessagingLog, EmailSubject: "s"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Send(ctx, alarm.MessageAction{Type: alarm.ChannelWhatsApp, Target: "123", Message: "x"}))
	require.NoError(t, s.Send(ctx, alarm.MessageAction{Type: alarm.ChannelEmail, Target: "a@b.c", Message: "x"}))
	require.ErrorIs(t, s.Send(ctx, alarm.MessageAction{Type: "fax", Target: "1", Message: "x"}), ErrChannelUnavailable)

	_, err = New(config.Messaging{Kind: "pigeon"})
	require.Error(t, err)
}

// TestWhatsAppLink keeps only digits and escapes the message.
func TestWhatsAppLink(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://wa.me/5511999990000?text=I%27m+here%21", WhatsAppLink("+55 11 99999-0000", "I'm here!"))
}

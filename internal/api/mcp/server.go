package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/version"
)

// Service is the subset of the monitor API used by the tools.
type Service interface {
	RunTick(ctx context.Context) (alarm.TickSummary, error)
	ListAlarms(ctx context.Context) ([]*alarm.Alarm, error)
	SetAlarmEnabled(ctx context.Context, id string, enabled bool) error
}

var (
	// errServiceRequired is returned when NewServer receives a nil service.
	errServiceRequired = errors.New("service is required")
	// errIDRequired is returned when a tool call omits the alarm id.
	errIDRequired = errors.New("id is required")
)

// Server wraps the MCP server and the monitor service.
type Server struct {
	// mcp is the protocol server.
	mcp *mcp.Server
	// service answers tool calls.
	service Service
}

// NewServer creates an MCP server with every tool registered.
func NewServer(service Service) (*Server, error) {
	if service == nil {
		return nil, errServiceRequired
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "pingo",
			Version: version.Short(),
		}, nil),
		service: service,
	}

	s.registerTools()

	return s, nil
}

// Serve runs the MCP server over stdio until ctx ends or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

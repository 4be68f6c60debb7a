package client

import (
	"context"
	"fmt"

	"github.com/oshokin/pingo/internal/api/mcp"
	"github.com/oshokin/pingo/internal/logger"
)

// ServeMCP exposes the daemon to an MCP client over stdio until ctx ends.
func ServeMCP(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "pingo-mcp")

	conn, err := Connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = conn.Close()
	}()

	server, err := mcp.NewServer(conn)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Serving MCP over stdio")

	if err = server.Serve(ctx); err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}

	return nil
}

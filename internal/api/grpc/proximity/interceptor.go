package proximity

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/pingo/internal/logger"
)

// ActorMetadataKey carries "user@host" of the calling process.
const ActorMetadataKey = "x-pingo-actor"

// LoggingInterceptor names the request logger after the caller and logs every call.
func LoggingInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	actor := "unknown"
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(ActorMetadataKey); len(values) > 0 {
			actor = values[0]
		}
	}

	ctx = logger.WithKV(logger.WithName(ctx, "grpc"), "method", info.FullMethod, "actor", actor)

	started := time.Now()
	resp, err := handler(ctx, req)

	logger.DebugKV(ctx, "Handled call",
		"code", status.Code(err).String(),
		"elapsed", time.Since(started).String())

	return resp, err
}

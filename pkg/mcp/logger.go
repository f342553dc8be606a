package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/lv2lint/pkg/log"
)

// ToolHandler is the signature of a typed MCP tool handler.
type ToolHandler[In, Out any] func(
	context.Context,
	*mcp.ServerSession,
	*mcp.CallToolParamsFor[In],
) (*mcp.CallToolResultFor[Out], error)

// WithTracing wraps handler with a span and debug logging for each call.
// Errors are recorded on the span.
func WithTracing[In, Out any](tracer trace.Tracer, handler ToolHandler[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(
		ctx context.Context,
		session *mcp.ServerSession,
		params *mcp.CallToolParamsFor[In],
	) (*mcp.CallToolResultFor[Out], error) {
		ctx, span := tracer.Start(ctx, "tool "+params.Name)
		defer span.End()

		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handle tool call",
			slog.String("name", params.Name),
			slog.Any("args", params.Arguments),
		)

		result, err := handler(ctx, session, params)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", params.Name),
				slog.Any("err", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "tool call failed")

			return result, err
		}

		logger.DebugContext(ctx, "tool call complete", slog.String("name", params.Name))

		return result, nil
	}
}

package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/lv2lint/pkg/report"
	"github.com/macropower/lv2lint/pkg/version"
)

// AddressStdio serves over standard input and output.
const AddressStdio = "-"

// Linter checks plugins. Implementations must serialize calls to Run.
type Linter interface {
	Plugins() []string
	Run(ctx context.Context, uris []string, sink report.Sink) (report.Summary, error)
}

// Server implements the MCP server for lv2lint.
type Server struct {
	linter  Linter
	server  *mcp.Server
	tracer  trace.Tracer
	address string
}

// NewServer creates a new MCP server. If address is [AddressStdio], the
// server uses standard input and output, otherwise it serves streamable HTTP
// at address.
func NewServer(address string, linter Linter) (*Server, error) {
	if linter == nil {
		return nil, errors.New("linter is required")
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		linter:  linter,
		tracer:  otel.Tracer("mcp-server"),
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}

	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_plugins",
		Description: "List the URIs of all LV2 plugins found in the search path.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"filter": {
					Type:        "string",
					Description: "Optional case-insensitive shell wildcard pattern, e.g. \"*example.org*\". Only matching URIs are returned.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleListPlugins))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lint_plugins",
		Description: "Check LV2 plugins and return their findings. You MUST use URIs from the list_plugins output EXACTLY.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uris": {
					Type:        "array",
					Description: "The URIs of the plugins to check.",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"all": {
					Type:        "boolean",
					Description: "Check every plugin in the search path instead of the given URIs.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleLintPlugins))
}

// Server returns the underlying MCP server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve serves MCP clients until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == AddressStdio || s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx) //nolint:contextcheck // Parent is already canceled.
		if err != nil {
			slog.Error("shutdown MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

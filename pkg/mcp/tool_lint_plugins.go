package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/lv2lint/pkg/log"
	"github.com/macropower/lv2lint/pkg/report"
)

var ErrNoURIs = errors.New("no plugin URIs given, use list_plugins to find them")

// LintPluginsParams defines parameters for the lint_plugins tool.
type LintPluginsParams struct {
	URIs []string `json:"uris,omitempty" jsonschema:"the URIs of the plugins to check"`
	All  bool     `json:"all,omitempty" jsonschema:"check every plugin in the search path"`
}

// LintPluginsResult contains the report of a lint run.
type LintPluginsResult struct {
	Message string          `json:"message"`
	Report  report.Document `json:"report"`
	Logs    []string        `json:"logs,omitempty"`
	Pass    bool            `json:"pass"`
}

func (s *Server) handleLintPlugins(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[LintPluginsParams],
) (*mcp.CallToolResultFor[LintPluginsResult], error) {
	uris := params.Arguments.URIs
	if params.Arguments.All {
		uris = s.linter.Plugins()
	}
	if len(uris) == 0 {
		return nil, ErrNoURIs
	}

	// Keep the diagnostics of this run, so they can be returned to the client.
	logs := log.NewBuffer(maxLogLines)
	ctx = log.NewContext(ctx, slog.New(log.CreateHandler(logs, slog.LevelInfo, log.FormatLogfmt)))

	sink := report.NewJSON(nil, name)

	sum, err := s.linter.Run(ctx, uris, sink)
	if err != nil {
		return nil, fmt.Errorf("lint plugins: %w", err)
	}

	result := LintPluginsResult{
		Message: sum.String(),
		Report:  sink.Document(),
		Logs:    logs.Lines(),
		Pass:    sum.Pass(),
	}

	return &mcp.CallToolResultFor[LintPluginsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}, nil
}

package mcp

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/lv2lint/pkg/wildcard"
)

// ListPluginsParams defines parameters for the list_plugins tool.
type ListPluginsParams struct {
	Filter string `json:"filter,omitempty" jsonschema:"case-insensitive shell wildcard pattern to filter plugin URIs"`
}

// ListPluginsResult contains the result of listing plugins.
type ListPluginsResult struct {
	Message     string   `json:"message"`
	Plugins     []string `json:"plugins"`
	PluginCount int      `json:"pluginCount"`
}

func (s *Server) handleListPlugins(
	_ context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListPluginsParams],
) (*mcp.CallToolResultFor[ListPluginsResult], error) {
	filter := params.Arguments.Filter
	if filter != "" {
		err := wildcard.Validate(filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	result := ListPluginsResult{Plugins: []string{}}

	for _, uri := range s.linter.Plugins() {
		if filter == "" || wildcard.Match(filter, uri) {
			result.Plugins = append(result.Plugins, uri)
		}
	}

	result.PluginCount = len(result.Plugins)
	result.Message = fmt.Sprintf("Found %s.", english.Plural(result.PluginCount, "plugin", ""))

	return &mcp.CallToolResultFor[ListPluginsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}, nil
}

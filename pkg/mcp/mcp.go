// Package mcp serves lv2lint over the Model Context Protocol.
//
// The server exposes two tools: list_plugins, which lists the plugins found
// in the search path, and lint_plugins, which checks plugins and returns the
// structured report.
package mcp

const (
	name         = "lv2lint"
	instructions = `MCP Server 'lv2lint' checks LV2 plugin bundles for specification conformance and common packaging mistakes.

When to use these tools:
- Checking a plugin after editing its bundle descriptors
- Finding out why a host refuses to load a plugin
- Reviewing a plugin before release or packaging

REQUIRED workflow:
1. Use 'list_plugins' first to get the URIs of all plugins in the search path
2. Use 'lint_plugins' with one or more EXACT URIs from the 'list_plugins' output
3. Read the findings of each plugin and port. Every finding has a 'uri' that identifies the violated rule

IMPORTANT: Bundles are reloaded when they change on disk. After editing a bundle, call 'lint_plugins' again to verify the fix.
`

	// maxLogLines is the number of log lines returned by lint_plugins.
	maxLogLines = 200
)

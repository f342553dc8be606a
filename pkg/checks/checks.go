// Package checks contains the lint rules for plugins and their ports.
//
// Rules are grouped in two [lint.Table] values: one that runs once against
// each plugin instance, and one that runs against each of its ports. Custom
// rules written in CEL can be appended to either table, see [Rule].
package checks

import (
	"fmt"

	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/plugin"
)

type (
	// PluginContext is the context of the plugin-level rules.
	PluginContext = lint.Context[*plugin.Instance]
	// PortContext is the context of the port-level rules.
	PortContext = lint.Context[*plugin.Port]
)

// Tables holds the plugin-level and port-level test tables.
type Tables struct {
	Plugin *lint.Table[*plugin.Instance]
	Port   *lint.Table[*plugin.Port]
}

// New creates the built-in [Tables], with the given custom rules appended.
func New(rules ...Rule) (*Tables, error) {
	pluginTests, portTests, err := compileRules(rules)
	if err != nil {
		return nil, err
	}

	pluginTable, err := PluginTable().With(pluginTests...)
	if err != nil {
		return nil, fmt.Errorf("plugin rules: %w", err)
	}

	portTable, err := PortTable().With(portTests...)
	if err != nil {
		return nil, fmt.Errorf("port rules: %w", err)
	}

	return &Tables{Plugin: pluginTable, Port: portTable}, nil
}

// Findings returns every built-in [lint.Finding].
func Findings() []*lint.Finding {
	out := make([]*lint.Finding, 0, len(pluginFindings)+len(portFindings))
	out = append(out, pluginFindings...)
	out = append(out, portFindings...)

	return out
}

package checks

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/macropower/lv2lint/pkg/expr"
	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/plugin"
	"github.com/macropower/lv2lint/pkg/world"
)

// RuleURIPrefix prefixes the name of a [Rule] without an explicit URI.
const RuleURIPrefix = "urn:lv2lint:rule:"

var ErrInvalidRule = errors.New("invalid rule")

// Scope selects the table a [Rule] is added to.
type Scope string

const (
	ScopePlugin Scope = "plugin"
	ScopePort   Scope = "port"
)

// Rule is a user-defined check written in CEL.
//
// Plugin rules see a `plugin` map variable. Port rules additionally see a
// `port` map variable. The expression must evaluate to true when the subject
// passes.
type Rule struct {
	Name        string `json:"name" jsonschema:"title=Name,minLength=1"`
	Scope       Scope  `json:"scope,omitempty" jsonschema:"title=Scope,enum=plugin,enum=port,default=plugin"`
	Expr        string `json:"expr" jsonschema:"title=Expression,minLength=1"`
	Severity    string `json:"severity,omitempty" jsonschema:"title=Severity,enum=fail,enum=warn,enum=note,default=warn"`
	Packager    string `json:"packager,omitempty" jsonschema:"title=Packager Severity,enum=none,enum=fail,enum=warn,enum=note"`
	Message     string `json:"message,omitempty" jsonschema:"title=Message"`
	URI         string `json:"uri,omitempty" jsonschema:"title=URI"`
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
}

// Finding returns the [lint.Finding] reported when the rule fails.
func (r Rule) Finding() (*lint.Finding, error) {
	sev := lint.Warn
	if r.Severity != "" {
		var err error

		sev, err = lint.ParseSeverity(r.Severity)
		if err != nil {
			return nil, err
		}
	}

	pkg, err := lint.ParseSeverity(r.Packager)
	if err != nil {
		return nil, err
	}

	f := &lint.Finding{
		Severity:    sev,
		Packager:    pkg,
		Message:     r.Message,
		URI:         r.URI,
		Description: r.Description,
	}
	if f.Message == "" {
		f.Message = r.Name + " not satisfied"
	}
	if f.URI == "" {
		f.URI = RuleURIPrefix + r.Name
	}
	if f.Description == "" {
		f.Description = "Custom rule: " + r.Expr
	}

	err = f.Validate()
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	return f, nil
}

// errorFinding is reported when the expression of a rule cannot be evaluated.
func errorFinding(f *lint.Finding) *lint.Finding {
	return &lint.Finding{
		Severity: lint.Fail,
		Message:  "rule could not be evaluated: %s",
		URI:      f.URI,
	}
}

var (
	pluginVar = cel.Variable("plugin", cel.MapType(cel.StringType, cel.DynType))
	portVar   = cel.Variable("port", cel.MapType(cel.StringType, cel.DynType))

	// Plugin rules see `plugin`; port rules see `plugin` and `port`.
	pluginEnv = expr.MustNewEnvironment(pluginVar)
	portEnv   = expr.MustNewEnvironment(pluginVar, portVar)
)

func compileRules(rules []Rule) ([]lint.Test[*plugin.Instance], []lint.Test[*plugin.Port], error) {
	if len(rules) == 0 {
		return nil, nil, nil
	}

	var (
		pluginTests []lint.Test[*plugin.Instance]
		portTests   []lint.Test[*plugin.Port]
	)

	for i, r := range rules {
		if r.Name == "" {
			return nil, nil, fmt.Errorf("%w: rule %d has no name", ErrInvalidRule, i)
		}

		f, err := r.Finding()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, r.Name, err)
		}

		errF := errorFinding(f)

		switch r.Scope {
		case ScopePlugin, "":
			program, err := pluginEnv.Compile(r.Expr)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, r.Name, err)
			}

			pluginTests = append(pluginTests, lint.Test[*plugin.Instance]{
				Name: r.Name,
				Check: func(ctx *PluginContext) lint.Result {
					return evalRule(program, map[string]any{
						"plugin": expr.ConvertToCELValue(PluginVars(ctx.Subject.Plugin)),
					}, f, errF)
				},
			})

		case ScopePort:
			program, err := portEnv.Compile(r.Expr)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, r.Name, err)
			}

			portTests = append(portTests, lint.Test[*plugin.Port]{
				Name: r.Name,
				Check: func(ctx *PortContext) lint.Result {
					return evalRule(program, map[string]any{
						"plugin": expr.ConvertToCELValue(PluginVars(ctx.Subject.Plugin)),
						"port":   expr.ConvertToCELValue(PortVars(ctx.Subject)),
					}, f, errF)
				},
			})

		default:
			return nil, nil, fmt.Errorf("%w: %s: unknown scope %q", ErrInvalidRule, r.Name, r.Scope)
		}
	}

	return pluginTests, portTests, nil
}

func evalRule(program cel.Program, vars map[string]any, f, errF *lint.Finding) lint.Result {
	ok, err := expr.EvalBool(program, vars)
	if err != nil {
		return lint.FoundWith(errF, err.Error())
	}
	if !ok {
		return lint.Found(f)
	}

	return lint.OK()
}

// PluginVars returns the `plugin` variable of CEL rules.
func PluginVars(p *plugin.Plugin) map[string]any {
	binary, err := p.BinaryPath()
	if err != nil {
		binary = ""
	}

	return map[string]any{
		"uri":              p.URI,
		"name":             stringValue(p.Object(lv2.DOAPName)),
		"binary":           binary,
		"types":            iriStrings(p.Objects(lv2.RDFType)),
		"requiredFeatures": p.RequiredFeatures(),
		"optionalFeatures": p.OptionalFeatures(),
		"extensionData":    p.ExtensionData(),
		"requiredOptions":  p.RequiredOptions(),
		"supportedOptions": p.SupportedOptions(),
		"ports":            len(p.Ports),
		"props":            props(p.World, p.Node),
	}
}

// PortVars returns the `port` variable of CEL rules.
func PortVars(port *plugin.Port) map[string]any {
	return map[string]any{
		"index":      port.Index,
		"symbol":     port.Symbol,
		"name":       stringValue(port.Object(lv2.Name)),
		"classes":    iriStrings(port.Classes()),
		"properties": iriStrings(port.Objects(lv2.PortPropertyPred)),
		"default":    numberValue(port.Object(lv2.Default)),
		"minimum":    numberValue(port.Object(lv2.Minimum)),
		"maximum":    numberValue(port.Object(lv2.Maximum)),
		"props":      props(port.Plugin.World, port.Node),
	}
}

func stringValue(n world.Node, ok bool) string {
	if !ok || !n.IsString() {
		return ""
	}

	return n.String()
}

func numberValue(n world.Node, ok bool) any {
	if !ok || !(n.IsInt() || n.IsFloat() || n.IsBool()) {
		return nil
	}

	return n.AsFloat()
}

func iriStrings(nodes []world.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.IsIRI() {
			out = append(out, n.String())
		}
	}

	return out
}

// props returns every predicate of s mapped to the list of its objects.
func props(w *world.World, s world.Node) map[string]any {
	out := map[string]any{}

	for _, p := range w.Predicates(s) {
		objs := w.Objects(s, p)

		values := make([]any, 0, len(objs))
		for _, o := range objs {
			values = append(values, nodeValue(o))
		}

		out[p.String()] = values
	}

	return out
}

func nodeValue(n world.Node) any {
	switch {
	case n.IsInt():
		return n.AsInt()
	case n.IsFloat():
		return n.AsFloat()
	case n.IsBool():
		return n.AsBool()
	}

	return n.String()
}

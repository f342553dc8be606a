// Package plugin resolves plugins and their ports from a [world.World], and
// models the host capabilities offered to them.
package plugin

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/world"
)

var (
	ErrNotAPlugin = errors.New("not a plugin")
	ErrNoBinary   = errors.New("no binary")
)

// Plugin is a resolved plugin.
type Plugin struct {
	World *world.World
	Node  world.Node
	URI   string
	Ports []*Port
}

// Resolve looks up the plugin with the given URI. Ports are ordered by their
// index; ports without a valid index come last, in declaration order.
func Resolve(w *world.World, uri string) (*Plugin, error) {
	node := world.IRI(uri)

	if !w.Describes(node) {
		return nil, fmt.Errorf("<%s>: %w", uri, world.ErrNotFound)
	}
	if !w.IsA(node, world.IRI(lv2.Plugin)) {
		return nil, fmt.Errorf("<%s>: %w", uri, ErrNotAPlugin)
	}

	p := &Plugin{World: w, Node: node, URI: uri}

	for _, n := range w.Objects(node, world.IRI(lv2.PortPred)) {
		p.Ports = append(p.Ports, newPort(p, n))
	}

	slices.SortStableFunc(p.Ports, func(a, b *Port) int {
		switch {
		case a.Index < 0 && b.Index < 0:
			return 0
		case a.Index < 0:
			return 1
		case b.Index < 0:
			return -1
		}

		return a.Index - b.Index
	})

	return p, nil
}

// List returns the URIs of every plugin in w.
func List(w *world.World) []string {
	var uris []string
	for _, n := range w.Instances(world.IRI(lv2.Plugin)) {
		if n.IsIRI() {
			uris = append(uris, n.String())
		}
	}

	slices.Sort(uris)

	return uris
}

// Identity returns the reporting identity of the plugin.
func (p *Plugin) Identity() lint.Identity {
	return lint.Identity{ID: p.URI, Label: "<" + p.URI + ">"}
}

// Objects returns the objects of the given predicate.
func (p *Plugin) Objects(pred string) []world.Node {
	return p.World.Objects(p.Node, world.IRI(pred))
}

// Object returns the first object of the given predicate.
func (p *Plugin) Object(pred string) (world.Node, bool) {
	return p.World.Object(p.Node, world.IRI(pred))
}

// RequiredFeatures returns the URIs of lv2:requiredFeature.
func (p *Plugin) RequiredFeatures() []string {
	return iris(p.Objects(lv2.RequiredFeature))
}

// OptionalFeatures returns the URIs of lv2:optionalFeature.
func (p *Plugin) OptionalFeatures() []string {
	return iris(p.Objects(lv2.OptionalFeature))
}

// ExtensionData returns the URIs of lv2:extensionData.
func (p *Plugin) ExtensionData() []string {
	return iris(p.Objects(lv2.ExtensionDataPred))
}

// RequiredOptions returns the URIs of opts:requiredOption.
func (p *Plugin) RequiredOptions() []string {
	return iris(p.Objects(lv2.OptsRequiredOption))
}

// SupportedOptions returns the URIs of opts:supportedOption.
func (p *Plugin) SupportedOptions() []string {
	return iris(p.Objects(lv2.OptsSupportedOption))
}

// BinaryPath returns the local path of lv2:binary.
func (p *Plugin) BinaryPath() (string, error) {
	n, ok := p.Object(lv2.Binary)
	if !ok || !n.IsIRI() {
		return "", fmt.Errorf("<%s>: %w", p.URI, ErrNoBinary)
	}

	u, err := url.Parse(n.String())
	if err != nil {
		return "", fmt.Errorf("binary <%s>: %w", n, err)
	}
	if u.Scheme != "file" || u.Path == "" {
		return "", fmt.Errorf("binary <%s>: not a file URI", n)
	}

	return u.Path, nil
}

// Port is a port of a [Plugin].
type Port struct {
	Plugin *Plugin
	Node   world.Node
	Symbol string
	// Index is -1 if the port has no integer lv2:index.
	Index int
}

func newPort(p *Plugin, n world.Node) *Port {
	port := &Port{Plugin: p, Node: n, Index: -1}

	if idx, ok := p.World.Object(n, world.IRI(lv2.Index)); ok && idx.IsInt() && idx.AsInt() >= 0 {
		port.Index = int(idx.AsInt())
	}
	if sym, ok := p.World.Object(n, world.IRI(lv2.Symbol)); ok && sym.IsString() {
		port.Symbol = sym.String()
	}

	return port
}

// Label returns the port label, e.g. "{0 : gain}".
func (p *Port) Label() string {
	return fmt.Sprintf("{%d : %s}", p.Index, p.Symbol)
}

// Identity returns the reporting identity of the port. Ports are whitelisted
// by the URI of their plugin.
func (p *Port) Identity() lint.Identity {
	return lint.Identity{ID: p.Plugin.URI, Label: p.Label(), Depth: 1}
}

// Objects returns the objects of the given predicate.
func (p *Port) Objects(pred string) []world.Node {
	return p.Plugin.World.Objects(p.Node, world.IRI(pred))
}

// Object returns the first object of the given predicate.
func (p *Port) Object(pred string) (world.Node, bool) {
	return p.Plugin.World.Object(p.Node, world.IRI(pred))
}

// IsA reports whether the port has the given class.
func (p *Port) IsA(class string) bool {
	return p.Plugin.World.IsA(p.Node, world.IRI(class))
}

// HasProperty reports whether the port has the given lv2:portProperty.
func (p *Port) HasProperty(prop string) bool {
	return p.Plugin.World.Ask(p.Node, world.IRI(lv2.PortPropertyPred), world.IRI(prop))
}

// Classes returns the rdf:type classes of the port.
func (p *Port) Classes() []world.Node {
	return p.Objects(lv2.RDFType)
}

func iris(nodes []world.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.IsIRI() {
			out = append(out, n.String())
		}
	}

	return out
}

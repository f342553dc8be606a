package plugin

import (
	"maps"
	"slices"

	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/world"
)

// Host is the set of features and options a host offers to plugins.
type Host struct {
	Options  map[string]world.Node
	Features []string
}

// DefaultHost returns the capabilities of a typical host.
func DefaultHost() Host {
	return Host{
		Features: []string{
			lv2.URIDMap,
			lv2.URIDUnmap,
			lv2.WorkerSchedule,
			lv2.LogLog,
			lv2.StateMakePath,
			lv2.OptsOptions,
		},
		Options: map[string]world.Node{
			lv2.ParamSampleRate:     world.Float(48000),
			lv2.UIUpdateRate:        world.Float(25),
			lv2.BufSzMinBlockLength: world.Int(256),
			lv2.BufSzMaxBlockLength: world.Int(256),
			lv2.BufSzNominalBlock:   world.Int(256),
			lv2.BufSzSequenceSize:   world.Int(2048),
		},
	}
}

// HasFeature reports whether the host offers the feature.
func (h Host) HasFeature(uri string) bool {
	return slices.Contains(h.Features, uri)
}

// HasOption reports whether the host offers the option.
func (h Host) HasOption(uri string) bool {
	_, ok := h.Options[uri]

	return ok
}

// Capabilities is the subset of a [Host] that a plugin declares it uses.
type Capabilities struct {
	Options  map[string]world.Node
	Features []string
}

// Capabilities returns the features and options offered by h that p declares
// as required or optional (features), or required or supported (options).
func (h Host) Capabilities(p *Plugin) Capabilities {
	caps := Capabilities{Options: map[string]world.Node{}}

	for _, f := range slices.Concat(p.RequiredFeatures(), p.OptionalFeatures()) {
		if h.HasFeature(f) && !slices.Contains(caps.Features, f) {
			caps.Features = append(caps.Features, f)
		}
	}

	for _, o := range slices.Concat(p.RequiredOptions(), p.SupportedOptions()) {
		if v, ok := h.Options[o]; ok {
			caps.Options[o] = v
		}
	}

	return caps
}

// HasFeature reports whether the feature is shared.
func (c Capabilities) HasFeature(uri string) bool {
	return slices.Contains(c.Features, uri)
}

// HasOption reports whether the option is shared.
func (c Capabilities) HasOption(uri string) bool {
	_, ok := c.Options[uri]

	return ok
}

// OptionURIs returns the shared option URIs, sorted.
func (c Capabilities) OptionURIs() []string {
	return slices.Sorted(maps.Keys(c.Options))
}

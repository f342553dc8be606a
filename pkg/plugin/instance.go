package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/macropower/lv2lint/pkg/binary"
	"github.com/macropower/lv2lint/pkg/log"
)

var (
	ErrMissingFeature = errors.New("missing required feature")
	ErrMissingOption  = errors.New("missing required option")
)

// Instantiator loads a plugin so that it can be checked.
type Instantiator interface {
	Instantiate(ctx context.Context, p *Plugin, caps Capabilities) (*Instance, error)
}

// Instance is a loaded plugin. It must be closed after checking.
type Instance struct {
	Plugin *Plugin
	// Binary is nil if the binary could not be opened, see BinaryErr.
	Binary       *binary.File
	BinaryErr    error
	Capabilities Capabilities
}

// Close releases the resources held by the instance.
func (i *Instance) Close() error {
	if i == nil || i.Binary == nil {
		return nil
	}

	err := i.Binary.Close()
	i.Binary = nil

	return err //nolint:wrapcheck // Already wrapped.
}

// DescriptorInstantiator instantiates plugins from their descriptors. It
// checks that every required feature and option is available, and opens the
// plugin binary for inspection.
type DescriptorInstantiator struct{}

// NewDescriptorInstantiator creates a new [DescriptorInstantiator].
func NewDescriptorInstantiator() *DescriptorInstantiator {
	return &DescriptorInstantiator{}
}

func (d *DescriptorInstantiator) Instantiate(ctx context.Context, p *Plugin, caps Capabilities) (*Instance, error) {
	var missing []string
	for _, f := range p.RequiredFeatures() {
		if !caps.HasFeature(f) {
			missing = append(missing, "<"+f+">")
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("<%s>: %w: %s", p.URI, ErrMissingFeature, strings.Join(missing, ", "))
	}

	for _, o := range p.RequiredOptions() {
		if !caps.HasOption(o) {
			missing = append(missing, "<"+o+">")
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("<%s>: %w: %s", p.URI, ErrMissingOption, strings.Join(missing, ", "))
	}

	inst := &Instance{Plugin: p, Capabilities: caps}

	path, err := p.BinaryPath()
	if err != nil {
		inst.BinaryErr = err

		return inst, nil
	}

	inst.Binary, inst.BinaryErr = binary.Open(path)

	log.WithContext(ctx).DebugContext(ctx, "instantiated plugin",
		slog.String("uri", p.URI),
		slog.String("binary", path),
		slog.Bool("opened", inst.Binary != nil),
	)

	return inst, nil
}

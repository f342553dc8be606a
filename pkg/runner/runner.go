// Package runner checks plugins one at a time.
//
// For every plugin URI, a [Runner] resolves the plugin, computes the host
// capabilities it can use, instantiates it, and runs the plugin-level table
// followed by the port-level table for each port. The instance is closed
// before the next plugin is checked.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/lv2lint/pkg/checks"
	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/log"
	"github.com/macropower/lv2lint/pkg/plugin"
	"github.com/macropower/lv2lint/pkg/report"
	"github.com/macropower/lv2lint/pkg/world"
)

// ErrNoPlugins is returned by [Runner.Run] when no plugin URIs are given.
var ErrNoPlugins = errors.New("no plugins given")

// Runner checks plugins against the test tables. Calls to [Runner.Run] are
// serialized.
type Runner struct {
	tracer       trace.Tracer
	world        *world.World
	tables       *checks.Tables
	session      *lint.Session
	instantiator plugin.Instantiator
	host         plugin.Host
	mu           sync.Mutex
}

// RunnerOpt configures a [Runner].
type RunnerOpt func(*Runner)

// WithTables sets the test tables. Defaults to the built-in tables.
func WithTables(t *checks.Tables) RunnerOpt {
	return func(r *Runner) {
		r.tables = t
	}
}

// WithSession sets the lint session. Defaults to the default policy without
// any whitelist entries.
func WithSession(s *lint.Session) RunnerOpt {
	return func(r *Runner) {
		r.session = s
	}
}

// WithHost sets the capabilities offered to plugins. Defaults to
// [plugin.DefaultHost].
func WithHost(h plugin.Host) RunnerOpt {
	return func(r *Runner) {
		r.host = h
	}
}

// WithInstantiator sets the [plugin.Instantiator]. Defaults to
// [plugin.DescriptorInstantiator].
func WithInstantiator(i plugin.Instantiator) RunnerOpt {
	return func(r *Runner) {
		r.instantiator = i
	}
}

// New creates a new [Runner] for the plugins in w.
func New(w *world.World, opts ...RunnerOpt) (*Runner, error) {
	r := &Runner{
		tracer:       otel.Tracer("lint-runner"),
		world:        w,
		host:         plugin.DefaultHost(),
		instantiator: plugin.NewDescriptorInstantiator(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.tables == nil {
		tables, err := checks.New()
		if err != nil {
			return nil, fmt.Errorf("create tables: %w", err)
		}

		r.tables = tables
	}
	if r.session == nil {
		r.session = lint.NewSession(lint.DefaultPolicy(), nil)
	}

	return r, nil
}

// SetWorld replaces the world, e.g. after bundles were reloaded. It waits for
// a running [Runner.Run] to finish.
func (r *Runner) SetWorld(w *world.World) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.world = w
}

// Plugins returns the URIs of every plugin in the world.
func (r *Runner) Plugins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return plugin.List(r.world)
}

// Run checks the plugins identified by uris, in order, and reports the
// results to sink. Plugins that cannot be resolved or instantiated are
// reported as failed subjects, and the run continues.
//
// An error is returned if a test faulted, which stops the run without
// finishing sink, or if sink could not be finished.
func (r *Runner) Run(ctx context.Context, uris []string, sink report.Sink) (report.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(uris) == 0 {
		return report.Summary{}, ErrNoPlugins
	}

	ctx, span := r.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.Int("plugins", len(uris)),
	))
	defer span.End()

	logger := log.WithContext(ctx)
	tally := report.NewTally(sink)

	for _, uri := range uris {
		pass, err := r.lintPlugin(ctx, uri, tally)
		if errors.Is(err, lint.ErrTestFault) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "test fault")

			return tally.Summary(), err
		}
		if err != nil {
			logger.ErrorContext(ctx, "check plugin",
				slog.String("uri", uri),
				slog.Any("err", err),
			)
		}

		tally.Subject(uri, pass, err)
	}

	err := tally.Finish(nil)
	sum := tally.Summary()

	span.SetAttributes(
		attribute.Int("checked", sum.Checked),
		attribute.Int("failed", sum.Failed),
	)

	if err != nil {
		return sum, fmt.Errorf("finish report: %w", err)
	}

	return sum, nil
}

func (r *Runner) lintPlugin(ctx context.Context, uri string, rep lint.Reporter) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "plugin", trace.WithAttributes(
		attribute.String("uri", uri),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	p, err := plugin.Resolve(r.world, uri)
	if err != nil {
		err = r.suggest(uri, err)
		span.RecordError(err)

		return false, fmt.Errorf("resolve: %w", err)
	}

	caps := r.host.Capabilities(p)

	logger.DebugContext(ctx, "instantiate plugin",
		slog.String("uri", uri),
		slog.Any("features", caps.Features),
		slog.Any("options", caps.OptionURIs()),
	)

	inst, err := r.instantiator.Instantiate(ctx, p, caps)
	if err != nil {
		span.RecordError(err)

		return false, fmt.Errorf("instantiate: %w", err)
	}

	defer func() {
		err := inst.Close()
		if err != nil {
			logger.WarnContext(ctx, "close plugin instance",
				slog.String("uri", uri),
				slog.Any("err", err),
			)
		}
	}()

	pass, err := lint.Run(lint.NewContext(r.session, inst), r.tables.Plugin, p.Identity(), rep)
	if err != nil {
		return false, fmt.Errorf("%s: %w", p.Identity().Label, err)
	}

	for _, port := range p.Ports {
		ok, err := lint.Run(lint.NewContext(r.session, port), r.tables.Port, port.Identity(), rep)
		if err != nil {
			return false, fmt.Errorf("%s %s: %w", p.Identity().Label, port.Label(), err)
		}

		pass = pass && ok
	}

	span.SetAttributes(
		attribute.Bool("pass", pass),
		attribute.Int("ports", len(p.Ports)),
	)
	if !pass {
		span.SetStatus(codes.Error, "plugin failed")
	}

	return pass, nil
}

// suggest adds the closest known plugin URI to an unknown plugin error.
func (r *Runner) suggest(uri string, err error) error {
	if !errors.Is(err, world.ErrNotFound) {
		return err
	}

	known := plugin.List(r.world)
	if len(known) == 0 {
		return err
	}

	matches := fuzzy.Find(lastSegment(uri), known)
	if len(matches) == 0 {
		return err
	}

	return fmt.Errorf("%w, did you mean <%s>?", err, matches[0].Str)
}

// lastSegment returns the part of uri after the last '/', '#' or ':'.
func lastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/#")
	if i := strings.LastIndexAny(uri, "#:"); i >= 0 && i > strings.LastIndex(uri, "/") {
		return uri[i+1:]
	}

	return path.Base(uri)
}

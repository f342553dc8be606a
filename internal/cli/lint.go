package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/macropower/lv2lint/api/v1beta1/configs"
	"github.com/macropower/lv2lint/pkg/checks"
	"github.com/macropower/lv2lint/pkg/config"
	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/log"
	"github.com/macropower/lv2lint/pkg/mcp"
	"github.com/macropower/lv2lint/pkg/plugin"
	"github.com/macropower/lv2lint/pkg/report"
	"github.com/macropower/lv2lint/pkg/runner"
	"github.com/macropower/lv2lint/pkg/telemetry"
	"github.com/macropower/lv2lint/pkg/version"
	"github.com/macropower/lv2lint/pkg/whitelist"
	"github.com/macropower/lv2lint/pkg/world"
)

const (
	cmdExamples = `  # Check a plugin:
  lv2lint http://example.org/plugins/amp

  # Check every installed plugin, showing warnings and notes:
  lv2lint --all --show all

  # Fail on warnings, using bundles from an extra directory:
  lv2lint -I ./build --error warn http://example.org/plugins/amp

  # Whitelist a test for matching plugins only:
  lv2lint --subject 'http://example.org/*' --whitelist-test Symbols http://example.org/plugins/amp

  # Re-run the checks whenever a bundle changes:
  lv2lint -I ./build --watch http://example.org/plugins/amp

  # Serve the MCP server on stdio:
  lv2lint --serve-mcp -`
)

type LintArgs struct {
	*RootArgs

	Show      *maskValue
	Error     *maskValue
	Subject   *subjectValue
	Tests     *whitelistValue
	Symbols   *whitelistValue
	Libraries *whitelistValue

	ConfigPath     string
	Format         string
	Color          string
	ServeMCP       string
	Include        []string
	WhitelistFiles []string

	Packager      bool
	Documentation bool
	Summary       bool
	Quiet         bool
	Watch         bool
	List          bool
	All           bool
	WriteConfig   bool
	ShowConfig    bool
}

func NewLintArgs(rootArgs *RootArgs) *LintArgs {
	subject := &subjectValue{}

	return &LintArgs{
		RootArgs:  rootArgs,
		Show:      newMaskValue(showSeverities...),
		Error:     newMaskValue(errorSeverities...),
		Subject:   subject,
		Tests:     newWhitelistValue(whitelist.KindTest, subject),
		Symbols:   newWhitelistValue(whitelist.KindSymbol, subject),
		Libraries: newWhitelistValue(whitelist.KindLibrary, subject),
	}
}

func (la *LintArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.VarP(la.Show, "show", "s", "Show findings of a severity, prefix with 'no' to hide")
	flags.VarP(la.Error, "error", "e", "Fail on findings of a severity, prefix with 'no' to stop failing")
	flags.BoolVarP(&la.Packager, "packager", "M", false, "Use the packager severity table")
	flags.VarP(la.Subject, "subject", "u", "Scope the whitelist flags that follow to plugins matching a pattern")
	flags.VarP(la.Tests, "whitelist-test", "t", "Never fail on a test matching a pattern")
	flags.VarP(la.Symbols, "whitelist-symbol", "x", "Allow an exported symbol matching a pattern")
	flags.VarP(la.Libraries, "whitelist-library", "X", "Allow a linked library matching a pattern")
	flags.StringArrayVar(&la.WhitelistFiles, "whitelist-file", nil, "Read whitelist entries from a file")
	flags.StringArrayVarP(&la.Include, "include", "I", nil, "Search an additional bundle directory")
	flags.BoolVarP(&la.Quiet, "quiet", "q", false, "Do not print the summary")
	flags.BoolVar(&la.Summary, "summary", false, "Only print the summary")
	flags.BoolVarP(&la.Documentation, "documentation", "D", false, "Print the description of every displayed finding")
	flags.StringVar(&la.Format, "format", configs.FormatText,
		fmt.Sprintf("Report format, one of: %s", configs.ValidFormats))
	flags.StringVar(&la.Color, "color", string(report.ColorAuto),
		fmt.Sprintf("Color mode, one of: %s", report.AllColorModes))
	flags.BoolVarP(&la.All, "all", "a", false, "Check every plugin that can be found")
	flags.BoolVarP(&la.List, "list", "l", false, "Print the URIs of every plugin that can be found and exit")
	flags.BoolVarP(&la.Watch, "watch", "w", false, "Re-run the checks when bundles change")
	flags.StringVar(&la.ServeMCP, "serve-mcp", "", "Serve the MCP server at the specified address, '-' for stdio")
	flags.StringVar(&la.ConfigPath, "config", "", "Path to the lv2lint configuration file")
	flags.BoolVar(&la.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	flags.BoolVar(&la.ShowConfig, "show-config", false, "Print the effective configuration and exit")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))
	must(cmd.MarkFlagFilename("whitelist-file"))
	must(cmd.MarkFlagDirname("include"))
	must(cmd.RegisterFlagCompletionFunc("show",
		cobra.FixedCompletions(la.Show.Completions(), cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("error",
		cobra.FixedCompletions(la.Error.Completions(), cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(configs.ValidFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("color",
		cobra.FixedCompletions(report.AllColorModes, cobra.ShellCompDirectiveNoFileComp),
	))
}

// ValidateArgs requires plugin URIs unless another mode was selected.
func (la *LintArgs) ValidateArgs(_ *cobra.Command, args []string) error {
	if la.All && len(args) > 0 {
		return errors.New("invalid argument: --all cannot be combined with plugin URIs")
	}

	if len(args) > 0 || la.All || la.List || la.ServeMCP != "" || la.WriteConfig || la.ShowConfig {
		return nil
	}

	return fmt.Errorf("%w: pass at least one plugin URI, or --all", runner.ErrNoPlugins)
}

func lintCompletion(la *LintArgs) func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if la.All {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		w, err := world.Load(cmd.Context(), world.SearchPath(la.Include...)...)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var completions []cobra.Completion
		for _, uri := range plugin.List(w) {
			if !slices.Contains(args, uri) {
				completions = append(completions, uri)
			}
		}

		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

func runLint(cmd *cobra.Command, la *LintArgs, uris []string) error {
	ctx := cmd.Context()

	if la.WriteConfig {
		path := la.ConfigPath
		if path == "" {
			path = configs.GetPath()
		}

		return configs.WriteDefault(path, false) //nolint:wrapcheck // Already wrapped.
	}

	cfg, err := la.loadConfig(cmd)
	if err != nil {
		return err
	}

	if la.ShowConfig {
		return showConfig(cmd.OutOrStdout(), cfg)
	}

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx, cmdName, version.GetVersion())
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		defer func() {
			err := shutdown(context.WithoutCancel(ctx))
			if err != nil {
				slog.Error("shutdown telemetry", slog.Any("err", err))
			}
		}()
	}

	dirs := world.SearchPath(cfg.Include...)

	w, err := world.Load(ctx, dirs...)
	if err != nil {
		return &ExitError{Code: -1, Err: fmt.Errorf("load world: %w", err)}
	}

	r, err := la.newRunner(w, cfg)
	if err != nil {
		return err
	}

	if la.List {
		for _, uri := range r.Plugins() {
			mustN(fmt.Fprintln(cmd.OutOrStdout(), uri))
		}

		return nil
	}

	if la.ServeMCP != "" {
		return la.serveMCP(ctx, r, dirs)
	}

	summary, err := la.pass(ctx, cmd, r, w, cfg, uris)
	if err != nil {
		return err
	}

	if la.Watch {
		summary, err = la.watch(ctx, cmd, r, cfg, uris, dirs, summary)
		if err != nil {
			return err
		}
	}

	if summary.Failed > 0 {
		return &ExitError{Code: summary.Failed}
	}

	return nil
}

// loadConfig returns the configuration file merged with the command line.
func (la *LintArgs) loadConfig(cmd *cobra.Command) (*configs.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	path, err := config.Resolve(la.ConfigPath, wd)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	err = la.apply(cmd, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// apply overrides cfg with every flag that was set, on the command line or
// through the environment.
func (la *LintArgs) apply(cmd *cobra.Command, cfg *configs.Config) error {
	flags := cmd.Flags()

	policy, err := cfg.Lint.Policy()
	if err != nil {
		return fmt.Errorf("lint policy: %w", err)
	}

	fail := la.Error.Apply(policy.Fail)

	cfg.Lint.Show = severityNames(la.Show.Apply(policy.Show).Union(fail))
	cfg.Lint.Error = severityNames(fail)

	if flags.Changed("packager") {
		cfg.Lint.Packager = &la.Packager
	}

	if flags.Changed("documentation") {
		cfg.Lint.Documentation = &la.Documentation
	}

	if flags.Changed("format") {
		cfg.Lint.Format = la.Format
	}

	if flags.Changed("color") {
		cfg.Lint.Color = la.Color
	}

	cfg.Include = append(cfg.Include, la.Include...)

	wl := cfg.Whitelists()

	for _, v := range []*whitelistValue{la.Tests, la.Symbols, la.Libraries} {
		err := v.Register(wl)
		if err != nil {
			return err
		}
	}

	for _, path := range la.WhitelistFiles {
		err := loadWhitelistFile(wl, path)
		if err != nil {
			return err
		}
	}

	cfg.Whitelist.Tests = wl.Tests.Entries()
	cfg.Whitelist.Symbols = wl.Symbols.Entries()
	cfg.Whitelist.Libraries = wl.Libraries.Entries()

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}

	return nil
}

func loadWhitelistFile(wl *whitelist.Set, path string) error {
	f, err := os.Open(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return fmt.Errorf("open whitelist: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read only.

	err = wl.Load(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

// severityNames returns the names of the severities in m, except [lint.Fail]
// which is always included.
func severityNames(m lint.Mask) []string {
	var names []string
	for _, s := range m.Without(lint.Fail).Severities() {
		names = append(names, s.String())
	}

	return names
}

func showConfig(w io.Writer, cfg *configs.Config) error {
	b, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if !isTerminal(w) {
		mustN(w.Write(b))

		return nil
	}

	err = quick.Highlight(w, string(b), "yaml", "terminal256", "monokai")
	if err != nil {
		mustN(w.Write(b))

		return fmt.Errorf("highlight config: %w", err)
	}

	return nil
}

func (la *LintArgs) newRunner(w *world.World, cfg *configs.Config) (*runner.Runner, error) {
	tables, err := checks.New(cfg.Rules...)
	if err != nil {
		return nil, fmt.Errorf("build checks: %w", err)
	}

	policy, err := cfg.Lint.Policy()
	if err != nil {
		return nil, fmt.Errorf("lint policy: %w", err)
	}

	host, err := cfg.Host.Build()
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	session := lint.NewSession(policy, cfg.Whitelists())
	session.Debug = la.Debug

	r, err := runner.New(w,
		runner.WithTables(tables),
		runner.WithSession(session),
		runner.WithHost(host),
	)
	if err != nil {
		return nil, fmt.Errorf("create runner: %w", err)
	}

	return r, nil
}

// pass checks uris once and writes the report to standard output.
func (la *LintArgs) pass(
	ctx context.Context,
	cmd *cobra.Command,
	r *runner.Runner,
	doc report.Documenter,
	cfg *configs.Config,
	uris []string,
) (report.Summary, error) {
	if la.All {
		uris = r.Plugins()
	}

	out := cmd.OutOrStdout()
	sink := la.newSink(out, cfg, doc)

	var (
		summary report.Summary
		err     error
	)

	run := func() {
		summary, err = r.Run(ctx, uris, sink)
	}

	if isTerminal(out) {
		// Keep log lines from interleaving with the report.
		logErr := la.withBufferedLogs(cmd.ErrOrStderr(), run)
		if logErr != nil {
			return summary, logErr
		}
	} else {
		run()
	}

	switch {
	case errors.Is(err, lint.ErrTestFault):
		return summary, &ExitError{Code: -1, Err: err}
	case errors.Is(err, runner.ErrNoPlugins):
		return summary, fmt.Errorf("%w: no plugins were found", err)
	case err != nil:
		return summary, err //nolint:wrapcheck // Already wrapped.
	}

	return summary, nil
}

func (la *LintArgs) newSink(w io.Writer, cfg *configs.Config, doc report.Documenter) report.Sink {
	if cfg.Lint.Format == configs.FormatJSON {
		return report.NewJSON(w, cmdName)
	}

	opts := []report.TextOpt{report.WithColor(report.ColorMode(cfg.Lint.Color))}

	if cfg.Lint.Documentation != nil && *cfg.Lint.Documentation {
		opts = append(opts, report.WithDocumentation(doc))
	}

	if la.Summary {
		opts = append(opts, report.WithSummaryOnly())
	}

	if la.Quiet {
		opts = append(opts, report.WithQuiet())
	}

	if f, ok := w.(*os.File); ok && isTerminal(w) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil {
			opts = append(opts, report.WithWidth(width))
		}
	}

	return report.NewText(w, opts...)
}

// watch re-runs the checks whenever a bundle in dirs changes, until ctx is
// canceled. It returns the summary of the last pass.
func (la *LintArgs) watch(
	ctx context.Context,
	cmd *cobra.Command,
	r *runner.Runner,
	cfg *configs.Config,
	uris, dirs []string,
	last report.Summary,
) (report.Summary, error) {
	var passErr error

	err := watchWorld(ctx, r, dirs, func(ctx context.Context, w *world.World) {
		summary, err := la.pass(ctx, cmd, r, w, cfg, uris)
		if err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				passErr = err
			}

			slog.Error("check plugins", slog.Any("err", err))

			return
		}

		last = summary
	})
	if err != nil {
		return last, err
	}

	return last, passErr
}

// watchWorld reloads the world from dirs when it changes and calls fn with
// the new world. A world that fails to load is logged and skipped.
func watchWorld(ctx context.Context, r *runner.Runner, dirs []string, fn func(context.Context, *world.World)) error {
	watcher, err := world.NewWatcher(ctx, dirs...)
	if err != nil {
		return fmt.Errorf("watch bundles: %w", err)
	}

	defer func() {
		err := watcher.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("err", err))
		}
	}()

	slog.Info("watching for changes", slog.Any("dirs", watcher.Dirs()))

	return watcher.Run(ctx, func(ctx context.Context) { //nolint:wrapcheck // Return the original error.
		w, err := world.Load(ctx, dirs...)
		if err != nil {
			slog.Error("reload world", slog.Any("err", err))

			return
		}

		r.SetWorld(w)

		if fn != nil {
			fn(ctx, w)
		}
	})
}

func (la *LintArgs) serveMCP(ctx context.Context, r *runner.Runner, dirs []string) error {
	srv, err := mcp.NewServer(la.ServeMCP, r)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	if !la.Watch {
		return srv.Serve(ctx) //nolint:wrapcheck // Return the original error.
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)

	g.Go(func() error {
		defer cancel()

		return srv.Serve(ctx) //nolint:wrapcheck // Return the original error.
	})
	g.Go(func() error {
		return watchWorld(ctx, r, dirs, nil)
	})

	return g.Wait() //nolint:wrapcheck // Return the original error.
}

// withBufferedLogs holds log records in a buffer while fn runs, then writes
// them to w.
func (la *LintArgs) withBufferedLogs(w io.Writer, fn func()) error {
	level := la.LogLevel
	if la.Debug {
		level = string(log.LevelDebug)
	}

	logBuf := log.NewBuffer(0)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, level, la.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	prev := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	fn()

	slog.SetDefault(prev)
	flushLogs(w, logBuf)

	return nil
}

func flushLogs(w io.Writer, buf *log.Buffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Len()),
		slog.Int("max", buf.Limit()),
		slog.Int("dropped", buf.Dropped()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

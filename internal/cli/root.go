package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/lv2lint/pkg/log"
	"github.com/macropower/lv2lint/pkg/version"
)

const (
	cmdName = "lv2lint"
	cmdDesc = `Check LV2 plugins for conformance to the LV2 specification and for common packaging mistakes.`
)

type RootArgs struct {
	LogLevel  string
	LogFormat string
	Debug     bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		BoolVarP(&ra.Debug, "debug", "d", false, "Enable debug output, overrides --log-level")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	lintArgs := NewLintArgs(args)

	cmd := &cobra.Command{
		Use:               cmdName + " [plugin-uri]...",
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: lintCompletion(lintArgs),
		Args:              lintArgs.ValidateArgs,
		RunE: func(cmd *cobra.Command, uris []string) error {
			return runLint(cmd, lintArgs, uris)
		},
	}

	args.AddFlags(cmd)
	lintArgs.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		level := ra.LogLevel
		if ra.Debug {
			level = string(log.LevelDebug)
		}

		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), level, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))
		slog.Debug("starting "+cmdName, slog.Any("build", version.Get()))

		return nil
	}
}

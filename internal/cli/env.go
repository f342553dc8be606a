package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var envReplacer = strings.NewReplacer("-", "_")

// bindEnvVars sets every flag of cmd from its LV2LINT_<FLAG_NAME> environment
// variable, e.g. LV2LINT_LOG_LEVEL for --log-level, and notes the variable in
// the flag's usage.
//
// It must run before the command line is parsed. Flags given as arguments are
// applied afterwards and take precedence. A flag set from the environment is
// marked as changed, so it also overrides the configuration file.
//
// Repeatable flags (--show, --whitelist-test, ...) accumulate: the
// environment value is applied first, then the arguments.
func bindEnvVars(cmd *cobra.Command) {
	for _, flags := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		flags.VisitAll(bindFlagToEnv)
	}
}

func bindFlagToEnv(flag *pflag.Flag) {
	name := envName(flag.Name)

	if !strings.Contains(flag.Usage, name) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, name)
	}

	value, ok := os.LookupEnv(name)
	if !ok || flag.Changed {
		return
	}

	err := flag.Value.Set(value)
	if err != nil {
		// Keep the default.
		slog.Error("ignoring invalid environment variable",
			slog.String("env", name),
			slog.String("flag", flag.Name),
			slog.String("value", value),
			slog.Any("err", err),
		)

		return
	}

	flag.Changed = true
}

// envName returns the environment variable bound to the named flag.
func envName(flagName string) string {
	return strings.ToUpper(cmdName + "_" + envReplacer.Replace(flagName))
}

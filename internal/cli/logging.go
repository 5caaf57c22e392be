package cli

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// logLevelEnv overrides the level chosen by --verbose and --quiet.
const logLevelEnv = "REPALETTE_LOG_LEVEL"

// newLogger returns the logger for a command run. Logs go to the command's
// stderr so tables and summaries on stdout stay clean.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		if l := hclog.LevelFromString(v); l != hclog.NoLevel {
			level = l
		}
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "repalette",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/repalette/internal/compression"
)

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup.tar.xz> [root]",
		Short: "Restore the originals saved by apply --backup",
		Long: `Write every file in a backup archive taken by "apply --backup" back under
root (default: the current directory), replacing the rewritten versions.

Example:
  repalette restore before.tar.xz ./game`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 2 {
				root = args[1]
			}
			logger := newLogger(cmd)

			restored, err := compression.RestoreBackup(args[0], root)
			for _, name := range restored {
				logger.Debug("restored file", "file", name)
			}
			if err != nil {
				return err
			}

			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "restored %d files from %s\n", len(restored), args[0])
			}
			return nil
		},
	}
}

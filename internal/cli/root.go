// Package cli provides the command-line interface for repalette.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/repalette/internal/version"
)

// NewRootCmd builds the command tree. Each call returns an independent tree
// so flag state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repalette",
		Short: "Remap game sources from a legacy palette to a target palette",
		Long: `repalette rewrites colour references in game source files so that code
written against the 64-colour legacy palette uses the 16-colour target palette.

Indexed references (PAL[K], set_color(K), brace lists) are remapped through a
correspondence built once from the two palettes. Literal colours
(love.graphics.setColor and lerp_color endpoints) are snapped to the nearest
target colour.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")
	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newApplyCmd(),
		newMappingCmd(),
		newClosestCmd(),
		newPaletteCmd(),
		newRestoreCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				data, err := json.Marshal(version.Get())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print build information as JSON")
	return cmd
}

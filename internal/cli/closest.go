package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/repalette/internal/colour"
	"github.com/jmylchreest/repalette/internal/palette"
)

func newClosestCmd() *cobra.Command {
	var (
		palettes    paletteFlags
		legacyIndex int
		snap        bool
	)

	cmd := &cobra.Command{
		Use:   "closest [<r> <g> <b>]",
		Short: "Print the target index nearest to a normalised colour",
		Long: `Print the 1-based index of the target colour nearest to the given colour.
Components are normalised floats, normally between 0 and 1. With --legacy the
colour is taken from the legacy palette instead.

Examples:
  repalette closest 0.5 0.5 0.5

  # Also print the target hex and the literal the rewriter would emit
  repalette closest --snap 0.9 0.7 0.1

  # Where does legacy colour 12 go
  repalette closest --legacy 12`,
		Args: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("legacy") {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var query colour.Normalised
			if cmd.Flags().Changed("legacy") {
				legacy, err := palette.LoadLegacy(palettes.legacy)
				if err != nil {
					return err
				}
				if query, err = legacy.Get(legacyIndex); err != nil {
					return err
				}
			} else {
				var c [3]float64
				for i, arg := range args {
					v, err := strconv.ParseFloat(arg, 64)
					if err != nil {
						return fmt.Errorf("invalid component %q: %w", arg, err)
					}
					c[i] = v
				}
				query = colour.Normalised{R: c[0], G: c[1], B: c[2]}
			}

			target, err := palette.LoadTarget(palettes.target)
			if err != nil {
				return err
			}
			snapped, index := colour.NewColourSpace(target).Snap(query)

			if !snap {
				fmt.Fprintln(cmd.OutOrStdout(), index)
				return nil
			}
			rgb, err := target.Get(index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", index, rgb.Hex(), snapped.Format())
			return nil
		},
	}

	palettes.register(cmd.Flags())
	cmd.Flags().IntVar(&legacyIndex, "legacy", 0, "look up this 1-based legacy palette index instead of r g b")
	cmd.Flags().BoolVar(&snap, "snap", false, "also print the target hex and the snapped colour as r, g, b")
	return cmd
}

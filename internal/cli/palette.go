package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/repalette/internal/colour"
	"github.com/jmylchreest/repalette/internal/palette"
)

func newPaletteCmd() *cobra.Command {
	var (
		targetPath string
		format     string
		preview    bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Print the target palette",
		Long: `Print the target palette with 1-based indices.

The json format can be edited and passed back with --target-palette.

Examples:
  repalette palette --preview
  repalette palette --format json > target.json
  repalette palette --target-palette swatch.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := palette.LoadTarget(targetPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				data, err := target.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "hex":
				for _, hex := range target.ToHex() {
					fmt.Fprintln(out, hex)
				}
			case "table":
				swatches := preview && isTerminal(out)
				table := NewTable("INDEX", "HEX", "RGB", "NORMALISED")
				table.SetAlign(0, AlignRight)
				for i, c := range target.All() {
					hex := c.Hex()
					if swatches {
						hex = colour.SwatchWithText(c, hex, 9)
					}
					table.AddRow(strconv.Itoa(i), hex, c.String(), c.Normalised().Format())
				}
				if _, err := table.WriteTo(out); err != nil {
					return fmt.Errorf("failed to write palette: %w", err)
				}
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "target-palette", "", "target palette file (default: built-in 16 colours)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, hex, json)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show colour swatches when writing to a terminal")
	return cmd
}

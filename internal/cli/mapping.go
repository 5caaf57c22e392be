package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/repalette/internal/colour"
)

type mappingOptions struct {
	palettes paletteFlags
	format   string
	preview  bool
}

// mappingJSON is the machine-readable form of the mapping command.
type mappingJSON struct {
	Idempotent bool                        `json:"idempotent"`
	Mapping    *colour.IndexCorrespondence `json:"mapping"`
	Entries    []colour.MappingEntry       `json:"entries"`
}

func newMappingCmd() *cobra.Command {
	opts := &mappingOptions{}

	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Show where each legacy colour lands in the target palette",
		Long: `Print the index correspondence: for every legacy palette index, the target
index it is rewritten to and the distance between the two colours.

Examples:
  # Audit table with colour swatches
  repalette mapping --preview

  # Machine-readable correspondence
  repalette mapping --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMapping(cmd, opts)
		},
	}

	opts.palettes.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format (table, json)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches when writing to a terminal")
	return cmd
}

func runMapping(cmd *cobra.Command, opts *mappingOptions) error {
	p, err := opts.palettes.load(newLogger(cmd))
	if err != nil {
		return err
	}
	entries := colour.BuildReport(p.legacy, p.space, p.corr)
	out := cmd.OutOrStdout()

	switch opts.format {
	case "json":
		data, err := json.MarshalIndent(mappingJSON{
			Idempotent: p.corr.IsIdempotent(),
			Mapping:    p.corr,
			Entries:    entries,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode mapping: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	case "table":
		return writeMappingTable(out, entries, opts.preview && isTerminal(out))
	default:
		return fmt.Errorf("unsupported format: %s", opts.format)
	}
}

func writeMappingTable(w io.Writer, entries []colour.MappingEntry, swatches bool) error {
	table := NewTable("LEGACY", "COLOUR", "TARGET", "COLOUR", "DISTANCE")
	targetCol := 2
	if swatches {
		table = NewTable("LEGACY", "COLOUR", "", "TARGET", "COLOUR", "", "DISTANCE")
		targetCol = 3
	}
	table.SetAlign(0, AlignRight)
	table.SetAlign(targetCol, AlignRight)
	table.SetAlign(len(table.headers)-1, AlignRight)

	for _, e := range entries {
		distance := strconv.FormatFloat(e.Distance, 'f', 2, 64)
		if swatches {
			table.AddRow(
				strconv.Itoa(e.Legacy), e.LegacyHex, colour.Swatch(e.LegacyColour.RGB(), 4),
				strconv.Itoa(e.Target), e.TargetHex, colour.Swatch(e.TargetColour, 4),
				distance,
			)
			continue
		}
		table.AddRow(strconv.Itoa(e.Legacy), e.LegacyHex, strconv.Itoa(e.Target), e.TargetHex, distance)
	}
	if _, err := table.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}
	return nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package cli

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/repalette/internal/colour"
	"github.com/jmylchreest/repalette/internal/palette"
)

// paletteFlags selects the palettes a command works with. Empty paths mean
// the compiled-in palettes.
type paletteFlags struct {
	target string
	legacy string
}

func (p *paletteFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&p.target, "target-palette", "", "target palette file (.json, image, or hex list; default: built-in 16 colours)")
	fs.StringVar(&p.legacy, "legacy-palette", "", "legacy palette file of normalised r, g, b triples (default: built-in 64 colours)")
}

// palettes holds everything derived from the two palettes for one run.
type palettes struct {
	legacy *colour.LegacyPalette
	space  *colour.ColourSpace
	corr   *colour.IndexCorrespondence
}

// load reads both palettes and builds the colour space and the index
// correspondence exactly once.
func (p *paletteFlags) load(logger hclog.Logger) (*palettes, error) {
	target, err := palette.LoadTarget(p.target)
	if err != nil {
		return nil, err
	}
	legacy, err := palette.LoadLegacy(p.legacy)
	if err != nil {
		return nil, err
	}

	space := colour.NewColourSpace(target)
	corr := colour.BuildIndexCorrespondence(legacy, space)
	logger.Debug("built index correspondence", "legacy", legacy.Len(), "target", target.Len(), "idempotent", corr.IsIdempotent())

	return &palettes{legacy: legacy, space: space, corr: corr}, nil
}

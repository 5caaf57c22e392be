package remap

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Syntax names the source-level identifiers the rules look for.
type Syntax struct {
	// Table is the palette table indexed as Table[K].
	Table string
	// Setter is the index-based setter called as Setter(K, ...).
	Setter string
	// RGBSetter is the direct setter called with three normalised literals.
	RGBSetter string
	// Lerp is the two-endpoint interpolation called with seven arguments.
	Lerp string
}

// DefaultSyntax returns the identifiers used by the game sources.
func DefaultSyntax() Syntax {
	return Syntax{
		Table:     "PAL",
		Setter:    "set_color",
		RGBSetter: "love.graphics.setColor",
		Lerp:      "lerp_color",
	}
}

// RegisterFlags binds the syntax fields to flags on fs, using the current
// values as defaults.
func (s *Syntax) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.Table, "table", s.Table, "palette table identifier (TABLE[k])")
	fs.StringVar(&s.Setter, "setter", s.Setter, "index setter function (SETTER(k, ...))")
	fs.StringVar(&s.RGBSetter, "rgb-setter", s.RGBSetter, "RGB setter function (RGB_SETTER(r, g, b, ...))")
	fs.StringVar(&s.Lerp, "lerp", s.Lerp, "interpolation function (LERP(r1, g1, b1, r2, g2, b2, t))")
}

// Validate checks that every identifier is set.
func (s Syntax) Validate() error {
	fields := []struct{ flag, value string }{
		{"table", s.Table},
		{"setter", s.Setter},
		{"rgb-setter", s.RGBSetter},
		{"lerp", s.Lerp},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s identifier cannot be empty", f.flag)
		}
	}
	return nil
}

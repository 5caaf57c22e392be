// Package colour provides the palettes, nearest-colour matching and
// legacy-to-target index correspondence used to recolour game sources.
package colour

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPalette is returned when a palette is built without any colours.
var ErrEmptyPalette = errors.New("palette has no colours")

// TargetPalette is the ordered palette colours are remapped onto.
// It is immutable once constructed; indices are 1-based.
type TargetPalette struct {
	colours []RGB
}

// NewTargetPalette creates a TargetPalette from a copy of colours.
func NewTargetPalette(colours []RGB) (*TargetPalette, error) {
	if len(colours) == 0 {
		return nil, fmt.Errorf("target %w", ErrEmptyPalette)
	}
	return &TargetPalette{colours: append([]RGB(nil), colours...)}, nil
}

// Len returns the number of colours in the palette.
func (p *TargetPalette) Len() int {
	return len(p.colours)
}

// Get returns the colour at the specified 1-based index.
// Returns an error if the index is out of bounds.
func (p *TargetPalette) Get(index int) (RGB, error) {
	if index < 1 || index > len(p.colours) {
		return RGB{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.colours))
	}
	return p.colours[index-1], nil
}

// All returns an iterator over all colours with their 1-based indices.
func (p *TargetPalette) All() func(func(int, RGB) bool) {
	return func(yield func(int, RGB) bool) {
		for i, c := range p.colours {
			if !yield(i+1, c) {
				return
			}
		}
	}
}

// ToHex converts the palette colours to hex strings.
func (p *TargetPalette) ToHex() []string {
	hexColours := make([]string, len(p.colours))
	for i, c := range p.colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Index int    `json:"index"`
	Hex   string `json:"hex"`
	RGB   RGB    `json:"rgb"`
}

// PaletteJSON represents a palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []ColourJSON `json:"colors"`
}

// ToJSON converts the palette to JSON format.
func (p *TargetPalette) ToJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.colours))
	for i, c := range p.colours {
		colours[i] = ColourJSON{Index: i + 1, Hex: c.Hex(), RGB: c}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:   len(p.colours),
		Colours: colours,
	}, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *TargetPalette) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Palette with %d colours:\n", len(p.colours))
	for i, c := range p.colours {
		fmt.Fprintf(&b, "  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return b.String()
}

// LegacyPalette is the ordered palette being phased out, in normalised form.
// It is immutable once constructed; indices are 1-based.
type LegacyPalette struct {
	colours []Normalised
}

// NewLegacyPalette creates a LegacyPalette from a copy of colours.
func NewLegacyPalette(colours []Normalised) (*LegacyPalette, error) {
	if len(colours) == 0 {
		return nil, fmt.Errorf("legacy %w", ErrEmptyPalette)
	}
	return &LegacyPalette{colours: append([]Normalised(nil), colours...)}, nil
}

// Len returns the number of colours in the palette.
func (p *LegacyPalette) Len() int {
	return len(p.colours)
}

// Get returns the colour at the specified 1-based index.
func (p *LegacyPalette) Get(index int) (Normalised, error) {
	if index < 1 || index > len(p.colours) {
		return Normalised{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.colours))
	}
	return p.colours[index-1], nil
}

// All returns an iterator over all colours with their 1-based indices.
func (p *LegacyPalette) All() func(func(int, Normalised) bool) {
	return func(yield func(int, Normalised) bool) {
		for i, c := range p.colours {
			if !yield(i+1, c) {
				return
			}
		}
	}
}

// Package palette loads target and legacy palettes from override files,
// falling back to the compiled-in palettes.
package palette

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/repalette/internal/colour"
	"github.com/jmylchreest/repalette/internal/image"
)

// LoadTarget loads a target palette. An empty path returns the default.
//
// Supported formats, chosen by extension:
//   - .json: {"colors": [{"hex": "#rrggbb"}, ...]}, as written by TargetPalette.ToJSON
//   - image files: distinct opaque pixels in row-major order
//   - anything else: one hex colour per line
func LoadTarget(path string) (*colour.TargetPalette, error) {
	if path == "" {
		return colour.DefaultTargetPalette(), nil
	}

	var colours []colour.RGB
	var err error
	switch {
	case strings.EqualFold(filepath.Ext(path), ".json"):
		colours, err = loadTargetJSON(path)
	case image.IsImageFile(path):
		colours, err = loadTargetImage(path)
	default:
		colours, err = loadTargetText(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load target palette %s: %w", path, err)
	}

	return colour.NewTargetPalette(colours)
}

// LoadLegacy loads a legacy palette. An empty path returns the default.
// The file holds one colour per line, either a normalised "r, g, b" triple
// or a hex colour.
func LoadLegacy(path string) (*colour.LegacyPalette, error) {
	if path == "" {
		return colour.DefaultLegacyPalette(), nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified palette file, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy palette: %w", err)
	}

	var colours []colour.Normalised
	for lineNum, line := range palLines(string(data)) {
		c, err := parseLegacyLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, lineNum, err)
		}
		colours = append(colours, c)
	}

	return colour.NewLegacyPalette(colours)
}

func loadTargetJSON(path string) ([]colour.RGB, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified palette file, intended to be read
	if err != nil {
		return nil, err
	}

	var doc colour.PaletteJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON palette: %w", err)
	}

	colours := make([]colour.RGB, 0, len(doc.Colours))
	for i, c := range doc.Colours {
		if c.Hex == "" {
			colours = append(colours, c.RGB)
			continue
		}
		rgb, err := parseHex(c.Hex)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i+1, err)
		}
		colours = append(colours, rgb)
	}
	return colours, nil
}

func loadTargetImage(path string) ([]colour.RGB, error) {
	img, err := image.NewFileLoader().Load(path)
	if err != nil {
		return nil, err
	}
	return image.SwatchColours(img)
}

func loadTargetText(path string) ([]colour.RGB, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified palette file, intended to be read
	if err != nil {
		return nil, err
	}

	var colours []colour.RGB
	for lineNum, line := range palLines(string(data)) {
		rgb, err := parseHex(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		colours = append(colours, rgb)
	}
	return colours, nil
}

// palLines yields the 1-based number and trimmed content of every line that
// is not blank or a comment. Comments start with ";" or "//", or with "#"
// when the line is not a hex colour.
func palLines(content string) func(func(int, string) bool) {
	return func(yield func(int, string) bool) {
		for i, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "//") {
				continue
			}
			if strings.HasPrefix(line, "#") && !isHexColour(line) {
				continue
			}
			if !yield(i+1, line) {
				return
			}
		}
	}
}

func isHexColour(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

// parseHex parses #RRGGBB, RRGGBB, #RGB or RGB.
func parseHex(hex string) (colour.RGB, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colour.RGB{}, fmt.Errorf("invalid hex colour %q", hex)
	}
	r, g, b := c.RGB255()
	return colour.RGB{R: r, G: g, B: b}, nil
}

func parseLegacyLine(line string) (colour.Normalised, error) {
	if !strings.Contains(line, ",") {
		rgb, err := parseHex(line)
		if err != nil {
			return colour.Normalised{}, err
		}
		return rgb.Normalised(), nil
	}

	parts := strings.Split(strings.Trim(line, "{}(), "), ",")
	if len(parts) != 3 {
		return colour.Normalised{}, fmt.Errorf("expected 3 components, got %d", len(parts))
	}

	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colour.Normalised{}, fmt.Errorf("component %d: %w", i+1, err)
		}
		if f < 0 || f > 1 {
			return colour.Normalised{}, fmt.Errorf("component %d out of range [0,1]: %g", i+1, f)
		}
		v[i] = f
	}
	return colour.Normalised{R: v[0], G: v[1], B: v[2]}, nil
}

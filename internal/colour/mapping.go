package colour

import (
	"encoding/json"
	"fmt"
)

// IndexCorrespondence maps every legacy palette index to a target palette
// index. It is built once and read-only afterwards.
type IndexCorrespondence struct {
	images []int
}

// BuildIndexCorrespondence matches each legacy colour, in palette order, to
// its nearest target colour.
func BuildIndexCorrespondence(legacy *LegacyPalette, space *ColourSpace) *IndexCorrespondence {
	images := make([]int, legacy.Len())
	for i, c := range legacy.All() {
		images[i-1] = space.NearestNormalised(c)
	}
	return &IndexCorrespondence{images: images}
}

// NewIndexCorrespondence creates a correspondence from explicit images:
// images[0] is the target index for legacy index 1, and so on.
func NewIndexCorrespondence(images []int) (*IndexCorrespondence, error) {
	for i, img := range images {
		if img < 1 {
			return nil, fmt.Errorf("legacy index %d: invalid target index %d", i+1, img)
		}
	}
	return &IndexCorrespondence{images: append([]int(nil), images...)}, nil
}

// Len returns the number of legacy indices covered.
func (m *IndexCorrespondence) Len() int {
	return len(m.images)
}

// Lookup returns the target index for a 1-based legacy index.
// ok is false when the index is not covered by the mapping.
func (m *IndexCorrespondence) Lookup(legacy int) (target int, ok bool) {
	if legacy < 1 || legacy > len(m.images) {
		return 0, false
	}
	return m.images[legacy-1], true
}

// All returns an iterator over (legacy, target) index pairs in legacy order.
func (m *IndexCorrespondence) All() func(func(int, int) bool) {
	return func(yield func(int, int) bool) {
		for i, img := range m.images {
			if !yield(i+1, img) {
				return
			}
		}
	}
}

// IsIdempotent reports whether applying the mapping to its own images leaves
// them unchanged. Only then is rewriting the same text twice a no-op for
// index references.
func (m *IndexCorrespondence) IsIdempotent() bool {
	for _, img := range m.images {
		if again, ok := m.Lookup(img); ok && again != img {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as an object keyed by legacy index.
func (m *IndexCorrespondence) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(m.images))
	for legacy, target := range m.All() {
		out[fmt.Sprint(legacy)] = target
	}
	return json.Marshal(out)
}

// MappingEntry is one row of the legacy-to-target audit report.
type MappingEntry struct {
	Legacy       int        `json:"legacy"`
	LegacyColour Normalised `json:"legacy_colour"`
	LegacyHex    string     `json:"legacy_hex"`
	Target       int        `json:"target"`
	TargetColour RGB        `json:"target_colour"`
	TargetHex    string     `json:"target_hex"`
	Distance     float64    `json:"distance"`
}

// BuildReport lists, for every legacy colour, the target it maps to and the
// byte-space distance between them.
func BuildReport(legacy *LegacyPalette, space *ColourSpace, corr *IndexCorrespondence) []MappingEntry {
	entries := make([]MappingEntry, 0, legacy.Len())
	for i, c := range legacy.All() {
		target, ok := corr.Lookup(i)
		if !ok || target > space.Target().Len() {
			continue
		}
		rgb := space.Target().colours[target-1]
		entries = append(entries, MappingEntry{
			Legacy:       i,
			LegacyColour: c,
			LegacyHex:    c.Hex(),
			Target:       target,
			TargetColour: rgb,
			TargetHex:    rgb.Hex(),
			Distance:     space.Distance(c.Point(), target),
		})
	}
	return entries
}

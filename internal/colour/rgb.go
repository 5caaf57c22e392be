package colour

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a byte-range palette colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Normalised converts the colour to [0,1] components (component/255).
func (rgb RGB) Normalised() Normalised {
	return Normalised{
		R: float64(rgb.R) / 255,
		G: float64(rgb.G) / 255,
		B: float64(rgb.B) / 255,
	}
}

// Point returns the colour as a real-valued byte-range point.
func (rgb RGB) Point() Point {
	return Point{R: float64(rgb.R), G: float64(rgb.G), B: float64(rgb.B)}
}

// Normalised is a colour with components in [0,1], the form used by the
// legacy palette and by RGB literals in source text. Components are not
// range checked.
type Normalised struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Point scales each component by 255.
func (n Normalised) Point() Point {
	return Point{R: n.R * 255, G: n.G * 255, B: n.B * 255}
}

// Format renders the components the way they are emitted into source text:
// three decimals, comma separated.
func (n Normalised) Format() string {
	return fmt.Sprintf("%.3f, %.3f, %.3f", n.R, n.G, n.B)
}

// String returns the colour as "(r, g, b)".
func (n Normalised) String() string {
	return "(" + n.Format() + ")"
}

// RGB rounds the colour to the nearest byte-range colour, clamping
// out-of-range components.
func (n Normalised) RGB() RGB {
	r, g, b := colorful.Color{R: n.R, G: n.G, B: n.B}.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Hex returns the rounded colour as a hex string.
func (n Normalised) Hex() string {
	return colorful.Color{R: n.R, G: n.G, B: n.B}.Clamped().Hex()
}

// Point is a byte-range colour with real components. It is the query type of
// the nearest-colour search and may hold any finite value, including ones
// outside [0,255].
type Point struct {
	R, G, B float64
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	dr := p.R - q.R
	dg := p.G - q.G
	db := p.B - q.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

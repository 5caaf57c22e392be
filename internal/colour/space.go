package colour

// ColourSpace answers nearest-colour queries against a target palette.
// It holds no mutable state and is safe for concurrent use.
type ColourSpace struct {
	target *TargetPalette
	points []Point
}

// NewColourSpace creates a ColourSpace over the given target palette.
func NewColourSpace(target *TargetPalette) *ColourSpace {
	points := make([]Point, target.Len())
	for i, c := range target.All() {
		points[i-1] = c.Point()
	}
	return &ColourSpace{target: target, points: points}
}

// Target returns the palette the space matches against.
func (s *ColourSpace) Target() *TargetPalette {
	return s.target
}

// Nearest returns the 1-based index of the target colour with the smallest
// Euclidean distance to p. On exact ties the earliest entry wins.
// The result is always a valid index, even for NaN or infinite input.
func (s *ColourSpace) Nearest(p Point) int {
	best := 0
	minDist := p.DistanceTo(s.points[0])
	for i := 1; i < len(s.points); i++ {
		if d := p.DistanceTo(s.points[i]); d < minDist {
			minDist = d
			best = i
		}
	}
	return best + 1
}

// NearestNormalised scales n to byte range and returns its nearest index.
func (s *ColourSpace) NearestNormalised(n Normalised) int {
	return s.Nearest(n.Point())
}

// Snap returns the nearest target colour to n, in normalised form, along
// with its index.
func (s *ColourSpace) Snap(n Normalised) (Normalised, int) {
	idx := s.NearestNormalised(n)
	return s.target.colours[idx-1].Normalised(), idx
}

// Distance returns the distance from p to the target colour at index.
// index must be within the palette.
func (s *ColourSpace) Distance(p Point, index int) float64 {
	return p.DistanceTo(s.points[index-1])
}

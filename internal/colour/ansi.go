package colour

import (
	"fmt"
	"math"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 4
)

// Swatch returns an ANSI-coloured block for a colour.
// Width specifies how many characters wide the block should be.
func Swatch(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix) +
		strings.Repeat(" ", width) + ansiReset
}

// SwatchWithText returns a swatch with centred text drawn in black or white,
// whichever reads better on the background.
func SwatchWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var fg uint8 = 255
	if Luminance(c) > 0.5 {
		fg = 0
	}

	if len(text) > width {
		text = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		text = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix) +
		fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, fg, fg, fg, ansiSuffix) +
		text + ansiReset
}

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
func Luminance(c RGB) float64 {
	n := c.Normalised()
	return 0.2126*gammaCorrect(n.R) + 0.7152*gammaCorrect(n.G) + 0.0722*gammaCorrect(n.B)
}

func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

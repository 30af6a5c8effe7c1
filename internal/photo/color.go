package photo

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// White is the default background and frame colour.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ParseColor accepts any CSS colour: hex forms, rgb()/rgba(), hsl() and named
// colours. The empty string is opaque white.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return White, nil
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("unsupported color %q: %w", s, err)
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

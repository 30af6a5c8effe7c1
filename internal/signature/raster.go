package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/dgallion1/humantools/internal/photo"
)

// DefaultWidth is the stroke width in points when a stroke leaves it unset.
const DefaultWidth = 2.0

// Stroke is one freehand line drawn on a page.
type Stroke struct {
	Path  string  `json:"path" yaml:"path"`             // SVG path data, page points, y down
	Width float64 `json:"width,omitempty" yaml:"width"` // points
	Color string  `json:"color,omitempty" yaml:"color"` // default black
}

// circleSides approximates round caps and joins.
const circleSides = 16

// Render rasterizes strokes onto a transparent canvas covering a page of
// pageW x pageH points, at res pixels per point.
func Render(pageW, pageH float64, strokes []Stroke, res float64) (*image.RGBA, error) {
	if res <= 0 {
		res = 1
	}
	w, h := int(math.Ceil(pageW*res)), int(math.Ceil(pageH*res))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("page %gx%g has no area", pageW, pageH)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	z := vector.NewRasterizer(w, h)

	for i, s := range strokes {
		col := color.NRGBA{A: 255}
		if s.Color != "" {
			c, err := photo.ParseColor(s.Color)
			if err != nil {
				return nil, fmt.Errorf("stroke %d: %w", i, err)
			}
			col = c
		}
		width := s.Width
		if width <= 0 {
			width = DefaultWidth
		}
		lines, err := ParsePath(s.Path)
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}

		z.Reset(w, h)
		half := float32(width * res / 2)
		for _, line := range lines {
			for k, p := range line {
				q := scale(p, res)
				disc(z, q, half)
				if k > 0 {
					segment(z, scale(line[k-1], res), q, half)
				}
			}
		}
		z.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
	}
	return dst, nil
}

// RenderPNG is Render encoded as PNG.
func RenderPNG(pageW, pageH float64, strokes []Stroke, res float64) ([]byte, error) {
	img, err := Render(pageW, pageH, strokes, res)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}
	return buf.Bytes(), nil
}

type fpoint struct{ x, y float32 }

func scale(p Point, res float64) fpoint {
	return fpoint{float32(p.X * res), float32(p.Y * res)}
}

// The rasterizer sums signed coverage, so every shape is wound the same way
// and overlaps saturate instead of cancelling.

func segment(z *vector.Rasterizer, a, b fpoint, half float32) {
	dx, dy := b.x-a.x, b.y-a.y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*half, dx/l*half
	z.MoveTo(a.x+nx, a.y+ny)
	z.LineTo(b.x+nx, b.y+ny)
	z.LineTo(b.x-nx, b.y-ny)
	z.LineTo(a.x-nx, a.y-ny)
	z.ClosePath()
}

func disc(z *vector.Rasterizer, c fpoint, r float32) {
	for i := 0; i <= circleSides; i++ {
		t := -2 * math.Pi * float64(i) / circleSides
		x := c.x + r*float32(math.Cos(t))
		y := c.y + r*float32(math.Sin(t))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

package photo

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Filters mirrors the CSS filter functions the editor exposes. Percentages
// use CSS units: 100 is the identity for brightness, contrast, opacity and
// saturate; 0 is the identity for the rest.
type Filters struct {
	Brightness float64 `json:"brightness" yaml:"brightness"`
	Contrast   float64 `json:"contrast" yaml:"contrast"`
	Opacity    float64 `json:"opacity" yaml:"opacity"`
	Sepia      float64 `json:"sepia" yaml:"sepia"`
	Grayscale  float64 `json:"grayscale" yaml:"grayscale"`
	HueRotate  float64 `json:"hue_rotate" yaml:"hue_rotate"` // degrees
	Saturate   float64 `json:"saturate" yaml:"saturate"`
	Invert     float64 `json:"invert" yaml:"invert"`
	Blur       float64 `json:"blur" yaml:"blur"` // px, used as gaussian sigma
}

// DefaultFilters is the identity filter chain.
func DefaultFilters() Filters {
	return Filters{
		Brightness: 100,
		Contrast:   100,
		Opacity:    100,
		Saturate:   100,
	}
}

// Identity reports whether applying f would leave pixels untouched.
func (f Filters) Identity() bool {
	return len(f.ops()) == 0 && f.Blur <= 0
}

// rgba is a pixel in [0,1] floats, straight alpha.
type rgba struct{ r, g, b, a float64 }

type colorOp func(p rgba) rgba

// ops builds the per-pixel chain in CSS order, skipping identities.
func (f Filters) ops() []colorOp {
	var ops []colorOp
	if f.Brightness != 100 {
		k := math.Max(f.Brightness, 0) / 100
		ops = append(ops, func(p rgba) rgba {
			return rgba{p.r * k, p.g * k, p.b * k, p.a}
		})
	}
	if f.Contrast != 100 {
		k := math.Max(f.Contrast, 0) / 100
		ops = append(ops, func(p rgba) rgba {
			return rgba{(p.r-0.5)*k + 0.5, (p.g-0.5)*k + 0.5, (p.b-0.5)*k + 0.5, p.a}
		})
	}
	if f.Opacity != 100 {
		k := clamp01(f.Opacity / 100)
		ops = append(ops, func(p rgba) rgba {
			return rgba{p.r, p.g, p.b, p.a * k}
		})
	}
	if f.Sepia > 0 {
		ops = append(ops, matrixOp(sepiaMatrix(clamp01(f.Sepia/100))))
	}
	if f.Grayscale > 0 {
		ops = append(ops, matrixOp(grayscaleMatrix(clamp01(f.Grayscale/100))))
	}
	if math.Mod(f.HueRotate, 360) != 0 {
		ops = append(ops, matrixOp(hueRotateMatrix(f.HueRotate)))
	}
	if f.Saturate != 100 {
		ops = append(ops, matrixOp(saturateMatrix(math.Max(f.Saturate, 0)/100)))
	}
	if f.Invert > 0 {
		k := clamp01(f.Invert / 100)
		ops = append(ops, func(p rgba) rgba {
			return rgba{
				k*(1-p.r) + (1-k)*p.r,
				k*(1-p.g) + (1-k)*p.g,
				k*(1-p.b) + (1-k)*p.b,
				p.a,
			}
		})
	}
	return ops
}

// Apply runs the filter chain over img.
func (f Filters) Apply(img image.Image) *image.NRGBA {
	ops := f.ops()
	var out *image.NRGBA
	if len(ops) == 0 {
		out = imaging.Clone(img)
	} else {
		out = imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			p := rgba{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
			for _, op := range ops {
				p = op(p)
				p = rgba{clamp01(p.r), clamp01(p.g), clamp01(p.b), clamp01(p.a)}
			}
			return color.NRGBA{R: to8(p.r), G: to8(p.g), B: to8(p.b), A: to8(p.a)}
		})
	}
	if f.Blur > 0 {
		out = imaging.Blur(out, f.Blur)
	}
	return out
}

type matrix [3][3]float64

func matrixOp(m matrix) colorOp {
	return func(p rgba) rgba {
		return rgba{
			m[0][0]*p.r + m[0][1]*p.g + m[0][2]*p.b,
			m[1][0]*p.r + m[1][1]*p.g + m[1][2]*p.b,
			m[2][0]*p.r + m[2][1]*p.g + m[2][2]*p.b,
			p.a,
		}
	}
}

// Matrices follow the Filter Effects Module Level 1 definitions.

func sepiaMatrix(s float64) matrix {
	t := 1 - s
	return matrix{
		{0.393 + 0.607*t, 0.769 - 0.769*t, 0.189 - 0.189*t},
		{0.349 - 0.349*t, 0.686 + 0.314*t, 0.168 - 0.168*t},
		{0.272 - 0.272*t, 0.534 - 0.534*t, 0.131 + 0.869*t},
	}
}

func grayscaleMatrix(s float64) matrix {
	t := 1 - s
	return matrix{
		{0.2126 + 0.7874*t, 0.7152 - 0.7152*t, 0.0722 - 0.0722*t},
		{0.2126 - 0.2126*t, 0.7152 + 0.2848*t, 0.0722 - 0.0722*t},
		{0.2126 - 0.2126*t, 0.7152 - 0.7152*t, 0.0722 + 0.9278*t},
	}
}

func hueRotateMatrix(deg float64) matrix {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return matrix{
		{0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928},
		{0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283},
		{0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072},
	}
}

func saturateMatrix(s float64) matrix {
	return matrix{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s},
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(math.Round(v * 255))
}

// Package meme renders captioned images: a base picture scaled to a fixed
// canvas width with text layers drawn on top.
package meme

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/photo"
)

// DefaultWidth is the canvas width in pixels.
const DefaultWidth = 600

// FontSizes are the sizes a layer may use.
var FontSizes = []float64{1, 2, 4, 8, 12, 16, 24, 32, 36, 40, 48, 60, 64, 80, 96, 128, 160}

// ErrOneImage is returned unless exactly one image is supplied.
var ErrOneImage = errors.New("a meme needs exactly one image")

const (
	defaultFontSize = 48
	defaultBoxWidth = 400.0 / DefaultWidth
	shadowBlur      = 15
	lineSpacing     = 1.16
)

// Layer is one block of caption text.
type Layer struct {
	Text     string  `json:"text" yaml:"text"`
	X        float64 `json:"x" yaml:"x"`         // left edge, fraction of canvas width
	Y        float64 `json:"y" yaml:"y"`         // top edge, fraction of canvas height
	Width    float64 `json:"width" yaml:"width"` // box width, fraction of canvas width
	FontSize float64 `json:"font_size" yaml:"font_size"`
	Weight   string  `json:"weight" yaml:"weight"` // bold or italic
	Color    string  `json:"color" yaml:"color"`
	Align    string  `json:"align" yaml:"align"` // left, center or right
	AllCaps  bool    `json:"all_caps" yaml:"all_caps"`
	NoShadow bool    `json:"no_shadow" yaml:"no_shadow"`
}

func (l Layer) withDefaults() Layer {
	if l.Width <= 0 {
		l.Width = defaultBoxWidth
	}
	if l.FontSize == 0 {
		l.FontSize = defaultFontSize
	}
	if l.Weight == "" {
		l.Weight = "bold"
	}
	if l.Align == "" {
		l.Align = "center"
	}
	if l.Color == "" {
		l.Color = "rgba(0,0,0,1)"
	}
	return l
}

// Validate checks a layer's options.
func (l Layer) Validate() error {
	l = l.withDefaults()
	if !slices.Contains(FontSizes, l.FontSize) {
		return fmt.Errorf("font size %g not one of %v", l.FontSize, FontSizes)
	}
	switch l.Weight {
	case "bold", "italic":
	default:
		return fmt.Errorf("weight %q must be bold or italic", l.Weight)
	}
	switch l.Align {
	case "left", "center", "right":
	default:
		return fmt.Errorf("align %q must be left, center or right", l.Align)
	}
	if _, err := photo.ParseColor(l.Color); err != nil {
		return err
	}
	return nil
}

// Meme describes the base image transforms and the caption layers.
type Meme struct {
	Width    int     `json:"width" yaml:"width"`       // canvas width, default 600
	Rotation int     `json:"rotation" yaml:"rotation"` // degrees clockwise, multiple of 90
	FlipX    bool    `json:"flip_x" yaml:"flip_x"`
	FlipY    bool    `json:"flip_y" yaml:"flip_y"`
	Layers   []Layer `json:"layers" yaml:"layers"`
}

// Validate checks the transforms and every layer.
func (m Meme) Validate() error {
	if m.Width < 0 {
		return fmt.Errorf("width %d must be positive", m.Width)
	}
	if m.Rotation%90 != 0 {
		return fmt.Errorf("rotation %d is not a multiple of 90", m.Rotation)
	}
	for i, l := range m.Layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Render draws m over img.
func Render(img image.Image, m Meme) (*image.NRGBA, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	width := m.Width
	if width == 0 {
		width = DefaultWidth
	}

	base := imaging.Clone(img)
	if m.FlipX {
		base = imaging.FlipH(base)
	}
	if m.FlipY {
		base = imaging.FlipV(base)
	}
	switch ((m.Rotation/90)%4 + 4) % 4 {
	case 1:
		base = imaging.Rotate270(base)
	case 2:
		base = imaging.Rotate180(base)
	case 3:
		base = imaging.Rotate90(base)
	}
	canvas := imaging.Resize(base, width, 0, imaging.Lanczos)

	for i, l := range m.Layers {
		if err := drawLayer(canvas, l.withDefaults()); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return canvas, nil
}

// Create renders the single uploaded image into a PNG.
func Create(inputs []files.File, m Meme) ([]byte, error) {
	if len(inputs) != 1 {
		return nil, ErrOneImage
	}
	d, err := photo.Decode(inputs[0].Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inputs[0].Name, err)
	}
	out, err := Render(d.Image, m)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := photo.EncodePNG(&buf, out); err != nil {
		return nil, fmt.Errorf("encode meme: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLayer(canvas *image.NRGBA, l Layer) error {
	col, err := photo.ParseColor(l.Color)
	if err != nil {
		return err
	}
	face, err := faceFor(l.Weight, l.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	text := l.Text
	if l.AllCaps {
		text = strings.ToUpper(text)
	}
	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	box := image.Rect(0, 0, int(l.Width*float64(cw)), 0).Add(image.Pt(int(l.X*float64(cw)), int(l.Y*float64(ch))))
	lines := wrap(face, text, box.Dx())
	step := int(l.FontSize * lineSpacing)

	if !l.NoShadow {
		shadow := image.NewNRGBA(canvas.Bounds())
		drawLines(shadow, face, lines, box, step, l.Align, color.NRGBA{A: 255})
		blurred := imaging.Blur(shadow, shadowBlur/2.0)
		draw(canvas, blurred)
	}
	drawLines(canvas, face, lines, box, step, l.Align, col)
	return nil
}

// draw composites src over dst in place.
func draw(dst, src *image.NRGBA) {
	out := imaging.Overlay(dst, src, image.Pt(0, 0), 1)
	copy(dst.Pix, out.Pix)
}

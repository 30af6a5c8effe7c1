package photo

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
)

// ErrEmptyCrop is returned when a crop rectangle misses the image entirely.
var ErrEmptyCrop = errors.New("crop rectangle does not intersect the image")

// Rect is a crop rectangle in source pixels.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Frame insets the picture and paints the border with Color.
type Frame struct {
	Top    int    `json:"top" yaml:"top"`
	Bottom int    `json:"bottom" yaml:"bottom"`
	Left   int    `json:"left" yaml:"left"`
	Right  int    `json:"right" yaml:"right"`
	Color  string `json:"color" yaml:"color"`
}

func (f Frame) empty() bool {
	return f.Top <= 0 && f.Bottom <= 0 && f.Left <= 0 && f.Right <= 0
}

// Settings is one photo's edit recipe. Steps run in field order: rotate and
// scale about the centre, crop, filters, frame, preset, download scale.
type Settings struct {
	Rotate        float64 `json:"rotate" yaml:"rotate"` // degrees clockwise, [-180, 180]
	Scale         float64 `json:"scale" yaml:"scale"`   // zoom >= 1
	Crop          *Rect   `json:"crop,omitempty" yaml:"crop,omitempty"`
	Filters       Filters `json:"filters" yaml:"filters"`
	Frame         Frame   `json:"frame" yaml:"frame"`
	Preset        string  `json:"preset,omitempty" yaml:"preset,omitempty"`
	DownloadScale float64 `json:"download_scale" yaml:"download_scale"`
}

// DefaultSettings leaves a photo unchanged. Decode overrides into a copy of
// it so that omitted fields keep their identity values.
func DefaultSettings() Settings {
	return Settings{
		Scale:         1,
		Filters:       DefaultFilters(),
		DownloadScale: 1,
	}
}

// Validate rejects recipes that cannot be applied.
func (s Settings) Validate() error {
	if s.Rotate < -180 || s.Rotate > 180 {
		return fmt.Errorf("rotate %.1f outside [-180, 180]", s.Rotate)
	}
	if s.Scale != 0 && s.Scale < 1 {
		return fmt.Errorf("scale %.2f must be >= 1", s.Scale)
	}
	if s.DownloadScale < 0 {
		return fmt.Errorf("download scale %.2f must be positive", s.DownloadScale)
	}
	if s.Preset != "" {
		if _, ok := LookupSize(s.Preset); !ok {
			return fmt.Errorf("unknown preset %q", s.Preset)
		}
	}
	if _, err := ParseColor(s.Frame.Color); err != nil {
		return err
	}
	return nil
}

// Edit applies s to img.
func Edit(img image.Image, s Settings) (*image.NRGBA, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := imaging.Clone(img)

	if s.Rotate != 0 || s.Scale > 1 {
		out = rotateScale(out, s.Rotate, s.Scale)
	}

	if s.Crop != nil {
		r := image.Rect(s.Crop.X, s.Crop.Y, s.Crop.X+s.Crop.Width, s.Crop.Y+s.Crop.Height)
		r = r.Intersect(out.Bounds())
		if r.Empty() {
			return nil, ErrEmptyCrop
		}
		out = imaging.Crop(out, r)
	}

	if !s.Filters.Identity() {
		out = s.Filters.Apply(out)
	}

	frameColor, _ := ParseColor(s.Frame.Color)
	if !s.Frame.empty() {
		out = frame(out, s.Frame, frameColor)
	}

	if s.Preset != "" {
		size, _ := LookupSize(s.Preset)
		out = imaging.Fill(out, size.Width, size.Height, imaging.Center, imaging.Lanczos)
	}

	if s.DownloadScale > 0 && s.DownloadScale != 1 {
		w := int(math.Round(float64(out.Bounds().Dx()) * s.DownloadScale))
		h := int(math.Round(float64(out.Bounds().Dy()) * s.DownloadScale))
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("download scale %.3f shrinks image to nothing", s.DownloadScale)
		}
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	return Flatten(out, frameColor), nil
}

// rotateScale turns the picture about its centre and zooms in, keeping the
// canvas at the original size like a crop tool does.
func rotateScale(img *image.NRGBA, deg, scale float64) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := img
	if deg != 0 {
		// imaging rotates counter-clockwise.
		out = imaging.Rotate(out, -deg, color.Transparent)
	}
	if scale > 1 {
		sw := int(math.Round(float64(out.Bounds().Dx()) * scale))
		sh := int(math.Round(float64(out.Bounds().Dy()) * scale))
		out = imaging.Resize(out, sw, sh, imaging.Lanczos)
	}
	return imaging.CropCenter(out, w, h)
}

// frame shrinks the picture into the inner rectangle and paints the margins.
func frame(img *image.NRGBA, f Frame, c color.NRGBA) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	innerW := w - max(f.Left, 0) - max(f.Right, 0)
	innerH := h - max(f.Top, 0) - max(f.Bottom, 0)
	if innerW < 1 || innerH < 1 {
		return imaging.New(w, h, c)
	}
	canvas := imaging.New(w, h, c)
	inner := imaging.Resize(img, innerW, innerH, imaging.Lanczos)
	return imaging.Paste(canvas, inner, image.Pt(max(f.Left, 0), max(f.Top, 0)))
}

// Flatten composites img over an opaque background so it can be stored in
// formats without alpha.
func Flatten(img image.Image, bg color.NRGBA) *image.NRGBA {
	bg.A = 255
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// EncodeJPEG writes img as a JPEG at quality q (1-100).
func EncodeJPEG(w io.Writer, img image.Image, q int) error {
	if q < 1 || q > 100 {
		q = 100
	}
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(q))
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

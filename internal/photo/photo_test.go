package photo

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// jpegWithOrientation builds a JPEG carrying a minimal big-endian EXIF
// segment with a single orientation tag.
func jpegWithOrientation(t *testing.T, orientation uint16) []byte {
	t.Helper()
	var plain bytes.Buffer
	require.NoError(t, jpeg.Encode(&plain, solid(4, 2, color.NRGBA{R: 200, A: 255}), nil))
	raw := plain.Bytes()

	var tiff bytes.Buffer
	tiff.WriteString("MM")
	binary.Write(&tiff, binary.BigEndian, uint16(42))
	binary.Write(&tiff, binary.BigEndian, uint32(8))
	binary.Write(&tiff, binary.BigEndian, uint16(1))
	binary.Write(&tiff, binary.BigEndian, uint16(0x0112))
	binary.Write(&tiff, binary.BigEndian, uint16(3))
	binary.Write(&tiff, binary.BigEndian, uint32(1))
	binary.Write(&tiff, binary.BigEndian, orientation)
	binary.Write(&tiff, binary.BigEndian, uint16(0))
	binary.Write(&tiff, binary.BigEndian, uint32(0))

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	var out bytes.Buffer
	out.Write(raw[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(raw[2:])
	return out.Bytes()
}

func TestOrientation(t *testing.T) {
	assert.Equal(t, 6, Orientation(jpegWithOrientation(t, 6)))
	assert.Equal(t, 3, Orientation(jpegWithOrientation(t, 3)))

	var plain bytes.Buffer
	require.NoError(t, jpeg.Encode(&plain, solid(2, 2, color.NRGBA{A: 255}), nil))
	assert.Equal(t, 0, Orientation(plain.Bytes()), "jpeg without exif")

	assert.Equal(t, 0, Orientation(pngBytes(t, solid(2, 2, color.NRGBA{A: 255}))), "png")
	assert.Equal(t, 0, Orientation([]byte{0xFF}), "truncated")
}

func TestDecode_AppliesOrientation(t *testing.T) {
	d, err := Decode(jpegWithOrientation(t, 6))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", d.Format)
	assert.False(t, d.Upright())
	// 4x2 stored, rotated a quarter turn.
	assert.Equal(t, 2, d.Image.Bounds().Dx())
	assert.Equal(t, 4, d.Image.Bounds().Dy())
}

func TestDecode_NotImage(t *testing.T) {
	_, err := Decode([]byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestFilters_IdentityLeavesPixels(t *testing.T) {
	src := solid(3, 3, color.NRGBA{R: 10, G: 120, B: 240, A: 255})
	f := DefaultFilters()
	assert.True(t, f.Identity())
	out := f.Apply(src)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestFilters_Invert(t *testing.T) {
	f := DefaultFilters()
	f.Invert = 100
	out := f.Apply(solid(1, 1, color.NRGBA{R: 0, G: 255, B: 100, A: 255}))
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 155, A: 255}, out.NRGBAAt(0, 0))
}

func TestFilters_GrayscaleEqualisesChannels(t *testing.T) {
	f := DefaultFilters()
	f.Grayscale = 100
	c := f.Apply(solid(1, 1, color.NRGBA{R: 200, G: 40, B: 90, A: 255})).NRGBAAt(0, 0)
	assert.InDelta(t, int(c.R), int(c.G), 1)
	assert.InDelta(t, int(c.G), int(c.B), 1)
}

func TestFilters_BrightnessAndOpacity(t *testing.T) {
	f := DefaultFilters()
	f.Brightness = 50
	f.Opacity = 50
	c := f.Apply(solid(1, 1, color.NRGBA{R: 200, G: 100, B: 0, A: 255})).NRGBAAt(0, 0)
	assert.Equal(t, uint8(100), c.R)
	assert.Equal(t, uint8(50), c.G)
	assert.Equal(t, uint8(128), c.A)
}

func TestFilters_FullHueTurnIsIdentity(t *testing.T) {
	f := DefaultFilters()
	f.HueRotate = 360
	assert.True(t, f.Identity())
}

func TestEdit_Crop(t *testing.T) {
	out, err := Edit(solid(100, 50, color.NRGBA{G: 255, A: 255}), Settings{
		Scale:         1,
		Filters:       DefaultFilters(),
		DownloadScale: 1,
		Crop:          &Rect{X: 90, Y: 10, Width: 40, Height: 20},
	})
	require.NoError(t, err)
	// Clamped to the image's right edge.
	assert.Equal(t, image.Rect(0, 0, 10, 20), out.Bounds())
}

func TestEdit_CropOutside(t *testing.T) {
	s := DefaultSettings()
	s.Crop = &Rect{X: 500, Y: 500, Width: 10, Height: 10}
	_, err := Edit(solid(10, 10, color.NRGBA{A: 255}), s)
	assert.ErrorIs(t, err, ErrEmptyCrop)
}

func TestEdit_RotateKeepsCanvas(t *testing.T) {
	s := DefaultSettings()
	s.Rotate = 45
	s.Scale = 1.5
	out, err := Edit(solid(40, 20, color.NRGBA{B: 255, A: 255}), s)
	require.NoError(t, err)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 20, out.Bounds().Dy())
}

func TestEdit_FramePaintsBorder(t *testing.T) {
	s := DefaultSettings()
	s.Frame = Frame{Top: 5, Bottom: 5, Left: 5, Right: 5, Color: "#ff0000"}
	out, err := Edit(solid(30, 30, color.NRGBA{B: 255, A: 255}), s)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
	inner := out.NRGBAAt(15, 15)
	assert.Greater(t, inner.B, uint8(250))
	assert.Less(t, inner.R, uint8(5))
}

func TestEdit_PresetAndDownloadScale(t *testing.T) {
	s := DefaultSettings()
	s.Preset = "instagram square"
	s.DownloadScale = 0.5
	out, err := Edit(solid(300, 200, color.NRGBA{A: 255}), s)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 540, 540), out.Bounds())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Settings)
	}{
		{"rotate", func(s *Settings) { s.Rotate = 190 }},
		{"scale", func(s *Settings) { s.Scale = 0.5 }},
		{"preset", func(s *Settings) { s.Preset = "Myspace Banner" }},
		{"color", func(s *Settings) { s.Frame.Color = "#12" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mod(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]color.NRGBA{
		"":                   {R: 255, G: 255, B: 255, A: 255},
		"#fff":               {R: 255, G: 255, B: 255, A: 255},
		"#102030":            {R: 16, G: 32, B: 48, A: 255},
		"#10203080":          {R: 16, G: 32, B: 48, A: 128},
		"rgba(1, 2, 3, 0.5)": {R: 1, G: 2, B: 3, A: 128},
		"rgb(255,0,0)":       {R: 255, A: 255},
		"transparent":        {},
		"red":                {R: 255, A: 255},
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"notacolor", "#12345", "rgba(1,2)"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

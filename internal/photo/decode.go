// Package photo decodes, orients, edits and encodes user photos.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when the bytes are not in any registered format.
var ErrNotImage = errors.New("not a decodable image")

// Decoded is an image with the format it was stored in.
type Decoded struct {
	Image       image.Image
	Format      string // "jpeg", "png", "gif", "webp", "bmp", "tiff"
	Orientation int    // EXIF orientation, 0 when absent
}

// Decode reads an image and applies its EXIF orientation so that pixels are
// upright.
func Decode(data []byte) (*Decoded, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return &Decoded{
		Image:       img,
		Format:      format,
		Orientation: Orientation(data),
	}, nil
}

// DecodeReader is Decode for streams.
func DecodeReader(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Decode(data)
}

// Orientation returns the EXIF orientation tag (1-8), or 0 when the data
// carries no readable orientation.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 0
	}
	return v
}

// Upright reports whether the stored pixels need no reorientation.
func (d *Decoded) Upright() bool {
	return d.Orientation <= 1
}

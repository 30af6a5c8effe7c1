// Package slideshow turns an ordered set of photos into a video: an MP4
// encoded by ffmpeg, or an animated GIF built in-process. Both use the same
// 1024x576 frame: the photo fitted and centred over a blurred, cover-cropped
// copy of itself.
package slideshow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/photo"
)

// Output formats.
const (
	FormatMP4 = "mp4"
	FormatGIF = "gif"
)

// Frame geometry shared by both encoders.
const (
	FrameWidth  = 1024
	FrameHeight = 576
	fitWidth    = 1000
	fitHeight   = 526
	padding     = 50
	nudge       = 10
	bgBlur      = 20
)

// DefaultDuration is how long each slide stays on screen.
const DefaultDuration = time.Second

// ErrNoSlides is returned when there is nothing to show.
var ErrNoSlides = errors.New("slideshow has no slides")

// Slide is one upright photo.
type Slide struct {
	Name  string
	Image image.Image
}

// Options configures rendering.
type Options struct {
	Format     string        // mp4 (default) or gif
	Duration   time.Duration // per slide
	FFmpegPath string        // mp4 only, default "ffmpeg"
}

// FromFiles decodes uploads into upright slides, in arr's order when given.
// Item numbers in arr refer to positions in inputs. Undecodable uploads are
// an error: a slideshow silently missing a photo is worse than none.
func FromFiles(inputs []files.File, arr *order.Arrangement) ([]Slide, error) {
	if len(inputs) == 0 {
		return nil, ErrNoSlides
	}
	seq := order.New(len(inputs))
	if arr != nil {
		if err := arr.Validate(len(inputs)); err != nil {
			return nil, err
		}
		seq = arr
	}
	decoded := make(map[int]image.Image)
	slides := make([]Slide, 0, seq.Len())
	for _, n := range seq.Items() {
		img, ok := decoded[n]
		if !ok {
			d, err := photo.Decode(inputs[n-1].Data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", inputs[n-1].Name, err)
			}
			img = d.Image
			decoded[n] = img
		}
		slides = append(slides, Slide{Name: inputs[n-1].Name, Image: img})
	}
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	return slides, nil
}

// ProgressFunc receives the completed fraction in [0, 1].
type ProgressFunc func(ratio float64)

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if format == FormatGIF {
		return "image/gif"
	}
	return "video/mp4"
}

// Render encodes slides in order.
func Render(ctx context.Context, slides []Slide, opts Options, progress ProgressFunc) ([]byte, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if progress == nil {
		progress = func(float64) {}
	}
	switch opts.Format {
	case "", FormatMP4:
		ff := &FFmpeg{Path: opts.FFmpegPath}
		return ff.Encode(ctx, slides, opts.Duration, progress)
	case FormatGIF:
		return EncodeGIF(ctx, slides, opts.Duration, progress)
	}
	return nil, fmt.Errorf("unknown slideshow format %q", opts.Format)
}

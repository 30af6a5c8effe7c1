package slideshow

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"time"
)

// EncodeGIF composes every slide and writes a looping animated GIF.
func EncodeGIF(ctx context.Context, slides []Slide, d time.Duration, progress ProgressFunc) ([]byte, error) {
	delay := int(d / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}
	anim := &gif.GIF{LoopCount: 0}
	for i, s := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := Compose(s.Image)
		pal := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
		progress(float64(i+1) / float64(len(slides)))
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

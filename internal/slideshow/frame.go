package slideshow

import (
	"image"

	"github.com/disintegration/imaging"
)

// Compose builds one 1024x576 frame: img scaled to fit 1000 wide (wide
// photos) or 526 high (tall photos), centred over a blurred cover-fit copy.
func Compose(img image.Image) *image.NRGBA {
	bg := imaging.Fill(img, FrameWidth, FrameHeight, imaging.Center, imaging.Linear)
	bg = imaging.Blur(bg, bgBlur/2)

	b := img.Bounds()
	var fg *image.NRGBA
	if float64(b.Dx())/float64(b.Dy()) > float64(FrameWidth)/float64(FrameHeight) {
		fg = imaging.Resize(img, fitWidth, 0, imaging.Lanczos)
	} else {
		fg = imaging.Resize(img, 0, fitHeight, imaging.Lanczos)
	}

	// The padded foreground is placed at (W-w-10)/2, with the photo inset by
	// half the padding.
	pw, ph := fg.Bounds().Dx()+padding, fg.Bounds().Dy()+padding
	x := (FrameWidth-pw-nudge)/2 + padding/2
	y := (FrameHeight-ph-nudge)/2 + padding/2
	return imaging.Overlay(bg, fg, image.Pt(x, y), 1)
}

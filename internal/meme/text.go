package meme

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontsOnce sync.Once
	fonts     map[string]*opentype.Font
	fontsErr  error
)

func loadFonts() {
	fonts = make(map[string]*opentype.Font)
	for name, ttf := range map[string][]byte{"bold": gobold.TTF, "italic": goitalic.TTF} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			fontsErr = fmt.Errorf("parse %s font: %w", name, err)
			return
		}
		fonts[name] = f
	}
}

func faceFor(weight string, size float64) (font.Face, error) {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return nil, fontsErr
	}
	f, ok := fonts[weight]
	if !ok {
		return nil, fmt.Errorf("no font for weight %q", weight)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// wrap breaks text into lines no wider than width pixels. Explicit newlines
// are kept; a single word wider than the box gets a line of its own.
func wrap(face font.Face, text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if font.MeasureString(face, candidate).Ceil() > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

func drawLines(dst *image.NRGBA, face font.Face, lines []string, box image.Rectangle, step int, align string, c color.NRGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		w := d.MeasureString(line).Ceil()
		x := box.Min.X
		switch align {
		case "center":
			x += (box.Dx() - w) / 2
		case "right":
			x += box.Dx() - w
		}
		d.Dot = fixed.P(x, box.Min.Y+ascent+i*step)
		d.DrawString(line)
	}
}

package pdfops

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/signature"
)

// strokeResolution is the raster density for drawn strokes, in pixels per point.
const strokeResolution = 2.0

// Mark is a signature burned into one page: freehand strokes, a placed
// signature image, or both.
type Mark struct {
	Page    int                `json:"page" yaml:"page"` // 1-based
	Strokes []signature.Stroke `json:"strokes,omitempty" yaml:"strokes"`
	Image   *Placement         `json:"image,omitempty" yaml:"image"`
}

// Placement positions the signature image. X and Y are points from the
// page's bottom-left corner; Scale multiplies the image's pixel size.
type Placement struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Scale float64 `json:"scale" yaml:"scale"`
}

// ErrNoSignatureImage is returned when a mark places an image but none was supplied.
var ErrNoSignatureImage = errors.New("mark places a signature image but none was uploaded")

// Sign merges inputs and burns marks into their pages in page order.
// sigImage is the PNG or JPEG used by image placements and may be nil when
// no mark needs it.
func Sign(inputs []files.File, marks []Mark, sigImage []byte) ([]byte, error) {
	pdf, err := Merge(inputs)
	if err != nil {
		return nil, err
	}
	dims, err := api.PageDims(bytes.NewReader(pdf), newConf())
	if err != nil {
		return nil, fmt.Errorf("page dimensions: %w", err)
	}

	sorted := make([]Mark, len(marks))
	copy(sorted, marks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Page < sorted[j].Page })

	var sigPath string
	for _, m := range sorted {
		if m.Page < 1 || m.Page > len(dims) {
			return nil, fmt.Errorf("mark on page %d: %w (document has %d pages)", m.Page, order.ErrOutOfRange, len(dims))
		}
		if len(m.Strokes) > 0 {
			d := dims[m.Page-1]
			png, err := signature.RenderPNG(d.Width, d.Height, m.Strokes, strokeResolution)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", m.Page, err)
			}
			// Full-page overlay scaled to the page width.
			pdf, err = stamp(pdf, m.Page, png, ".png", "pos:c, scale:1, rot:0, op:1")
			if err != nil {
				return nil, err
			}
		}
		if m.Image != nil {
			if len(sigImage) == 0 {
				return nil, ErrNoSignatureImage
			}
			if sigPath == "" {
				ext, err := imageExt(sigImage)
				if err != nil {
					return nil, err
				}
				if sigPath, err = writeTemp(sigImage, ext); err != nil {
					return nil, err
				}
				defer os.Remove(sigPath)
			}
			scale := m.Image.Scale
			if scale <= 0 {
				scale = 1
			}
			desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:%.4f abs, rot:0, op:1", m.Image.X, m.Image.Y, scale)
			pdf, err = stampFile(pdf, m.Page, sigPath, desc)
			if err != nil {
				return nil, err
			}
		}
	}
	return pdf, nil
}

func stamp(pdf []byte, page int, img []byte, ext, desc string) ([]byte, error) {
	path, err := writeTemp(img, ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)
	return stampFile(pdf, page, path, desc)
}

func stampFile(pdf []byte, page int, imgPath, desc string) ([]byte, error) {
	wm, err := pdfcpu.ParseImageWatermarkDetails(imgPath, desc, true, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("signature watermark: %w", err)
	}
	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &buf, []string{strconv.Itoa(page)}, wm, newConf()); err != nil {
		return nil, fmt.Errorf("sign page %d: %w", page, err)
	}
	return buf.Bytes(), nil
}

// pdfcpu reads watermark images from disk.
func writeTemp(data []byte, ext string) (string, error) {
	f, err := os.CreateTemp("", "humantools-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

func imageExt(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("signature image: %w", err)
	}
	switch format {
	case "png":
		return ".png", nil
	case "jpeg":
		return ".jpg", nil
	}
	return "", fmt.Errorf("signature image: unsupported format %s", format)
}

package pdfops

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/photo"
)

type pageImage struct {
	name string
	data []byte
	kind string // fpdf image type
	w, h float64
}

// ImagesToPDF makes one page per decodable image, each page exactly the
// image's pixel size in points. Inputs that are not images are skipped and
// their names returned. arr, when non-nil, orders the usable images.
func ImagesToPDF(inputs []files.File, arr *order.Arrangement) ([]byte, []string, error) {
	var (
		pages   []pageImage
		skipped []string
	)
	for _, f := range inputs {
		pi, err := preparePage(f)
		if err != nil {
			skipped = append(skipped, f.Name)
			continue
		}
		pages = append(pages, pi)
	}
	if len(pages) == 0 {
		return nil, skipped, ErrNoImages
	}

	seq := order.New(len(pages))
	if arr != nil {
		if arr.Empty() {
			return nil, skipped, ErrNoPages
		}
		if err := arr.Validate(len(pages)); err != nil {
			return nil, skipped, err
		}
		seq = arr
	}

	// fpdf only writes a page's MediaBox when it differs from the document
	// default, so the default is a size no page has.
	var maxW, maxH float64
	for _, p := range pages {
		maxW, maxH = max(maxW, p.w), max(maxH, p.h)
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: maxW + 1, Ht: maxH + 1},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	registered := make(map[int]bool)
	for _, n := range seq.Items() {
		p := pages[n-1]
		name := fmt.Sprintf("img%d", n)
		opt := fpdf.ImageOptions{ImageType: p.kind}
		if !registered[n] {
			pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(p.data))
			registered[n] = true
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.w, Ht: p.h})
		pdf.ImageOptions(name, 0, 0, p.w, p.h, false, opt, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, skipped, fmt.Errorf("%s: %w", p.name, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, skipped, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), skipped, nil
}

// preparePage decodes an upload and picks the bytes fpdf will embed.
// Upright JPEGs are embedded as is; everything else is re-encoded as PNG.
func preparePage(f files.File) (pageImage, error) {
	d, err := photo.Decode(f.Data)
	if err != nil {
		return pageImage{}, err
	}
	b := d.Image.Bounds()
	pi := pageImage{name: f.Name, w: float64(b.Dx()), h: float64(b.Dy())}
	if d.Format == "jpeg" && d.Upright() {
		pi.data, pi.kind = f.Data, "JPG"
		return pi, nil
	}
	var buf bytes.Buffer
	if err := photo.EncodePNG(&buf, imaging.Clone(d.Image)); err != nil {
		return pageImage{}, fmt.Errorf("re-encode %s: %w", f.Name, err)
	}
	pi.data, pi.kind = buf.Bytes(), "PNG"
	return pi, nil
}

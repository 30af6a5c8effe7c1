// Package typeset lays a block document out onto PDF pages with fpdf's core
// fonts.
package typeset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/dgallion1/humantools/internal/docmodel"
)

// ErrEmpty is returned for documents without any blocks.
var ErrEmpty = errors.New("document has no content")

// Options controls page geometry. Lengths are millimetres.
type Options struct {
	PageSize string  // fpdf size name, "A4" by default
	Margin   float64 // default 18
	FontSize float64 // body size in points, default 11
}

func (o Options) withDefaults() Options {
	if o.PageSize == "" {
		o.PageSize = "A4"
	}
	if o.Margin <= 0 {
		o.Margin = 18
	}
	if o.FontSize <= 0 {
		o.FontSize = 11
	}
	return o
}

var headingScale = [7]float64{0, 1.9, 1.5, 1.3, 1.15, 1.05, 1}

const (
	listIndent  = 6.0
	quoteIndent = 8.0
	ptToMM      = 25.4 / 72
)

// Render typesets doc and returns the PDF bytes.
func Render(doc *docmodel.Document, opts Options) ([]byte, error) {
	if doc == nil || doc.Empty() {
		return nil, ErrEmpty
	}
	opts = opts.withDefaults()

	pdf := fpdf.New("P", "mm", opts.PageSize, "")
	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	pdf.SetAutoPageBreak(true, opts.Margin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("humantools", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-opts.Margin / 1.5)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	t := &typesetter{pdf: pdf, opts: opts}
	var prev docmodel.Kind
	for _, b := range doc.Blocks {
		switch {
		case b.Kind == docmodel.TableRow && prev == docmodel.TableRow:
			// Consecutive rows share a grid.
			t.tableRow(b)
		case prev == docmodel.TableRow:
			pdf.Ln(3)
			t.block(b)
		default:
			t.block(b)
		}
		prev = b.Kind
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("typeset %q: %w", doc.Title, err)
	}
	return buf.Bytes(), nil
}

type typesetter struct {
	pdf  *fpdf.Fpdf
	opts Options
}

func (t *typesetter) lineHeight(size float64) float64 { return size * ptToMM * 1.35 }

func (t *typesetter) block(b docmodel.Block) {
	pdf, size := t.pdf, t.opts.FontSize
	switch b.Kind {
	case docmodel.Heading:
		level := min(max(b.Level, 1), 6)
		hs := size * headingScale[level]
		pdf.Ln(hs * ptToMM * 0.6)
		pdf.SetFont("Helvetica", "B", hs)
		pdf.MultiCell(0, t.lineHeight(hs), encode(b.Text), "", "L", false)
		pdf.Ln(1.5)
	case docmodel.Paragraph:
		pdf.SetFont("Helvetica", "", size)
		pdf.MultiCell(0, t.lineHeight(size), encode(b.Text), "", "L", false)
		pdf.Ln(2.5)
	case docmodel.Quote:
		t.indented(quoteIndent, func() {
			pdf.SetFont("Helvetica", "I", size)
			pdf.SetTextColor(80, 80, 80)
			pdf.MultiCell(0, t.lineHeight(size), encode(b.Text), "L", "L", false)
			pdf.SetTextColor(0, 0, 0)
		})
		pdf.Ln(2.5)
	case docmodel.ListItem:
		t.indented(listIndent*float64(b.Level), func() {
			pdf.SetFont("Helvetica", "", size)
			pdf.CellFormat(listIndent, t.lineHeight(size), encode(b.Marker), "", 0, "L", false, 0, "")
			t.indented(listIndent, func() {
				pdf.MultiCell(0, t.lineHeight(size), encode(b.Text), "", "L", false)
			})
		})
		pdf.Ln(1)
	case docmodel.Code:
		pdf.SetFont("Courier", "", size-2)
		pdf.SetFillColor(242, 242, 242)
		pdf.MultiCell(0, t.lineHeight(size-2), encode(b.Text), "", "L", true)
		pdf.Ln(2.5)
	case docmodel.TableRow:
		pdf.Ln(1)
		t.tableRow(b)
	case docmodel.Rule:
		pdf.Ln(2)
		w, _ := pdf.GetPageSize()
		y := pdf.GetY()
		pdf.SetDrawColor(160, 160, 160)
		pdf.Line(t.opts.Margin, y, w-t.opts.Margin, y)
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ln(4)
	}
}

// indented runs fn with the left margin pushed right by dx.
func (t *typesetter) indented(dx float64, fn func()) {
	left, top, right, _ := t.pdf.GetMargins()
	t.pdf.SetMargins(left+dx, top, right)
	t.pdf.SetX(left + dx)
	fn()
	t.pdf.SetMargins(left, top, right)
	t.pdf.SetX(left)
}

// tableRow draws one row of equal-width bordered cells, growing the row to
// fit the tallest cell.
func (t *typesetter) tableRow(b docmodel.Block) {
	pdf, size := t.pdf, t.opts.FontSize-1
	style := ""
	if b.Header {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, size)

	w, h := pdf.GetPageSize()
	left := t.opts.Margin
	colW := (w - 2*t.opts.Margin) / float64(len(b.Cells))
	lh := t.lineHeight(size)

	lines := make([][]string, len(b.Cells))
	rowLines := 1
	for i, c := range b.Cells {
		lines[i] = pdf.SplitText(encode(c), colW-2)
		rowLines = max(rowLines, len(lines[i]))
	}
	rowH := float64(rowLines)*lh + 1

	if pdf.GetY()+rowH > h-t.opts.Margin {
		pdf.AddPage()
	}
	y := pdf.GetY()
	for i := range b.Cells {
		x := left + float64(i)*colW
		if b.Header {
			pdf.SetFillColor(230, 230, 230)
			pdf.Rect(x, y, colW, rowH, "FD")
		} else {
			pdf.Rect(x, y, colW, rowH, "D")
		}
		for k, line := range lines[i] {
			pdf.SetXY(x+1, y+0.5+float64(k)*lh)
			pdf.CellFormat(colW-2, lh, line, "", 0, "L", false, 0, "")
		}
	}
	pdf.SetXY(left, y+rowH)
}

// encode maps text onto the Windows-1252 code page used by the core fonts.
// Characters outside it become '?'.
func encode(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\t':
			buf.WriteString("    ")
			continue
		case '\r':
			continue
		}
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			buf.WriteByte(b)
		} else {
			buf.WriteByte('?')
		}
	}
	return buf.String()
}

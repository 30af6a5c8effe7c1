package pdfops

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/signature"
)

// makePDF builds a document with one page per size, each labelled with its
// 1-based page number.
func makePDF(t *testing.T, label string, sizes ...[2]float64) []byte {
	t.Helper()
	// Every page gets its own MediaBox when none matches the default size.
	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", Size: fpdf.SizeType{Wd: 1, Ht: 1}})
	pdf.SetFont("Helvetica", "", 12)
	for i, s := range sizes {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: s[0], Ht: s[1]})
		pdf.Text(20, 40, label+" page "+string(rune('1'+i)))
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func dims(t *testing.T, pdf []byte) [][2]float64 {
	t.Helper()
	d, err := api.PageDims(bytes.NewReader(pdf), newConf())
	require.NoError(t, err)
	out := make([][2]float64, len(d))
	for i, x := range d {
		out[i] = [2]float64{x.Width, x.Height}
	}
	return out
}

var (
	small  = [2]float64{200, 300}
	medium = [2]float64{300, 400}
	large  = [2]float64{500, 600}
)

func TestCombine_AppendsInUploadOrder(t *testing.T) {
	a := files.File{Name: "a.pdf", Data: makePDF(t, "a", small, medium)}
	b := files.File{Name: "b.pdf", Data: makePDF(t, "b", large)}

	out, err := Combine([]files.File{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{small, medium, large}, dims(t, out))
}

func TestCombine_AppliesOrder(t *testing.T) {
	a := files.File{Name: "a.pdf", Data: makePDF(t, "a", small, medium)}
	b := files.File{Name: "b.pdf", Data: makePDF(t, "b", large)}

	out, err := Combine([]files.File{a, b}, order.FromSlice([]int{3, 1}))
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{large, small}, dims(t, out), "page 2 deleted, 3 moved first")
}

func TestCombine_Guards(t *testing.T) {
	_, err := Combine(nil, nil)
	assert.ErrorIs(t, err, ErrNoDocument)

	a := files.File{Name: "a.pdf", Data: makePDF(t, "a", small)}
	_, err = Combine([]files.File{a}, order.FromSlice(nil))
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = Combine([]files.File{a}, order.FromSlice([]int{2}))
	assert.Error(t, err, "page beyond the document")

	_, err = Combine([]files.File{{Name: "x.pdf", Data: []byte("not a pdf")}}, nil)
	assert.Error(t, err)
}

func TestArrange_IdentityReturnsInput(t *testing.T) {
	pdf := makePDF(t, "a", small, medium)
	out, err := Arrange(pdf, order.New(2))
	require.NoError(t, err)
	assert.Equal(t, pdf, out)
}

func TestSplit(t *testing.T) {
	pdf := makePDF(t, "a", small, medium, large)
	parts, err := Split(pdf)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	for i, want := range [][2]float64{small, medium, large} {
		assert.Equal(t, files.Numbered(i+1, "pdf"), parts[i].Name)
		assert.Equal(t, [][2]float64{want}, dims(t, parts[i].Data))
	}

	_, err = Split(nil)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestSign_Strokes(t *testing.T) {
	in := files.File{Name: "a.pdf", Data: makePDF(t, "a", small, medium)}
	out, err := Sign([]files.File{in}, []Mark{{
		Page:    2,
		Strokes: []signature.Stroke{{Path: "M20 200 C60 150 100 250 140 200"}},
	}}, nil)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{small, medium}, dims(t, out))
	assert.Greater(t, len(out), len(in.Data))
	assert.NoError(t, api.Validate(bytes.NewReader(out), newConf()))
}

func TestSign_PlacedImage(t *testing.T) {
	in := files.File{Name: "a.pdf", Data: makePDF(t, "a", small)}
	sig := pngOf(t, 40, 10, color.NRGBA{B: 200, A: 255})
	out, err := Sign([]files.File{in}, []Mark{{Page: 1, Image: &Placement{X: 10, Y: 20, Scale: 0.5}}}, sig)
	require.NoError(t, err)
	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSign_MarksSharingAPage(t *testing.T) {
	in := files.File{Name: "a.pdf", Data: makePDF(t, "a", small, medium)}
	sig := pngOf(t, 40, 10, color.NRGBA{B: 200, A: 255})
	out, err := Sign([]files.File{in}, []Mark{
		{Page: 2, Strokes: []signature.Stroke{{Path: "M10 10 L90 40"}}},
		{Page: 1, Strokes: []signature.Stroke{{Path: "M5 5 L50 50"}}, Image: &Placement{X: 10, Y: 10, Scale: 0.5}},
		{Page: 1, Strokes: []signature.Stroke{{Path: "M60 5 L20 80", Color: "#1a237e", Width: 3}}},
		{Page: 1, Image: &Placement{X: 80, Y: 40}},
	}, sig)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{small, medium}, dims(t, out))
	assert.NoError(t, api.Validate(bytes.NewReader(out), newConf()))
}

func TestSign_Guards(t *testing.T) {
	in := files.File{Name: "a.pdf", Data: makePDF(t, "a", small)}

	_, err := Sign([]files.File{in}, []Mark{{Page: 3, Strokes: []signature.Stroke{{Path: "M0 0 L5 5"}}}}, nil)
	assert.ErrorIs(t, err, order.ErrOutOfRange)

	_, err = Sign([]files.File{in}, []Mark{{Page: 1, Image: &Placement{X: 1, Y: 1}}}, nil)
	assert.ErrorIs(t, err, ErrNoSignatureImage)

	_, err = Sign(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func pngOf(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegOf(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestImagesToPDF(t *testing.T) {
	inputs := []files.File{
		{Name: "wide.png", Data: pngOf(t, 30, 20, color.NRGBA{R: 255, A: 255})},
		{Name: "notes.txt", Data: []byte("hello")},
		{Name: "tall.jpg", Data: jpegOf(t, 10, 40)},
	}
	out, skipped, err := ImagesToPDF(inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, skipped)
	assert.Equal(t, [][2]float64{{30, 20}, {10, 40}}, dims(t, out))

	out, _, err = ImagesToPDF(inputs, order.FromSlice([]int{2, 1, 2}))
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{10, 40}, {30, 20}, {10, 40}}, dims(t, out))
}

func TestImagesToPDF_RepeatedSizes(t *testing.T) {
	inputs := []files.File{
		{Name: "a.png", Data: pngOf(t, 30, 20, color.NRGBA{R: 255, A: 255})},
		{Name: "b.png", Data: pngOf(t, 10, 40, color.NRGBA{G: 255, A: 255})},
		{Name: "c.png", Data: pngOf(t, 30, 20, color.NRGBA{B: 255, A: 255})},
	}
	out, skipped, err := ImagesToPDF(inputs, nil)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, [][2]float64{{30, 20}, {10, 40}, {30, 20}}, dims(t, out))
}

func TestImagesToPDF_NothingUsable(t *testing.T) {
	_, skipped, err := ImagesToPDF([]files.File{{Name: "a.txt", Data: []byte("x")}}, nil)
	assert.ErrorIs(t, err, ErrNoImages)
	assert.Equal(t, []string{"a.txt"}, skipped)
}

func TestInspect(t *testing.T) {
	info, err := Inspect(makePDF(t, "Hello", small, large))
	require.NoError(t, err)
	assert.Equal(t, 2, info.PageCount)
	require.Len(t, info.Pages, 2)
	assert.Equal(t, PageInfo{Number: 2, Width: 500, Height: 600, Text: info.Pages[1].Text}, info.Pages[1])
	if info.TextError == "" {
		assert.True(t, strings.Contains(info.Pages[0].Text, "Hello"), "got %q", info.Pages[0].Text)
	}

	_, err = Inspect(nil)
	assert.ErrorIs(t, err, ErrNoDocument)

	_, err = Inspect([]byte("not a pdf at all"))
	assert.ErrorIs(t, err, ErrBadPDF)
}

func TestUnreadableInputs(t *testing.T) {
	junk := files.File{Name: "junk.pdf", Data: []byte("not a pdf at all")}
	good := files.File{Name: "good.pdf", Data: makePDF(t, "a", small)}

	_, err := PageCount(junk.Data)
	assert.ErrorIs(t, err, ErrBadPDF)

	_, err = Combine([]files.File{good, junk}, nil)
	assert.ErrorIs(t, err, ErrBadPDF)
	assert.ErrorContains(t, err, "junk.pdf")

	_, err = Split(junk.Data)
	assert.ErrorIs(t, err, ErrBadPDF)
}

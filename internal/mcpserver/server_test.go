package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/humantools/internal/pdfops"
	"github.com/dgallion1/humantools/internal/stats"
	"github.com/dgallion1/humantools/internal/tools"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	kit := tools.New(tools.Options{SlideshowFormat: "gif"}, stats.NewRegistry(time.Hour), log)
	return New(kit, log, "test", 10)
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func writePDF(t *testing.T, dir, name string, pages int) string {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(40, 60, name)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestCombinePDFs(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	a := writePDF(t, dir, "a.pdf", 2)
	b := writePDF(t, dir, "b.pdf", 1)
	dest := filepath.Join(dir, "out", "merged.pdf")

	res, err := s.handleCombine(context.Background(), call(map[string]any{
		"inputs": a + ", " + b,
		"order":  "3,2",
		"output": dest,
	}))
	require.NoError(t, err)
	out := resultJSON(t, res)
	assert.Equal(t, dest, out["output"])
	assert.EqualValues(t, 2, out["pages"])

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	n, err := pdfops.PageCount(data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSplitPDF_DefaultsNextToInput(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	in := writePDF(t, dir, "doc.pdf", 2)

	res, err := s.handleSplit(context.Background(), call(map[string]any{"input": in}))
	require.NoError(t, err)
	dest := resultJSON(t, res)["output"].(string)
	assert.Equal(t, dir, filepath.Dir(dest))
	assert.True(t, strings.HasPrefix(filepath.Base(dest), "split-pages-"))
	_, err = os.Stat(dest)
	assert.NoError(t, err)
}

func TestSignPDF(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	in := writePDF(t, dir, "a.pdf", 1)
	sig := writePNG(t, dir, "sig.png", 40, 20)

	res, err := s.handleSign(context.Background(), call(map[string]any{
		"inputs":    in,
		"marks":     `[{"page":1,"image":{"x":50,"y":50,"scale":1}}]`,
		"signature": sig,
		"output":    dir,
	}))
	require.NoError(t, err)
	dest := resultJSON(t, res)["output"].(string)
	assert.True(t, strings.HasPrefix(filepath.Base(dest), "signed-pdfs-"))

	_, err = s.handleSign(context.Background(), call(map[string]any{"inputs": in, "marks": "[]"}))
	assert.Error(t, err)
}

func TestImagesToPDFAndInspect(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	img := writePNG(t, dir, "a.png", 50, 40)
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o644))
	dest := filepath.Join(dir, "photos.pdf")

	res, err := s.handleImagesToPDF(context.Background(), call(map[string]any{
		"inputs": img + "," + txt,
		"output": dest,
	}))
	require.NoError(t, err)
	assert.Equal(t, []any{"notes.txt"}, resultJSON(t, res)["skipped"])

	res, err = s.handleInspect(context.Background(), call(map[string]any{"input": dest}))
	require.NoError(t, err)
	info := resultJSON(t, res)
	assert.EqualValues(t, 1, info["page_count"])
	page := info["pages"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 50, page["width"])
	assert.EqualValues(t, 40, page["height"])
}

func TestDocumentToPDF(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(in, []byte("first paragraph\n\nsecond"), 0o644))

	res, err := s.handleDocToPDF(context.Background(), call(map[string]any{"input": in}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.pdf"), resultJSON(t, res)["output"])
}

func TestEditPhotos(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 20, 20)
	b := writePNG(t, dir, "b.png", 20, 20)

	res, err := s.handleEditPhotos(context.Background(), call(map[string]any{
		"inputs":   a + "," + b,
		"settings": `[{"rotate": 15}, {"filters": {"sepia": 100}}]`,
	}))
	require.NoError(t, err)
	out := resultJSON(t, res)
	assert.EqualValues(t, 2, out["photos"])
	assert.True(t, strings.HasSuffix(out["output"].(string), ".zip"))

	_, err = s.handleEditPhotos(context.Background(), call(map[string]any{"inputs": a, "settings": `{`}))
	assert.Error(t, err)
}

func TestCreateMemeAndSlideshow(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 60, 30)
	b := writePNG(t, dir, "b.png", 30, 60)

	res, err := s.handleMeme(context.Background(), call(map[string]any{
		"input": a,
		"meme":  `{"width":120,"layers":[{"text":"hi","all_caps":true}]}`,
	}))
	require.NoError(t, err)
	memePath := resultJSON(t, res)["output"].(string)
	f, err := os.Open(memePath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)

	res, err = s.handleSlideshow(context.Background(), call(map[string]any{
		"inputs":   a + "," + b,
		"order":    "2,1",
		"duration": 0.5,
	}))
	require.NoError(t, err)
	assert.Equal(t, "image/gif", resultJSON(t, res)["content_type"])
}

func TestMissingInputs(t *testing.T) {
	s := newServer(t)
	_, err := s.handleCombine(context.Background(), call(map[string]any{}))
	assert.Error(t, err)

	_, err = s.handleSplit(context.Background(), call(map[string]any{"input": "/does/not/exist.pdf"}))
	assert.Error(t, err)
}

func TestDecodeSettings(t *testing.T) {
	got, err := decodeSettings(`{"scale": 2}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Scale)
	assert.Equal(t, 100.0, got[0].Filters.Contrast)
}

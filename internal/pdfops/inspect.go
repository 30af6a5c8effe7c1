package pdfops

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/dgallion1/humantools/internal/parser"
)

// PageInfo describes one page.
type PageInfo struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`  // points
	Height float64 `json:"height"` // points
	Text   string  `json:"text"`
}

// Info is what Inspect reports about a document.
type Info struct {
	PageCount int        `json:"page_count"`
	Pages     []PageInfo `json:"pages"`
	TextError string     `json:"text_error,omitempty"`
}

// Inspect returns page count, page sizes and plain text for each page.
// When the Go reader cannot extract text, pdftotext is tried if it is
// installed. Text extraction failures are reported in Info.TextError rather
// than failing the call.
func Inspect(pdf []byte) (*Info, error) {
	if len(pdf) == 0 {
		return nil, ErrNoDocument
	}
	dims, err := api.PageDims(bytes.NewReader(pdf), newConf())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPDF, err)
	}
	info := &Info{PageCount: len(dims), Pages: make([]PageInfo, len(dims))}
	for i, d := range dims {
		info.Pages[i] = PageInfo{Number: i + 1, Width: d.Width, Height: d.Height}
	}

	texts, err := parser.PDFPageText(bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		texts, err = pdftotext(pdf, err)
	}
	if err != nil {
		info.TextError = err.Error()
		return info, nil
	}
	for i := range info.Pages {
		if i < len(texts) {
			info.Pages[i].Text = texts[i]
		}
	}
	return info, nil
}

func pdftotext(pdf []byte, cause error) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, cause
	}
	path, err := writeTemp(pdf, ".pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)
	return parser.PdftotextPages(path)
}

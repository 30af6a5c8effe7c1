// Package pdfops implements the PDF tools: combine, split, sign, images to
// PDF and inspect. Page work is done by pdfcpu; new pages are authored with
// fpdf.
package pdfops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/order"
)

var (
	// ErrNoDocument is returned when a tool is run without any input file.
	ErrNoDocument = errors.New("no document loaded")
	// ErrNoPages is returned when the page order selects nothing.
	ErrNoPages = errors.New("no pages selected")
	// ErrNoImages is returned when none of the uploads could be decoded.
	ErrNoImages = errors.New("no usable images")
	// ErrBadPDF is returned when an input cannot be read as a PDF.
	ErrBadPDF = errors.New("not a readable PDF")
)

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	api.DisableConfigDir()
}

func newConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in a PDF.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), newConf())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadPDF, err)
	}
	return n, nil
}

// Merge concatenates PDFs in the given order.
func Merge(inputs []files.File) ([]byte, error) {
	switch len(inputs) {
	case 0:
		return nil, ErrNoDocument
	}
	for _, f := range inputs {
		if _, err := PageCount(f.Data); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	if len(inputs) == 1 {
		return inputs[0].Data, nil
	}
	rsc := make([]io.ReadSeeker, len(inputs))
	for i, f := range inputs {
		rsc[i] = bytes.NewReader(f.Data)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, newConf()); err != nil {
		return nil, fmt.Errorf("merge %d documents: %w", len(inputs), err)
	}
	return buf.Bytes(), nil
}

// Arrange rewrites pdf so it holds exactly the pages in arr, in that order.
// A nil arrangement keeps the document as is.
func Arrange(pdf []byte, arr *order.Arrangement) ([]byte, error) {
	if arr == nil {
		return pdf, nil
	}
	if arr.Empty() {
		return nil, ErrNoPages
	}
	n, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}
	if err := arr.Validate(n); err != nil {
		return nil, err
	}
	if arr.IsIdentity(n) {
		return pdf, nil
	}
	return collect(pdf, arr.Items())
}

func collect(pdf []byte, pages []int) ([]byte, error) {
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p)
	}
	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(pdf), &buf, sel, newConf()); err != nil {
		return nil, fmt.Errorf("collect pages %v: %w", pages, err)
	}
	return buf.Bytes(), nil
}

// Combine merges inputs and applies the page arrangement.
func Combine(inputs []files.File, arr *order.Arrangement) ([]byte, error) {
	merged, err := Merge(inputs)
	if err != nil {
		return nil, err
	}
	return Arrange(merged, arr)
}

// Split returns one single-page PDF per page, named 0001.pdf, 0002.pdf, ...
func Split(pdf []byte) ([]files.File, error) {
	if len(pdf) == 0 {
		return nil, ErrNoDocument
	}
	n, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}
	out := make([]files.File, 0, n)
	for p := 1; p <= n; p++ {
		page, err := collect(pdf, []int{p})
		if err != nil {
			return nil, err
		}
		out = append(out, files.File{Name: files.Numbered(p, "pdf"), Data: page})
	}
	return out, nil
}

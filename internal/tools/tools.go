// Package tools is the service layer shared by the HTTP API, the CLI and the
// MCP server. Each method is one tool: it takes uploaded files, runs the
// engine package for that tool and returns a named output file.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/humantools/internal/config"
	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/meme"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/parser"
	"github.com/dgallion1/humantools/internal/pdfops"
	"github.com/dgallion1/humantools/internal/photo"
	"github.com/dgallion1/humantools/internal/slideshow"
	"github.com/dgallion1/humantools/internal/stats"
	"github.com/dgallion1/humantools/internal/typeset"
)

// Tool names, used for stats and logs.
const (
	ToolCombine     = "combine"
	ToolSplit       = "split"
	ToolSign        = "sign"
	ToolImagesToPDF = "images_to_pdf"
	ToolDocToPDF    = "document_to_pdf"
	ToolInspect     = "inspect"
	ToolEditPhotos  = "edit_photos"
	ToolSlideshow   = "slideshow"
	ToolMeme        = "meme"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeZip  = "application/zip"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// ErrSettingsCount is returned when per-image settings don't line up with
// the uploaded images.
var ErrSettingsCount = errors.New("settings must be shared (one) or one per image")

// Options carries the tool defaults taken from configuration.
type Options struct {
	JPEGQuality     int
	MemeWidth       int
	FFmpegPath      string
	SlideDuration   time.Duration
	SlideshowFormat string
}

// Output is a produced file.
type Output struct {
	Name        string
	ContentType string
	Data        []byte
}

// Toolkit runs the tools and records their latency.
type Toolkit struct {
	opts  Options
	stats *stats.Registry
	log   *slog.Logger
	now   func() time.Time
}

func New(opts Options, reg *stats.Registry, log *slog.Logger) *Toolkit {
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 100
	}
	if opts.MemeWidth <= 0 {
		opts.MemeWidth = meme.DefaultWidth
	}
	if opts.SlideDuration <= 0 {
		opts.SlideDuration = slideshow.DefaultDuration
	}
	if opts.SlideshowFormat == "" {
		opts.SlideshowFormat = slideshow.FormatMP4
	}
	if reg == nil {
		reg = stats.NewRegistry(time.Hour)
	}
	return &Toolkit{opts: opts, stats: reg, log: log, now: time.Now}
}

// Stats exposes the latency registry.
func (t *Toolkit) Stats() *stats.Registry { return t.stats }

// Options returns the defaults the toolkit was built with.
func (t *Toolkit) Options() Options { return t.opts }

func (t *Toolkit) track(tool string, inputs int) func(error) {
	done := t.stats.Track(tool)
	start := time.Now()
	return func(err error) {
		done(err)
		if err != nil {
			t.log.Warn("tool failed", "tool", tool, "inputs", inputs, "error", err)
			return
		}
		t.log.Info("tool completed", "tool", tool, "inputs", inputs, "duration_ms", time.Since(start).Milliseconds())
	}
}

// Combine merges PDFs in upload order and applies arr when given.
func (t *Toolkit) Combine(inputs []files.File, arr *order.Arrangement, name string) (out Output, err error) {
	done := t.track(ToolCombine, len(inputs))
	defer func() { done(err) }()

	pdf, err := pdfops.Combine(inputs, arr)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:        files.OutputName(name, "combined-pdfs", "pdf", t.now()),
		ContentType: ContentTypePDF,
		Data:        pdf,
	}, nil
}

// Split bundles one single-page PDF per page into a zip.
func (t *Toolkit) Split(input files.File) (out Output, err error) {
	done := t.track(ToolSplit, 1)
	defer func() { done(err) }()

	pages, err := pdfops.Split(input.Data)
	if err != nil {
		return Output{}, named(input, err)
	}
	zipped, err := files.Zip(pages)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:        fmt.Sprintf("split-pages-%s.zip", t.now().Format("2006-01-02")),
		ContentType: ContentTypeZip,
		Data:        zipped,
	}, nil
}

// Sign merges inputs and burns the marks into their pages.
func (t *Toolkit) Sign(inputs []files.File, marks []pdfops.Mark, sigImage []byte, name string) (out Output, err error) {
	done := t.track(ToolSign, len(inputs))
	defer func() { done(err) }()

	pdf, err := pdfops.Sign(inputs, marks, sigImage)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:        files.OutputName(name, "signed-pdfs", "pdf", t.now()),
		ContentType: ContentTypePDF,
		Data:        pdf,
	}, nil
}

// ImagesToPDF makes one page per decodable image. skipped lists the inputs
// that could not be decoded.
func (t *Toolkit) ImagesToPDF(inputs []files.File, arr *order.Arrangement, name string) (out Output, skipped []string, err error) {
	done := t.track(ToolImagesToPDF, len(inputs))
	defer func() { done(err) }()

	pdf, skipped, err := pdfops.ImagesToPDF(inputs, arr)
	if err != nil {
		return Output{}, skipped, err
	}
	return Output{
		Name:        files.OutputName(name, "images-pdf", "pdf", t.now()),
		ContentType: ContentTypePDF,
		Data:        pdf,
	}, skipped, nil
}

// DocToPDF parses a text-like document and typesets it.
func (t *Toolkit) DocToPDF(input files.File, opts typeset.Options) (out Output, err error) {
	done := t.track(ToolDocToPDF, 1)
	defer func() { done(err) }()

	p, err := parser.ForFile(input.Name)
	if err != nil {
		return Output{}, err
	}
	doc, err := p.Parse(bytes.NewReader(input.Data), input.Name)
	if err != nil {
		return Output{}, fmt.Errorf("parse %s: %w", input.Name, err)
	}
	pdf, err := typeset.Render(doc, opts)
	if err != nil {
		return Output{}, err
	}
	base := strings.TrimSuffix(files.Clean(input.Name), filepath.Ext(input.Name))
	return Output{
		Name:        files.EnsureExt(base, "pdf"),
		ContentType: ContentTypePDF,
		Data:        pdf,
	}, nil
}

// Inspect reports page geometry and text.
func (t *Toolkit) Inspect(input files.File) (info *pdfops.Info, err error) {
	done := t.track(ToolInspect, 1)
	defer func() { done(err) }()

	info, err = pdfops.Inspect(input.Data)
	return info, named(input, err)
}

// named prefixes unreadable-input errors with the upload's name.
func named(in files.File, err error) error {
	if errors.Is(err, pdfops.ErrBadPDF) {
		return fmt.Errorf("%s: %w", in.Name, err)
	}
	return err
}

// EditPhotos applies settings to every image and zips the JPEGs. settings
// holds one shared recipe or one per image; none means unchanged. progress,
// when non-nil, is called after each image.
func (t *Toolkit) EditPhotos(ctx context.Context, inputs []files.File, settings []photo.Settings, progress func()) (out Output, err error) {
	done := t.track(ToolEditPhotos, len(inputs))
	defer func() { done(err) }()

	if len(inputs) == 0 {
		return Output{}, pdfops.ErrNoImages
	}
	if len(settings) > 1 && len(settings) != len(inputs) {
		return Output{}, fmt.Errorf("%w: got %d for %d images", ErrSettingsCount, len(settings), len(inputs))
	}
	for i, s := range settings {
		if err := s.Validate(); err != nil {
			return Output{}, fmt.Errorf("settings %d: %w", i+1, err)
		}
	}

	entries := make([]files.File, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return Output{}, err
		}
		s := photo.DefaultSettings()
		switch len(settings) {
		case 1:
			s = settings[0]
		case len(inputs):
			s = settings[i]
		}

		d, err := photo.Decode(in.Data)
		if err != nil {
			return Output{}, fmt.Errorf("%s: %w", in.Name, err)
		}
		edited, err := photo.Edit(d.Image, s)
		if err != nil {
			return Output{}, fmt.Errorf("%s: %w", in.Name, err)
		}
		var buf bytes.Buffer
		if err := photo.EncodeJPEG(&buf, edited, t.opts.JPEGQuality); err != nil {
			return Output{}, fmt.Errorf("%s: encode: %w", in.Name, err)
		}
		entries = append(entries, files.File{Name: files.Numbered(i+1, "jpg"), Data: buf.Bytes()})
		if progress != nil {
			progress()
		}
	}

	zipped, err := files.Zip(entries)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:        files.DefaultName("edited-photos", "zip", t.now()),
		ContentType: ContentTypeZip,
		Data:        zipped,
	}, nil
}

// SlideshowParams are the per-request slideshow choices. Zero values fall
// back to the toolkit defaults.
type SlideshowParams struct {
	Order    *order.Arrangement
	Duration time.Duration
	Format   string
}

// Slideshow renders the photos as an MP4 or animated GIF.
func (t *Toolkit) Slideshow(ctx context.Context, inputs []files.File, p SlideshowParams, progress slideshow.ProgressFunc) (out Output, err error) {
	done := t.track(ToolSlideshow, len(inputs))
	defer func() { done(err) }()

	format := strings.ToLower(strings.TrimSpace(p.Format))
	if format == "" {
		format = t.opts.SlideshowFormat
	}
	if format != slideshow.FormatMP4 && format != slideshow.FormatGIF {
		return Output{}, fmt.Errorf("unknown slideshow format %q", p.Format)
	}
	duration := p.Duration
	if duration <= 0 {
		duration = t.opts.SlideDuration
	}

	slides, err := slideshow.FromFiles(inputs, p.Order)
	if err != nil {
		return Output{}, err
	}
	data, err := slideshow.Render(ctx, slides, slideshow.Options{
		Format:     format,
		Duration:   duration,
		FFmpegPath: t.opts.FFmpegPath,
	}, progress)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:        files.DefaultName("photos-slideshow", format, t.now()),
		ContentType: slideshow.ContentType(format),
		Data:        data,
	}, nil
}

// Meme captions the single uploaded image.
func (t *Toolkit) Meme(inputs []files.File, m meme.Meme) (out Output, err error) {
	done := t.track(ToolMeme, len(inputs))
	defer func() { done(err) }()

	if m.Width == 0 {
		m.Width = t.opts.MemeWidth
	}
	png, err := meme.Create(inputs, m)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:        files.DefaultName("new-meme", "png", t.now()),
		ContentType: ContentTypePNG,
		Data:        png,
	}, nil
}

// FromConfig builds a toolkit from service configuration.
func FromConfig(cfg config.Config, log *slog.Logger) *Toolkit {
	return New(Options{
		JPEGQuality:     cfg.JPEGQuality,
		MemeWidth:       cfg.MemeWidth,
		FFmpegPath:      cfg.FFmpegPath,
		SlideDuration:   cfg.SlideDuration,
		SlideshowFormat: cfg.SlideshowFormat,
	}, stats.NewRegistry(cfg.StatsWindow), log)
}

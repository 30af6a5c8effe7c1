package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/meme"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/parser"
	"github.com/dgallion1/humantools/internal/pdfops"
	"github.com/dgallion1/humantools/internal/photo"
	"github.com/dgallion1/humantools/internal/slideshow"
	"github.com/dgallion1/humantools/internal/tools"
	"github.com/dgallion1/humantools/internal/typeset"
)

// errTooLarge marks an upload over the per-file limit.
var errTooLarge = errors.New("file exceeds max size")

// badRequest wraps errors caused by the request rather than the server.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func invalid(format string, args ...any) error {
	return badRequest{fmt.Errorf(format, args...)}
}

// formOverhead is the allowance for form fields and multipart framing.
const formOverhead = 10 << 20

// bodyLimit is MAX_FILES max-size files, one more for a signature image, and
// the form overhead.
func (s *Server) bodyLimit() int64 {
	per := max(s.cfg.MaxUploadBytes, 1)
	n := int64(s.cfg.MaxFiles) + 1
	if n > (math.MaxInt64-formOverhead)/per {
		return math.MaxInt64
	}
	return n*per + formOverhead
}

// parseForm limits the body and parses the multipart form.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit())
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// uploads reads every file sent under field, in the order the client sent
// them.
func (s *Server) uploads(r *http.Request, field string) ([]files.File, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) > s.cfg.MaxFiles {
		return nil, invalid("too many files: %d (max %d)", len(headers), s.cfg.MaxFiles)
	}
	out := make([]files.File, 0, len(headers))
	for _, fh := range headers {
		name := files.Clean(fh.Filename)
		if fh.Size > s.cfg.MaxUploadBytes {
			return nil, fmt.Errorf("%s: %w (%d bytes)", name, errTooLarge, s.cfg.MaxUploadBytes)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			return nil, fmt.Errorf("%s: %w (%d bytes)", name, errTooLarge, s.cfg.MaxUploadBytes)
		}
		out = append(out, files.File{Name: name, Data: data})
	}
	return out, nil
}

// upload reads exactly one file from field.
func (s *Server) upload(r *http.Request, field string) (files.File, error) {
	in, err := s.uploads(r, field)
	if err != nil {
		return files.File{}, err
	}
	switch len(in) {
	case 0:
		return files.File{}, invalid("%s is required", field)
	case 1:
		return in[0], nil
	}
	return files.File{}, invalid("%s takes one file, got %d", field, len(in))
}

// formOrder reads the optional "order" field. Absent means keep upload order.
func formOrder(r *http.Request) (*order.Arrangement, error) {
	if _, ok := r.MultipartForm.Value["order"]; !ok {
		return nil, nil
	}
	arr, err := order.Parse(r.FormValue("order"))
	if err != nil {
		return nil, badRequest{err}
	}
	return arr, nil
}

// formJSON decodes the named field into v when present.
func formJSON(r *http.Request, field string, v any) error {
	raw := r.FormValue(field)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return invalid("%s: invalid JSON: %v", field, err)
	}
	return nil
}

var pageSizes = map[string]bool{"A3": true, "A4": true, "A5": true, "Letter": true, "Legal": true}

func formTypeset(r *http.Request) (typeset.Options, error) {
	var o typeset.Options
	if v := r.FormValue("page_size"); v != "" {
		if !pageSizes[v] {
			return o, invalid("unknown page_size %q", v)
		}
		o.PageSize = v
	}
	if v := r.FormValue("font_size"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 6 || n > 36 {
			return o, invalid("font_size must be a number between 6 and 36")
		}
		o.FontSize = n
	}
	return o, nil
}

// statusFor maps tool errors to HTTP status codes.
func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pdfops.ErrNoDocument),
		errors.Is(err, pdfops.ErrNoPages),
		errors.Is(err, pdfops.ErrNoImages),
		errors.Is(err, pdfops.ErrNoSignatureImage),
		errors.Is(err, pdfops.ErrBadPDF),
		errors.Is(err, order.ErrOutOfRange),
		errors.Is(err, parser.ErrUnsupported),
		errors.Is(err, photo.ErrNotImage),
		errors.Is(err, photo.ErrEmptyCrop),
		errors.Is(err, meme.ErrOneImage),
		errors.Is(err, slideshow.ErrNoSlides),
		errors.Is(err, typeset.ErrEmpty),
		errors.Is(err, tools.ErrSettingsCount):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) toolError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= 500 {
		s.log.Error("tool error", "path", r.URL.Path, "error", err)
	}
	jsonError(w, err.Error(), code)
}

func writeFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeOutput(w http.ResponseWriter, out tools.Output) {
	writeFile(w, out.Name, out.ContentType, out.Data)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// Package files names and bundles the artifacts the tools produce.
package files

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// File is an uploaded input or a produced output held in memory.
type File struct {
	Name string
	Data []byte
}

// Clean strips path components from a client-supplied name.
func Clean(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SlideName turns a file name into something safe to list in an ffconcat
// script: every run of non-alphanumerics becomes a single dash.
func SlideName(name string) string {
	return nonAlnum.ReplaceAllString(name, "-")
}

// Numbered returns the 1-based, zero-padded entry name used inside bundles.
func Numbered(i int, ext string) string {
	return fmt.Sprintf("%04d.%s", i, strings.TrimPrefix(ext, "."))
}

// EnsureExt appends ext unless name already ends with it.
func EnsureExt(name, ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return name + ext
}

// DefaultName builds names such as "combined-pdfs-1700000000000.pdf".
func DefaultName(prefix, ext string, now time.Time) string {
	return EnsureExt(fmt.Sprintf("%s-%d", prefix, now.UnixMilli()), ext)
}

// OutputName picks the user's name when given, otherwise the default.
func OutputName(userName, prefix, ext string, now time.Time) string {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return DefaultName(prefix, ext, now)
	}
	return EnsureExt(Clean(userName), ext)
}

// Ext returns the lower-cased extension of name, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Zip writes entries into a deflate-compressed archive, in order.
func Zip(entries []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("zip create %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}

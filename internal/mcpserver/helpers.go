package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/tools"
)

func getString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

// splitPaths reads a comma-separated list of paths.
func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readInputs loads every path named in args[key], in order.
func (s *Server) readInputs(args map[string]any, key string) ([]files.File, error) {
	paths := splitPaths(getString(args, key))
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s is required", key)
	}
	if len(paths) > s.maxFiles {
		return nil, fmt.Errorf("too many files: %d (max %d)", len(paths), s.maxFiles)
	}
	out := make([]files.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		out = append(out, files.File{Name: filepath.Base(p), Data: data})
	}
	return out, nil
}

// readInput loads the single path named in args[key].
func (s *Server) readInput(args map[string]any, key string) (files.File, error) {
	in, err := s.readInputs(args, key)
	if err != nil {
		return files.File{}, err
	}
	if len(in) != 1 {
		return files.File{}, fmt.Errorf("%s takes one path, got %d", key, len(in))
	}
	return in[0], nil
}

func getOrder(args map[string]any) (*order.Arrangement, error) {
	v, ok := args["order"].(string)
	if !ok {
		return nil, nil
	}
	return order.Parse(v)
}

func getJSON(args map[string]any, key string, v any) error {
	raw := getString(args, key)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%s: invalid JSON: %w", key, err)
	}
	return nil
}

// writeOutput stores out at the requested "output" path. A directory, or no
// path at all, keeps the tool's own file name; no path writes next to the
// first input.
func writeOutput(args map[string]any, firstInput string, out tools.Output) (string, error) {
	dest := getString(args, "output")
	switch {
	case dest == "":
		dest = filepath.Join(filepath.Dir(firstInput), out.Name)
	case isDir(dest):
		dest = filepath.Join(dest, out.Name)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(dest, out.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func firstPath(args map[string]any, key string) string {
	if p := splitPaths(getString(args, key)); len(p) > 0 {
		return p[0]
	}
	return ""
}

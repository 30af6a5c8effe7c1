package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/order"
	"github.com/dgallion1/humantools/internal/photo"
	"github.com/dgallion1/humantools/internal/tools"
)

func readFiles(paths []string) ([]files.File, error) {
	if len(paths) > cfg.MaxFiles {
		return nil, fmt.Errorf("too many files: %d (max %d)", len(paths), cfg.MaxFiles)
	}
	out := make([]files.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files.File{Name: filepath.Base(p), Data: data})
	}
	return out, nil
}

// orderFlag returns the --order arrangement, or nil when the flag was not set.
func orderFlag(cmd *cobra.Command) (*order.Arrangement, error) {
	if !cmd.Flags().Changed("order") {
		return nil, nil
	}
	v, _ := cmd.Flags().GetString("order")
	return order.Parse(v)
}

// save writes out to the --output path. A directory, or no path, keeps the
// tool's file name.
func save(cmd *cobra.Command, out tools.Output) error {
	dest, _ := cmd.Flags().GetString("output")
	if dest == "" {
		dest = out.Name
	} else if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		dest = filepath.Join(dest, out.Name)
	}
	if err := os.WriteFile(dest, out.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dest)
	return nil
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output file or directory (default: the tool's file name in the current directory)")
}

// readYAML decodes a YAML file into v.
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// readSettings loads one settings document or a list of them. Omitted fields
// keep their identity values.
func readSettings(path string) ([]photo.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	items := []*yaml.Node{root}
	if root.Kind == yaml.SequenceNode {
		items = root.Content
	}
	out := make([]photo.Settings, len(items))
	for i, n := range items {
		out[i] = photo.DefaultSettings()
		if err := n.Decode(&out[i]); err != nil {
			return nil, fmt.Errorf("%s: settings %d: %w", path, i+1, err)
		}
	}
	return out, nil
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/humantools/internal/config"
	"github.com/dgallion1/humantools/internal/pdfops"
	"github.com/dgallion1/humantools/internal/tools"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestReadSettings_SingleKeepsDefaults(t *testing.T) {
	p := writeTemp(t, "s.yaml", "rotate: 15\nfilters:\n  sepia: 40\n")
	got, err := readSettings(p)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 15.0, got[0].Rotate)
	assert.Equal(t, 1.0, got[0].Scale)
	assert.Equal(t, 1.0, got[0].DownloadScale)
	assert.Equal(t, 40.0, got[0].Filters.Sepia)
	assert.Equal(t, 100.0, got[0].Filters.Brightness)
}

func TestReadSettings_List(t *testing.T) {
	p := writeTemp(t, "s.yaml", "- rotate: 90\n- preset: Instagram Square\n  download_scale: 0.5\n")
	got, err := readSettings(p)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 90.0, got[0].Rotate)
	assert.Equal(t, "Instagram Square", got[1].Preset)
	assert.Equal(t, 0.5, got[1].DownloadScale)
	assert.Equal(t, 1.0, got[1].Scale)
}

func TestReadSettings_Bad(t *testing.T) {
	_, err := readSettings(writeTemp(t, "s.yaml", "rotate: [1, 2\n"))
	assert.Error(t, err)

	_, err = readSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReadYAML_Marks(t *testing.T) {
	p := writeTemp(t, "marks.yaml", `
- page: 1
  strokes:
    - path: "M 0 0 L 10 10"
      width: 2
- page: 2
  image: {x: 72, y: 72, scale: 0.5}
`)
	var marks []pdfops.Mark
	require.NoError(t, readYAML(p, &marks))
	require.Len(t, marks, 2)
	assert.Equal(t, 1, marks[0].Page)
	require.Len(t, marks[0].Strokes, 1)
	assert.Equal(t, 2, marks[1].Page)
	require.NotNil(t, marks[1].Image)
	assert.Equal(t, 0.5, marks[1].Image.Scale)
}

func TestReadFiles_Limit(t *testing.T) {
	cfg = config.Config{MaxFiles: 1}
	p := writeTemp(t, "a.txt", "a")
	got, err := readFiles([]string{p})
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got[0].Name)

	_, err = readFiles([]string{p, p})
	assert.ErrorContains(t, err, "too many files")
}

func TestSave_Directory(t *testing.T) {
	dir := t.TempDir()
	cmd := &cobra.Command{}
	addOutputFlag(cmd)
	require.NoError(t, cmd.Flags().Set("output", dir))

	require.NoError(t, save(cmd, tools.Output{Name: "x.pdf", Data: []byte("%PDF")}))
	data, err := os.ReadFile(filepath.Join(dir, "x.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestOrderFlag_Unset(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("order", "", "")
	arr, err := orderFlag(cmd)
	require.NoError(t, err)
	assert.Nil(t, arr)

	require.NoError(t, cmd.Flags().Set("order", "2,1"))
	arr, err = orderFlag(cmd)
	require.NoError(t, err)
	assert.NotNil(t, arr)
}

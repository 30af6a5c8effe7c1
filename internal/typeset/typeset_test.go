package typeset

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/humantools/internal/docmodel"
	"github.com/dgallion1/humantools/internal/parser"
)

func TestMain(m *testing.M) {
	api.DisableConfigDir()
	os.Exit(m.Run())
}

func TestRender_AllBlockKinds(t *testing.T) {
	doc := &docmodel.Document{Title: "Sample"}
	doc.Add(docmodel.Block{Kind: docmodel.Heading, Level: 1, Text: "Quarterly report"})
	doc.Add(docmodel.Block{Kind: docmodel.Paragraph, Text: "Revenue grew. Café prices rose\nsharply."})
	doc.Add(docmodel.Block{Kind: docmodel.Quote, Text: "A quote"})
	doc.Add(docmodel.Block{Kind: docmodel.ListItem, Marker: "•", Text: "first"})
	doc.Add(docmodel.Block{Kind: docmodel.ListItem, Level: 1, Marker: "1.", Text: "nested"})
	doc.Add(docmodel.Block{Kind: docmodel.Code, Text: "fmt.Println(1)\n\treturn"})
	doc.Add(docmodel.Block{Kind: docmodel.TableRow, Header: true, Cells: []string{"name", "qty"}})
	doc.Add(docmodel.Block{Kind: docmodel.TableRow, Cells: []string{"widget", "3"}})
	doc.Add(docmodel.Block{Kind: docmodel.Rule})

	out, err := Render(doc, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	n, err := api.PageCount(bytes.NewReader(out), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRender_LongDocumentPaginates(t *testing.T) {
	doc := &docmodel.Document{Title: "Long"}
	para := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	for i := 0; i < 60; i++ {
		doc.Add(docmodel.Block{Kind: docmodel.Paragraph, Text: para})
	}
	out, err := Render(doc, Options{})
	require.NoError(t, err)
	n, err := api.PageCount(bytes.NewReader(out), nil)
	require.NoError(t, err)
	assert.Greater(t, n, 3)
}

func TestRender_FromMarkdown(t *testing.T) {
	doc, err := (&parser.MarkdownParser{}).Parse(strings.NewReader("# Hi\n\nSome *text*.\n\n- a\n- b\n"), "hi.md")
	require.NoError(t, err)
	out, err := Render(doc, Options{PageSize: "Letter"})
	require.NoError(t, err)
	dims, err := api.PageDims(bytes.NewReader(out), nil)
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.InDelta(t, 612, dims[0].Width, 0.5)
}

func TestRender_Empty(t *testing.T) {
	_, err := Render(&docmodel.Document{}, Options{})
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Render(nil, Options{})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "caf\xe9 \x95 ?", encode("café • ☃"))
	assert.Equal(t, "a    b", encode("a\tb\r"))
}

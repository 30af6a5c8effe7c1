package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/humantools/internal/docmodel"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"a.txt", false},
		{"a.MD", false},
		{"a.markdown", false},
		{"a.csv", false},
		{"a.htm", false},
		{"a.docx", false},
		{"a.pdf", true},
		{"a", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("%s: expected ErrUnsupported, got %v", tt.filename, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.filename, err)
		}
		if !IsSupportedExtension(tt.filename) {
			t.Errorf("%s: expected supported", tt.filename)
		}
	}
}

func TestHTMLParser(t *testing.T) {
	input := `<html><head><title>Report</title><style>p{}</style></head><body>
<nav>skip me</nav>
<h1>Summary</h1>
<p>First   line
wraps.<br>Second line.</p>
<ol start="2"><li>two<ul><li>inner</li></ul></li><li>three</li></ol>
<table><thead><tr><th>k</th><th>v</th></tr></thead><tbody><tr><td>a</td><td>1</td></tr></tbody></table>
<pre>x := 1
y := 2</pre>
<hr>
<script>alert(1)</script>
</body></html>`

	doc, err := (&HTMLParser{}).Parse(strings.NewReader(input), "report.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Report" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}

	want := []docmodel.Block{
		{Kind: docmodel.Heading, Level: 1, Text: "Summary"},
		{Kind: docmodel.Paragraph, Text: "First line wraps.\nSecond line."},
		{Kind: docmodel.ListItem, Marker: "2.", Text: "two"},
		{Kind: docmodel.ListItem, Level: 1, Marker: "•", Text: "inner"},
		{Kind: docmodel.ListItem, Marker: "3.", Text: "three"},
		{Kind: docmodel.TableRow, Cells: []string{"k", "v"}, Header: true},
		{Kind: docmodel.TableRow, Cells: []string{"a", "1"}},
		{Kind: docmodel.Code, Text: "x := 1\ny := 2"},
		{Kind: docmodel.Rule},
	}
	if len(doc.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(want), len(doc.Blocks), doc.Blocks)
	}
	for i, w := range want {
		got := doc.Blocks[i]
		if got.Kind != w.Kind || got.Level != w.Level || got.Text != w.Text ||
			got.Marker != w.Marker || got.Header != w.Header ||
			strings.Join(got.Cells, "|") != strings.Join(w.Cells, "|") {
			t.Errorf("block[%d]: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestCSVParser(t *testing.T) {
	input := "name,qty\nwidget,3\ngadget,\"1,000\"\nragged\n"
	doc, err := (&CSVParser{}).Parse(strings.NewReader(input), "stock.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "stock" {
		t.Errorf("expected title %q, got %q", "stock", doc.Title)
	}
	if got := doc.Count(docmodel.TableRow); got != 4 {
		t.Fatalf("expected 4 rows, got %d", got)
	}
	if !doc.Blocks[0].Header || doc.Blocks[1].Header {
		t.Errorf("expected only the first row to be a header")
	}
	if doc.Blocks[2].Cells[1] != "1,000" {
		t.Errorf("expected quoted cell, got %q", doc.Blocks[2].Cells[1])
	}
	if len(doc.Blocks[3].Cells) != 1 {
		t.Errorf("expected ragged row to keep its single cell, got %v", doc.Blocks[3].Cells)
	}
}

func TestDOCXParser(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("Hello from docx")
	w.AddParagraph().AddText("Second paragraph")
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	doc, err := (&DOCXParser{}).Parse(&buf, "letter.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "letter" {
		t.Errorf("expected title %q, got %q", "letter", doc.Title)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(doc.Blocks), doc.Blocks)
	}
	if doc.Blocks[0].Kind != docmodel.Paragraph || doc.Blocks[0].Text != "Hello from docx" {
		t.Errorf("unexpected first block %+v", doc.Blocks[0])
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"Heading1":  1,
		"heading 3": 3,
		"Heading 6": 6,
		"Heading7":  0,
		"Normal":    0,
		"":          0,
	}
	for style, want := range tests {
		if got := docxHeadingLevel(style); got != want {
			t.Errorf("docxHeadingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}

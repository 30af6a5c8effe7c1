package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/humantools/internal/docmodel"
)

// DOCXParser handles .docx files: headings by paragraph style, list
// paragraphs, body text and tables.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &docmodel.Document{Title: title(filename)}
	for _, item := range d.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			doc.Add(docxBlock(it))
		case *docx.Table:
			for i, row := range it.TableRows {
				var cells []string
				for _, cell := range row.TableCells {
					var parts []string
					for _, para := range cell.Paragraphs {
						if t := docxParagraphText(para); t != "" {
							parts = append(parts, t)
						}
					}
					cells = append(cells, strings.Join(parts, "\n"))
				}
				doc.Add(docmodel.Block{Kind: docmodel.TableRow, Cells: cells, Header: i == 0})
			}
		}
	}
	return doc, nil
}

func docxBlock(para *docx.Paragraph) docmodel.Block {
	text := docxParagraphText(para)
	style := docxStyle(para)
	if level := docxHeadingLevel(style); level > 0 {
		return docmodel.Block{Kind: docmodel.Heading, Level: level, Text: text}
	}
	lower := strings.ToLower(style)
	switch {
	case strings.Contains(lower, "list"):
		return docmodel.Block{Kind: docmodel.ListItem, Marker: "•", Text: text}
	case strings.Contains(lower, "quote"):
		return docmodel.Block{Kind: docmodel.Quote, Text: text}
	case lower == "title":
		return docmodel.Block{Kind: docmodel.Heading, Level: 1, Text: text}
	}
	return docmodel.Block{Kind: docmodel.Paragraph, Text: text}
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// docxHeadingLevel accepts both "Heading2" style IDs and "heading 2" names.
func docxHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if len(s) == len("heading1") && strings.HasPrefix(s, "heading") {
		if c := s[len(s)-1]; c >= '1' && c <= '6' {
			return int(c - '0')
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

package parser

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/humantools/internal/docmodel"
)

// MarkdownParser handles Markdown files using goldmark, with GFM tables.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	doc := &docmodel.Document{Title: title(filename)}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		mdBlock(doc, n, src, 0)
	}
	return doc, nil
}

func mdBlock(doc *docmodel.Document, n ast.Node, src []byte, depth int) {
	switch node := n.(type) {
	case *ast.Heading:
		doc.Add(docmodel.Block{Kind: docmodel.Heading, Level: node.Level, Text: inlineText(node, src)})
	case *ast.Paragraph, *ast.TextBlock:
		doc.Add(docmodel.Block{Kind: docmodel.Paragraph, Text: inlineText(node, src)})
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if _, ok := c.(*ast.Paragraph); ok {
				doc.Add(docmodel.Block{Kind: docmodel.Quote, Text: inlineText(c, src)})
				continue
			}
			mdBlock(doc, c, src, depth)
		}
	case *ast.List:
		mdList(doc, node, src, depth)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		doc.Add(docmodel.Block{Kind: docmodel.Code, Text: blockLines(node, src)})
	case *ast.HTMLBlock:
		doc.Add(docmodel.Block{Kind: docmodel.Code, Text: blockLines(node, src)})
	case *ast.ThematicBreak:
		doc.Add(docmodel.Block{Kind: docmodel.Rule})
	case *east.Table:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			_, header := c.(*east.TableHeader)
			var cells []string
			for cell := c.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, inlineText(cell, src))
			}
			doc.Add(docmodel.Block{Kind: docmodel.TableRow, Cells: cells, Header: header})
		}
	}
}

func mdList(doc *docmodel.Document, list *ast.List, src []byte, depth int) {
	num := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if list.IsOrdered() {
			marker = strconv.Itoa(num) + "."
			num++
		}
		var parts []string
		var nested []ast.Node
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				parts = append(parts, inlineText(c, src))
			default:
				nested = append(nested, c)
			}
		}
		doc.Add(docmodel.Block{
			Kind:   docmodel.ListItem,
			Level:  depth,
			Marker: marker,
			Text:   strings.Join(parts, " "),
		})
		for _, c := range nested {
			if l, ok := c.(*ast.List); ok {
				mdList(doc, l, src, depth+1)
				continue
			}
			mdBlock(doc, c, src, depth+1)
		}
	}
}

// inlineText flattens the inline children of n. Soft breaks become spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Value(src))
				switch {
				case t.HardLineBreak():
					buf.WriteByte('\n')
				case t.SoftLineBreak():
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			case *ast.AutoLink:
				buf.Write(t.Label(src))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// blockLines returns the raw lines of a code or HTML block.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

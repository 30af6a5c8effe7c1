package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/humantools/internal/docmodel"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &docmodel.Document{Title: title(filename)}
	if t := findTitle(root); t != "" {
		doc.Title = t
	}

	h := &htmlWalker{doc: doc}
	if body := findBody(root); body != nil {
		h.walk(body)
	} else {
		h.walk(root)
	}
	h.flushLoose()
	return doc, nil
}

type htmlWalker struct {
	doc   *docmodel.Document
	depth int // list nesting
	loose strings.Builder
}

// flushLoose emits text that sat directly inside a container, outside any
// paragraph element.
func (h *htmlWalker) flushLoose() {
	h.doc.Add(docmodel.Block{Kind: docmodel.Paragraph, Text: collapse(h.loose.String())})
	h.loose.Reset()
}

func (h *htmlWalker) walk(n *html.Node) {
	if n.Type == html.TextNode {
		h.loose.WriteString(n.Data)
		return
	}
	if n.Type != html.ElementNode {
		h.children(n)
		return
	}

	if level := headingLevel(n.Data); level > 0 {
		h.flushLoose()
		h.doc.Add(docmodel.Block{Kind: docmodel.Heading, Level: level, Text: textContent(n)})
		return
	}

	switch n.Data {
	case "script", "style", "noscript", "template", "nav", "footer", "header", "svg":
		return
	case "br":
		h.loose.WriteString(lineBreak)
	case "p", "div", "section", "article", "main":
		h.flushLoose()
		h.children(n)
		h.flushLoose()
	case "blockquote":
		h.flushLoose()
		h.doc.Add(docmodel.Block{Kind: docmodel.Quote, Text: textContent(n)})
	case "pre":
		h.flushLoose()
		h.doc.Add(docmodel.Block{Kind: docmodel.Code, Text: strings.Trim(strings.ReplaceAll(rawText(n), lineBreak, "\n"), "\n")})
	case "hr":
		h.flushLoose()
		h.doc.Add(docmodel.Block{Kind: docmodel.Rule})
	case "ul", "ol":
		h.flushLoose()
		h.list(n)
	case "table":
		h.flushLoose()
		h.table(n)
	default:
		h.children(n)
	}
}

func (h *htmlWalker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		h.walk(c)
	}
}

func (h *htmlWalker) list(n *html.Node) {
	ordered := n.Data == "ol"
	num := 1
	if s := attr(n, "start"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			num = v
		}
	}
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		marker := "•"
		if ordered {
			marker = strconv.Itoa(num) + "."
			num++
		}
		// Item text excludes nested lists, which follow as deeper items.
		var own strings.Builder
		var nested []*html.Node
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				nested = append(nested, c)
				continue
			}
			own.WriteString(rawText(c))
		}
		h.doc.Add(docmodel.Block{Kind: docmodel.ListItem, Level: h.depth, Marker: marker, Text: collapse(own.String())})
		h.depth++
		for _, l := range nested {
			h.list(l)
		}
		h.depth--
	}
}

func (h *htmlWalker) table(n *html.Node) {
	var rows func(*html.Node, bool)
	rows = func(n *html.Node, header bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead":
				rows(c, true)
			case "tbody", "tfoot":
				rows(c, false)
			case "tr":
				var cells []string
				isHeader := header
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
						cells = append(cells, textContent(td))
						if td.Data == "th" {
							isHeader = true
						}
					}
				}
				h.doc.Add(docmodel.Block{Kind: docmodel.TableRow, Cells: cells, Header: isHeader})
			}
		}
	}
	rows(n, false)
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// lineBreak stands in for <br> until collapse turns it into a newline.
const lineBreak = "\x00"

// rawText concatenates descendant text nodes.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteString(lineBreak)
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func textContent(n *html.Node) string {
	return collapse(rawText(n))
}

// collapse squeezes whitespace runs to single spaces and turns <br> into
// newlines.
func collapse(s string) string {
	lines := strings.Split(s, lineBreak)
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

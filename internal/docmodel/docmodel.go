// Package docmodel is the flat block representation that parsed documents
// are reduced to before typesetting.
package docmodel

// Kind identifies a block type.
type Kind int

const (
	Heading Kind = iota + 1
	Paragraph
	Quote
	ListItem
	Code
	TableRow
	Rule
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case Quote:
		return "quote"
	case ListItem:
		return "list_item"
	case Code:
		return "code"
	case TableRow:
		return "table_row"
	case Rule:
		return "rule"
	}
	return "unknown"
}

// Block is one typesettable unit.
type Block struct {
	Kind   Kind
	Level  int      // heading level 1-6; list nesting depth starting at 0
	Text   string   // paragraph, heading, list item and code text; code keeps newlines
	Marker string   // list bullet or number, e.g. "•" or "3."
	Cells  []string // table row cells
	Header bool     // table header row
}

// Document is a parsed document.
type Document struct {
	Title  string
	Blocks []Block
}

// Add appends b unless it carries no content.
func (d *Document) Add(b Block) {
	switch b.Kind {
	case Rule:
	case TableRow:
		if len(b.Cells) == 0 {
			return
		}
	default:
		if b.Text == "" {
			return
		}
	}
	d.Blocks = append(d.Blocks, b)
}

// Empty reports whether nothing was parsed.
func (d *Document) Empty() bool { return len(d.Blocks) == 0 }

// Count returns how many blocks of kind k the document holds.
func (d *Document) Count(k Kind) int {
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == k {
			n++
		}
	}
	return n
}

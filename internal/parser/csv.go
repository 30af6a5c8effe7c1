package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/humantools/internal/docmodel"
)

// CSVParser handles CSV files. The first record is the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &docmodel.Document{Title: title(filename)}
	for i, rec := range records {
		doc.Add(docmodel.Block{Kind: docmodel.TableRow, Cells: rec, Header: i == 0})
	}
	return doc, nil
}

package doctree

import "strings"

// Document is the root of a parsed document.
type Document struct {
	Title     string   // Document title (from metadata or filename)
	PageCount int      // Pages, slides, or sheets; 1 for unpaginated formats
	Children  []*Node  // Top-level sections
	Tables    []*Table // Tables in reading order
	Images    []Image  // Embedded media, populated on request
}

// Node is a recursive section in the document tree.
type Node struct {
	Title    string  // Section heading (empty for leaf text)
	Text     string  // Text content of this node (may be empty for container nodes)
	Page     int     // Source page/slide (0 if N/A)
	Children []*Node // Subsections
}

// Table is a grid of cell text extracted from a document.
// The first row is treated as the header.
type Table struct {
	Title string // Sheet name or caption, if any
	Page  int    // Source page/slide/sheet (0 if N/A)
	Rows  [][]string
}

// Image is an embedded media payload carried inline with the result.
type Image struct {
	Name string
	Data []byte
}

// Markdown renders the table as a pipe table. Empty tables render as "".
func (t *Table) Markdown() string {
	if t == nil || len(t.Rows) == 0 {
		return ""
	}
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = strings.ReplaceAll(row[i], "|", "\\|")
				cell = strings.ReplaceAll(cell, "\n", " ")
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(t.Rows[0])
	b.WriteString("|")
	for i := 0; i < cols; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Text renders the table as tab-separated plain text.
func (t *Table) Text() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

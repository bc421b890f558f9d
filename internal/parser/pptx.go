package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/openingest/internal/doctree"
)

// PPTXParser handles .pptx files (Office Open XML presentations).
// Slides are read straight from the ZIP package; each slide becomes
// one section, and a:tbl grids become tables.
type PPTXParser struct{}

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func (p *PPTXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pptx: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx archive: %w", err)
	}

	type slideFile struct {
		num  int
		file *zip.File
	}
	var slides []slideFile
	for _, f := range zr.File {
		if m := slideNameRe.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slideFile{num: n, file: f})
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("pptx has no slides")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	doc := &doctree.Document{
		Title:     strings.TrimSuffix(filename, ".pptx"),
		PageCount: len(slides),
	}

	for i, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return nil, fmt.Errorf("open slide %d: %w", s.num, err)
		}
		paragraphs, tables, err := parseSlide(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse slide %d: %w", s.num, err)
		}

		node := &doctree.Node{
			Title: fmt.Sprintf("Slide %d", i+1),
			Page:  i + 1,
		}
		// The first paragraph of a slide is normally its title placeholder.
		if len(paragraphs) > 0 {
			node.Title = paragraphs[0]
			node.Text = strings.Join(paragraphs[1:], "\n\n")
		}
		doc.Children = append(doc.Children, node)

		for _, t := range tables {
			t.Page = i + 1
			doc.Tables = append(doc.Tables, t)
		}
	}

	return doc, nil
}

// parseSlide streams a slide's XML, collecting a:t text runs into
// paragraphs (split on a:p boundaries) and a:tbl grids into tables.
func parseSlide(r io.Reader) ([]string, []*doctree.Table, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		tables     []*doctree.Table

		current strings.Builder
		inText  bool

		table   *doctree.Table
		row     []string
		cell    strings.Builder
		inTable bool
		inCell  bool
	)

	flushParagraph := func() {
		t := strings.TrimSpace(current.String())
		if t != "" {
			paragraphs = append(paragraphs, t)
		}
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("slide xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				inTable = true
				table = &doctree.Table{}
			case "tr":
				if inTable {
					row = nil
				}
			case "tc":
				if inTable {
					inCell = true
					cell.Reset()
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if table != nil && len(table.Rows) > 0 {
					tables = append(tables, table)
				}
				table = nil
				inTable = false
			case "tr":
				if inTable && len(row) > 0 {
					table.Rows = append(table.Rows, row)
				}
			case "tc":
				if inTable {
					row = append(row, strings.TrimSpace(cell.String()))
					inCell = false
				}
			case "t":
				inText = false
			case "p":
				if inCell {
					cell.WriteString("\n")
				} else if !inTable {
					flushParagraph()
				}
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cell.Write(t)
			} else if !inTable {
				current.Write(t)
			}
		}
	}
	flushParagraph()

	return paragraphs, tables, nil
}

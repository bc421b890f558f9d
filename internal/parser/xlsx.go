package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/dgallion1/openingest/internal/doctree"
)

// XLSXParser handles .xlsx files (Office Open XML spreadsheets).
// Each worksheet becomes one table and one section of tab-separated rows.
type XLSXParser struct{}

type xlsxWorkbook struct {
	Sheets struct {
		Sheet []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

type xlsxRelationships struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xlsxSharedStrings struct {
	SI []struct {
		T string `xml:"t"`
		R []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

type xlsxSheet struct {
	SheetData struct {
		Row []struct {
			C []struct {
				R  string `xml:"r,attr"`
				T  string `xml:"t,attr"`
				V  string `xml:"v"`
				IS struct {
					T string `xml:"t"`
				} `xml:"is"`
			} `xml:"c"`
		} `xml:"row"`
	} `xml:"sheetData"`
}

func (p *XLSXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx archive: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var wb xlsxWorkbook
	if err := decodeZipXML(files["xl/workbook.xml"], &wb); err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	if len(wb.Sheets.Sheet) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	var rels xlsxRelationships
	if err := decodeZipXML(files["xl/_rels/workbook.xml.rels"], &rels); err != nil {
		return nil, fmt.Errorf("parse workbook relationships: %w", err)
	}
	targets := make(map[string]string, len(rels.Relationship))
	for _, rel := range rels.Relationship {
		targets[rel.ID] = path.Join("xl", rel.Target)
	}

	// Shared strings are optional.
	var shared []string
	if f, ok := files["xl/sharedStrings.xml"]; ok {
		var sst xlsxSharedStrings
		if err := decodeZipXML(f, &sst); err != nil {
			return nil, fmt.Errorf("parse shared strings: %w", err)
		}
		for _, si := range sst.SI {
			if len(si.R) > 0 {
				var b strings.Builder
				for _, run := range si.R {
					b.WriteString(run.T)
				}
				shared = append(shared, b.String())
			} else {
				shared = append(shared, si.T)
			}
		}
	}

	doc := &doctree.Document{
		Title:     strings.TrimSuffix(filename, ".xlsx"),
		PageCount: len(wb.Sheets.Sheet),
	}

	for i, sheet := range wb.Sheets.Sheet {
		f, ok := files[targets[sheet.RID]]
		if !ok {
			return nil, fmt.Errorf("sheet %q: missing worksheet part", sheet.Name)
		}
		var ws xlsxSheet
		if err := decodeZipXML(f, &ws); err != nil {
			return nil, fmt.Errorf("parse sheet %q: %w", sheet.Name, err)
		}

		var rows [][]string
		for _, row := range ws.SheetData.Row {
			var cells []string
			for _, c := range row.C {
				// Pad skipped columns using the cell reference.
				if col := columnIndex(c.R); col > len(cells) {
					for len(cells) < col {
						cells = append(cells, "")
					}
				}
				cells = append(cells, cellValue(c.T, c.V, c.IS.T, shared))
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
		if len(rows) == 0 {
			continue
		}

		doc.Tables = append(doc.Tables, &doctree.Table{
			Title: sheet.Name,
			Page:  i + 1,
			Rows:  rows,
		})

		var text strings.Builder
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		doc.Children = append(doc.Children, &doctree.Node{
			Title: sheet.Name,
			Text:  strings.TrimSuffix(text.String(), "\n"),
			Page:  i + 1,
		})
	}

	return doc, nil
}

func decodeZipXML(f *zip.File, v any) error {
	if f == nil {
		return fmt.Errorf("missing archive part")
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// columnIndex converts a cell reference like "C7" to a 0-based column index.
// Returns -1 when the reference is absent.
func columnIndex(ref string) int {
	if ref == "" {
		return -1
	}
	col := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A') + 1
	}
	return col - 1
}

func cellValue(typ, v, inline string, shared []string) string {
	switch typ {
	case "s":
		idx, err := strconv.Atoi(v)
		if err == nil && idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	case "inlineStr":
		return inline
	case "b":
		if v == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return v
	}
}

// Package render turns a parsed document tree into one of the
// supported output formats.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/openingest/internal/doctree"
	"github.com/yuin/goldmark"
)

// Format is the output format for ingested content.
type Format int

const (
	Markdown Format = iota
	HTML
	JSON
	Text
)

// String returns the format's canonical name.
func (f Format) String() string {
	switch f {
	case Markdown:
		return "markdown"
	case HTML:
		return "html"
	case JSON:
		return "json"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Extension returns the file extension used when saving this format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return ".html"
	case JSON:
		return ".json"
	case Text:
		return ".txt"
	default:
		return ".md"
	}
}

// ParseFormat resolves a format name. The empty string means Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return Markdown, nil
	case "html":
		return HTML, nil
	case "json":
		return JSON, nil
	case "text", "txt", "plain":
		return Text, nil
	default:
		return Markdown, fmt.Errorf("unknown output format: %q", s)
	}
}

// Render produces the document's content in the requested format.
func Render(doc *doctree.Document, format Format, includeTables bool) (string, error) {
	switch format {
	case Markdown:
		return renderMarkdown(doc, includeTables), nil
	case HTML:
		// HTML output is the markdown rendering converted by goldmark.
		md := renderMarkdown(doc, includeTables)
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(md), &buf); err != nil {
			return "", fmt.Errorf("convert to html: %w", err)
		}
		return buf.String(), nil
	case JSON:
		return renderJSON(doc, includeTables)
	case Text:
		return renderText(doc, includeTables), nil
	default:
		return "", fmt.Errorf("unknown output format: %d", format)
	}
}

func renderMarkdown(doc *doctree.Document, includeTables bool) string {
	var b strings.Builder
	if doc.Title != "" {
		b.WriteString("# " + doc.Title + "\n\n")
	}
	for _, child := range doc.Children {
		writeMarkdownNode(&b, child, 2)
	}
	if includeTables {
		for _, t := range doc.Tables {
			md := t.Markdown()
			if md == "" {
				continue
			}
			if t.Title != "" {
				b.WriteString("## " + t.Title + "\n\n")
			}
			b.WriteString(md + "\n\n")
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func writeMarkdownNode(b *strings.Builder, node *doctree.Node, level int) {
	if level > 6 {
		level = 6
	}
	if node.Title != "" {
		b.WriteString(strings.Repeat("#", level) + " " + node.Title + "\n\n")
	}
	if node.Text != "" {
		b.WriteString(node.Text + "\n\n")
	}
	for _, child := range node.Children {
		writeMarkdownNode(b, child, level+1)
	}
}

func renderText(doc *doctree.Document, includeTables bool) string {
	var b strings.Builder
	if doc.Title != "" {
		b.WriteString(doc.Title + "\n\n")
	}
	for _, child := range doc.Children {
		writeTextNode(&b, child)
	}
	if includeTables {
		for _, t := range doc.Tables {
			txt := t.Text()
			if txt == "" {
				continue
			}
			if t.Title != "" {
				b.WriteString(t.Title + "\n")
			}
			b.WriteString(txt + "\n\n")
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func writeTextNode(b *strings.Builder, node *doctree.Node) {
	if node.Title != "" {
		b.WriteString(node.Title + "\n\n")
	}
	if node.Text != "" {
		b.WriteString(node.Text + "\n\n")
	}
	for _, child := range node.Children {
		writeTextNode(b, child)
	}
}

type jsonSection struct {
	Title    string        `json:"title,omitempty"`
	Text     string        `json:"text,omitempty"`
	Page     int           `json:"page,omitempty"`
	Sections []jsonSection `json:"sections,omitempty"`
}

type jsonTable struct {
	Title string     `json:"title,omitempty"`
	Page  int        `json:"page,omitempty"`
	Rows  [][]string `json:"rows"`
}

type jsonDocument struct {
	Title     string        `json:"title"`
	PageCount int           `json:"page_count"`
	Sections  []jsonSection `json:"sections"`
	Tables    []jsonTable   `json:"tables,omitempty"`
}

func renderJSON(doc *doctree.Document, includeTables bool) (string, error) {
	out := jsonDocument{
		Title:     doc.Title,
		PageCount: doc.PageCount,
		Sections:  jsonSections(doc.Children),
	}
	if includeTables {
		for _, t := range doc.Tables {
			out.Tables = append(out.Tables, jsonTable{Title: t.Title, Page: t.Page, Rows: t.Rows})
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data) + "\n", nil
}

func jsonSections(nodes []*doctree.Node) []jsonSection {
	var out []jsonSection
	for _, n := range nodes {
		out = append(out, jsonSection{
			Title:    n.Title,
			Text:     n.Text,
			Page:     n.Page,
			Sections: jsonSections(n.Children),
		})
	}
	return out
}

package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingTree(t *testing.T) {
	src := `# Title

Intro paragraph.

## Section A

Content A.

### Subsection A1

Content A1.

## Section B

Content B.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(src), "test.md")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.PageCount != 1 {
		t.Errorf("expected page count 1, got %d", doc.PageCount)
	}
	if len(doc.Children) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(doc.Children))
	}

	title := doc.Children[0]
	if title.Title != "Title" {
		t.Errorf("expected title node 'Title', got %q", title.Title)
	}
	if !strings.Contains(title.Text, "Intro paragraph.") {
		t.Errorf("expected intro text under title, got %q", title.Text)
	}
	if len(title.Children) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(title.Children))
	}

	secA := title.Children[0]
	if secA.Title != "Section A" {
		t.Errorf("expected 'Section A', got %q", secA.Title)
	}
	if len(secA.Children) != 1 || secA.Children[0].Title != "Subsection A1" {
		t.Errorf("expected 'Subsection A1' nested under 'Section A', got %+v", secA.Children)
	}

	secB := title.Children[1]
	if secB.Title != "Section B" {
		t.Errorf("expected 'Section B', got %q", secB.Title)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	src := "Just a paragraph.\n\nAnd another one.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(src), "plain.md")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(doc.Children) != 1 {
		t.Fatalf("expected 1 fallback node, got %d", len(doc.Children))
	}
	text := doc.Children[0].Text
	if !strings.Contains(text, "Just a paragraph.") || !strings.Contains(text, "And another one.") {
		t.Errorf("expected both paragraphs in fallback node, got %q", text)
	}
}

func TestMarkdownParser_TitleFromFilename(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("body text\n"), "notes.md")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title 'notes', got %q", doc.Title)
	}
}

package doctree

import (
	"strings"
	"testing"
)

func TestTableMarkdown(t *testing.T) {
	tbl := &Table{
		Rows: [][]string{
			{"name", "score"},
			{"alice", "10"},
			{"bob", "7"},
		},
	}
	md := tbl.Markdown()

	lines := strings.Split(md, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header, separator, 2 rows), got %d:\n%s", len(lines), md)
	}
	if lines[0] != "| name | score |" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("unexpected separator line: %q", lines[1])
	}
	if lines[2] != "| alice | 10 |" {
		t.Errorf("unexpected data line: %q", lines[2])
	}
}

func TestTableMarkdown_EscapesPipesAndRaggedRows(t *testing.T) {
	tbl := &Table{
		Rows: [][]string{
			{"a|b", "c"},
			{"only-one"},
		},
	}
	md := tbl.Markdown()
	if !strings.Contains(md, `a\|b`) {
		t.Errorf("expected escaped pipe, got:\n%s", md)
	}
	// Ragged row is padded to the widest row.
	if !strings.Contains(md, "| only-one |  |") {
		t.Errorf("expected padded short row, got:\n%s", md)
	}
}

func TestTableMarkdown_Empty(t *testing.T) {
	if md := (&Table{}).Markdown(); md != "" {
		t.Errorf("expected empty rendering, got %q", md)
	}
	var nilTable *Table
	if md := nilTable.Markdown(); md != "" {
		t.Errorf("expected empty rendering for nil table, got %q", md)
	}
}

func TestTableText(t *testing.T) {
	tbl := &Table{
		Rows: [][]string{
			{"a", "b"},
			{"1", "2"},
		},
	}
	want := "a\tb\n1\t2"
	if got := tbl.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

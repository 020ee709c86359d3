package stats

import (
	"strings"
	"testing"
)

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := newTextTable("#", "Time", "Scramble").alignRight(0, 1)
	tbl.add("12", "9.87", "R U")
	tbl.add("3", "102.50", "F2 L' D")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != " #   Time Scramble" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "12   9.87 R U" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != " 3 102.50 F2 L' D" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableRaggedRows(t *testing.T) {
	tbl := newTextTable("a")
	tbl.add("x", "longer")
	var b strings.Builder
	if err := tbl.write(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	if b.String() != "a\nx longer\n" {
		t.Fatalf("unexpected output: %q", b.String())
	}
	if lines := newTextTable().lines(); lines != nil {
		t.Fatalf("expected nil for empty table, got %q", lines)
	}
}

package ui

import (
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in       int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestFormatSavings(t *testing.T) {
	if got := FormatSavings(200, 50); got != "75.0%" {
		t.Errorf("FormatSavings(200, 50) = %q", got)
	}
	if got := FormatSavings(0, 50); got != "-" {
		t.Errorf("FormatSavings(0, 50) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		limit    int
		expected string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcdef", 6, "abcdef"},
		{"cut", "abcdefghij", 6, "abc..."},
		{"multibyte", "ééééééé", 5, "éé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.limit); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.expected)
			}
		})
	}
}

func TestRenderSimpleList_Limit(t *testing.T) {
	out := RenderSimpleList([]string{"a.mp4", "b.mov", "c.avi", "d.mkv", "e.webm"}, 3)

	if !strings.Contains(out, "c.avi") {
		t.Errorf("expected third item in output:\n%s", out)
	}
	if strings.Contains(out, "d.mkv") {
		t.Errorf("fourth item should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "... and 2 more") {
		t.Errorf("expected overflow line:\n%s", out)
	}
}

func TestTable_Render(t *testing.T) {
	table := NewTable([]TableColumn{
		{Header: "FILE"},
		{Header: "SIZE", Align: "right"},
	})
	table.AddRow([]string{"bridge.jpg", "1.5 KB"})
	table.AddRow([]string{"spin.gif", "10.0 MB"})

	out := table.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "bridge.jpg") || !strings.Contains(out, "10.0 MB") {
		t.Errorf("missing cell content:\n%s", out)
	}

	if NewTable(nil).Render() != "" {
		t.Error("table without columns should render empty")
	}
}

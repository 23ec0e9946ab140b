package display

import (
	"strings"
	"testing"
)

func TestColorDisabled(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(shouldEnable()) })

	for name, fn := range map[string]func(string) string{
		"Bold": Bold, "Dim": Dim, "Green": Green, "Red": Red, "Accent": Accent,
	} {
		if got := fn("fajr"); got != "fajr" {
			t.Errorf("%s with colors off = %q, want plain text", name, got)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	SetEnabled(true)
	t.Cleanup(func() { SetEnabled(shouldEnable()) })

	if got := Green("fajr"); got != "\033[32mfajr\033[0m" {
		t.Errorf("Green = %q", got)
	}
	if got := Accent("asr"); got != "\033[1m\033[36masr\033[0m" {
		t.Errorf("Accent = %q", got)
	}
}

func TestTableRender(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(shouldEnable()) })

	tbl := NewTable([]string{"Prayer", "Time", ""})
	tbl.AddRow([]string{"Fajr", "04:30 AM", ""})
	tbl.AddRow([]string{"Dhuhr", "12:05 PM", "← now"})
	tbl.AddRow([]string{"Maghrib", "06:45 PM", ""})

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want header + separator + 3 rows:\n%s", len(lines), out)
	}

	if !strings.Contains(lines[0], "Prayer") || !strings.Contains(lines[0], "Time") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("separator line = %q", lines[1])
	}
	if !strings.Contains(lines[3], "Dhuhr") || !strings.Contains(lines[3], "← now") {
		t.Errorf("row line = %q", lines[3])
	}

	// Columns align: every row starts its Time column at the same offset.
	fajrIdx := strings.Index(lines[2], "04:30 AM")
	maghribIdx := strings.Index(lines[4], "06:45 PM")
	if fajrIdx != maghribIdx {
		t.Errorf("Time column misaligned: %d vs %d", fajrIdx, maghribIdx)
	}
}

func TestTableHighlightRow(t *testing.T) {
	SetEnabled(true)
	t.Cleanup(func() { SetEnabled(shouldEnable()) })

	tbl := NewTable([]string{"Prayer", "Time"})
	tbl.AddRow([]string{"Fajr", "04:30 AM"})
	tbl.AddRow([]string{"Asr", "04:20 PM"})
	tbl.SetHighlightRow(1)

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if strings.Contains(lines[2], "\033[36m") {
		t.Errorf("unhighlighted row carries accent codes: %q", lines[2])
	}
	if !strings.Contains(lines[3], "\033[36m") {
		t.Errorf("highlighted row missing accent codes: %q", lines[3])
	}
}

func TestTableShortRow(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(shouldEnable()) })

	tbl := NewTable([]string{"Prayer", "Time"})
	tbl.AddRow([]string{"Isha"})
	out := tbl.Render()
	if !strings.Contains(out, "Isha") {
		t.Errorf("short row dropped: %q", out)
	}
}

func TestEmptyTable(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render with no headers = %q, want empty", got)
	}
}

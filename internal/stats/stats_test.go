package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/barkeep/internal/store"
)

func record(start time.Time, chars int, dur time.Duration) store.Record {
	return store.Record{
		StartedAt: start,
		EndedAt:   start.Add(dur),
		Chars:     chars,
		Duration:  dur,
	}
}

func TestAverageWPMWeightsByDuration(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []store.Record{
		// 60 WPM over 10 minutes, 120 WPM over 1 minute.
		record(base, 3000, 10*time.Minute),
		record(base.Add(time.Hour), 600, time.Minute),
	}
	// 720 words over 11 minutes, well below the naive mean of 90.
	want := 720.0 / 11.0
	if got := AverageWPM(records); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAverageWPMEmpty(t *testing.T) {
	if got := AverageWPM(nil); got != 0 {
		t.Fatalf("expected 0 for no records, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{2, 4, 6, 8}
	got := MovingAverage(values, 2)
	want := []float64{2, 3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestMovingAverageWindowOneCopies(t *testing.T) {
	values := []float64{1, 2, 3}
	got := MovingAverage(values, 1)
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("index %d: expected %v, got %v", i, values[i], got[i])
		}
	}
	got[0] = 99
	if values[0] != 1 {
		t.Fatalf("input slice must not be aliased")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("expected 3 chars, got %q", line)
	}
	if line[0] != ' ' || line[2] != '@' {
		t.Fatalf("expected full range from lowest to highest, got %q", line)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if flat != "+++" {
		t.Fatalf("flat values must use the middle glyph, got %q", flat)
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderReport(&b, nil, 10); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(b.String(), "No typing sessions found.") {
		t.Fatalf("unexpected output: %q", b.String())
	}
}

func TestRenderReport(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []store.Record{
		record(base, 300, time.Minute),
		record(base.Add(time.Hour), 600, time.Minute),
	}

	var b strings.Builder
	if err := RenderReport(&b, records, 10); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Summary",
		"Sessions: 2",
		"Avg WPM: 90.00",
		"Best WPM: 120.00",
		"Characters: 900",
		"Typing time: 2m0s",
		"WPM Trend",
		"Recent Sessions",
		"Ended",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in report:\n%s", want, out)
		}
	}

	// Recent sessions are listed newest first.
	newest := strings.Index(out, "13:01:00")
	oldest := strings.Index(out, "12:01:00")
	if newest == -1 || oldest == -1 || newest > oldest {
		t.Fatalf("expected newest session first:\n%s", out)
	}
}

func TestFormatTableAlignment(t *testing.T) {
	headers := []string{"Name", "Chars"}
	rows := [][]string{
		{"short", "5"},
		{"a longer name", "12345"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(lines))
	}
	if lines[1] != "short             5" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if lines[2] != "a longer name 12345" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil for empty table, got %v", lines)
	}
}

package keys

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/barkeep/internal/wpm"
)

func decodeLine(t *testing.T, line string) map[string]string {
	t.Helper()
	var payload map[string]string
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("invalid waybar JSON %q: %v", line, err)
	}
	return payload
}

func TestPlainRendering(t *testing.T) {
	r := &Renderer{}
	units := []Unit{{Key: "c", Count: 3}, {Key: "⌃ + v", Count: 1}}
	if got := r.Plain(units); got != "c^3 ⌃ + v" {
		t.Fatalf("unexpected plain output: %q", got)
	}
	if got := r.Plain(nil); got != "" {
		t.Fatalf("expected empty output for empty buffer, got %q", got)
	}
}

func TestWaybarRendering(t *testing.T) {
	r := &Renderer{}
	units := []Unit{{Key: "b", Count: 2}, {Key: "a", Count: 1}}
	payload := decodeLine(t, r.Waybar(units, nil, time.Now()))

	text := payload["text"]
	if !strings.Contains(text, "<sub>a</sub>") {
		t.Fatalf("expected old units in subscript: %q", text)
	}
	if !strings.Contains(text, `size="x-large"`) {
		t.Fatalf("expected enlarged newest unit: %q", text)
	}
	if !strings.Contains(text, `<sup><span weight="bold" style="italic">2</span></sup>`) {
		t.Fatalf("expected count superscript: %q", text)
	}
}

func TestWaybarEscapesMarkup(t *testing.T) {
	r := &Renderer{}
	payload := decodeLine(t, r.Waybar([]Unit{{Key: "<", Count: 1}}, nil, time.Now()))
	if !strings.Contains(payload["text"], "&lt;") {
		t.Fatalf("expected pango escaping, got %q", payload["text"])
	}
}

func TestWaybarEmptyWithTrackerKeepsTooltip(t *testing.T) {
	r := &Renderer{}
	tracker := wpm.NewTracker(2*time.Second, nil)
	payload := decodeLine(t, r.Waybar(nil, tracker, time.Now()))
	if payload["text"] != " " {
		t.Fatalf("expected hoverable space, got %q", payload["text"])
	}
	if !strings.Contains(payload["tooltip"], "Average WPM: 0") {
		t.Fatalf("expected zero stats tooltip, got %q", payload["tooltip"])
	}
}

func TestWaybarEmptyWithoutTracker(t *testing.T) {
	r := &Renderer{}
	payload := decodeLine(t, r.Waybar(nil, nil, time.Now()))
	if payload["text"] != "" {
		t.Fatalf("expected empty text, got %q", payload["text"])
	}
}

func TestRTLOrdering(t *testing.T) {
	r := &Renderer{RTL: true}
	units := []Unit{{Key: "c", Count: 1}, {Key: "b", Count: 1}, {Key: "a", Count: 1}}
	payload := decodeLine(t, r.Waybar(units, nil, time.Now()))
	if !strings.Contains(payload["text"], "<sub>a b</sub>") {
		t.Fatalf("expected oldest-first subscript in RTL, got %q", payload["text"])
	}
}

func TestGaugeColorRamp(t *testing.T) {
	r := &Renderer{Gauge: true}
	now := time.Now()

	colorAt := func(wpmTarget float64) string {
		// One session: chars chosen so the open session hits the target WPM
		// after one minute.
		tracker := wpm.NewTracker(time.Hour, nil)
		chars := int(wpmTarget * 5)
		start := now.Add(-time.Minute)
		for i := 0; i < chars; i++ {
			key := "KEY_A"
			if i%2 == 1 {
				key = "KEY_B"
			}
			tracker.Add(key, true, start)
		}
		return r.gaugeColor(tracker, now)
	}

	if got := colorAt(20); got != "" {
		t.Fatalf("below 30 WPM there must be no color, got %q", got)
	}
	if got := colorAt(30); got != "#ffffff" {
		t.Fatalf("expected white at 30 WPM, got %q", got)
	}
	if got := colorAt(200); got != "#ff0000" {
		t.Fatalf("expected red cap, got %q", got)
	}
}

func TestGaugeDisabledReturnsNoColor(t *testing.T) {
	r := &Renderer{}
	tracker := wpm.NewTracker(time.Hour, nil)
	if got := r.gaugeColor(tracker, time.Now()); got != "" {
		t.Fatalf("expected no color with gauge off, got %q", got)
	}
}

package waybar

import (
	"encoding/json"
	"testing"
)

func TestLine(t *testing.T) {
	line := Output{Text: "hello", Tooltip: "tip", Class: "normal"}.Line()

	var decoded map[string]string
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", line, err)
	}
	if decoded["text"] != "hello" || decoded["tooltip"] != "tip" || decoded["class"] != "normal" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestLineOmitsEmptyFields(t *testing.T) {
	line := Output{Text: "x"}.Line()
	if line != `{"text":"x"}` {
		t.Fatalf("unexpected line: %q", line)
	}
}

func TestEscape(t *testing.T) {
	if got := Escape(`<b> & "quotes"`); got != `&lt;b&gt; &amp; "quotes"` {
		t.Fatalf("unexpected escape: %q", got)
	}
	// Ampersands escape first so entities are not double-escaped.
	if got := Escape("&lt;"); got != "&amp;lt;" {
		t.Fatalf("unexpected escape: %q", got)
	}
}

func TestMarkupHelpers(t *testing.T) {
	if got := Bold("x"); got != "<b>x</b>" {
		t.Fatalf("unexpected bold: %q", got)
	}
	if got := Sup("2"); got != "<sup>2</sup>" {
		t.Fatalf("unexpected sup: %q", got)
	}
	if got := Span("x", `weight="bold"`, `size="x-large"`); got != `<span weight="bold" size="x-large">x</span>` {
		t.Fatalf("unexpected span: %q", got)
	}
	if got := Span("x"); got != "x" {
		t.Fatalf("span without attrs must pass through, got %q", got)
	}
}

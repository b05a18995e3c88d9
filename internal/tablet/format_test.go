package tablet

import (
	"strings"
	"testing"
)

func TestModeIcon(t *testing.T) {
	if ModeIcon("Artist Mode") != iconArtist {
		t.Fatalf("unexpected artist icon")
	}
	if ModeIcon("Absolute Mode") != iconAbsolute {
		t.Fatalf("unexpected absolute icon")
	}
	if ModeIcon("Relative Mode") != iconRelative {
		t.Fatalf("unexpected relative icon")
	}
	if ModeIcon("") != iconArtist {
		t.Fatalf("unknown mode should fall back to artist icon")
	}
}

func TestCleanBinding(t *testing.T) {
	if got := CleanBinding("Key Binding: { Key: Left Mouse Button }"); got != " Mouse Button" {
		t.Fatalf("unexpected key cleanup: %q", got)
	}
	if got := CleanBinding("Multi-Key Binding: { Keys: Control+Z }"); got != "Ctrl+Z" {
		t.Fatalf("unexpected keys cleanup: %q", got)
	}
	if got := CleanBinding("Mouse Binding: { Button: Pen Button 2 }"); got != "Btn2" {
		t.Fatalf("unexpected button cleanup: %q", got)
	}
}

func TestStatusOutputContent(t *testing.T) {
	s := ParseSettings(sampleSettings)
	out := StatusOutput(s, []string{"Drawing", "Gaming"}, "Drawing")

	if !strings.Contains(out.Text, "<b>") {
		t.Fatalf("expected bold text, got %q", out.Text)
	}
	if !strings.Contains(out.Text, "Drawing") {
		t.Fatalf("expected preset name in text, got %q", out.Text)
	}
	if !strings.Contains(out.Tooltip, "Tablet: Wacom Intuos Pro M") {
		t.Fatalf("expected tablet line in tooltip:\n%s", out.Tooltip)
	}
	if !strings.Contains(out.Tooltip, "<b>Drawing</b>") {
		t.Fatalf("expected current preset bold in tooltip:\n%s", out.Tooltip)
	}
	if !strings.Contains(out.Tooltip, "Click to cycle forward") {
		t.Fatalf("expected cycle hint in tooltip:\n%s", out.Tooltip)
	}
	if out.Class != "normal" {
		t.Fatalf("unexpected class: %q", out.Class)
	}
}

func TestErrorAndNoPresetOutputs(t *testing.T) {
	out := NoPresetsOutput()
	if out.Class != "error" || !strings.Contains(out.Text, "No Presets") {
		t.Fatalf("unexpected no-presets output: %+v", out)
	}
	out = ErrorOutput(nil)
	if out.Class != "error" || !strings.Contains(out.Text, "Error") {
		t.Fatalf("unexpected error output: %+v", out)
	}
}

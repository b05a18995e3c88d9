package keys

import "testing"

func TestParseEventValid(t *testing.T) {
	ev, ok := ParseEvent(`{"key_name": "KEY_A", "state_name": "PRESSED"}`)
	if !ok {
		t.Fatalf("expected valid event")
	}
	if ev.KeyName != "KEY_A" || ev.StateName != StatePressed {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseEventRejectsNoise(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"starting up...",
		`{"broken json`,
		`{"key_name": "REL_X", "state_name": "PRESSED"}`,
		`{"state_name": "PRESSED"}`,
	}
	for _, line := range lines {
		if _, ok := ParseEvent(line); ok {
			t.Fatalf("expected %q to be rejected", line)
		}
	}
}

func TestBlocked(t *testing.T) {
	if !Blocked("KEY_CAMERA") {
		t.Fatalf("expected KEY_CAMERA to be blocked")
	}
	if Blocked("KEY_A") {
		t.Fatalf("KEY_A must not be blocked")
	}
}

func TestIsPrintable(t *testing.T) {
	printable := []string{"KEY_A", "KEY_Z", "KEY_0", "KEY_SPACE", "KEY_COMMA", "KEY_ENTER", "KEY_TAB"}
	for _, key := range printable {
		if !IsPrintable(key) {
			t.Fatalf("expected %s to be printable", key)
		}
	}
	notPrintable := []string{
		"KEY_LEFTSHIFT", "KEY_CAPSLOCK", "KEY_ESC", "KEY_BACKSPACE",
		"KEY_F1", "KEY_F12", "KEY_LEFT", "KEY_PAGEUP", "BTN_LEFT",
	}
	for _, key := range notPrintable {
		if IsPrintable(key) {
			t.Fatalf("expected %s to not be printable", key)
		}
	}
}

// Package keys turns the showmethekey-cli event stream into a rolling
// key-combination display with typing-speed statistics.
package keys

import (
	"encoding/json"
	"strings"
)

// Event is one key event line from showmethekey-cli.
type Event struct {
	KeyName   string `json:"key_name"`
	StateName string `json:"state_name"`
}

// Key state names as emitted by showmethekey-cli.
const (
	StatePressed  = "PRESSED"
	StateReleased = "RELEASED"
)

// Keys that confuse state parsing and are dropped entirely.
var blockedKeys = map[string]struct{}{
	"KEY_CAMERA": {},
}

// ParseEvent decodes one stream line. It returns ok=false for lines that are
// not key events: blank lines, non-JSON noise, malformed JSON, and events
// without a KEY_/BTN_ name. Malformed input never stops the stream.
func ParseEvent(line string) (Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "{") {
		return Event{}, false
	}
	var ev Event
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return Event{}, false
	}
	if !strings.HasPrefix(ev.KeyName, "KEY_") && !strings.HasPrefix(ev.KeyName, "BTN_") {
		return Event{}, false
	}
	return ev, true
}

// Blocked reports whether the key is on the block list.
func Blocked(keyName string) bool {
	_, ok := blockedKeys[keyName]
	return ok
}

// IsPrintable reports whether a key produces a character that counts toward
// typing speed. Mouse buttons, modifiers, navigation, function and control
// keys do not.
func IsPrintable(keyName string) bool {
	if !strings.HasPrefix(keyName, "KEY_") {
		return false
	}
	clean := keyName[4:]

	if _, ok := modifierKeys[clean]; ok {
		return false
	}
	if clean == "CAPSLOCK" {
		return false
	}
	switch clean {
	case "LEFT", "RIGHT", "UP", "DOWN", "HOME", "END",
		"PAGEUP", "PAGEDOWN", "INSERT", "DELETE":
		return false
	case "ESC", "BACKSPACE", "PAUSE", "SCROLLLOCK", "NUMLOCK",
		"PRINT", "SYSRQ", "BREAK":
		return false
	}
	if len(clean) > 1 && clean[0] == 'F' && isDigits(clean[1:]) {
		return false
	}

	if len(clean) == 1 && (isLetter(clean[0]) || isDigit(clean[0])) {
		return true
	}
	switch clean {
	case "SPACE", "APOSTROPHE", "GRAVE", "MINUS", "EQUAL",
		"LEFTBRACE", "RIGHTBRACE", "BACKSLASH", "SEMICOLON",
		"COMMA", "DOT", "SLASH", "ENTER", "TAB":
		return true
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

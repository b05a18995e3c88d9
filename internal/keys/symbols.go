package keys

import "strings"

// Mode selects how combinations are rendered.
type Mode string

const (
	// ModeCompose shows the full modifier+key combination.
	ModeCompose Mode = "compose"
	// ModeCompact shows the resulting character where possible.
	ModeCompact Mode = "compact"
	// ModeRaw shows cleaned key names without symbol substitution.
	ModeRaw Mode = "raw"
)

// ParseMode validates a mode string, defaulting to compose.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeCompose, ModeCompact, ModeRaw:
		return Mode(s), true
	case "":
		return ModeCompose, true
	default:
		return ModeCompose, false
	}
}

// Modifier key names without their KEY_ prefix.
var modifierKeys = map[string]struct{}{
	"LEFTSHIFT":  {},
	"RIGHTSHIFT": {},
	"LEFTCTRL":   {},
	"RIGHTCTRL":  {},
	"LEFTALT":    {},
	"RIGHTALT":   {},
	"LEFTMETA":   {},
	"RIGHTMETA":  {},
}

// Display glyphs for special keys and mouse buttons.
var specialKeys = map[string]string{
	"LEFTSHIFT":  "⇧",
	"RIGHTSHIFT": "⇧",
	"LEFTCTRL":   "⌃",
	"RIGHTCTRL":  "⌃",
	"LEFTALT":    "⌥",
	"RIGHTALT":   "⌥",
	"LEFTMETA":   "\U000f031b",
	"RIGHTMETA":  "\U000f031b",
	"CAPSLOCK":   "⇪",
	"ENTER":      "⏎",
	"SPACE":      "␣",
	"TAB":        "⇥",
	"BACKSPACE":  "⌫",
	"DELETE":     "⌦",
	"ESC":        "⎋",
	"HOME":       "↖",
	"END":        "↘",
	"PAGEUP":     "⇞",
	"PAGEDOWN":   "⇟",
	"INSERT":     "⎀",
	"LEFT":       "←",
	"RIGHT":      "→",
	"UP":         "↑",
	"DOWN":       "↓",
	"APOSTROPHE": "'",
	"GRAVE":      "`",
	"MINUS":      "-",
	"EQUAL":      "=",
	"LEFTBRACE":  "[",
	"RIGHTBRACE": "]",
	"BACKSLASH":  `\`,
	"SEMICOLON":  ";",
	"COMMA":      ",",
	"DOT":        ".",
	"SLASH":      "/",

	"BTN_LEFT":    "◀",
	"BTN_RIGHT":   "▶",
	"BTN_MIDDLE":  "●",
	"BTN_SIDE":    "◄",
	"BTN_EXTRA":   "►",
	"BTN_FORWARD": "⮞",
	"BTN_BACK":    "⮜",
}

// Shifted character map used by compact mode.
var shiftMap = map[string]string{
	"1":          "!",
	"2":          "@",
	"3":          "#",
	"4":          "$",
	"5":          "%",
	"6":          "^",
	"7":          "&",
	"8":          "*",
	"9":          "(",
	"0":          ")",
	"GRAVE":      "~",
	"MINUS":      "_",
	"EQUAL":      "+",
	"LEFTBRACE":  "{",
	"RIGHTBRACE": "}",
	"BACKSLASH":  "|",
	"SEMICOLON":  ":",
	"APOSTROPHE": `"`,
	"COMMA":      "<",
	"DOT":        ">",
	"SLASH":      "?",
}

func isModifier(keyName string) bool {
	_, ok := modifierKeys[stripPrefix(keyName)]
	return ok
}

func stripPrefix(keyName string) string {
	if strings.HasPrefix(keyName, "KEY_") || strings.HasPrefix(keyName, "BTN_") {
		return keyName[4:]
	}
	return keyName
}

// cleanKeyName renders one key for display. Shift and caps-lock state decide
// letter case; compact mode substitutes shifted symbols.
func cleanKeyName(keyName string, mode Mode, shiftPressed, capsOn bool) string {
	if keyName == "" {
		return ""
	}
	clean := keyName
	if strings.HasPrefix(keyName, "KEY_") {
		clean = keyName[4:]
	}
	if mode == ModeRaw {
		return clean
	}

	if sym, ok := specialKeys[keyName]; ok && strings.HasPrefix(keyName, "BTN_") {
		return sym
	}
	if sym, ok := specialKeys[clean]; ok {
		return sym
	}

	if len(clean) == 1 && isLetter(clean[0]) {
		if shiftPressed != capsOn {
			return strings.ToUpper(clean)
		}
		return strings.ToLower(clean)
	}

	if len(clean) == 1 {
		if shiftPressed && mode == ModeCompact {
			if shifted, ok := shiftMap[clean]; ok {
				return shifted
			}
		}
		return clean
	}

	if strings.HasPrefix(clean, "KP") {
		return clean[2:]
	}
	return title(clean)
}

// title lowercases a key name and capitalizes its first letter, the way
// PAGEDOWN becomes Pagedown.
func title(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

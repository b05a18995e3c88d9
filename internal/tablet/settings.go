// Package tablet talks to the OpenTabletDriver CLI and parses its output.
package tablet

import "strings"

// BindingType classifies a parsed binding string.
type BindingType int

const (
	BindingKey BindingType = iota
	BindingMultiKey
	BindingPenButton
	BindingArtistButton
)

// Binding is the structured form of one binding string.
type Binding struct {
	Type  BindingType
	Value string
}

// Settings holds one parsed snapshot of `otd getallsettings`.
type Settings struct {
	TabletName      string
	OutputMode      string
	OutputModePath  string
	TipBinding      string
	PenBindings     []string
	ExpressBindings []string
	DisplayArea     string
	TabletArea      string

	ParsedPen     []Binding
	ParsedExpress []Binding
}

// Output mode names map to the serialized mode paths preset files use.
var modePaths = map[string]string{
	"Artist Mode":   "OpenTabletDriver.Desktop.Output.LinuxArtistMode",
	"Absolute Mode": "OpenTabletDriver.Desktop.Output.AbsoluteMode",
	"Relative Mode": "OpenTabletDriver.Desktop.Output.RelativeMode",
}

// ParseSettings extracts tablet settings from the getallsettings text dump.
// Unrecognized lines are ignored; the result may be incomplete.
func ParseSettings(output string) *Settings {
	s := &Settings{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "--- Profile for '") && strings.HasSuffix(line, "' ---"):
			s.TabletName = line[len("--- Profile for '") : len(line)-len("' ---")]
		case strings.HasPrefix(line, "Output Mode: '") && strings.HasSuffix(line, "'"):
			s.OutputMode = line[len("Output Mode: '") : len(line)-1]
			s.OutputModePath = modePaths[s.OutputMode]
		case strings.HasPrefix(line, "Tip Binding: "):
			s.TipBinding = line[len("Tip Binding: "):]
		case strings.HasPrefix(line, "Pen Bindings: "):
			s.PenBindings = splitBindingList(line[len("Pen Bindings: "):])
			s.ParsedPen = parseBindings(s.PenBindings)
		case strings.HasPrefix(line, "Express Key Bindings: "):
			s.ExpressBindings = splitBindingList(line[len("Express Key Bindings: "):])
			s.ParsedExpress = parseBindings(s.ExpressBindings)
		case strings.HasPrefix(line, "Display area: "):
			s.DisplayArea = line[len("Display area: "):]
		case strings.HasPrefix(line, "Tablet area: "):
			s.TabletArea = line[len("Tablet area: "):]
		}
	}
	return s
}

// Complete reports whether the snapshot carries the fields every consumer
// needs; an incomplete snapshot is treated as a failed poll.
func (s *Settings) Complete() bool {
	return s != nil && s.TabletName != "" && s.OutputMode != ""
}

// ExpressKeySet returns the key values of express bindings for set matching.
func (s *Settings) ExpressKeySet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, b := range s.ParsedExpress {
		if b.Type == BindingKey || b.Type == BindingMultiKey {
			set[b.Value] = struct{}{}
		}
	}
	return set
}

// PenButtonSet returns the button values of pen bindings for set matching.
func (s *Settings) PenButtonSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, b := range s.ParsedPen {
		if b.Type == BindingPenButton || b.Type == BindingArtistButton {
			set[b.Value] = struct{}{}
		}
	}
	return set
}

func splitBindingList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "None" {
		return nil
	}
	parts := strings.Split(raw, "', '")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), "'")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBindings(raw []string) []Binding {
	var out []Binding
	for _, s := range raw {
		if b, ok := parseBinding(s); ok {
			out = append(out, b)
		}
	}
	return out
}

// parseBinding decodes the binding formats getallsettings emits.
func parseBinding(s string) (Binding, bool) {
	switch {
	case strings.Contains(s, "Key Binding: { Key:"):
		return Binding{Type: BindingKey, Value: between(s, "Key: ", " }")}, true
	case strings.Contains(s, "Multi-Key Binding: { Keys:"):
		return Binding{Type: BindingMultiKey, Value: between(s, "Keys: ", " }")}, true
	case strings.Contains(s, "Button: Pen Button"):
		return Binding{Type: BindingPenButton, Value: between(s, "Button: ", " }")}, true
	case strings.Contains(s, "Linux Artist Mode:"):
		inner := between(s, "Linux Artist Mode: { ", " }")
		if strings.Contains(inner, "Button:") {
			return Binding{Type: BindingArtistButton, Value: after(inner, "Button: ")}, true
		}
	}
	return Binding{}, false
}

func between(s, start, end string) string {
	s = after(s, start)
	if i := strings.Index(s, end); i >= 0 {
		return s[:i]
	}
	return s
}

func after(s, marker string) string {
	if i := strings.Index(s, marker); i >= 0 {
		return s[i+len(marker):]
	}
	return s
}

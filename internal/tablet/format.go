package tablet

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/barkeep/internal/waybar"
)

// Output mode icons for the compact waybar text.
const (
	iconArtist   = "\U000f03d8"
	iconAbsolute = ""
	iconRelative = "\U000f030c"
)

// ModeIcon picks the status icon for an output mode name.
func ModeIcon(mode string) string {
	lower := strings.ToLower(mode)
	switch {
	case strings.Contains(lower, "artist"):
		return iconArtist
	case strings.Contains(lower, "absolute"):
		return iconAbsolute
	case strings.Contains(lower, "relative"):
		return iconRelative
	default:
		return iconArtist
	}
}

// CleanBinding reduces a raw binding string to the action a human cares about.
func CleanBinding(binding string) string {
	switch {
	case strings.Contains(binding, "Key: "):
		key := between(binding, "Key: ", " }")
		key = strings.ReplaceAll(key, "Left", "")
		return strings.ReplaceAll(key, "Control", "Ctrl")
	case strings.Contains(binding, "Keys: "):
		keys := between(binding, "Keys: ", " }")
		return strings.ReplaceAll(keys, "Control", "Ctrl")
	case strings.Contains(binding, "Button: "):
		button := between(binding, "Button: ", " }")
		return strings.ReplaceAll(button, "Pen Button ", "Btn")
	default:
		return strings.TrimSpace(binding)
	}
}

// NoPresetsOutput is emitted when the presets directory is empty.
func NoPresetsOutput() waybar.Output {
	return waybar.Output{
		Text:    waybar.Bold(iconArtist + " No Presets"),
		Tooltip: "No OpenTabletDriver presets found",
		Class:   "error",
	}
}

// ErrorOutput is emitted when the settings poll failed after retries.
func ErrorOutput(err error) waybar.Output {
	tooltip := "Failed to get tablet settings after multiple retries"
	if err != nil {
		tooltip += "\n\nError: " + err.Error()
	}
	return waybar.Output{
		Text:    waybar.Bold("\U000f051b Error"),
		Tooltip: tooltip,
		Class:   "error",
	}
}

// StatusOutput builds the normal waybar payload: icon plus matched preset in
// the text, full settings and preset list in the tooltip.
func StatusOutput(settings *Settings, presets []string, current string) waybar.Output {
	mode := settings.OutputMode
	if mode == "" {
		mode = "Unknown"
	}
	name := settings.TabletName
	if name == "" {
		name = "Unknown Tablet"
	}

	text := waybar.Bold(ModeIcon(mode) + " " + waybar.Sup(waybar.Small(current)))

	lines := []string{
		waybar.Bold(waybar.Big(current)),
		"",
		"Tablet: " + name,
		"Mode: " + mode,
		"",
	}
	if bindings := bindingLines(settings); len(bindings) > 0 {
		lines = append(lines, bindings...)
		lines = append(lines, "")
	}
	lines = append(lines, "Presets:")
	for _, p := range presets {
		if p == current {
			lines = append(lines, "  "+waybar.Bold(p))
		} else {
			lines = append(lines, "  "+p)
		}
	}
	lines = append(lines, "", "Click to cycle forward")

	return waybar.Output{
		Text:    text,
		Tooltip: strings.Join(lines, "\n"),
		Class:   "normal",
	}
}

func bindingLines(s *Settings) []string {
	var lines []string

	tip := s.TipBinding
	if tip != "" && tip != "None" && tip != "Error" &&
		(strings.Contains(tip, "Key:") || strings.Contains(tip, "Button:") || strings.Contains(tip, "Keys:")) {
		if at := strings.LastIndex(tip, "@"); at >= 0 {
			action, threshold := tip[:at], tip[at+1:]
			lines = append(lines, waybar.Bold("Tip:"), fmt.Sprintf("      %s (at %s)", CleanBinding(action), threshold))
		} else {
			lines = append(lines, waybar.Bold("Tip:"), "      "+CleanBinding(tip))
		}
	}

	if len(s.PenBindings) > 0 {
		lines = append(lines, waybar.Bold("Pen Buttons:"))
		for _, b := range s.PenBindings {
			lines = append(lines, "      • "+CleanBinding(b))
		}
	}
	if len(s.ExpressBindings) > 0 {
		lines = append(lines, waybar.Bold("Express Keys:"))
		for _, b := range s.ExpressBindings {
			lines = append(lines, "      • "+CleanBinding(b))
		}
	}
	return lines
}

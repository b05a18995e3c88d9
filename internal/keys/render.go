package keys

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/barkeep/internal/waybar"
	"github.com/verte-zerg/barkeep/internal/wpm"
)

// Renderer turns the accumulated units into plain or waybar output.
type Renderer struct {
	// RTL puts the newest unit on the right.
	RTL bool
	// Gauge colors the newest unit by current typing speed.
	Gauge bool
}

// Plain renders the buffer as space-joined "key^count" units, newest first.
func (r *Renderer) Plain(units []Unit) string {
	if len(units) == 0 {
		return ""
	}
	newest, old := r.split(units)
	parts := make([]string, 0, len(units))
	parts = append(parts, plainUnit(newest))
	for _, u := range old {
		parts = append(parts, plainUnit(u))
	}
	return strings.Join(parts, " ")
}

// Waybar renders the buffer as a waybar JSON line. Older units share one
// subscript block; the newest unit is bold and enlarged, tinted by typing
// speed when the gauge is on. With an active tracker an empty buffer still
// emits a single space so the tooltip stays hoverable.
func (r *Renderer) Waybar(units []Unit, tracker *wpm.Tracker, now time.Time) string {
	out := waybar.Output{}
	if tracker != nil {
		out.Tooltip = WPMTooltip(tracker, now)
	}

	if len(units) == 0 {
		if tracker != nil {
			out.Text = " "
		}
		return out.Line()
	}

	newest, old := r.split(units)
	parts := make([]string, 0, 2)
	if len(old) > 0 {
		oldMarked := make([]string, 0, len(old))
		for _, u := range old {
			oldMarked = append(oldMarked, markedUnit(u))
		}
		parts = append(parts, "<sub>"+strings.Join(oldMarked, " ")+"</sub>")
	}

	current := markedUnit(newest)
	if color := r.gaugeColor(tracker, now); color != "" {
		parts = append(parts, fmt.Sprintf(`<span weight="bold" size="x-large" color="%s">%s</span>`, color, current))
	} else {
		parts = append(parts, fmt.Sprintf(`<span weight="bold" size="x-large">%s</span>`, current))
	}

	out.Text = strings.Join(parts, " ")
	return out.Line()
}

// split separates the newest unit from the rest, ordering the rest for the
// configured direction. Units arrive newest first.
func (r *Renderer) split(units []Unit) (Unit, []Unit) {
	newest := units[0]
	old := make([]Unit, 0, len(units)-1)
	if r.RTL {
		for i := len(units) - 1; i >= 1; i-- {
			old = append(old, units[i])
		}
	} else {
		old = append(old, units[1:]...)
	}
	return newest, old
}

func plainUnit(u Unit) string {
	if u.Count > 1 {
		return fmt.Sprintf("%s^%d", u.Key, u.Count)
	}
	return u.Key
}

func markedUnit(u Unit) string {
	key := waybar.Escape(u.Key)
	if u.Count > 1 {
		return fmt.Sprintf(`%s<sup><span weight="bold" style="italic">%d</span></sup>`, key, u.Count)
	}
	return key
}

// WPMTooltip formats the typing-speed tooltip shared by normal and hidden
// display. Returns the zero form when no session has happened yet.
func WPMTooltip(tracker *wpm.Tracker, now time.Time) string {
	stats := tracker.Stats(now)
	if stats.SessionCount == 0 && stats.CurrentWPM == 0 {
		return "Average WPM: 0\nCharacters: 0\nSessions: 0"
	}
	return fmt.Sprintf("Average WPM: %.1f\nCharacters: %d\nSessions: %d",
		stats.AverageWPM, stats.CurrentChars, stats.SessionCount)
}

// gaugeColor maps the current typing speed to a hex color. Below 30 WPM the
// default foreground is kept; above it the ramp runs white, light blue,
// light green, green, yellow, red, capping at 140 WPM.
func (r *Renderer) gaugeColor(tracker *wpm.Tracker, now time.Time) string {
	if !r.Gauge || tracker == nil {
		return ""
	}
	cur := tracker.CurrentWPM(now)
	if cur < 30 {
		return ""
	}

	var red, green, blue int
	switch {
	case cur < 50:
		progress := (cur - 30) / 20
		red = int(255 - progress*100)
		green = int(255 - progress*50)
		blue = 255
	case cur < 70:
		progress := (cur - 50) / 20
		red = int(155 - progress*55)
		green = int(205 + progress*50)
		blue = int(255 - progress*155)
	case cur < 90:
		progress := (cur - 70) / 20
		red = int(100 - progress*50)
		green = 255
		blue = int(100 - progress*50)
	case cur < 110:
		progress := (cur - 90) / 20
		red = int(50 + progress*205)
		green = 255
		blue = int(50 - progress*50)
	default:
		progress := (cur - 110) / 30
		if progress > 1 {
			progress = 1
		}
		red = 255
		green = int(255 - progress*255)
		blue = 0
	}
	return fmt.Sprintf("#%02x%02x%02x", red, green, blue)
}

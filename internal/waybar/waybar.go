// Package waybar formats single-line JSON payloads for a waybar custom module.
package waybar

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Output is the payload waybar expects from a custom module script.
type Output struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

// Line renders the output as a single JSON line. Marshal of this struct
// cannot fail, so encoding errors degrade to an empty text payload.
func (o Output) Line() string {
	data, err := json.Marshal(o)
	if err != nil {
		return `{"text": ""}`
	}
	return string(data)
}

// Escape replaces characters that pango markup treats specially.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Bold wraps text in pango bold markup.
func Bold(s string) string {
	return "<b>" + s + "</b>"
}

// Sup wraps text in superscript markup.
func Sup(s string) string {
	return "<sup>" + s + "</sup>"
}

// Sub wraps text in subscript markup.
func Sub(s string) string {
	return "<sub>" + s + "</sub>"
}

// Small wraps text in small-size markup.
func Small(s string) string {
	return "<small>" + s + "</small>"
}

// Big wraps text in big-size markup.
func Big(s string) string {
	return "<big>" + s + "</big>"
}

// Span wraps text in a span with the given pango attributes.
func Span(s string, attrs ...string) string {
	if len(attrs) == 0 {
		return s
	}
	return fmt.Sprintf("<span %s>%s</span>", strings.Join(attrs, " "), s)
}

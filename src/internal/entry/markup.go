package entry

import (
	"fmt"
	"html"
	"strings"
)

// Markup selects how emphasis is written into rendered strings.
type Markup int

const (
	// Plain drops emphasis entirely.
	Plain Markup = iota
	// Markdown writes *italic*.
	Markdown
	// HTML writes <i>italic</i> and escapes record text.
	HTML
)

// ParseMarkup maps "plain", "markdown"/"md" and "html" onto a Markup.
func ParseMarkup(s string) (Markup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text":
		return Plain, nil
	case "markdown", "md":
		return Markdown, nil
	case "html":
		return HTML, nil
	}
	return Plain, fmt.Errorf("unknown markup %q (want plain, markdown or html)", s)
}

func (m Markup) String() string {
	switch m {
	case Markdown:
		return "markdown"
	case HTML:
		return "html"
	}
	return "plain"
}

// Escape makes record text safe for m.
func (m Markup) Escape(s string) string {
	if m == HTML {
		return html.EscapeString(s)
	}
	return s
}

// Italic wraps s in m's emphasis.
func (m Markup) Italic(s string) string {
	if s == "" {
		return ""
	}
	switch m {
	case Markdown:
		return "*" + s + "*"
	case HTML:
		return "<i>" + s + "</i>"
	}
	return s
}

// modifiers are the placeholder suffixes segment templates may use.
var modifiers = []string{"italic", "quoted", "squoted"}

func (m Markup) apply(modifier, s string) string {
	if s == "" {
		return ""
	}
	switch modifier {
	case "italic":
		return m.Italic(s)
	case "quoted":
		return `"` + s + `"`
	case "squoted":
		return "'" + s + "'"
	}
	return s
}

// visibleEnd strips trailing emphasis and quote markers so punctuation
// checks see the last printed character of the text itself.
func visibleEnd(s string) string {
	for {
		t := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(s, "</i>"), "*"), `"`)
		t = strings.TrimSuffix(t, "'")
		if t == s {
			return s
		}
		s = t
	}
}

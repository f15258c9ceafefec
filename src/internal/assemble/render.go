package assemble

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"

	"citeformat/src/internal/entry"
)

// orderedMarker matches a "12." entry label, which Markdown would otherwise
// read as a nested ordered list.
var orderedMarker = regexp.MustCompile(`^(\d+)\.`)

// RenderList joins entries into one string. Plain output is one entry per
// line; Markdown output is a bullet list; HTML output is that list converted
// with gomarkdown, so entries may carry Markdown emphasis or inline HTML.
func RenderList(entries []string, m entry.Markup) string {
	if len(entries) == 0 {
		return ""
	}
	if m == entry.Plain {
		return strings.Join(entries, "\n") + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString("- ")
		b.WriteString(orderedMarker.ReplaceAllString(e, `$1\.`))
		b.WriteString("\n")
	}
	if m == entry.Markdown {
		return b.String()
	}
	return string(markdown.ToHTML([]byte(b.String()), nil, nil))
}

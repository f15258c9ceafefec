// Package entry renders full bibliography entries from a record and a style's
// per-type segment rules.
package entry

import (
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2/log"

	"citeformat/src/internal/schema"
	"citeformat/src/internal/stringsx"
	"citeformat/src/internal/styles"
)

// Formatter renders bibliography entries in one markup.
type Formatter struct {
	Markup Markup
}

// New returns a Formatter writing m.
func New(m Markup) Formatter { return Formatter{Markup: m} }

// Format renders rec as a single bibliography entry under rs. Types without a
// rule of their own use the style's fallback chain down to the generic rule.
// Missing fields are left out along with their punctuation; Format never
// fails, and a record with no renderable fields yields "".
func (f Formatter) Format(rec schema.Record, rs styles.RuleSet) string {
	k := classify(rec.Type)
	rule := rs.Rule(rec.Type)
	log.Debugf("entry: %s (%s) as %s in %s", rec.ID, rec.Type, k, rs.ID)
	return render(rule, f.expand(fields(rec, rs, k)))
}

// expand escapes raw values for the markup and adds the modifier variants
// ("title:italic", "title:quoted", ...) a template may reference.
func (f Formatter) expand(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw)*(1+len(modifiers)))
	for k, v := range raw {
		v = f.Markup.Escape(v)
		out[k] = v
		for _, m := range modifiers {
			out[k+":"+m] = f.Markup.apply(m, v)
		}
	}
	return out
}

func render(rule styles.EntryRule, vals map[string]string) string {
	final := rule.Final
	if final == "" {
		final = "."
	}
	type part struct{ text, term string }
	parts := make([]part, 0, len(rule.Segments))
	for _, seg := range rule.Segments {
		if s := renderSegment(seg.Template, vals); s != "" {
			parts = append(parts, part{s, seg.Terminator})
		}
	}
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		term := p.term
		if i == len(parts)-1 && term != "" {
			term = final
		}
		out = append(out, terminate(p.text, term))
	}
	return strings.Join(out, " ")
}

// renderSegment substitutes one segment template. Placeholders outside <...>
// groups are required: if a known one is empty the segment is dropped. A
// group is kept only when all its placeholders have values. A segment that
// ends up with no field values at all is dropped too.
func renderSegment(tmpl string, vals map[string]string) string {
	var b strings.Builder
	filled := false
	for tmpl != "" {
		open := strings.IndexByte(tmpl, '<')
		lit := tmpl
		if open >= 0 {
			lit = tmpl[:open]
		}
		for _, p := range stringsx.Placeholders(lit) {
			v, known := vals[p]
			if known && v == "" {
				return ""
			}
			filled = filled || known
		}
		b.WriteString(stringsx.Substitute(lit, vals))
		if open < 0 {
			break
		}
		end := strings.IndexByte(tmpl[open:], '>')
		if end < 0 {
			b.WriteString(stringsx.Substitute(tmpl[open:], vals))
			break
		}
		group := tmpl[open+1 : open+end]
		if g := stringsx.Optional(group, vals); g != "" {
			b.WriteString(g)
			filled = filled || len(stringsx.Placeholders(group)) > 0
		}
		tmpl = tmpl[open+end+1:]
	}
	if !filled {
		return ""
	}
	return tidy(b.String())
}

var emptyWrappers = strings.NewReplacer("()", "", "( )", "", "[]", "", "[ ]", "")

// tidy collapses whitespace, removes empty brackets and trims separators left
// dangling at either end by dropped groups.
func tidy(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = emptyWrappers.Replace(s)
	s = strings.ReplaceAll(s, " ,", ",")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " ,;:")
}

// terminate appends punct to s. Sentence punctuation already at the end of
// the visible text is not doubled, and "." or "," goes inside a closing
// double quote.
func terminate(s, punct string) string {
	if s == "" || punct == "" {
		return s
	}
	end := visibleEnd(s)
	if strings.HasSuffix(end, punct) {
		return s
	}
	last, _ := utf8.DecodeLastRuneInString(end)
	sentenceEnd := last == '.' || last == '?' || last == '!'
	if punct == "." && sentenceEnd {
		return s
	}
	if strings.HasSuffix(s, `"`) && (punct == "." || punct == ",") {
		if sentenceEnd {
			return s
		}
		return s[:len(s)-1] + punct + `"`
	}
	return s + punct
}

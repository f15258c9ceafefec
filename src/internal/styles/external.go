package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"

	"citeformat/src/internal/schema"
)

// cslStyle is the small part of a CSL style document that is read. Layout
// and macro content is ignored; formatting always uses a built-in table.
type cslStyle struct {
	XMLName       xml.Name `xml:"style"`
	DefaultLocale string   `xml:"default-locale,attr"`
	Info          struct {
		Title      string `xml:"title"`
		TitleShort string `xml:"title-short"`
		ID         string `xml:"id"`
		Categories []struct {
			CitationFormat string `xml:"citation-format,attr"`
		} `xml:"category"`
	} `xml:"info"`
	Citation struct {
		EtAlMin      string `xml:"et-al-min,attr"`
		EtAlUseFirst string `xml:"et-al-use-first,attr"`
		Layout       struct {
			Prefix    string `xml:"prefix,attr"`
			Suffix    string `xml:"suffix,attr"`
			Delimiter string `xml:"delimiter,attr"`
			Inner     string `xml:",innerxml"`
		} `xml:"layout"`
	} `xml:"citation"`
}

// ImportExternal derives a rule set from a CSL style document. Only metadata
// is read (title, id, citation format, et-al thresholds, the citation
// layout's affixes); the entry layouts come from the closest built-in style.
// It never fails: every field that is missing or malformed falls back to the
// base style and is reported in the returned warnings.
func ImportExternal(doc []byte) (RuleSet, []string) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	var cs cslStyle
	if err := xml.NewDecoder(bytes.NewReader(doc)).Decode(&cs); err != nil {
		warn("style document is not readable CSL (%v); using apa defaults", err)
		rs := apa()
		rs.ID, rs.DisplayName = "imported", "Imported style"
		return rs, warnings
	}

	format := ""
	for _, c := range cs.Info.Categories {
		if c.CitationFormat != "" {
			format = c.CitationFormat
			break
		}
	}
	if format == "" && strings.Contains(cs.Citation.Layout.Inner, `variable="citation-number"`) {
		format = "numeric"
	}

	var rs RuleSet
	switch format {
	case "numeric":
		rs = ieee()
	case "author":
		rs = mla()
	case "author-date":
		rs = apa()
	case "note", "label":
		warn("citation format %q is rendered as author-date", format)
		rs = chicago()
	case "":
		warn("no citation format declared; using author-date")
		rs = apa()
	default:
		warn("unknown citation format %q; using author-date", format)
		rs = apa()
	}

	rs.ID = externalID(cs.Info.ID, cs.Info.TitleShort, cs.Info.Title)
	if rs.ID == "" {
		warn("style has no id or title; using %q", "imported")
		rs.ID = "imported"
	}
	rs.DisplayName = strings.TrimSpace(cs.Info.Title)
	if rs.DisplayName == "" {
		warn("style has no title; display name falls back to its id")
		rs.DisplayName = rs.ID
	}

	if loc := strings.ToLower(strings.TrimSpace(cs.DefaultLocale)); loc != "" && !strings.HasPrefix(loc, "en") {
		warn("default locale %q is not supported; rendering in English", cs.DefaultLocale)
	}

	if v, ok := attrInt(cs.Citation.EtAlMin, "et-al-min", warn); ok {
		rs.InlineNames.EtAlMin = v
	}
	if v, ok := attrInt(cs.Citation.EtAlUseFirst, "et-al-use-first", warn); ok {
		rs.InlineNames.EtAlUseFirst = v
	}

	l := cs.Citation.Layout
	if l.Prefix != "" || l.Suffix != "" {
		if rs.InlineNumbered {
			rs.InlineTemplate = l.Prefix + "{number}{locant}" + l.Suffix
			rs.InlineSuppressedTemplate = rs.InlineTemplate
		} else {
			rs.InlineTemplate = l.Prefix + unwrap(rs.InlineTemplate) + l.Suffix
			rs.InlineSuppressedTemplate = l.Prefix + unwrap(rs.InlineSuppressedTemplate) + l.Suffix
		}
	}
	if l.Delimiter != "" {
		rs.GroupDelimiter = l.Delimiter
	}
	return rs, warnings
}

func unwrap(tmpl string) string {
	return strings.TrimSuffix(strings.TrimPrefix(tmpl, "("), ")")
}

func externalID(id, short, title string) string {
	if id = strings.TrimSpace(id); id != "" {
		if seg := path.Base(strings.TrimRight(id, "/")); seg != "." && seg != "/" {
			return schema.Slugify(seg, nil)
		}
	}
	if s := schema.Slugify(short, nil); s != "" {
		return s
	}
	return schema.Slugify(title, nil)
}

func attrInt(raw, name string, warn func(string, ...any)) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		warn("ignoring %s=%q", name, raw)
		return 0, false
	}
	return n, true
}

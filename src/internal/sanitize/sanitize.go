package sanitize

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	strip "github.com/grokify/html-strip-tags-go"

	"citeformat/src/internal/names"
	"citeformat/src/internal/schema"
)

// CleanString trims and removes ASCII control characters except tab/newline/carriage
// return up to max runes (if max <= 0, no truncation).
func CleanString(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || (r >= 0x20 && r != 0x7f) {
			b.WriteRune(r)
			n++
			if max > 0 && n >= max {
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanText strips HTML markup and entities that imported titles often carry
// ("<i>E. coli</i> &amp; friends") and collapses whitespace.
func CleanText(s string, max int) string {
	s = CleanString(s, 0)
	if strings.ContainsAny(s, "<&") {
		s = html.UnescapeString(strip.StripTags(s))
	}
	return CleanString(strings.Join(strings.Fields(s), " "), max)
}

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	// remove embedded whitespace
	u.Path = strings.ReplaceAll(u.Path, " ", "%20")
	return u.String()
}

var doiPrefix = regexp.MustCompile(`(?i)^(?:https?://(?:dx\.)?doi\.org/|doi:\s*)`)

// CleanDOI strips resolver and "doi:" prefixes so only the bare 10.x/y name remains.
func CleanDOI(raw string) string {
	s := CleanString(raw, 128)
	s = doiPrefix.ReplaceAllString(s, "")
	if !strings.HasPrefix(s, "10.") {
		return ""
	}
	return s
}

// CleanNames sanitizes person names. Entries decoded from a list of strings
// and family-only entries that still hold a raw list ("Smith, J.; Doe, A.")
// are expanded with names.Parse.
func CleanNames(list schema.Names) schema.Names {
	if len(list) == 0 {
		return nil
	}
	const max = 256
	out := make(schema.Names, 0, len(list))
	for _, a := range list {
		fam := CleanText(a.Family, max)
		giv := CleanText(a.Given, max)
		if fam == "" && giv == "" {
			continue
		}
		if giv == "" && (a.Unparsed || strings.ContainsAny(fam, ";,")) {
			out = append(out, names.Parse(fam)...)
			continue
		}
		out = append(out, schema.PersonName{Family: fam, Given: giv})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CleanRecord applies conservative sanitization to all strings in the record.
func CleanRecord(r *schema.Record) {
	if r == nil {
		return
	}
	r.ID = CleanString(r.ID, 128)
	if r.Type == "" {
		r.Type = schema.Other
	}
	r.Title = CleanText(r.Title, 1024)
	r.ContainerTitle = CleanText(r.ContainerTitle, 512)
	r.Volume = CleanString(r.Volume, 64)
	r.Issue = CleanString(r.Issue, 64)
	r.Pages = CleanString(r.Pages, 64)
	r.Edition = CleanString(r.Edition, 128)
	r.Publisher = CleanText(r.Publisher, 512)
	r.PublicationPlace = CleanText(r.PublicationPlace, 256)
	r.Genre = CleanText(r.Genre, 128)
	r.DOI = CleanDOI(r.DOI)
	r.ISBN = CleanString(r.ISBN, 64)
	r.ISSN = CleanString(r.ISSN, 64)
	r.PMID = CleanString(r.PMID, 32)
	r.URL = CleanURL(r.URL)
	r.Authors = CleanNames(r.Authors)
	r.Editors = CleanNames(r.Editors)
}

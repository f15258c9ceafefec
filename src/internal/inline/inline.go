// Package inline renders in-text citation markers.
package inline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"citeformat/src/internal/dates"
	"citeformat/src/internal/names"
	"citeformat/src/internal/numbering"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/stringsx"
	"citeformat/src/internal/styles"
)

// NotFoundMarker is rendered in place of a citation whose record is unknown.
const NotFoundMarker = "[citation not found]"

// Format renders one occurrence. found reports whether rec was resolved; an
// unresolved occurrence renders NotFoundMarker. table supplies citation
// numbers and remembers which records were already cited, which selects the
// subsequent-citation name rules. A nil table numbers every call from 1.
func Format(occ schema.Occurrence, rec schema.Record, found bool, rs styles.RuleSet, table *numbering.Table) string {
	if !found {
		log.Warnf("inline: no record for citation %q (sequence %d)", occ.RecordID, occ.SequenceIndex)
		return NotFoundMarker
	}
	return affix(core(occ, rec, rs, table), occ.Prefix, occ.Suffix, rs.InlineNumbered)
}

// core renders the marker without prefix or suffix.
func core(occ schema.Occurrence, rec schema.Record, rs styles.RuleSet, table *numbering.Table) string {
	if table == nil {
		table = numbering.New()
	}
	pos := names.First
	if _, seen := table.Lookup(rec.ID); seen {
		pos = names.Subsequent
	}
	n := table.Assign(rec.ID)

	locant := ""
	if l := strings.TrimSpace(occ.Locant); l != "" {
		locant = stringsx.Substitute(rs.LocantTemplate, map[string]string{"page": l})
	}
	vals := map[string]string{
		"number": strconv.Itoa(n),
		"page":   strings.TrimSpace(occ.Locant),
		"locant": locant,
	}
	if !rs.InlineNumbered {
		vals["author"] = author(rec, rs, pos)
		vals["year"] = dates.Year(rec.Issued, rs.NoDate)
	}

	tmpl := rs.InlineTemplate
	if occ.SuppressAuthor {
		tmpl = rs.InlineSuppressedTemplate
	}
	out := render(tmpl, vals, locant)
	if occ.SuppressAuthor && isEmptyMarker(out) {
		out = render(rs.InlineTemplate, vals, locant)
	}
	return out
}

func render(tmpl string, vals map[string]string, locant string) string {
	out := strings.TrimSpace(stringsx.Substitute(tmpl, vals))
	if locant != "" && !strings.Contains(tmpl, "{locant}") && !strings.Contains(tmpl, "{page}") {
		// templates without a locant slot get it before the closing bracket
		if open, inner, close, ok := unwrap(out); ok {
			out = open + inner + locant + close
		} else {
			out += locant
		}
	}
	if open, inner, close, ok := unwrap(out); ok {
		return open + strings.TrimSpace(strings.TrimLeft(inner, " ,;")) + close
	}
	return out
}

func isEmptyMarker(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "()" || s == "[]"
}

// author picks the inline name: authors, then editors, then the anonymous
// placeholder. Styles with InlineTitleFallback use the quoted short title
// before the placeholder.
func author(rec schema.Record, rs styles.RuleSet, pos names.Position) string {
	switch {
	case len(rec.Authors) > 0:
		return names.Render(rec.Authors, rs.AuthorMode, pos, rs.InlineNames)
	case len(rec.Editors) > 0:
		return names.Render(rec.Editors, rs.AuthorMode, pos, rs.InlineNames)
	}
	if t := shortTitle(rec.Title); t != "" && rs.InlineTitleFallback {
		return `"` + t + `"`
	}
	return names.Render(nil, rs.AuthorMode, pos, rs.InlineNames)
}

// shortTitle cuts a title at its subtitle colon.
func shortTitle(title string) string {
	title = strings.TrimSpace(title)
	if i := strings.IndexAny(title, ":?"); i > 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title
}

// affix adds prefix and suffix text, space-joined. Author-date markers take
// them inside their parentheses; numbered markers keep them outside.
func affix(marker, prefix, suffix string, numbered bool) string {
	prefix, suffix = strings.TrimSpace(prefix), strings.TrimSpace(suffix)
	if prefix == "" && suffix == "" {
		return marker
	}
	if open, inner, close, ok := unwrap(marker); ok && !numbered {
		return open + stringsx.JoinNonEmpty(prefix, inner, suffix) + close
	}
	return stringsx.JoinNonEmpty(prefix, marker, suffix)
}

// unwrap splits "(inner)" or "[inner]".
func unwrap(s string) (open, inner, close string, ok bool) {
	if len(s) < 2 {
		return "", s, "", false
	}
	switch {
	case s[0] == '(' && s[len(s)-1] == ')', s[0] == '[' && s[len(s)-1] == ']':
		return s[:1], s[1 : len(s)-1], s[len(s)-1:], true
	}
	return "", s, "", false
}

// FormatGroup renders occurrences cited together as one marker: "(Smith,
// 2020; Doe, 2021)" or "[1, 3–5]". Numbers are sorted and runs of three or
// more consecutive numbers become ranges. The first occurrence's prefix and
// the last one's suffix frame the group. Unresolved occurrences are rendered
// as NotFoundMarker after the group.
func FormatGroup(occs []schema.Occurrence, lookup schema.Lookup, rs styles.RuleSet, table *numbering.Table) string {
	if len(occs) == 0 {
		return ""
	}
	if table == nil {
		table = numbering.New()
	}
	var (
		markers []string
		missing []string
	)
	for _, occ := range occs {
		rec, ok := lookup.Record(occ.RecordID)
		if !ok {
			missing = append(missing, Format(occ, rec, false, rs, table))
			continue
		}
		markers = append(markers, core(occ, rec, rs, table))
	}
	group := join(markers, rs)
	if group != "" {
		group = affix(group, occs[0].Prefix, occs[len(occs)-1].Suffix, rs.InlineNumbered)
	}
	return stringsx.JoinNonEmpty(append([]string{group}, missing...)...)
}

// join merges single markers into one set of brackets when they share them,
// and space-joins them otherwise.
func join(markers []string, rs styles.RuleSet) string {
	if len(markers) <= 1 {
		return strings.Join(markers, "")
	}
	var open, close string
	inners := make([]string, 0, len(markers))
	for i, m := range markers {
		o, in, c, ok := unwrap(m)
		if !ok || (i > 0 && (o != open || c != close)) {
			return strings.Join(markers, rs.GroupDelimiter)
		}
		open, close = o, c
		inners = append(inners, in)
	}
	if rs.InlineNumbered {
		if nums, ok := allNumbers(inners); ok {
			inners = compress(nums)
		}
	}
	return open + strings.Join(inners, rs.GroupDelimiter) + close
}

func allNumbers(parts []string) ([]int, bool) {
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// compress sorts and de-duplicates nums and collapses runs of three or more
// into "first–last".
func compress(nums []int) []string {
	sort.Ints(nums)
	uniq := make([]int, 0, len(nums))
	for _, n := range nums {
		if len(uniq) == 0 || n != uniq[len(uniq)-1] {
			uniq = append(uniq, n)
		}
	}
	var out []string
	for i := 0; i < len(uniq); {
		j := i
		for j+1 < len(uniq) && uniq[j+1] == uniq[j]+1 {
			j++
		}
		if j-i >= 2 {
			out = append(out, strconv.Itoa(uniq[i])+"–"+strconv.Itoa(uniq[j]))
		} else {
			for k := i; k <= j; k++ {
				out = append(out, strconv.Itoa(uniq[k]))
			}
		}
		i = j + 1
	}
	return out
}

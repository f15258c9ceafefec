package names

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"citeformat/src/internal/schema"
)

// Mode selects how a name list is rendered.
type Mode string

const (
	LastNameOnly Mode = "last-name-only"
	LastFirst    Mode = "last-first"
	FirstLast    Mode = "first-last"
)

// Valid reports whether m is one of the closed set of modes.
func (m Mode) Valid() bool {
	switch m {
	case LastNameOnly, LastFirst, FirstLast:
		return true
	}
	return false
}

// Position tells Render whether the list opens a citation (First) or repeats
// a source already cited in the same document (Subsequent).
type Position int

const (
	First Position = iota
	Subsequent
)

// DefaultAnonymous is rendered for an empty name list when Options leaves it unset.
const DefaultAnonymous = "Anonymous"

// Options tune Render for a particular style.
type Options struct {
	// Anonymous replaces an empty list.
	Anonymous string `yaml:"anonymous,omitempty" toml:"anonymous,omitempty"`
	// PairJoiner joins exactly two names ("&" style default " & ").
	PairJoiner string `yaml:"pair_joiner,omitempty" toml:"pair_joiner,omitempty"`
	// FinalJoiner precedes the last name of LastFirst lists and of any list of
	// three or more (default ", & ").
	FinalJoiner string `yaml:"final_joiner,omitempty" toml:"final_joiner,omitempty"`
	// Initials abbreviates given names ("Jane Q" -> "J. Q.").
	Initials bool `yaml:"initials,omitempty" toml:"initials,omitempty"`
	// InvertAll renders every name "Family, Given" in LastFirst mode, not only the first.
	InvertAll bool `yaml:"invert_all,omitempty" toml:"invert_all,omitempty"`
	// EtAlMin truncates lists of at least this many names (0 disables; in
	// LastNameOnly mode 0 means 3).
	EtAlMin int `yaml:"et_al_min,omitempty" toml:"et_al_min,omitempty"`
	// EtAlUseFirst is how many names are kept when truncating (default 1).
	EtAlUseFirst int `yaml:"et_al_use_first,omitempty" toml:"et_al_use_first,omitempty"`
	// EtAlJoiner precedes "et al." in truncated lists (default ", ").
	EtAlJoiner string `yaml:"et_al_joiner,omitempty" toml:"et_al_joiner,omitempty"`
	// SubsequentEtAlMin applies to Subsequent positions in LastNameOnly mode
	// (0 means same as the first position).
	SubsequentEtAlMin int `yaml:"subsequent_et_al_min,omitempty" toml:"subsequent_et_al_min,omitempty"`
	// InvertedSeparator sits between family and given in inverted names (default ", ").
	InvertedSeparator string `yaml:"inverted_separator,omitempty" toml:"inverted_separator,omitempty"`
	// CompactInitials renders initials without periods or spaces ("JR"); implies Initials.
	CompactInitials bool `yaml:"compact_initials,omitempty" toml:"compact_initials,omitempty"`
}

func (o Options) anonymous() string {
	if o.Anonymous == "" {
		return DefaultAnonymous
	}
	return o.Anonymous
}

func (o Options) pairJoiner() string {
	if o.PairJoiner == "" {
		return " & "
	}
	return o.PairJoiner
}

func (o Options) invertedSeparator() string {
	if o.InvertedSeparator == "" {
		return ", "
	}
	return o.InvertedSeparator
}

func (o Options) finalJoiner() string {
	if o.FinalJoiner == "" {
		return ", & "
	}
	return o.FinalJoiner
}

var (
	listSep     = regexp.MustCompile(`(?i)\s*(?:;|\s&\s|\band\b)\s*`)
	initialsTok = regexp.MustCompile(`^(?:\p{Lu}\.?-?)+$`)
)

// Parse splits a raw author string into person names. Names are separated by
// semicolons, the tokens "and"/"&", or commas between full names. "Family,
// Given" pairs are recognised when the part after the comma looks like given
// names. Once semicolons or "and" delimit the list, a chunk with a single
// comma is always one inverted name ("Smith, John Paul"). Parse never fails:
// input without separators becomes one name.
func Parse(raw string) []schema.PersonName {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var chunks []string
	for _, chunk := range listSep.Split(raw, -1) {
		if chunk = strings.Trim(strings.TrimSpace(chunk), ","); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	delimited := len(chunks) > 1
	var out []schema.PersonName
	for _, chunk := range chunks {
		out = append(out, splitCommaList(chunk, delimited)...)
	}
	return out
}

// splitCommaList resolves commas inside one separator-free chunk: either a
// single inverted name ("Smith, John") or a list ("John Smith, Jane Doe").
func splitCommaList(chunk string, delimited bool) []schema.PersonName {
	if delimited && strings.Count(chunk, ",") == 1 {
		fam, giv, _ := strings.Cut(chunk, ",")
		fam, giv = strings.TrimSpace(fam), strings.TrimSpace(giv)
		if fam != "" && giv != "" {
			return []schema.PersonName{{Family: fam, Given: giv}}
		}
	}
	parts := strings.Split(chunk, ",")
	var out []schema.PersonName
	for i := 0; i < len(parts); i++ {
		cur := strings.TrimSpace(parts[i])
		if cur == "" {
			continue
		}
		if i+1 < len(parts) && len(strings.Fields(cur)) == 1 {
			next := strings.TrimSpace(parts[i+1])
			if next != "" && looksGiven(next) {
				out = append(out, schema.PersonName{Family: cur, Given: next})
				i++
				continue
			}
		}
		out = append(out, fromDisplay(cur))
	}
	return out
}

// looksGiven reports whether s reads like given names following an inverted
// family name: initials ("J.", "J. R.") or a short run of capitalised words.
func looksGiven(s string) bool {
	f := strings.Fields(s)
	if len(f) == 0 {
		return false
	}
	allInitials := true
	for _, w := range f {
		if !initialsTok.MatchString(w) {
			allInitials = false
			break
		}
	}
	if allInitials {
		return true
	}
	// "Smith, John" is inverted; "Smith, John Doe" more likely a list.
	return len(f) == 1
}

// fromDisplay splits "Given Names Family": the last token is the family name.
func fromDisplay(s string) schema.PersonName {
	f := strings.Fields(s)
	switch len(f) {
	case 0:
		return schema.PersonName{}
	case 1:
		return schema.PersonName{Family: f[0]}
	}
	return schema.PersonName{Family: f[len(f)-1], Given: strings.Join(f[:len(f)-1], " ")}
}

// Render formats a name list for the given mode. pos only affects truncation
// (see Options.SubsequentEtAlMin).
func Render(list []schema.PersonName, mode Mode, pos Position, opts Options) string {
	list = nonEmpty(list)
	if len(list) == 0 {
		return opts.anonymous()
	}
	if mode == LastNameOnly {
		return renderShort(list, pos, opts)
	}
	etAlMin := opts.EtAlMin
	truncated := false
	if etAlMin > 0 && len(list) >= etAlMin {
		keep := opts.EtAlUseFirst
		if keep <= 0 {
			keep = 1
		}
		if keep < len(list) {
			list = list[:keep]
			truncated = true
		}
	}
	parts := make([]string, 0, len(list))
	for i, n := range list {
		inverted := mode == LastFirst && (i == 0 || opts.InvertAll)
		parts = append(parts, one(n, inverted, opts))
	}
	if truncated {
		joiner := opts.EtAlJoiner
		if joiner == "" {
			joiner = ", "
		}
		return strings.Join(parts, ", ") + joiner + "et al."
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		if mode == LastFirst {
			return parts[0] + opts.finalJoiner() + parts[1]
		}
		return parts[0] + opts.pairJoiner() + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + opts.finalJoiner() + parts[len(parts)-1]
}

func renderShort(list []schema.PersonName, pos Position, opts Options) string {
	first := displayFamily(list[0])
	min := 3
	if opts.EtAlMin > 0 {
		min = opts.EtAlMin
	}
	if pos == Subsequent && opts.SubsequentEtAlMin > 0 {
		min = opts.SubsequentEtAlMin
	}
	switch {
	case len(list) >= min:
		return first + " et al."
	case len(list) == 2:
		return first + opts.pairJoiner() + displayFamily(list[1])
	}
	return first
}

func one(n schema.PersonName, inverted bool, opts Options) string {
	fam := strings.TrimSpace(n.Family)
	giv := strings.TrimSpace(n.Given)
	switch {
	case opts.CompactInitials:
		giv = strings.NewReplacer(".", "", " ", "").Replace(Initials(giv))
	case opts.Initials:
		giv = Initials(giv)
	}
	switch {
	case fam == "":
		return giv
	case giv == "":
		return fam
	case inverted:
		return fam + opts.invertedSeparator() + giv
	}
	return fmt.Sprintf("%s %s", giv, fam)
}

func displayFamily(n schema.PersonName) string {
	if f := strings.TrimSpace(n.Family); f != "" {
		return f
	}
	return strings.TrimSpace(n.Given)
}

func nonEmpty(list []schema.PersonName) []schema.PersonName {
	out := make([]schema.PersonName, 0, len(list))
	for _, n := range list {
		if strings.TrimSpace(n.Family) == "" && strings.TrimSpace(n.Given) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SortKey returns a lowercase "family given" key for alphabetical ordering.
func SortKey(n schema.PersonName) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimSpace(n.Family) + " " + strings.TrimSpace(n.Given)))
}

// Initials converts a given name string into spaced initials: "Jane Q" -> "J. Q.".
// Hyphenated names keep the hyphen: "Jean-Paul" -> "J.-P.".
func Initials(given string) string {
	given = strings.TrimSpace(given)
	if given == "" {
		return ""
	}
	var out []string
	for _, w := range strings.Fields(given) {
		var segs []string
		for _, part := range strings.Split(w, "-") {
			r := []rune(strings.TrimFunc(part, func(r rune) bool { return !unicode.IsLetter(r) }))
			if len(r) == 0 {
				continue
			}
			segs = append(segs, strings.ToUpper(string(r[0]))+".")
		}
		if len(segs) > 0 {
			out = append(out, strings.Join(segs, "-"))
		}
	}
	return strings.Join(out, " ")
}

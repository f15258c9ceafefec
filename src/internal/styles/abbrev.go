package styles

import (
	"regexp"
	"strings"
)

// journalWords is applied in order; longer words come first so that e.g.
// "International" is not split by a shorter match.
var journalWords = []struct{ word, abbr string }{
	{"International", "Int."},
	{"Transactions", "Trans."},
	{"Proceedings", "Proc."},
	{"Engineering", "Eng."},
	{"Conference", "Conf."},
	{"Medicine", "Med."},
	{"American", "Am."},
	{"Research", "Res."},
	{"Computer", "Comput."},
	{"Journal", "J."},
	{"Science", "Sci."},
	{"Society", "Soc."},
	{"Review", "Rev."},
}

var (
	functionWords = regexp.MustCompile(`(?i)\b(?:of the|of|the|and|on|in|for)\s+`)
	abbrPatterns  = compileJournalWords()
)

func compileJournalWords() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(journalWords))
	for i, w := range journalWords {
		out[i] = regexp.MustCompile(`\b` + w.word + `\b`)
	}
	return out
}

// Abbreviate shortens a journal name with the static abbreviation table
// ("American Journal of Medicine" -> "Am. J. Med.").
// Function words are removed only when at least one word was abbreviated.
func Abbreviate(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	out := name
	for i, re := range abbrPatterns {
		out = re.ReplaceAllString(out, journalWords[i].abbr)
	}
	if out == name {
		return name
	}
	first, rest := splitFirstWord(out)
	rest = functionWords.ReplaceAllString(rest, "")
	return strings.Join(strings.Fields(first+" "+rest), " ")
}

// splitFirstWord keeps a leading "The" out of function-word removal.
func splitFirstWord(s string) (string, string) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

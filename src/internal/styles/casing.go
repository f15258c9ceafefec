package styles

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleCaser = cases.Title(language.English)
	lowerCaser = cases.Lower(language.English)
)

var minorWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true, "or": true, "nor": true,
	"for": true, "so": true, "yet": true, "as": true, "at": true, "by": true, "in": true,
	"of": true, "off": true, "on": true, "per": true, "to": true, "up": true, "via": true,
	"from": true, "into": true, "with": true, "over": true,
}

// ApplyTitleCase re-cases a title. Title case capitalises lowercase words
// except minor words in the middle; sentence case lowercases capitalised
// words except the first word and the word after a colon. Acronyms and mixed
// case words ("DNA", "iPhone") are never changed.
func ApplyTitleCase(s string, mode TitleCase) string {
	switch mode {
	case CaseTitle:
		return toTitle(s)
	case CaseSentence:
		return toSentence(s)
	}
	return s
}

func toTitle(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		core := strings.TrimFunc(w, notLetter)
		if core == "" || core != lowerCaser.String(core) {
			continue
		}
		edge := i == 0 || i == len(words)-1 || strings.HasSuffix(words[i-1], ":")
		if minorWords[core] && !edge {
			continue
		}
		words[i] = strings.Replace(w, core, titleCaser.String(core), 1)
	}
	return strings.Join(words, " ")
}

func toSentence(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		core := strings.TrimFunc(w, notLetter)
		if core == "" || !isCapitalised(core) {
			continue
		}
		if i == 0 || strings.HasSuffix(words[i-1], ":") || strings.HasSuffix(words[i-1], "?") {
			continue
		}
		words[i] = strings.Replace(w, core, lowerCaser.String(core), 1)
	}
	return strings.Join(words, " ")
}

// isCapitalised reports an initial capital followed only by lowercase
// letters, which is the only shape safe to lowercase.
func isCapitalised(w string) bool {
	r := []rune(w)
	if len(r) < 2 || !unicode.IsUpper(r[0]) {
		return len(r) == 1 && unicode.IsUpper(r[0]) && r[0] != 'I'
	}
	for _, c := range r[1:] {
		if unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

func notLetter(r rune) bool { return !unicode.IsLetter(r) }

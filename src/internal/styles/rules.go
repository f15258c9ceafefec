// Package styles holds citation style rule sets and the registry that
// resolves a style id to its rules.
package styles

import (
	"errors"
	"fmt"
	"strings"

	"citeformat/src/internal/names"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/stringsx"
)

// ErrInvalidStyleConfig wraps every registration-time validation failure.
var ErrInvalidStyleConfig = errors.New("invalid style config")

// ErrStyleNotFound is returned for ids that were never registered.
var ErrStyleNotFound = errors.New("style not found")

// Order selects how bibliography entries are sequenced.
type Order string

const (
	OrderAppearance   Order = "appearance"
	OrderAlphabetical Order = "alphabetical"
)

// JournalFormat controls journal-name abbreviation.
type JournalFormat string

const (
	JournalFull        JournalFormat = "full"
	JournalAbbreviated JournalFormat = "abbreviated"
)

// TitleCase controls how titles are re-cased before rendering.
type TitleCase string

const (
	CaseAsIs     TitleCase = "as-is"
	CaseTitle    TitleCase = "title"
	CaseSentence TitleCase = "sentence"
)

// Segment is one self-terminated part of a bibliography entry. Template
// placeholders are {field} or {field:italic|quoted|squoted}; text inside
// <...> is an optional group dropped unless all its placeholders have values.
// A segment whose placeholders are all empty is dropped entirely.
type Segment struct {
	Template string `yaml:"template" toml:"template"`
	// Terminator is appended when another segment follows. On the last
	// segment, a non-empty Terminator is replaced by the entry's final
	// punctuation; an empty one leaves the entry unterminated (e.g. a DOI).
	Terminator string `yaml:"terminator,omitempty" toml:"terminator,omitempty"`
}

// EntryRule is the ordered layout for one entry type.
type EntryRule struct {
	Segments []Segment `yaml:"segments" toml:"segments"`
	// Final punctuation for the entry (default ".").
	Final string `yaml:"final,omitempty" toml:"final,omitempty"`
}

// RuleSet is one named style's behaviour.
type RuleSet struct {
	ID          string `yaml:"id" toml:"id"`
	DisplayName string `yaml:"display_name" toml:"display_name"`

	InlineNumbered           bool   `yaml:"inline_numbered" toml:"inline_numbered"`
	InlineTemplate           string `yaml:"inline_template" toml:"inline_template"`
	InlineSuppressedTemplate string `yaml:"inline_suppressed_template,omitempty" toml:"inline_suppressed_template,omitempty"`
	// LocantTemplate renders {page}; the result fills {locant} in inline templates.
	LocantTemplate string `yaml:"locant_template,omitempty" toml:"locant_template,omitempty"`
	// GroupDelimiter separates citations grouped in one marker.
	GroupDelimiter string `yaml:"group_delimiter,omitempty" toml:"group_delimiter,omitempty"`

	AuthorMode  names.Mode    `yaml:"author_render_mode" toml:"author_render_mode"`
	InlineNames names.Options `yaml:"inline_names,omitempty" toml:"inline_names,omitempty"`
	// InlineTitleFallback shows the quoted short title instead of the anonymous
	// placeholder when a record has no authors or editors.
	InlineTitleFallback bool `yaml:"inline_title_fallback,omitempty" toml:"inline_title_fallback,omitempty"`

	BibliographyNameMode names.Mode    `yaml:"bibliography_name_mode,omitempty" toml:"bibliography_name_mode,omitempty"`
	BibliographyNames    names.Options `yaml:"bibliography_names,omitempty" toml:"bibliography_names,omitempty"`
	EditorNameMode       names.Mode    `yaml:"editor_name_mode,omitempty" toml:"editor_name_mode,omitempty"`
	EditorNames          names.Options `yaml:"editor_names,omitempty" toml:"editor_names,omitempty"`
	EditorLabel          string        `yaml:"editor_label,omitempty" toml:"editor_label,omitempty"`
	EditorLabelPlural    string        `yaml:"editor_label_plural,omitempty" toml:"editor_label_plural,omitempty"`

	BibliographyOrder Order         `yaml:"bibliography_order,omitempty" toml:"bibliography_order,omitempty"`
	JournalFormat     JournalFormat `yaml:"journal_format,omitempty" toml:"journal_format,omitempty"`
	TitleCase         TitleCase     `yaml:"title_case,omitempty" toml:"title_case,omitempty"`
	// NoDate is rendered for records without a resolvable date (default "n.d.").
	NoDate string `yaml:"no_date,omitempty" toml:"no_date,omitempty"`
	// EntryLabel prefixes numbered bibliography entries, e.g. "[{number}]".
	EntryLabel string `yaml:"entry_label,omitempty" toml:"entry_label,omitempty"`

	Entries map[schema.EntryType]EntryRule `yaml:"-" toml:"-"`
}

// Info is the listing view of a registered style.
type Info struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// RequiredEntryTypes must have a rule in every registered style. Other is the
// generic fallback for every type without its own rule.
var RequiredEntryTypes = []schema.EntryType{schema.Book, schema.Article, schema.Other}

// Rule returns the entry rule for t, following the fallback chain
// (e.g. magazine-article -> newspaper-article -> article) down to Other.
func (rs RuleSet) Rule(t schema.EntryType) EntryRule {
	for _, c := range fallbackChain(t) {
		if r, ok := rs.Entries[c]; ok && len(r.Segments) > 0 {
			return r
		}
	}
	return rs.Entries[schema.Other]
}

func fallbackChain(t schema.EntryType) []schema.EntryType {
	switch t {
	case schema.MagazineArticle:
		return []schema.EntryType{t, schema.NewspaperArticle, schema.Article}
	case schema.NewspaperArticle:
		return []schema.EntryType{t, schema.Article}
	case schema.ConferencePaper:
		return []schema.EntryType{t, schema.Chapter}
	case schema.Thesis:
		return []schema.EntryType{t, schema.Book}
	case schema.Report:
		return []schema.EntryType{t, schema.Book}
	}
	return []schema.EntryType{t}
}

// withDefaults fills optional fields with their documented defaults.
func (rs RuleSet) withDefaults() RuleSet {
	rs.ID = strings.ToLower(strings.TrimSpace(rs.ID))
	rs.DisplayName = strings.TrimSpace(rs.DisplayName)
	if rs.DisplayName == "" {
		rs.DisplayName = rs.ID
	}
	if rs.InlineSuppressedTemplate == "" {
		rs.InlineSuppressedTemplate = rs.InlineTemplate
	}
	if rs.LocantTemplate == "" {
		rs.LocantTemplate = ", p. {page}"
	}
	if rs.GroupDelimiter == "" {
		rs.GroupDelimiter = "; "
		if rs.InlineNumbered {
			rs.GroupDelimiter = ", "
		}
	}
	if rs.BibliographyNameMode == "" {
		rs.BibliographyNameMode = names.LastFirst
	}
	if rs.EditorNameMode == "" {
		rs.EditorNameMode = names.FirstLast
	}
	if rs.EditorLabel == "" {
		rs.EditorLabel = "Ed."
	}
	if rs.EditorLabelPlural == "" {
		rs.EditorLabelPlural = "Eds."
	}
	if rs.BibliographyOrder == "" {
		rs.BibliographyOrder = OrderAlphabetical
		if rs.InlineNumbered {
			rs.BibliographyOrder = OrderAppearance
		}
	}
	if rs.JournalFormat == "" {
		rs.JournalFormat = JournalFull
	}
	if rs.TitleCase == "" {
		rs.TitleCase = CaseAsIs
	}
	if rs.NoDate == "" {
		rs.NoDate = "n.d."
	}
	return rs
}

// Validate reports the first missing or out-of-range field, wrapped in
// ErrInvalidStyleConfig.
func (rs RuleSet) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: style %q: %s", ErrInvalidStyleConfig, rs.ID, fmt.Sprintf(format, args...))
	}
	if rs.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidStyleConfig)
	}
	if strings.TrimSpace(rs.InlineTemplate) == "" {
		return bad("inline_template is required")
	}
	if rs.InlineNumbered && !hasPlaceholder(rs.InlineTemplate, "number") {
		return bad("numbered inline_template must reference {number}")
	}
	if !rs.InlineNumbered && !hasPlaceholder(rs.InlineTemplate, "author") && !hasPlaceholder(rs.InlineTemplate, "year") {
		return bad("inline_template must reference {author} or {year}")
	}
	for field, m := range map[string]names.Mode{
		"author_render_mode":     rs.AuthorMode,
		"bibliography_name_mode": rs.BibliographyNameMode,
		"editor_name_mode":       rs.EditorNameMode,
	} {
		if !m.Valid() {
			return bad("%s %q is not one of last-name-only, last-first, first-last", field, m)
		}
	}
	switch rs.BibliographyOrder {
	case OrderAppearance, OrderAlphabetical:
	default:
		return bad("bibliography_order %q is not one of appearance, alphabetical", rs.BibliographyOrder)
	}
	switch rs.JournalFormat {
	case JournalFull, JournalAbbreviated:
	default:
		return bad("journal_format %q is not one of full, abbreviated", rs.JournalFormat)
	}
	switch rs.TitleCase {
	case CaseAsIs, CaseTitle, CaseSentence:
	default:
		return bad("title_case %q is not one of as-is, title, sentence", rs.TitleCase)
	}
	for t := range rs.Entries {
		if !knownType(t) {
			return bad("entry rule for unknown type %q", t)
		}
	}
	for _, t := range RequiredEntryTypes {
		r, ok := rs.Entries[t]
		if !ok || len(r.Segments) == 0 {
			return bad("bibliography rule for %q is required", t)
		}
	}
	for t, r := range rs.Entries {
		for i, s := range r.Segments {
			if strings.TrimSpace(s.Template) == "" {
				return bad("entry rule %q segment %d has an empty template", t, i)
			}
		}
	}
	return nil
}

func hasPlaceholder(tmpl, name string) bool {
	for _, p := range stringsx.Placeholders(tmpl) {
		if p == name {
			return true
		}
	}
	return false
}

func knownType(t schema.EntryType) bool {
	for _, k := range schema.EntryTypes {
		if k == t {
			return true
		}
	}
	return false
}

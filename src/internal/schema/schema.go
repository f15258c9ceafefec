package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"citeformat/src/internal/dates"
)

// EntryType is the closed set of record kinds the entry formatter dispatches on.
type EntryType string

const (
	Article          EntryType = "article"
	Book             EntryType = "book"
	Chapter          EntryType = "chapter"
	ConferencePaper  EntryType = "conference-paper"
	Thesis           EntryType = "thesis"
	Webpage          EntryType = "webpage"
	Report           EntryType = "report"
	NewspaperArticle EntryType = "newspaper-article"
	MagazineArticle  EntryType = "magazine-article"
	Dataset          EntryType = "dataset"
	Software         EntryType = "software"
	Other            EntryType = "other"
)

// EntryTypes lists every member of the closed set.
var EntryTypes = []EntryType{
	Article, Book, Chapter, ConferencePaper, Thesis, Webpage, Report,
	NewspaperArticle, MagazineArticle, Dataset, Software, Other,
}

// typeAliases maps CSL, BibTeX and legacy names onto the closed set.
var typeAliases = map[string]EntryType{
	"journal-article":   Article,
	"article-journal":   Article,
	"journal":           Article,
	"paper":             Article,
	"monograph":         Book,
	"incollection":      Chapter,
	"inbook":            Chapter,
	"book-section":      Chapter,
	"inproceedings":     ConferencePaper,
	"paper-conference":  ConferencePaper,
	"conference":        ConferencePaper,
	"proceedings":       ConferencePaper,
	"phdthesis":         Thesis,
	"mastersthesis":     Thesis,
	"dissertation":      Thesis,
	"website":           Webpage,
	"web":               Webpage,
	"post-weblog":       Webpage,
	"techreport":        Report,
	"article-newspaper": NewspaperArticle,
	"newspaper":         NewspaperArticle,
	"article-magazine":  MagazineArticle,
	"magazine":          MagazineArticle,
	"data":              Dataset,
	"code":              Software,
	"misc":              Other,
}

// ParseEntryType maps s onto the closed set. Unknown values become Other; it
// never fails.
func ParseEntryType(s string) EntryType {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.ReplaceAll(k, "_", "-")
	for _, t := range EntryTypes {
		if string(t) == k {
			return t
		}
	}
	if t, ok := typeAliases[k]; ok {
		return t
	}
	return Other
}

// UnmarshalYAML normalises the type through ParseEntryType.
func (t *EntryType) UnmarshalYAML(value *yaml.Node) error {
	*t = ParseEntryType(value.Value)
	return nil
}

// PersonName is one author or editor. Organisations carry only Family.
type PersonName struct {
	Family string `yaml:"family" json:"family"`
	Given  string `yaml:"given,omitempty" json:"given,omitempty"`
	// Unparsed marks a display-form string from a YAML list ("Jane Doe") held
	// in Family until sanitize splits it into family and given.
	Unparsed bool `yaml:"-" json:"-"`
}

// Names is a slice of PersonName that can unmarshal from multiple YAML shapes:
// - a single string (treated as a corporate author; stored in Family)
// - a sequence of display-form strings (marked Unparsed)
// - a mapping (single PersonName object)
// - a sequence of PersonName mappings
type Names []PersonName

func (a *Names) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		// Single string author (e.g., corporate author)
		s := strings.TrimSpace(value.Value)
		if s == "" || s == "null" {
			*a = nil
			return nil
		}
		*a = Names{{Family: s}}
		return nil
	case yaml.SequenceNode:
		var out Names
		for _, n := range value.Content {
			if n.Kind == yaml.ScalarNode {
				s := strings.TrimSpace(n.Value)
				if s == "" {
					continue
				}
				out = append(out, PersonName{Family: s, Unparsed: true})
				continue
			}
			if n.Kind == yaml.MappingNode {
				var pn PersonName
				if err := n.Decode(&pn); err != nil {
					return err
				}
				if strings.TrimSpace(pn.Family) == "" && strings.TrimSpace(pn.Given) == "" {
					continue
				}
				out = append(out, pn)
			}
		}
		*a = out
		return nil
	case yaml.MappingNode:
		var pn PersonName
		if err := value.Decode(&pn); err != nil {
			return err
		}
		if strings.TrimSpace(pn.Family) == "" && strings.TrimSpace(pn.Given) == "" {
			*a = nil
			return nil
		}
		*a = Names{pn}
		return nil
	default:
		// Unknown shape; leave nil rather than erroring
		*a = nil
		return nil
	}
}

// Record is the canonical bibliographic input handed to the engine.
type Record struct {
	ID               string             `yaml:"id" json:"id"`
	Type             EntryType          `yaml:"type" json:"type"`
	Title            string             `yaml:"title" json:"title"`
	Authors          Names              `yaml:"authors,omitempty" json:"authors,omitempty"`
	Editors          Names              `yaml:"editors,omitempty" json:"editors,omitempty"`
	ContainerTitle   string             `yaml:"container_title,omitempty" json:"container_title,omitempty"`
	Issued           dates.CalendarDate `yaml:"issued,omitempty" json:"issued,omitempty"`
	Accessed         dates.CalendarDate `yaml:"accessed,omitempty" json:"accessed,omitempty"`
	Volume           string             `yaml:"volume,omitempty" json:"volume,omitempty"`
	Issue            string             `yaml:"issue,omitempty" json:"issue,omitempty"`
	Pages            string             `yaml:"pages,omitempty" json:"pages,omitempty"`
	Edition          string             `yaml:"edition,omitempty" json:"edition,omitempty"`
	Publisher        string             `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	PublicationPlace string             `yaml:"publication_place,omitempty" json:"publication_place,omitempty"`
	Genre            string             `yaml:"genre,omitempty" json:"genre,omitempty"`
	DOI              string             `yaml:"doi,omitempty" json:"doi,omitempty"`
	ISBN             string             `yaml:"isbn,omitempty" json:"isbn,omitempty"`
	ISSN             string             `yaml:"issn,omitempty" json:"issn,omitempty"`
	PMID             string             `yaml:"pmid,omitempty" json:"pmid,omitempty"`
	URL              string             `yaml:"url,omitempty" json:"url,omitempty"`
}

// Validate checks the only hard requirement for a stored record: an id. All
// other gaps are rendered around rather than rejected.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("id is required")
	}
	if r.Type == "" {
		r.Type = Other
	}
	return nil
}

// Occurrence is one use of a record within a document.
type Occurrence struct {
	RecordID       string `yaml:"record_id" json:"record_id"`
	Locant         string `yaml:"locant,omitempty" json:"locant,omitempty"`
	Prefix         string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Suffix         string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	SuppressAuthor bool   `yaml:"suppress_author,omitempty" json:"suppress_author,omitempty"`
	SequenceIndex  int    `yaml:"sequence_index" json:"sequence_index"`
}

// Lookup resolves record ids. Implementations return false for unknown ids.
type Lookup interface {
	Record(id string) (Record, bool)
}

// MapLookup is a Lookup backed by a map keyed by record id.
type MapLookup map[string]Record

// Record implements Lookup.
func (m MapLookup) Record(id string) (Record, bool) {
	r, ok := m[id]
	return r, ok
}

// NewMapLookup indexes records by id; later duplicates win.
func NewMapLookup(records ...Record) MapLookup {
	m := make(MapLookup, len(records))
	for _, r := range records {
		m[r.ID] = r
	}
	return m
}

// Document is a caller-side bundle of ordered citations for one render.
type Document struct {
	ID        string       `yaml:"id" json:"id"`
	Style     string       `yaml:"style,omitempty" json:"style,omitempty"`
	Citations []Occurrence `yaml:"citations" json:"citations"`
}

// UnmarshalYAML fills in sequence indexes from list position when the
// document omits them.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		ID        string      `yaml:"id"`
		Style     string      `yaml:"style"`
		Citations []yaml.Node `yaml:"citations"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	d.ID, d.Style = r.ID, r.Style
	d.Citations = make([]Occurrence, 0, len(r.Citations))
	for i, n := range r.Citations {
		var o Occurrence
		if n.Kind == yaml.ScalarNode {
			o.RecordID = strings.TrimSpace(n.Value)
		} else if err := n.Decode(&o); err != nil {
			return fmt.Errorf("citation %d: %w", i, err)
		}
		if !hasKey(&n, "sequence_index") {
			o.SequenceIndex = i
		}
		d.Citations = append(d.Citations, o)
	}
	return nil
}

func hasKey(n *yaml.Node, key string) bool {
	if n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
var dashCollapse = regexp.MustCompile(`-+`)

// Slugify generates an id-friendly slug from title and optional year.
func Slugify(title string, year *int) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "-")
	t = dashCollapse.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if year != nil {
		return fmt.Sprintf("%s-%d", t, *year)
	}
	return t
}

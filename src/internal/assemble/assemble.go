// Package assemble builds a document's bibliography: the ordered, de-duplicated
// entries for every cited record plus the inline marker of each occurrence.
package assemble

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"citeformat/src/internal/dates"
	"citeformat/src/internal/entry"
	"citeformat/src/internal/inline"
	"citeformat/src/internal/names"
	"citeformat/src/internal/numbering"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/stringsx"
	"citeformat/src/internal/styles"
)

// Result is one assembled bibliography.
type Result struct {
	// Entries are the formatted entries in bibliography order.
	Entries []string `json:"entries"`
	// Order holds the record id of each entry.
	Order []string `json:"order"`
	// Inline holds one marker per occurrence, in sequence order.
	Inline []string `json:"inline"`
	// Missing lists unresolved record ids in first-appearance order.
	Missing []string `json:"missing,omitempty"`
}

// Empty reports whether no record was cited.
func (r Result) Empty() bool { return len(r.Entries) == 0 }

// Assembler formats bibliographies. The zero value formats plain text
// without caching.
type Assembler struct {
	Entries entry.Formatter
	// Cache memoises results per document; nil disables caching.
	Cache Cache
}

// New returns an Assembler writing markup m and memoising into c (may be nil).
func New(m entry.Markup, c Cache) *Assembler {
	return &Assembler{Entries: entry.New(m), Cache: c}
}

// Assemble walks occs in sequence order, numbers them with a fresh table,
// and formats one entry per distinct resolved record. Unresolved ids are
// reported in Missing and excluded from the entries. docID names the
// document for caching; an empty docID is never cached.
func (a *Assembler) Assemble(docID string, occs []schema.Occurrence, lookup schema.Lookup, rs styles.RuleSet) Result {
	sorted := make([]schema.Occurrence, len(occs))
	copy(sorted, occs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SequenceIndex < sorted[j].SequenceIndex })

	records := make(map[string]schema.Record)
	found := make(map[string]bool)
	for _, o := range sorted {
		if _, done := found[o.RecordID]; done {
			continue
		}
		rec, ok := lookup.Record(o.RecordID)
		found[o.RecordID] = ok
		if ok {
			rec.ID = o.RecordID
			records[o.RecordID] = rec
		}
	}

	key := ""
	if docID != "" && a.Cache != nil {
		key = CacheKey(docID, rs, a.Entries.Markup, sorted, records)
		res, ok, err := a.Cache.Get(key)
		switch {
		case err != nil:
			log.Warnf("assemble: cache read for %s: %v", docID, err)
		case ok:
			log.Infof("assemble: cache hit for %s (%s)", docID, rs.ID)
			return res
		}
	}

	res := a.build(sorted, records, found, rs)

	if key != "" {
		if err := a.Cache.Put(key, res); err != nil {
			log.Warnf("assemble: cache write for %s: %v", docID, err)
		}
	}
	return res
}

func (a *Assembler) build(sorted []schema.Occurrence, records map[string]schema.Record, found map[string]bool, rs styles.RuleSet) Result {
	var res Result
	if len(sorted) == 0 {
		return res
	}
	table := numbering.New()
	missing := make(map[string]bool)
	for _, o := range sorted {
		rec, ok := records[o.RecordID]
		res.Inline = append(res.Inline, inline.Format(o, rec, ok, rs, table))
		if !found[o.RecordID] && !missing[o.RecordID] {
			missing[o.RecordID] = true
			res.Missing = append(res.Missing, o.RecordID)
		}
	}

	res.Order = table.Order()
	if rs.BibliographyOrder == styles.OrderAlphabetical {
		sortAlphabetical(res.Order, records)
	}
	for i, id := range res.Order {
		text := a.Entries.Format(records[id], rs)
		if rs.EntryLabel != "" {
			n := i + 1
			if rs.InlineNumbered {
				n, _ = table.Lookup(id)
			}
			label := stringsx.Substitute(rs.EntryLabel, map[string]string{"number": strconv.Itoa(n)})
			text = label + " " + text
		}
		res.Entries = append(res.Entries, text)
	}
	return res
}

// sortAlphabetical orders ids by first creator (collated, case-insensitive),
// then title, then year, then id.
func sortAlphabetical(ids []string, records map[string]schema.Record) {
	col := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := records[ids[i]], records[ids[j]]
		if c := col.CompareString(creatorKey(a), creatorKey(b)); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c < 0
		}
		if c := dates.Compare(a.Issued, b.Issued); c != 0 {
			return c < 0
		}
		return ids[i] < ids[j]
	})
}

// creatorKey is the first author, else the first editor, else the title
// without a leading article, matching where the entry itself starts.
func creatorKey(r schema.Record) string {
	switch {
	case len(r.Authors) > 0:
		return names.SortKey(r.Authors[0])
	case len(r.Editors) > 0:
		return names.SortKey(r.Editors[0])
	}
	t := strings.TrimSpace(r.Title)
	for _, art := range []string{"the ", "a ", "an "} {
		if len(t) > len(art) && strings.EqualFold(t[:len(art)], art) {
			return t[len(art):]
		}
	}
	return t
}

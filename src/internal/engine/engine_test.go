package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citeformat/src/internal/assemble"
	"citeformat/src/internal/dates"
	"citeformat/src/internal/entry"
	"citeformat/src/internal/inline"
	"citeformat/src/internal/names"
	"citeformat/src/internal/numbering"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/styles"
)

var (
	smith = schema.Record{
		ID:             "smith2023",
		Type:           schema.Article,
		Authors:        schema.Names{{Family: "Smith", Given: "J."}},
		Issued:         dates.CalendarDate{Year: 2023},
		Title:          "Test Article",
		ContainerTitle: "Test Journal",
	}
	doe = schema.Record{
		ID:      "doe2020",
		Type:    schema.Book,
		Authors: schema.Names{{Family: "Doe", Given: "Ann"}},
		Issued:  dates.CalendarDate{Year: 2020},
		Title:   "A Book",
	}
	lookup = schema.NewMapLookup(smith, doe)
)

func TestListStyles(t *testing.T) {
	var ids []string
	for _, s := range New().ListStyles() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"apa", "mla", "chicago", "harvard", "ieee", "vancouver"}, ids)
}

func TestFormatBibliographyEntryAPA(t *testing.T) {
	got, err := New().FormatBibliographyEntry(smith, "apa")
	require.NoError(t, err)
	assert.Equal(t, "Smith, J. (2023). Test Article. Test Journal.", got)

	md, err := New(WithMarkup(entry.Markdown)).FormatBibliographyEntry(smith, "apa")
	require.NoError(t, err)
	assert.Equal(t, "Smith, J. (2023). Test Article. *Test Journal*.", md)
}

func TestUnknownStyle(t *testing.T) {
	e := New()
	_, err := e.FormatBibliographyEntry(smith, "nope")
	assert.True(t, errors.Is(err, styles.ErrStyleNotFound))
	_, err = e.FormatInlineCitation(schema.Occurrence{RecordID: "smith2023"}, lookup, "nope")
	assert.True(t, errors.Is(err, styles.ErrStyleNotFound))
	_, err = e.AssembleBibliography("d", nil, lookup, "nope")
	assert.True(t, errors.Is(err, styles.ErrStyleNotFound))
}

func TestInlineScenarios(t *testing.T) {
	e := New()
	got, err := e.FormatInlineCitation(schema.Occurrence{RecordID: "smith2023", Locant: "4"}, lookup, "apa")
	require.NoError(t, err)
	assert.Equal(t, "(Smith, 2023, p. 4)", got)

	got, err = e.FormatInlineCitation(schema.Occurrence{RecordID: "ghost"}, lookup, "apa")
	require.NoError(t, err)
	assert.Equal(t, inline.NotFoundMarker, got)

	table := numbering.New()
	var markers []string
	for i, id := range []string{"smith2023", "doe2020", "smith2023"} {
		m, err := e.FormatInlineCitationWith(schema.Occurrence{RecordID: id, SequenceIndex: i}, lookup, "ieee", table)
		require.NoError(t, err)
		markers = append(markers, m)
	}
	assert.Equal(t, []string{"[1]", "[2]", "[1]"}, markers)

	group, err := e.FormatInlineGroup([]schema.Occurrence{{RecordID: "smith2023"}, {RecordID: "doe2020"}}, lookup, "apa", nil)
	require.NoError(t, err)
	assert.Equal(t, "(Smith, 2023; Doe, 2020)", group)
}

func TestAssembleGhostExcluded(t *testing.T) {
	occs := []schema.Occurrence{
		{RecordID: "smith2023", SequenceIndex: 0},
		{RecordID: "ghost", SequenceIndex: 1},
		{RecordID: "doe2020", SequenceIndex: 2},
	}
	res, err := New().AssembleBibliography("doc", occs, lookup, "ieee")
	require.NoError(t, err)
	assert.Equal(t, []string{"smith2023", "doe2020"}, res.Order)
	assert.Equal(t, []string{"ghost"}, res.Missing)
	for _, e := range res.Entries {
		assert.NotContains(t, e, "ghost")
	}
	assert.Equal(t, inline.NotFoundMarker, res.Inline[1])
}

func TestAssembleDeterministicWithCache(t *testing.T) {
	cache := assemble.NewMemoryCache()
	e := New(WithCache(cache), WithMarkup(entry.HTML))
	occs := []schema.Occurrence{{RecordID: "smith2023"}, {RecordID: "doe2020", SequenceIndex: 1}}
	first, err := e.RenderBibliography("doc", occs, lookup, "apa")
	require.NoError(t, err)
	second, err := e.RenderBibliography("doc", occs, lookup, "apa")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
	assert.True(t, strings.Index(first, "Doe") < strings.Index(first, "Smith"), first)
	assert.Contains(t, first, "<i>A Book</i>")
}

func TestRegisterStyle(t *testing.T) {
	e := New()
	err := e.RegisterStyle(styles.RuleSet{ID: "broken", AuthorMode: names.LastNameOnly})
	assert.True(t, errors.Is(err, styles.ErrInvalidStyleConfig))
	assert.Len(t, e.ListStyles(), 6)

	rule := styles.EntryRule{Segments: []styles.Segment{{Template: "{author}", Terminator: "."}, {Template: "{title}", Terminator: "."}}}
	require.NoError(t, e.RegisterStyle(styles.RuleSet{
		ID:             "short",
		InlineTemplate: "({author})",
		AuthorMode:     names.LastNameOnly,
		Entries:        map[schema.EntryType]styles.EntryRule{schema.Book: rule, schema.Article: rule, schema.Other: rule},
	}))
	got, err := e.FormatBibliographyEntry(smith, "short")
	require.NoError(t, err)
	assert.Equal(t, "Smith, J. Test Article.", got)
	inl, err := e.FormatInlineCitation(schema.Occurrence{RecordID: "doe2020"}, lookup, "short")
	require.NoError(t, err)
	assert.Equal(t, "(Doe)", inl)
}

func TestImportExternalStyle(t *testing.T) {
	e := New()
	doc := `<style xmlns="http://purl.org/net/xbiblio/csl"><info><title>Lab Numeric</title>
<id>http://example.org/styles/lab-numeric</id><category citation-format="numeric"/></info></style>`
	info, warnings, err := e.ImportExternalStyle([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, styles.Info{ID: "lab-numeric", DisplayName: "Lab Numeric"}, info)
	got, err := e.FormatInlineCitation(schema.Occurrence{RecordID: "doe2020"}, lookup, "lab-numeric")
	require.NoError(t, err)
	assert.Equal(t, "[1]", got)
}

func TestLoadStyleFile(t *testing.T) {
	body := `id: apa
display_name: House APA
inline_template: "({author} {year})"
author_render_mode: last-name-only
entries:
  book:
    segments: [{template: "{title}"}]
  article:
    segments: [{template: "{title}"}]
  other:
    segments: [{template: "{title}"}]
`
	p := filepath.Join(t.TempDir(), "apa.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	e := New()
	info, _, err := e.LoadStyleFile(p)
	require.NoError(t, err)
	assert.Equal(t, "House APA", info.DisplayName)
	assert.Equal(t, "apa", e.ListStyles()[0].ID)
	got, err := e.FormatInlineCitation(schema.Occurrence{RecordID: "smith2023"}, lookup, "apa")
	require.NoError(t, err)
	assert.Equal(t, "(Smith 2023)", got)
}

func TestSetAnonymous(t *testing.T) {
	e := New()
	require.NoError(t, e.SetAnonymous("Unknown"))
	anon := schema.NewMapLookup(schema.Record{ID: "anon", Type: schema.Report})
	got, err := e.FormatInlineCitation(schema.Occurrence{RecordID: "anon"}, anon, "mla")
	require.NoError(t, err)
	assert.Contains(t, got, "Unknown")

	titled := schema.NewMapLookup(schema.Record{ID: "t", Title: "Untitled Work", Issued: dates.CalendarDate{Year: 2020}})
	got, err = e.FormatInlineCitation(schema.Occurrence{RecordID: "t"}, titled, "apa")
	require.NoError(t, err)
	assert.Equal(t, "(Unknown, 2020)", got)
	assert.Len(t, e.ListStyles(), 6)
}

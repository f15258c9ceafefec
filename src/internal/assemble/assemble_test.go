package assemble

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citeformat/src/internal/dates"
	"citeformat/src/internal/entry"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/styles"
)

func style(t *testing.T, id string) styles.RuleSet {
	t.Helper()
	rs, err := styles.Default().Get(id)
	require.NoError(t, err)
	return rs
}

func book(id, family, title string, year int) schema.Record {
	r := schema.Record{ID: id, Type: schema.Book, Title: title, Issued: dates.CalendarDate{Year: year}}
	if family != "" {
		r.Authors = schema.Names{{Family: family}}
	}
	return r
}

func TestNumberedAssembly(t *testing.T) {
	lookup := schema.NewMapLookup(book("a", "", "Alpha", 0), book("b", "", "Beta", 0))
	occs := []schema.Occurrence{
		{RecordID: "a", SequenceIndex: 0},
		{RecordID: "b", SequenceIndex: 1},
		{RecordID: "ghost", SequenceIndex: 2},
		{RecordID: "a", SequenceIndex: 5},
		{RecordID: "ghost", SequenceIndex: 6},
	}
	res := New(entry.Plain, nil).Assemble("doc", occs, lookup, style(t, "ieee"))
	assert.Equal(t, []string{"[1]", "[2]", "[citation not found]", "[1]", "[citation not found]"}, res.Inline)
	assert.Equal(t, []string{"a", "b"}, res.Order)
	assert.Equal(t, []string{"[1] Alpha.", "[2] Beta."}, res.Entries)
	assert.Equal(t, []string{"ghost"}, res.Missing)
}

func TestSequenceIndexDecidesNumbering(t *testing.T) {
	lookup := schema.NewMapLookup(book("a", "", "Alpha", 0), book("b", "", "Beta", 0))
	occs := []schema.Occurrence{{RecordID: "b", SequenceIndex: 1}, {RecordID: "a", SequenceIndex: 0}}
	res := New(entry.Plain, nil).Assemble("", occs, lookup, style(t, "vancouver"))
	assert.Equal(t, []string{"[1]", "[2]"}, res.Inline)
	assert.Equal(t, []string{"a", "b"}, res.Order)
	assert.True(t, strings.HasPrefix(res.Entries[0], "1. Alpha"), res.Entries[0])
}

func TestDeterministic(t *testing.T) {
	lookup := schema.NewMapLookup(book("a", "Zed", "Alpha", 2001), book("b", "Adams", "Beta", 1999), book("c", "", "Gamma", 0))
	occs := []schema.Occurrence{{RecordID: "a"}, {RecordID: "b", SequenceIndex: 1}, {RecordID: "c", SequenceIndex: 2}}
	for _, id := range []string{"apa", "ieee", "mla"} {
		a := New(entry.Markdown, nil)
		first := a.Assemble("doc", occs, lookup, style(t, id))
		second := a.Assemble("doc", occs, lookup, style(t, id))
		assert.Equal(t, first, second, id)
	}
}

func TestAlphabeticalOrder(t *testing.T) {
	lookup := schema.NewMapLookup(
		book("zed", "Zed", "One", 2001),
		book("adams", "adams", "Two", 2002),
		book("emile", "Émile", "Three", 2003),
		book("untitled", "", "The Book", 2004),
		book("cole", "Cole", "Four", 2005),
	)
	occs := []schema.Occurrence{
		{RecordID: "zed", SequenceIndex: 0},
		{RecordID: "adams", SequenceIndex: 1},
		{RecordID: "emile", SequenceIndex: 2},
		{RecordID: "untitled", SequenceIndex: 3},
		{RecordID: "cole", SequenceIndex: 4},
	}
	res := New(entry.Plain, nil).Assemble("doc", occs, lookup, style(t, "apa"))
	assert.Equal(t, []string{"adams", "untitled", "cole", "emile", "zed"}, res.Order)
	assert.Equal(t, []string{"(Zed, 2001)", "(adams, 2002)", "(Émile, 2003)", "(Anonymous, 2004)", "(Cole, 2005)"}, res.Inline)
}

func TestSameAuthorFallsBackToTitleThenYear(t *testing.T) {
	lookup := schema.NewMapLookup(book("b2", "Smith", "Beta", 2020), book("a2", "Smith", "Alpha", 2021), book("a1", "Smith", "Alpha", 2019))
	occs := []schema.Occurrence{{RecordID: "b2"}, {RecordID: "a2", SequenceIndex: 1}, {RecordID: "a1", SequenceIndex: 2}}
	res := New(entry.Plain, nil).Assemble("", occs, lookup, style(t, "apa"))
	assert.Equal(t, []string{"a1", "a2", "b2"}, res.Order)
}

func TestEmptyOccurrences(t *testing.T) {
	res := New(entry.Plain, NewMemoryCache()).Assemble("doc", nil, schema.MapLookup{}, style(t, "apa"))
	assert.True(t, res.Empty())
	assert.Empty(t, res.Inline)
	assert.Empty(t, res.Missing)
}

func TestCacheInvalidatesOnRecordChange(t *testing.T) {
	cache := NewMemoryCache()
	a := New(entry.Plain, cache)
	rs := style(t, "apa")
	lookup := schema.NewMapLookup(book("a", "Smith", "First Title", 2020))
	occs := []schema.Occurrence{{RecordID: "a"}}

	first := a.Assemble("doc", occs, lookup, rs)
	again := a.Assemble("doc", occs, lookup, rs)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, cache.Len())

	lookup["a"] = book("a", "Smith", "Second Title", 2020)
	changed := a.Assemble("doc", occs, lookup, rs)
	assert.Contains(t, changed.Entries[0], "Second Title")
	assert.Equal(t, 2, cache.Len())

	a.Assemble("doc", append(occs, schema.Occurrence{RecordID: "a", SequenceIndex: 1, Locant: "4"}), lookup, rs)
	assert.Equal(t, 3, cache.Len())

	a.Assemble("", occs, lookup, rs)
	assert.Equal(t, 3, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCachedResultIsACopy(t *testing.T) {
	cache := NewMemoryCache()
	a := New(entry.Plain, cache)
	lookup := schema.NewMapLookup(book("a", "Smith", "Title", 2020))
	occs := []schema.Occurrence{{RecordID: "a"}}
	res := a.Assemble("doc", occs, lookup, style(t, "apa"))
	res.Entries[0] = "mutated"
	again := a.Assemble("doc", occs, lookup, style(t, "apa"))
	assert.NotEqual(t, "mutated", again.Entries[0])
}

func TestCacheKey(t *testing.T) {
	rs := style(t, "apa")
	recs := map[string]schema.Record{"a": book("a", "Smith", "T", 2020)}
	occs := []schema.Occurrence{{RecordID: "a"}}
	k := CacheKey("doc", rs, entry.Plain, occs, recs)
	assert.Equal(t, k, CacheKey("doc", rs, entry.Plain, occs, recs))
	assert.NotEqual(t, k, CacheKey("other", rs, entry.Plain, occs, recs))
	assert.NotEqual(t, k, CacheKey("doc", rs, entry.HTML, occs, recs))
	rs.InlineTemplate = "({author})"
	assert.NotEqual(t, k, CacheKey("doc", rs, entry.Plain, occs, recs))
}

type failingCache struct{}

func (failingCache) Get(string) (Result, bool, error) { return Result{}, false, errors.New("down") }
func (failingCache) Put(string, Result) error         { return errors.New("down") }

func TestCacheErrorsAreNotFatal(t *testing.T) {
	lookup := schema.NewMapLookup(book("a", "Smith", "Title", 2020))
	res := New(entry.Plain, failingCache{}).Assemble("doc", []schema.Occurrence{{RecordID: "a"}}, lookup, style(t, "apa"))
	assert.Len(t, res.Entries, 1)
}

func TestRenderList(t *testing.T) {
	assert.Equal(t, "", RenderList(nil, entry.Plain))
	assert.Equal(t, "A.\nB.\n", RenderList([]string{"A.", "B."}, entry.Plain))
	assert.Equal(t, "- 1\\. A.\n- 2\\. B.\n", RenderList([]string{"1. A.", "2. B."}, entry.Markdown))

	html := RenderList([]string{"Smith. *Title*.", "[1] Doe."}, entry.HTML)
	assert.Contains(t, html, "<ul>")
	assert.Contains(t, html, "<li>")
	assert.Contains(t, html, "<em>Title</em>")
	assert.Contains(t, html, "[1] Doe.")
}

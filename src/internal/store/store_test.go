package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citeformat/src/internal/assemble"
	"citeformat/src/internal/dates"
	"citeformat/src/internal/entry"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/styles"
)

func TestWriteReadAndLookup(t *testing.T) {
	s := New(t.TempDir())

	r1 := schema.Record{ID: "a", Type: schema.Webpage, Title: "A", URL: "https://a.example", Accessed: dates.CalendarDate{Year: 2025, Month: 1, Day: 1}}
	r2 := schema.Record{ID: "b", Type: schema.Book, Title: "B", Authors: schema.Names{{Family: "Doe", Given: "Ann"}}, Issued: dates.CalendarDate{Year: 2020}}

	p1, err := s.Write(r1)
	if err != nil {
		t.Fatalf("write1: %v", err)
	}
	if filepath.Base(filepath.Dir(p1)) != "web" {
		t.Fatalf("unexpected dir for webpage: %s", p1)
	}
	if _, err := s.Write(r2); err != nil {
		t.Fatalf("write2: %v", err)
	}

	list, err := s.ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records got %d", len(list))
	}

	lookup, err := s.Lookup()
	require.NoError(t, err)
	got, ok := lookup.Record("b")
	require.True(t, ok)
	assert.Equal(t, r2.Authors, got.Authors)
	assert.Equal(t, 2020, got.Issued.Year)
	_, ok = lookup.Record("ghost")
	assert.False(t, ok)
}

func TestWriteRejectsMovedID(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Write(schema.Record{ID: "x", Type: schema.Book, Title: "X"})
	require.NoError(t, err)
	_, err = s.Write(schema.Record{ID: "x", Type: schema.Book, Title: "X2"})
	require.NoError(t, err)
	_, err = s.Write(schema.Record{ID: "x", Type: schema.Article, Title: "X3"})
	assert.True(t, errors.Is(err, ErrDuplicateID))
	_, err = s.Write(schema.Record{ID: "../x", Title: "bad"})
	assert.Error(t, err)
	_, err = s.Write(schema.Record{Title: "no id"})
	assert.Error(t, err)
}

func TestReadAllSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write("books/good.yaml", "type: book\ntitle: <b>Good</b> Book\nauthors: Acme Corp\nissued: 2019\n")
	write("books/broken.yaml", "title: [unclosed\n")
	write("notes.txt", "not a record")
	write("articles/c.yml", "id: c\ntype: journal-article\ntitle: C\nauthors: [Jane Doe, \"Smith, John\"]\nissued:\n  date-parts: [[2021, 4]]\n")

	list, err := New(dir).ReadAll()
	require.NoError(t, err)
	require.Len(t, list, 2)
	byID := schema.NewMapLookup(list...)

	good, ok := byID.Record("good")
	require.True(t, ok)
	assert.Equal(t, "Good Book", good.Title)
	assert.Equal(t, schema.Names{{Family: "Acme Corp"}}, good.Authors)

	c, ok := byID.Record("c")
	require.True(t, ok)
	assert.Equal(t, schema.Article, c.Type)
	assert.Equal(t, 4, c.Issued.Month)
	assert.Equal(t, schema.Names{{Family: "Doe", Given: "Jane"}, {Family: "Smith", Given: "John"}}, c.Authors)
}

func TestReadAllMissingDir(t *testing.T) {
	list, err := New(filepath.Join(t.TempDir(), "nope")).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, DefaultDir, New("").Dir)
}

func TestLoadDocument(t *testing.T) {
	p := filepath.Join(t.TempDir(), "paper.yaml")
	body := "style: ieee\ncitations:\n  - smith2023\n  - record_id: doe2020\n    locant: \"4\"\n  - smith2023\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	doc, err := LoadDocument(p)
	require.NoError(t, err)
	assert.Equal(t, "paper", doc.ID)
	assert.Equal(t, "ieee", doc.Style)
	require.Len(t, doc.Citations, 3)
	assert.Equal(t, schema.Occurrence{RecordID: "doe2020", Locant: "4", SequenceIndex: 1}, doc.Citations[1])
	assert.Equal(t, 2, doc.Citations[2].SequenceIndex)

	_, err = LoadDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache", "bib.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	want := assemble.Result{Entries: []string{"[1] A."}, Order: []string{"a"}, Inline: []string{"[1]", "[citation not found]"}, Missing: []string{"ghost"}}
	require.NoError(t, c.Put("k", want))
	require.NoError(t, c.Put("k", want))
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, c.Purge())
	n, err = c.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteCacheBacksAssembler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bib.db")
	c, err := OpenCache(path)
	require.NoError(t, err)
	a := assemble.New(entry.Plain, c)
	lookup := schema.NewMapLookup(schema.Record{ID: "a", Type: schema.Book, Title: "Alpha", Authors: schema.Names{{Family: "Zed"}}})
	occs := []schema.Occurrence{{RecordID: "a"}}
	rs := mustStyle(t)
	first := a.Assemble("doc", occs, lookup, rs)
	require.NoError(t, c.Close())

	reopened, err := OpenCache(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	n, err := reopened.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	again := assemble.New(entry.Plain, reopened).Assemble("doc", occs, lookup, rs)
	assert.Equal(t, first, again)
}

func mustStyle(t *testing.T) styles.RuleSet {
	t.Helper()
	rs, err := styles.Default().Get("apa")
	require.NoError(t, err)
	return rs
}

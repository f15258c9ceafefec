package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citeformat/src/internal/config"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/store"
)

func newViper(t *testing.T, settings map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range settings {
		v.Set(k, val)
	}
	return v
}

func TestOpenDefaults(t *testing.T) {
	a, err := Open(newViper(t, nil), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	assert.Equal(t, store.DefaultDir, a.Store.Dir)
	assert.Len(t, a.Registry.List(), 6)
	assert.Equal(t, "apa", a.Style("", schema.Document{}))
	assert.Equal(t, "ieee", a.Style("", schema.Document{Style: "ieee"}))
	assert.Equal(t, "mla", a.Style("mla", schema.Document{Style: "ieee"}))
}

func TestOpenRegistersStyleFilesAndSQLiteCache(t *testing.T) {
	dir := t.TempDir()
	styleFile := filepath.Join(dir, "house.toml")
	body := `id = "house"
display_name = "House"
inline_template = "({author}, {year})"
author_render_mode = "last-name-only"

[entries.book]
segments = [{ template = "{author}", terminator = "." }, { template = "{title}", terminator = "." }]

[entries.article]
segments = [{ template = "{title}" }]

[entries.other]
segments = [{ template = "{title}" }]
`
	require.NoError(t, os.WriteFile(styleFile, []byte(body), 0o644))
	records := filepath.Join(dir, "records")
	_, err := store.New(records).Write(schema.Record{ID: "b", Type: schema.Book, Title: "Book", Authors: schema.Names{{Family: "Doe"}}})
	require.NoError(t, err)

	a, err := Open(newViper(t, map[string]any{
		config.KeyStyleFiles: []string{styleFile},
		config.KeyCachePath:  filepath.Join(dir, "cache.db"),
		config.KeyRecordsDir: records,
	}), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.True(t, a.Registry.Has("house"))
	lookup, err := a.Records()
	require.NoError(t, err)
	out, err := a.Engine().RenderBibliography("doc", []schema.Occurrence{{RecordID: "b"}}, lookup, "house")
	require.NoError(t, err)
	assert.Equal(t, "Doe. Book.\n", out)
	_, ok, err := a.Cache.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = os.Stat(filepath.Join(dir, "cache.db"))
	assert.NoError(t, err)
}

func TestOpenFailsOnBadStyleFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("id: bad\nbogus: 1\n"), 0o644))
	_, err := Open(newViper(t, map[string]any{config.KeyStyleFiles: []string{p}}), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestOpenFailsOnBadConfig(t *testing.T) {
	_, err := Open(newViper(t, map[string]any{config.KeyMarkup: "rtf"}), &bytes.Buffer{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestOpenLogsConfigFileAtInfoOnly(t *testing.T) {
	for _, tt := range []struct {
		level string
		want  bool
	}{{"warn", false}, {"info", true}} {
		cfgFile := filepath.Join(t.TempDir(), "citeformat.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte("log_level: "+tt.level+"\n"), 0o644))
		v := viper.New()
		require.NoError(t, config.Init(v, cfgFile))

		var logs bytes.Buffer
		a, err := Open(v, &logs)
		require.NoError(t, err)
		_ = a.Close()
		assert.Equal(t, tt.want, bytes.Contains(logs.Bytes(), []byte("using config file")), tt.level)
	}
}

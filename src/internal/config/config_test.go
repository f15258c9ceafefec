package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citeformat/src/internal/entry"
	"citeformat/src/internal/store"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "apa", cfg.Style)
	assert.Equal(t, store.DefaultDir, cfg.RecordsDir)
	assert.Equal(t, entry.Plain, cfg.Markup)
	assert.Equal(t, "", cfg.CachePath)
	assert.Empty(t, cfg.StyleFiles)
	assert.Equal(t, log.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "Anonymous", cfg.Anonymous)
}

func TestInitReadsFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.yaml")
	body := "style: ieee\nmarkup: html\nrecords_dir: refs\nlog_level: debug\nstyle_files:\n  - house.yaml\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, p))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "ieee", cfg.Style)
	assert.Equal(t, entry.HTML, cfg.Markup)
	assert.Equal(t, "refs", cfg.RecordsDir)
	assert.Equal(t, log.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"house.yaml"}, cfg.StyleFiles)
}

func TestInitMissingExplicitFile(t *testing.T) {
	err := Init(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CITEFORMAT_STYLE", "mla")
	t.Setenv("CITEFORMAT_MARKUP", "markdown")
	v := viper.New()
	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte("style: ieee\n"), 0o644))
	require.NoError(t, Init(v, p))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "mla", cfg.Style)
	assert.Equal(t, entry.Markdown, cfg.Markup)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, val := range map[string]string{
		KeyMarkup:   "rtf",
		KeyLogLevel: "loud",
		KeyStyle:    " ",
	} {
		v := viper.New()
		SetDefaults(v)
		v.Set(key, val)
		_, err := Load(v)
		assert.True(t, errors.Is(err, ErrInvalidConfig), key)
	}
}

func TestHomeExpansion(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyCachePath, "~/cache/bib.db")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.NotContains(t, cfg.CachePath, "~")
	assert.True(t, filepath.IsAbs(cfg.CachePath), cfg.CachePath)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]log.Level{"debug": log.LevelDebug, "INFO": log.LevelInfo, "": log.LevelWarn, "error": log.LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

// Package config resolves CLI settings from a citeformat.yaml file,
// CITEFORMAT_* environment variables and flags, all through viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"citeformat/src/internal/entry"
	"citeformat/src/internal/store"
)

// ErrInvalidConfig wraps every rejected setting.
var ErrInvalidConfig = errors.New("invalid config")

// Keys understood in the config file and environment.
const (
	KeyStyle      = "style"
	KeyRecordsDir = "records_dir"
	KeyMarkup     = "markup"
	KeyCachePath  = "cache_path"
	KeyStyleFiles = "style_files"
	KeyLogLevel   = "log_level"
	KeyAnonymous  = "anonymous"
)

// Config is the resolved, validated settings.
type Config struct {
	Style      string
	RecordsDir string
	Markup     entry.Markup
	// CachePath is the SQLite cache file; empty keeps the cache in memory.
	CachePath  string
	StyleFiles []string
	LogLevel   log.Level
	// Anonymous is the name placeholder for records without creators.
	Anonymous string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStyle, "apa")
	v.SetDefault(KeyRecordsDir, store.DefaultDir)
	v.SetDefault(KeyMarkup, "plain")
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyStyleFiles, []string{})
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyAnonymous, "Anonymous")
}

// Init points v at cfgFile, or at citeformat.yaml in the working directory
// and ~/.config/citeformat, and reads it. A missing config file is not an
// error; an unreadable one is.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("citeformat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "citeformat"))
		}
	}
	v.SetEnvPrefix("CITEFORMAT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	m, err := entry.ParseMarkup(v.GetString(KeyMarkup))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyMarkup, err)
	}
	lvl, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, err
	}
	style := strings.TrimSpace(v.GetString(KeyStyle))
	if style == "" {
		return Config{}, fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, KeyStyle)
	}
	records, err := expand(v.GetString(KeyRecordsDir))
	if err != nil {
		return Config{}, err
	}
	if records == "" {
		records = store.DefaultDir
	}
	cache, err := expand(v.GetString(KeyCachePath))
	if err != nil {
		return Config{}, err
	}
	var files []string
	for _, f := range v.GetStringSlice(KeyStyleFiles) {
		p, err := expand(f)
		if err != nil {
			return Config{}, err
		}
		if p != "" {
			files = append(files, p)
		}
	}
	return Config{
		Style:      style,
		RecordsDir: records,
		Markup:     m,
		CachePath:  cache,
		StyleFiles: files,
		LogLevel:   lvl,
		Anonymous:  strings.TrimSpace(v.GetString(KeyAnonymous)),
	}, nil
}

func expand(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	out, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("%w: path %q: %v", ErrInvalidConfig, p, err)
	}
	return out, nil
}

// ParseLevel maps debug|info|warn|error onto fiber's log levels.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "", "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelWarn, fmt.Errorf("%w: %s %q is not one of debug, info, warn, error", ErrInvalidConfig, KeyLogLevel, s)
}

// ApplyLogging routes the package logger to w at the configured level.
func (c Config) ApplyLogging(w io.Writer) {
	log.SetOutput(w)
	log.SetLevel(c.LogLevel)
}

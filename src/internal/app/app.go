// Package app wires configuration, the record store, the style registry and
// the render cache into engines for the CLI commands.
package app

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/viper"

	"citeformat/src/internal/assemble"
	"citeformat/src/internal/config"
	"citeformat/src/internal/engine"
	"citeformat/src/internal/entry"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/store"
	"citeformat/src/internal/styles"
)

// App is everything one CLI invocation renders with.
type App struct {
	Config   config.Config
	Store    *store.Store
	Registry *styles.Registry
	Cache    assemble.Cache

	closeCache func() error
}

// Opener builds an App on demand, so commands that fail flag parsing never
// touch the disk.
type Opener func() (*App, error)

// Open validates the settings in v, routes logs to logOut and prepares the
// registry (built-ins plus configured style files) and the cache.
func Open(v *viper.Viper, logOut io.Writer) (*App, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	cfg.ApplyLogging(logOut)
	if f := v.ConfigFileUsed(); f != "" {
		log.Infof("using config file %s", f)
	}

	a := &App{
		Config:   cfg,
		Store:    store.New(cfg.RecordsDir),
		Registry: styles.Default(),
	}
	if cfg.CachePath != "" {
		c, err := store.OpenCache(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		a.Cache, a.closeCache = c, c.Close
	} else {
		a.Cache = assemble.NewMemoryCache()
	}

	e := a.EngineFor(cfg.Markup)
	for _, f := range cfg.StyleFiles {
		info, warnings, err := e.LoadStyleFile(f)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("style file %s: %w", f, err)
		}
		for _, w := range warnings {
			log.Warnf("style %s: %s", info.ID, w)
		}
		log.Debugf("registered style %q from %s", info.ID, f)
	}
	if err := e.SetAnonymous(cfg.Anonymous); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Engine returns an engine rendering in the configured markup.
func (a *App) Engine() *engine.Engine {
	return a.EngineFor(a.Config.Markup)
}

// EngineFor returns an engine sharing the app's registry and cache that
// renders in m.
func (a *App) EngineFor(m entry.Markup) *engine.Engine {
	return engine.New(engine.WithRegistry(a.Registry), engine.WithMarkup(m), engine.WithCache(a.Cache))
}

// Style resolves the style to render with: the flag value, then the
// document's own style, then the configured default.
func (a *App) Style(flag string, doc schema.Document) string {
	switch {
	case flag != "":
		return flag
	case doc.Style != "":
		return doc.Style
	}
	return a.Config.Style
}

// Records reads the record store.
func (a *App) Records() (schema.MapLookup, error) {
	return a.Store.Lookup()
}

// Close releases the persistent cache, if one is open.
func (a *App) Close() error {
	if a.closeCache == nil {
		return nil
	}
	return a.closeCache()
}

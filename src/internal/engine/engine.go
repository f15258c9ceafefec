// Package engine is the entry point collaborators use: format one inline
// citation, one bibliography entry, or a whole document's bibliography, and
// manage the styles those renders resolve against.
package engine

import (
	"fmt"

	"citeformat/src/internal/assemble"
	"citeformat/src/internal/entry"
	"citeformat/src/internal/inline"
	"citeformat/src/internal/numbering"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/styles"
)

// Engine binds a style registry, an output markup and an optional cache.
// Render calls are safe for concurrent use; register styles before
// rendering starts.
type Engine struct {
	registry  *styles.Registry
	markup    entry.Markup
	assembler *assemble.Assembler
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in registry.
func WithRegistry(r *styles.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithMarkup sets the emphasis markup of rendered entries (default Plain).
func WithMarkup(m entry.Markup) Option {
	return func(e *Engine) { e.markup = m }
}

// WithCache memoises assembled bibliographies.
func WithCache(c assemble.Cache) Option {
	return func(e *Engine) { e.assembler = assemble.New(e.markup, c) }
}

// New returns an Engine with the built-in styles unless WithRegistry is given.
func New(opts ...Option) *Engine {
	e := &Engine{markup: entry.Plain}
	for _, o := range opts {
		o(e)
	}
	if e.registry == nil {
		e.registry = styles.Default()
	}
	if e.assembler == nil {
		e.assembler = assemble.New(e.markup, nil)
	}
	e.assembler.Entries = entry.New(e.markup)
	return e
}

// Markup reports the markup entries are rendered in.
func (e *Engine) Markup() entry.Markup { return e.markup }

// FormatInlineCitation renders occ on its own, numbering it as the first
// citation of a fresh document. Unknown records render
// inline.NotFoundMarker; only an unknown style is an error.
func (e *Engine) FormatInlineCitation(occ schema.Occurrence, lookup schema.Lookup, styleID string) (string, error) {
	return e.FormatInlineCitationWith(occ, lookup, styleID, numbering.New())
}

// FormatInlineCitationWith renders occ against a caller-owned number table,
// so successive calls for one document share numbering.
func (e *Engine) FormatInlineCitationWith(occ schema.Occurrence, lookup schema.Lookup, styleID string, table *numbering.Table) (string, error) {
	rs, err := e.registry.Get(styleID)
	if err != nil {
		return "", err
	}
	rec, ok := lookup.Record(occ.RecordID)
	if ok {
		rec.ID = occ.RecordID
	}
	return inline.Format(occ, rec, ok, rs, table), nil
}

// FormatInlineGroup renders occurrences cited together as one marker.
func (e *Engine) FormatInlineGroup(occs []schema.Occurrence, lookup schema.Lookup, styleID string, table *numbering.Table) (string, error) {
	rs, err := e.registry.Get(styleID)
	if err != nil {
		return "", err
	}
	return inline.FormatGroup(occs, lookup, rs, table), nil
}

// FormatBibliographyEntry renders rec as one reference-list entry.
func (e *Engine) FormatBibliographyEntry(rec schema.Record, styleID string) (string, error) {
	rs, err := e.registry.Get(styleID)
	if err != nil {
		return "", err
	}
	return e.assembler.Entries.Format(rec, rs), nil
}

// AssembleBibliography renders a document's inline markers and ordered
// reference list. docID keys the cache; pass "" to skip it.
func (e *Engine) AssembleBibliography(docID string, occs []schema.Occurrence, lookup schema.Lookup, styleID string) (assemble.Result, error) {
	rs, err := e.registry.Get(styleID)
	if err != nil {
		return assemble.Result{}, err
	}
	return e.assembler.Assemble(docID, occs, lookup, rs), nil
}

// RenderBibliography is AssembleBibliography joined into one string in the
// engine's markup.
func (e *Engine) RenderBibliography(docID string, occs []schema.Occurrence, lookup schema.Lookup, styleID string) (string, error) {
	res, err := e.AssembleBibliography(docID, occs, lookup, styleID)
	if err != nil {
		return "", err
	}
	return assemble.RenderList(res.Entries, e.markup), nil
}

// RegisterStyle validates and adds rs. Failures wrap
// styles.ErrInvalidStyleConfig and leave the registry unchanged.
func (e *Engine) RegisterStyle(rs styles.RuleSet) error {
	return e.registry.Register(rs)
}

// ListStyles returns every registered style in registration order.
func (e *Engine) ListStyles() []styles.Info {
	return e.registry.List()
}

// ImportExternalStyle registers a style derived from a CSL document and
// returns it with the import warnings.
func (e *Engine) ImportExternalStyle(doc []byte) (styles.Info, []string, error) {
	info, warnings, err := e.registry.Import(doc)
	if err != nil {
		return styles.Info{}, warnings, fmt.Errorf("import style: %w", err)
	}
	return info, warnings, nil
}

// LoadStyleFile reads a YAML, TOML or CSL style file and registers it,
// replacing a style with the same id.
func (e *Engine) LoadStyleFile(path string) (styles.Info, []string, error) {
	rs, warnings, err := styles.LoadFile(path)
	if err != nil {
		return styles.Info{}, warnings, err
	}
	if err := e.registry.Replace(rs); err != nil {
		return styles.Info{}, warnings, err
	}
	got, err := e.registry.Get(rs.ID)
	if err != nil {
		return styles.Info{}, warnings, err
	}
	return styles.Info{ID: got.ID, DisplayName: got.DisplayName}, warnings, nil
}

// SetAnonymous sets the placeholder rendered for an empty name list in every
// registered style that does not define its own.
func (e *Engine) SetAnonymous(label string) error {
	if label == "" {
		return nil
	}
	for _, info := range e.registry.List() {
		rs, err := e.registry.Get(info.ID)
		if err != nil {
			return err
		}
		if rs.InlineNames.Anonymous == "" {
			rs.InlineNames.Anonymous = label
		}
		if rs.BibliographyNames.Anonymous == "" {
			rs.BibliographyNames.Anonymous = label
		}
		if err := e.registry.Replace(rs); err != nil {
			return err
		}
	}
	return nil
}

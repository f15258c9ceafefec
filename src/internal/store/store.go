// Package store reads and writes the YAML record files and document files
// the CLI renders from, and persists assembled bibliographies in SQLite.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/yaml.v3"

	"citeformat/src/internal/sanitize"
	"citeformat/src/internal/schema"
)

// DefaultDir is where records live unless configured otherwise.
const DefaultDir = "data/records"

// ErrDuplicateID is returned by Write when another file already holds the id.
var ErrDuplicateID = errors.New("duplicate record id")

// Store is a directory of one-record-per-file YAML documents, grouped into
// a subdirectory per entry type.
type Store struct {
	Dir string
}

// New returns a store rooted at dir (DefaultDir when empty).
func New(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir}
}

// dirForType maps an entry type to its subdirectory. Some types use plural
// forms; everything outside the common kinds shares "other".
func dirForType(t schema.EntryType) string {
	switch t {
	case schema.Article, schema.NewspaperArticle, schema.MagazineArticle:
		return "articles"
	case schema.Book, schema.Chapter:
		return "books"
	case schema.Thesis, schema.Report:
		return "reports"
	case schema.ConferencePaper:
		return "conference"
	case schema.Webpage:
		return "web"
	case schema.Dataset, schema.Software:
		return "data"
	default:
		return "other"
	}
}

// Path returns where a record with this id and type is stored.
func (s *Store) Path(r schema.Record) string {
	return filepath.Join(s.Dir, dirForType(schema.ParseEntryType(string(r.Type))), r.ID+".yaml")
}

// Write sanitises, validates and writes r, returning the file path.
// Overwriting the record's own file is allowed; reusing an id stored under a
// different type is not.
func (s *Store) Write(r schema.Record) (string, error) {
	sanitize.CleanRecord(&r)
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("record: %w", err)
	}
	if strings.ContainsAny(r.ID, `/\`) || r.ID == "." || r.ID == ".." {
		return "", fmt.Errorf("record: id %q is not a valid file name", r.ID)
	}
	path := s.Path(r)
	existing, err := s.find(r.ID)
	if err != nil {
		return "", err
	}
	if existing != "" && existing != path {
		return "", fmt.Errorf("%w: %q already stored at %s", ErrDuplicateID, r.ID, existing)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	buf, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) find(id string) (string, error) {
	var found string
	err := s.walk(func(path string) error {
		if strings.TrimSuffix(filepath.Base(path), ".yaml") == id {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found, err
}

func (s *Store) walk(fn func(path string) error) error {
	if _, err := os.Stat(s.Dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}
		return fn(path)
	})
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ReadAll loads every record under the store directory in lexical path
// order. Files that fail to parse or validate are logged and skipped so one
// bad record never blocks a render; a record without an id takes its file
// name. When two files share an id the later path wins, with a warning.
func (s *Store) ReadAll() ([]schema.Record, error) {
	var records []schema.Record
	seen := map[string]string{}
	err := s.walk(func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var r schema.Record
		if err := yaml.Unmarshal(data, &r); err != nil {
			log.Warnf("store: skipping %s: invalid YAML: %v", path, err)
			return nil
		}
		if strings.TrimSpace(r.ID) == "" {
			r.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		sanitize.CleanRecord(&r)
		if err := r.Validate(); err != nil {
			log.Warnf("store: skipping %s: %v", path, err)
			return nil
		}
		if prev, dup := seen[r.ID]; dup {
			log.Warnf("store: id %q in %s overrides %s", r.ID, path, prev)
		}
		seen[r.ID] = path
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read records in %s: %w", s.Dir, err)
	}
	return records, nil
}

// Lookup reads every record into a lookup keyed by id.
func (s *Store) Lookup() (schema.MapLookup, error) {
	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	return schema.NewMapLookup(records...), nil
}

// LoadDocument reads a document file: an id, an optional style and an
// ordered list of citations. A document without an id takes its file name.
func LoadDocument(path string) (schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("read document: %w", err)
	}
	var doc schema.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return schema.Document{}, fmt.Errorf("invalid document %s: %w", path, err)
	}
	if strings.TrimSpace(doc.ID) == "" {
		doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

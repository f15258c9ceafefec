package styles

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"citeformat/src/internal/schema"
)

// fileRuleSet is the on-disk shape of a style definition. Entry rules are
// keyed by type name so unknown keys can be reported instead of silently
// becoming a rule nothing dispatches to.
type fileRuleSet struct {
	RuleSet `yaml:",inline"`
	Entries map[string]EntryRule `yaml:"entries" toml:"entries"`
}

// LoadFile reads a style definition from a YAML (.yaml, .yml), TOML (.toml)
// or CSL (.csl, .xml) file. YAML and TOML files use the RuleSet field names
// and are decoded strictly: unknown fields and unknown entry types fail with
// ErrInvalidStyleConfig. CSL files go through ImportExternal and only ever
// produce warnings. The result is not registered.
func LoadFile(path string) (RuleSet, []string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, nil, fmt.Errorf("read style file: %w", err)
	}
	var f fileRuleSet
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return RuleSet{}, nil, fmt.Errorf("%w: %s: %v", ErrInvalidStyleConfig, path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return RuleSet{}, nil, fmt.Errorf("%w: %s: %v", ErrInvalidStyleConfig, path, err)
		}
	case ".csl", ".xml":
		rs, warnings := ImportExternal(b)
		return rs, warnings, nil
	default:
		return RuleSet{}, nil, fmt.Errorf("%w: %s: unsupported extension %q", ErrInvalidStyleConfig, path, ext)
	}
	rs := f.RuleSet
	rs.Entries = make(map[schema.EntryType]EntryRule, len(f.Entries))
	for k, rule := range f.Entries {
		t := schema.EntryType(strings.ToLower(strings.TrimSpace(k)))
		if !knownType(t) {
			return RuleSet{}, nil, fmt.Errorf("%w: %s: unknown entry type %q", ErrInvalidStyleConfig, path, k)
		}
		rs.Entries[t] = rule
	}
	if rs.ID == "" {
		rs.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return rs, nil, nil
}

package styles

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
)

// Registry maps style ids to rule sets, remembering registration order.
// Reads are safe for concurrent use; registration is expected during
// start-up.
type Registry struct {
	mu    sync.RWMutex
	sets  map[string]RuleSet
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]RuleSet)}
}

// Default returns a registry holding the built-in styles.
func Default() *Registry {
	r := NewRegistry()
	for _, rs := range Builtins() {
		if err := r.Register(rs); err != nil {
			// built-in tables are constants; a failure here is a programming error
			panic(err)
		}
	}
	return r
}

// Register validates rs and adds it. Partial rule sets, out-of-range enum
// values and duplicate ids fail with ErrInvalidStyleConfig and leave the
// registry unchanged.
func (r *Registry) Register(rs RuleSet) error {
	rs, err := prepare(rs)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sets[rs.ID]; exists {
		return fmt.Errorf("%w: style %q already registered", ErrInvalidStyleConfig, rs.ID)
	}
	r.sets[rs.ID] = rs
	r.order = append(r.order, rs.ID)
	return nil
}

// Replace validates rs and registers it, overwriting an existing style with
// the same id in place (its list position is kept).
func (r *Registry) Replace(rs RuleSet) error {
	rs, err := prepare(rs)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sets[rs.ID]; !exists {
		r.order = append(r.order, rs.ID)
	}
	r.sets[rs.ID] = rs
	return nil
}

// Import registers a style derived from an external CSL document. The
// derived id gets a numeric suffix when it collides with a registered style
// ("apa" -> "apa-2"). Warnings from ImportExternal are passed through.
func (r *Registry) Import(doc []byte) (Info, []string, error) {
	rs, warnings := ImportExternal(doc)
	base := rs.ID
	for i := 2; r.Has(rs.ID); i++ {
		rs.ID = fmt.Sprintf("%s-%d", base, i)
	}
	if rs.ID != base {
		warnings = append(warnings, fmt.Sprintf("id %q is taken; registered as %q", base, rs.ID))
	}
	if err := r.Register(rs); err != nil {
		return Info{}, warnings, err
	}
	return Info{ID: rs.ID, DisplayName: rs.DisplayName}, warnings, nil
}

func prepare(rs RuleSet) (RuleSet, error) {
	rs = rs.withDefaults()
	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return clone(rs)
}

// Get returns a copy of the rule set registered under id (case-insensitive).
func (r *Registry) Get(id string) (RuleSet, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	r.mu.RLock()
	rs, ok := r.sets[key]
	r.mu.RUnlock()
	if !ok {
		return RuleSet{}, fmt.Errorf("%w: %q", ErrStyleNotFound, id)
	}
	return clone(rs)
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sets[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// List returns (id, display name) pairs in registration order.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Info{ID: id, DisplayName: r.sets[id].DisplayName})
	}
	return out
}

// clone deep-copies rs so neither the caller nor the registry can mutate the
// other's segments or entry maps.
func clone(rs RuleSet) (RuleSet, error) {
	var out RuleSet
	if err := copier.CopyWithOption(&out, &rs, copier.Option{DeepCopy: true}); err != nil {
		return RuleSet{}, fmt.Errorf("copying style %q: %w", rs.ID, err)
	}
	return out, nil
}

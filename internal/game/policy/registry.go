package policy

import (
	"fmt"
	"sort"
)

// Registry indexes Selectors by name.
//
// Invariant: each name is registered at most once.
type Registry struct {
	selectors map[string]Selector
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{selectors: make(map[string]Selector)}
}

// Register stores sel under sel.Name().
//
// Precondition: sel must not be nil.
// Postcondition: returns error on name collision.
func (r *Registry) Register(sel Selector) error {
	if sel == nil {
		panic("policy.Registry.Register: selector must not be nil")
	}
	name := sel.Name()
	if _, exists := r.selectors[name]; exists {
		return fmt.Errorf("policy.Registry: selector %q already registered", name)
	}
	r.selectors[name] = sel
	return nil
}

// Selector returns the Selector registered under name, or false.
func (r *Registry) Selector(name string) (Selector, bool) {
	s, ok := r.selectors[name]
	return s, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.selectors))
	for n := range r.selectors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package provider

import "fmt"

// Registry holds providers in a fixed order. The first registered
// provider for a lookup is the primary; the rest are fallbacks, tried in
// registration order.
type Registry struct {
	order  []Provider
	byName map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Provider)}
}

// Register appends a provider. Registering the same name twice is an
// error.
func (r *Registry) Register(p Provider) error {
	name := p.Name()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.byName[name] = p
	r.order = append(r.order, p)
	return nil
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Ordered returns providers starting with the named primary, followed by
// the remaining providers in registration order. An unknown primary
// yields the plain registration order.
func (r *Registry) Ordered(primary string) []Provider {
	out := make([]Provider, 0, len(r.order))
	if p, ok := r.byName[primary]; ok {
		out = append(out, p)
	}
	for _, p := range r.order {
		if p.Name() != primary {
			out = append(out, p)
		}
	}
	return out
}

// Names lists registered provider names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, p := range r.order {
		names[i] = p.Name()
	}
	return names
}

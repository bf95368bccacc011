package policy

import (
	"fmt"
	"slices"
	"sync"
)

// Registry resolves variant names and aliases to policies.
// It is safe for concurrent use; lookups return clones.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]*Policy
	aliases  map[string]string
}

// NewRegistry returns a registry holding the built-in variants and their
// legacy aliases ("ryze" → balanced, "bronze" → strict).
func NewRegistry() *Registry {
	r := &Registry{
		policies: make(map[string]*Policy),
		aliases:  make(map[string]string),
	}
	_ = r.Register(Balanced(), "ryze")
	_ = r.Register(Strict(), "bronze")

	return r
}

// Register validates p and adds it under p.Name and aliases, replacing any
// policy already registered under the same name. On error the registry is
// left unchanged.
func (r *Registry) Register(p *Policy, aliases ...string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range aliases {
		if _, clash := r.policies[a]; clash || a == p.Name {
			return fmt.Errorf("%w: alias %q shadows a policy", ErrInvalidPolicy, a)
		}
	}
	r.policies[p.Name] = p.Clone()
	for _, a := range aliases {
		r.aliases[a] = p.Name
	}

	return nil
}

// Lookup returns a copy of the policy named or aliased by name.
func (r *Registry) Lookup(name string) (*Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	p, ok := r.policies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}

	return p.Clone(), nil
}

// Names returns the registered variant names (aliases excluded), sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.policies))
	for n := range r.policies {
		names = append(names, n)
	}
	slices.Sort(names)

	return names
}

// Aliases returns the aliases registered for the policy name, sorted.
func (r *Registry) Aliases(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for a, target := range r.aliases {
		if target == name {
			out = append(out, a)
		}
	}
	slices.Sort(out)

	return out
}

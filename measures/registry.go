package measures

import (
	"fmt"
	"sync"

	"github.com/Readm/cplscheme"
)

// Factory builds a cplscheme.Measure from a limit parameter, the only
// configuration every reference kernel in this package needs. Callers with
// richer measures can still implement cplscheme.Measure directly and skip
// the registry.
type Factory func(limit float64) (cplscheme.Measure, error)

// Registry keeps named measure factories that can be activated by
// configuration (a config file names "relative" the way it names "explicit"
// for the coupling mode), adapted from the broker-registry split used for
// lifecycle observers.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Factory
}

// NewRegistry returns a registry pre-populated with this package's
// reference kernels ("relative", "absolute", "residual-relative").
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Factory)}
	_ = r.Register("relative", func(limit float64) (cplscheme.Measure, error) { return NewRelative(limit) })
	_ = r.Register("absolute", func(limit float64) (cplscheme.Measure, error) { return NewAbsolute(limit) })
	_ = r.Register("residual-relative", func(limit float64) (cplscheme.Measure, error) { return NewResidualRelative(limit) })
	return r
}

// Register adds a named factory. It fails if the name is already taken.
func (r *Registry) Register(name string, factory Factory) error {
	if r == nil {
		return fmt.Errorf("measures: registry is nil")
	}
	if name == "" {
		return fmt.Errorf("measures: factory name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("measures: factory cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[name]; exists {
		return fmt.Errorf("measures: factory already registered: %s", name)
	}
	r.builders[name] = factory
	return nil
}

// Build constructs the named measure with the given limit.
func (r *Registry) Build(name string, limit float64) (cplscheme.Measure, error) {
	if r == nil {
		return nil, fmt.Errorf("measures: registry is nil")
	}
	r.mu.RLock()
	factory, ok := r.builders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("measures: unknown measure kind %q", name)
	}
	return factory(limit)
}

// Names lists every registered measure kind.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builders))
	for name := range r.builders {
		out = append(out, name)
	}
	return out
}

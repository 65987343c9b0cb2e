// Package hooks provides a lifecycle broker that lets observers (logging,
// metrics, visualization) attach to coupling-scheme events without the
// scheme core depending on any of them.
package hooks

import "sync"

// Category groups a plugin by the concern it serves, mirroring how a
// deployment's logging, metrics, and visualization observers register
// independently of each other and of the scheme core.
type Category string

const (
	CategoryLogging        Category = "logging"
	CategoryMetrics        Category = "metrics"
	CategoryVisualization  Category = "visualization"
	CategoryDiagnostics    Category = "diagnostics"
)

// Descriptor identifies a registered observer for listing/introspection.
type Descriptor struct {
	Name        string
	Category    Category
	Description string
}

// ExchangeContext carries information for BeforeExchange/AfterExchange hooks.
type ExchangeContext struct {
	DataName  string
	Direction string
	TimeWindow int
}

// WindowContext carries information for OnWindowComplete hooks.
type WindowContext struct {
	TimeWindow      int
	PerformedSize   float64
	WindowStartTime float64
}

// IterationContext carries information for OnIterationComplete hooks.
type IterationContext struct {
	TimeWindow      int
	Iteration       int
	TotalIterations int
	Converged       bool
}

// ConvergenceContext carries information for OnConvergence hooks.
type ConvergenceContext struct {
	TimeWindow int
	Iteration  int
	Measures   map[string]float64
}

type (
	BeforeExchangeHook   func(ctx *ExchangeContext) error
	AfterExchangeHook    func(ctx *ExchangeContext) error
	WindowCompleteHook   func(ctx *WindowContext) error
	IterationCompleteHook func(ctx *IterationContext) error
	ConvergenceHook      func(ctx *ConvergenceContext) error
)

// Bundle groups every hook handler belonging to one observer, so it can be
// registered together with its Descriptor in a single call.
type Bundle struct {
	BeforeExchange    []BeforeExchangeHook
	AfterExchange     []AfterExchangeHook
	OnWindowComplete  []WindowCompleteHook
	OnIterationDone   []IterationCompleteHook
	OnConvergence     []ConvergenceHook
}

// Broker coordinates hook registration and triggering for a single scheme
// instance. It is safe for concurrent registration but schemes only ever
// emit from their single owning thread (per the core's concurrency model).
type Broker struct {
	mu sync.RWMutex

	beforeExchange   []BeforeExchangeHook
	afterExchange    []AfterExchangeHook
	onWindowComplete []WindowCompleteHook
	onIterationDone  []IterationCompleteHook
	onConvergence    []ConvergenceHook

	catalog map[Category][]Descriptor
	index   map[string]Descriptor
}

// NewBroker returns an empty hook broker.
func NewBroker() *Broker {
	return &Broker{
		catalog: make(map[Category][]Descriptor),
		index:   make(map[string]Descriptor),
	}
}

func (b *Broker) RegisterBeforeExchange(h BeforeExchangeHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beforeExchange = append(b.beforeExchange, h)
}

func (b *Broker) RegisterAfterExchange(h AfterExchangeHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.afterExchange = append(b.afterExchange, h)
}

func (b *Broker) RegisterOnWindowComplete(h WindowCompleteHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onWindowComplete = append(b.onWindowComplete, h)
}

func (b *Broker) RegisterOnIterationComplete(h IterationCompleteHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onIterationDone = append(b.onIterationDone, h)
}

func (b *Broker) RegisterOnConvergence(h ConvergenceHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onConvergence = append(b.onConvergence, h)
}

// RegisterBundle registers a descriptor together with every hook handler in bundle.
func (b *Broker) RegisterBundle(desc Descriptor, bundle Bundle) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registerDescriptorLocked(desc)
	b.beforeExchange = append(b.beforeExchange, bundle.BeforeExchange...)
	b.afterExchange = append(b.afterExchange, bundle.AfterExchange...)
	b.onWindowComplete = append(b.onWindowComplete, bundle.OnWindowComplete...)
	b.onIterationDone = append(b.onIterationDone, bundle.OnIterationDone...)
	b.onConvergence = append(b.onConvergence, bundle.OnConvergence...)
}

func (b *Broker) EmitBeforeExchange(ctx *ExchangeContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]BeforeExchangeHook(nil), b.beforeExchange...)
	b.mu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Broker) EmitAfterExchange(ctx *ExchangeContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]AfterExchangeHook(nil), b.afterExchange...)
	b.mu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Broker) EmitWindowComplete(ctx *WindowContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]WindowCompleteHook(nil), b.onWindowComplete...)
	b.mu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Broker) EmitIterationComplete(ctx *IterationContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]IterationCompleteHook(nil), b.onIterationDone...)
	b.mu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Broker) EmitConvergence(ctx *ConvergenceContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]ConvergenceHook(nil), b.onConvergence...)
	b.mu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ListPlugins returns descriptors for observers in the requested category.
func (b *Broker) ListPlugins(category Category) []Descriptor {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	catalog := b.catalog[category]
	if len(catalog) == 0 {
		return nil
	}
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

func (b *Broker) registerDescriptorLocked(desc Descriptor) {
	if desc.Name == "" {
		return
	}
	if _, exists := b.index[desc.Name]; exists {
		return
	}
	b.index[desc.Name] = desc
	b.catalog[desc.Category] = append(b.catalog[desc.Category], desc)
}

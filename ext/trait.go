package ext

import (
	"maps"
	"slices"
	"sync"
)

// ---------------------------------------------------------------------------
// Trait: a named set of handlers usable as a layer
// ---------------------------------------------------------------------------

// Trait is a layer implementation built from handlers keyed by operation
// name. Traits have no state of their own; the same trait can be pushed onto
// any number of objects.
type Trait struct {
	Name     string             // Trait name
	Methods  map[string]Handler // Handlers by operation name
	Requires []string           // Operations that must be declared before Include
}

// NewTrait creates a new empty trait.
func NewTrait(name string) *Trait {
	return &Trait{
		Name:    name,
		Methods: make(map[string]Handler),
	}
}

// On adds a handler and returns the trait for chaining.
func (t *Trait) On(op string, h Handler) *Trait {
	t.Methods[op] = h
	return t
}

// Require marks an operation as required by the trait.
func (t *Trait) Require(ops ...string) *Trait {
	t.Requires = append(t.Requires, ops...)
	return t
}

// Handler implements Impl.
func (t *Trait) Handler(op string) Handler {
	if t == nil {
		return nil
	}
	return t.Methods[op]
}

// LayerName implements Named.
func (t *Trait) LayerName() string {
	return t.Name
}

// HasMethod returns true if the trait provides a handler for op.
func (t *Trait) HasMethod(op string) bool {
	_, ok := t.Methods[op]
	return ok
}

// MethodCount returns the number of handlers in the trait.
func (t *Trait) MethodCount() int {
	return len(t.Methods)
}

// ---------------------------------------------------------------------------
// TraitTable: layer factories by name
// ---------------------------------------------------------------------------

// TraitTable maps names to layer factories so layers can be pushed by name.
// It's thread-safe for concurrent access.
type TraitTable struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewTraitTable creates a new empty trait table.
func NewTraitTable() *TraitTable {
	return &TraitTable{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory to the table.
// Returns the previous factory with this name, or nil.
func (tt *TraitTable) Register(name string, f Factory) Factory {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	old := tt.factories[name]
	tt.factories[name] = f
	return old
}

// RegisterTrait registers a factory that always returns t.
func (tt *TraitTable) RegisterTrait(t *Trait) Factory {
	return tt.Register(t.Name, func(*Object, Options) (Impl, error) { return t, nil })
}

// Lookup finds a factory by name.
func (tt *TraitTable) Lookup(name string) Factory {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return tt.factories[name]
}

// Has returns true if a factory with this name is registered.
func (tt *TraitTable) Has(name string) bool {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	_, ok := tt.factories[name]
	return ok
}

// Names returns the registered names, sorted.
func (tt *TraitTable) Names() []string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return slices.Sorted(maps.Keys(tt.factories))
}

// Len returns the number of registered factories.
func (tt *TraitTable) Len() int {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return len(tt.factories)
}

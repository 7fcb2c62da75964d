package ext

import (
	"iter"
	"maps"
	"slices"
)

// Descriptor records the declared shape of an operation.
//
// Descriptors are immutable once created. Upgrading an operation creates a new
// descriptor whose Supersedes field links back to the one it replaced; the
// chain is what lets layers compiled against an older shape keep working.
// Forks share descriptors, so parameters and metadata are only handed out as
// copies.
type Descriptor struct {
	Name string // Operation name

	// Supersedes is the descriptor this one replaced, or nil for a fresh
	// declaration.
	Supersedes *Descriptor

	// Adapter translates arguments in this shape into the shape of
	// Supersedes. Nil means parameters are matched by name.
	Adapter Adapter

	params   []string
	metadata map[string]any
	gen      Generation
	entry    entryFunc
}

// Params returns a copy of the declared parameter names, in call order.
func (d *Descriptor) Params() []string {
	return slices.Clone(d.params)
}

// Metadata returns a copy of the caller-supplied metadata, or nil.
func (d *Descriptor) Metadata() map[string]any {
	return maps.Clone(d.metadata)
}

// Arity returns the number of declared parameters.
func (d *Descriptor) Arity() int {
	return len(d.params)
}

// Generation returns the generation this shape was declared under.
func (d *Descriptor) Generation() Generation {
	return d.gen
}

// Depth returns how many descriptors this one supersedes, directly or not.
func (d *Descriptor) Depth() int {
	n := 0
	for cur := d.Supersedes; cur != nil; cur = cur.Supersedes {
		n++
	}
	return n
}

// Original returns the oldest descriptor in the supersedes chain.
func (d *Descriptor) Original() *Descriptor {
	cur := d
	for cur.Supersedes != nil {
		cur = cur.Supersedes
	}
	return cur
}

// ParamIndex returns the position of a parameter by name, or -1.
func (d *Descriptor) ParamIndex(name string) int {
	return slices.Index(d.params, name)
}

// sameShape reports whether two descriptors declare the same parameter list.
func (d *Descriptor) sameShape(other *Descriptor) bool {
	return slices.Equal(d.params, other.params)
}

// ---------------------------------------------------------------------------
// descriptorTable: active descriptors by name, in declaration order
// ---------------------------------------------------------------------------

type descriptorTable struct {
	byName map[string]*Descriptor
	order  []string
}

func newDescriptorTable() *descriptorTable {
	return &descriptorTable{byName: make(map[string]*Descriptor)}
}

func (t *descriptorTable) lookup(name string) *Descriptor {
	return t.byName[name]
}

// put installs d as the active descriptor for its name. A replaced
// descriptor keeps its original position in the declaration order.
func (t *descriptorTable) put(d *Descriptor) {
	if _, ok := t.byName[d.Name]; !ok {
		t.order = append(t.order, d.Name)
	}
	t.byName[d.Name] = d
}

// clone copies the mapping. Descriptors themselves are shared.
func (t *descriptorTable) clone() *descriptorTable {
	c := &descriptorTable{
		byName: make(map[string]*Descriptor, len(t.byName)),
		order:  slices.Clone(t.order),
	}
	for name, d := range t.byName {
		c.byName[name] = d
	}
	return c
}

func (t *descriptorTable) all() iter.Seq[*Descriptor] {
	return func(yield func(*Descriptor) bool) {
		for _, name := range t.order {
			if !yield(t.byName[name]) {
				return
			}
		}
	}
}

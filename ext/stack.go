package ext

import (
	"fmt"
	"iter"
)

// Handler implements one operation inside a layer.
type Handler func(c *Call) error

// Impl is a layer implementation. Handler returns the handler for an
// operation, or nil if the implementation does not wrap it; calls to
// operations without a handler pass through the layer unchanged.
type Impl interface {
	Handler(op string) Handler
}

// Named is implemented by layer implementations that carry a display name.
type Named interface {
	LayerName() string
}

// ImplName returns the display name of an implementation.
func ImplName(impl Impl) string {
	if impl == nil {
		return "<nil>"
	}
	if n, ok := impl.(Named); ok {
		return n.LayerName()
	}
	return fmt.Sprintf("%T", impl)
}

// Factory builds a layer implementation for an object. It runs with the
// object the layer is being pushed onto and may declare operations on it.
type Factory func(o *Object, opts Options) (Impl, error)

// Layer is one node of an object's layer stack. Nodes are owned by exactly
// one stack; a fork wraps the same Impl in new nodes.
type Layer struct {
	impl Impl
	next *Layer
	gen  Generation
}

// Impl returns the implementation wrapped by this layer.
func (l *Layer) Impl() Impl {
	return l.impl
}

// Next returns the layer beneath this one, or nil at the bottom.
func (l *Layer) Next() *Layer {
	return l.next
}

// Generation returns the generation the layer was pushed under.
func (l *Layer) Generation() Generation {
	return l.gen
}

// Implements reports whether the layer's implementation handles op.
func (l *Layer) Implements(op string) bool {
	return l.handler(op) != nil
}

func (l *Layer) handler(op string) Handler {
	if l.impl == nil {
		return nil
	}
	return l.impl.Handler(op)
}

// ---------------------------------------------------------------------------
// layerStack: newest-first singly linked list
// ---------------------------------------------------------------------------

type layerStack struct {
	top *Layer
}

// push prepends a node so the most recent layer sees calls first.
func (s *layerStack) push(impl Impl, gen Generation) *Layer {
	s.top = &Layer{impl: impl, next: s.top, gen: gen}
	return s.top
}

// nodes returns the stack bottom-to-top.
func (s *layerStack) nodes() []*Layer {
	var out []*Layer
	for l := s.top; l != nil; l = l.next {
		out = append(out, l)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// clone re-wraps every implementation in new nodes, preserving order and
// the generation each node was pushed under.
func (s *layerStack) clone() *layerStack {
	c := &layerStack{}
	for _, l := range s.nodes() {
		c.push(l.impl, l.gen)
	}
	return c
}

// all yields layers bottom-to-top, the reverse of dispatch order.
func (s *layerStack) all() iter.Seq[*Layer] {
	return func(yield func(*Layer) bool) {
		for _, l := range s.nodes() {
			if !yield(l) {
				return
			}
		}
	}
}

package ext

import (
	"fmt"
	"slices"
)

// Call is the protocol envelope handed to a layer's handler. The declared
// parameters live in Args; everything the dispatch protocol needs travels in
// the other fields, so operation parameters can use any names.
type Call struct {
	Object *Object // Object the operation was called on
	Op     string  // Operation name
	Args   []Value // Arguments in the shape this layer was written for
	Layer  *Layer  // Layer currently executing
	State  any     // Hand-off state received from above

	shape *Descriptor
	step  stepFunc
}

// Descriptor returns the shape Args is in, which may be older than the
// operation's active descriptor.
func (c *Call) Descriptor() *Descriptor {
	return c.shape
}

// Arg returns the argument bound to a parameter name, or nil.
func (c *Call) Arg(name string) Value {
	if i := c.shape.ParamIndex(name); i >= 0 {
		return c.Args[i]
	}
	return nil
}

// Callback returns the completion callback when the last argument is one.
func (c *Call) Callback() (Callback, bool) {
	if len(c.Args) == 0 {
		return nil, false
	}
	return asCallback(c.Args[len(c.Args)-1])
}

// Next continues the call in the layer below, forwarding the inbound state.
// Args must be in this layer's shape.
func (c *Call) Next(args ...Value) error {
	return c.NextWithState(nil, args...)
}

// NextWithState continues the call in the layer below. If out is truthy it
// replaces the hand-off state seen by deeper layers; otherwise the inbound
// state is forwarded unchanged.
func (c *Call) NextWithState(out any, args ...Value) error {
	if len(args) != len(c.shape.params) {
		return fmt.Errorf("%w: %s continuation expects %d arguments, got %d",
			ErrArity, c.Op, len(c.shape.params), len(args))
	}
	state := c.State
	if truthy(out) {
		state = out
	}
	return c.step(c.Object, c.Layer.next, c.shape, args, state)
}

// ---------------------------------------------------------------------------
// Compilation
// ---------------------------------------------------------------------------

// entryFunc is the public entry point of an operation.
type entryFunc func(o *Object, args []Value) error

// stepFunc threads a call from node downward. shape describes args.
type stepFunc func(o *Object, node *Layer, shape *Descriptor, args []Value, state any) error

// compile builds the entry point for d and the per-layer step it threads
// calls through. Both capture the operation's name and arity as data; nothing
// about the object is bound, so forks can share descriptors.
func compile(d *Descriptor) entryFunc {
	name, arity := d.Name, len(d.params)

	var step stepFunc
	step = func(o *Object, node *Layer, shape *Descriptor, args []Value, state any) error {
		for ; node != nil; node = node.next {
			h := node.handler(name)
			if h == nil {
				continue
			}
			target := shapeAt(d, node.gen)
			if target != shape {
				var err error
				if args, err = translate(args, shape, target); err != nil {
					return err
				}
			}
			return h(&Call{
				Object: o,
				Op:     name,
				Args:   args,
				Layer:  node,
				State:  state,
				shape:  target,
				step:   step,
			})
		}
		return fmt.Errorf("%w: %q", ErrChainExhausted, name)
	}

	return func(o *Object, args []Value) error {
		if len(args) != arity {
			return fmt.Errorf("%w: %s expects %d arguments, got %d", ErrArity, name, arity, len(args))
		}
		top := o.registry().stack.top
		first := top
		for first != nil && first.handler(name) == nil {
			first = first.next
		}
		if first == nil {
			return fmt.Errorf("%w: %q", ErrChainExhausted, name)
		}
		if d.Supersedes != nil && !shapeAt(d, first.gen).sameShape(d) {
			return fmt.Errorf("%w: %q generation %d, outermost implementation is generation %d",
				ErrUpgradeMissingImplementation, name, d.gen, first.gen)
		}
		return step(o, top, d, slices.Clone(args), nil)
	}
}

package layers

import "github.com/chazu/extensible/ext"

// Handoff sets the hand-off state seen by deeper layers.
type Handoff struct {
	ops   opSet
	state any
}

// NewHandoff builds a Handoff layer. Option "state" is the value handed off.
func NewHandoff(_ *ext.Object, opts ext.Options) (ext.Impl, error) {
	ops, err := opsOption(opts)
	if err != nil {
		return nil, err
	}
	return &Handoff{ops: ops, state: opts["state"]}, nil
}

// LayerName implements ext.Named.
func (h *Handoff) LayerName() string { return "handoff" }

// Handler implements ext.Impl.
func (h *Handoff) Handler(op string) ext.Handler {
	if !h.ops.covers(op) {
		return nil
	}
	return func(c *ext.Call) error {
		return c.NextWithState(h.state, c.Args...)
	}
}

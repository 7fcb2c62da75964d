package layers

import (
	"maps"

	"github.com/chazu/extensible/ext"
)

// Count tallies calls per operation and passes them through.
type Count struct {
	ops    opSet
	counts map[string]int
}

// NewCount builds a Count layer. Option "ops" limits the counted operations.
func NewCount(_ *ext.Object, opts ext.Options) (ext.Impl, error) {
	ops, err := opsOption(opts)
	if err != nil {
		return nil, err
	}
	return &Count{ops: ops, counts: make(map[string]int)}, nil
}

// LayerName implements ext.Named.
func (c *Count) LayerName() string { return "count" }

// Handler implements ext.Impl.
func (c *Count) Handler(op string) ext.Handler {
	if !c.ops.covers(op) {
		return nil
	}
	return func(call *ext.Call) error {
		c.counts[op]++
		return call.Next(call.Args...)
	}
}

// Calls returns how many times op has passed through the layer.
func (c *Count) Calls(op string) int {
	return c.counts[op]
}

// Snapshot returns a copy of all counts.
func (c *Count) Snapshot() map[string]int {
	return maps.Clone(c.counts)
}

package layers

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/extensible/ext"
)

// Trace logs every call it sees and passes it through unchanged.
type Trace struct {
	name string
	ops  opSet
	log  commonlog.Logger
}

// NewTrace builds a Trace layer. Options: "ops" limits the traced
// operations, "name" labels the log lines.
func NewTrace(_ *ext.Object, opts ext.Options) (ext.Impl, error) {
	ops, err := opsOption(opts)
	if err != nil {
		return nil, err
	}
	name, err := stringOption(opts, "name", "trace")
	if err != nil {
		return nil, err
	}
	return &Trace{name: name, ops: ops, log: log}, nil
}

// LayerName implements ext.Named.
func (t *Trace) LayerName() string { return t.name }

// Handler implements ext.Impl.
func (t *Trace) Handler(op string) ext.Handler {
	if !t.ops.covers(op) {
		return nil
	}
	return func(c *ext.Call) error {
		t.log.Infof("%s: %s%v on %s (generation %d)", t.name, c.Op, c.Args, c.Object.ID(), c.Layer.Generation())
		err := c.Next(c.Args...)
		if err != nil {
			t.log.Warningf("%s: %s failed: %s", t.name, c.Op, err)
		}
		return err
	}
}

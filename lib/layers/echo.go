package layers

import "github.com/chazu/extensible/ext"

// Echo is a terminal layer. It completes every call by passing its
// non-callback arguments to the completion callback, prefixed by the
// hand-off state when option "state" is true.
type Echo struct {
	ops       opSet
	withState bool
}

// NewEcho builds an Echo layer.
func NewEcho(_ *ext.Object, opts ext.Options) (ext.Impl, error) {
	ops, err := opsOption(opts)
	if err != nil {
		return nil, err
	}
	withState, _ := opts["state"].(bool)
	return &Echo{ops: ops, withState: withState}, nil
}

// LayerName implements ext.Named.
func (e *Echo) LayerName() string { return "echo" }

// Handler implements ext.Impl.
func (e *Echo) Handler(op string) ext.Handler {
	if !e.ops.covers(op) {
		return nil
	}
	return func(c *ext.Call) error {
		cb, ok := c.Callback()
		if !ok {
			return nil
		}
		results := c.Args[:len(c.Args)-1]
		if e.withState {
			results = append([]ext.Value{c.State}, results...)
		}
		cb(results...)
		return nil
	}
}

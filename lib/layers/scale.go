package layers

import (
	"fmt"

	"github.com/chazu/extensible/ext"
)

// Scale multiplies one numeric argument on the way down and divides the last
// numeric result by the same factor on the way up.
type Scale struct {
	ops    opSet
	factor float64
	param  string
	index  int
}

// NewScale builds a Scale layer. Options: "factor" (default 2), "param" the
// parameter name to scale, or "index" its position (default 0), "ops".
func NewScale(_ *ext.Object, opts ext.Options) (ext.Impl, error) {
	ops, err := opsOption(opts)
	if err != nil {
		return nil, err
	}
	factor := 2.0
	if raw, ok := opts["factor"]; ok {
		f, ok := toFloat(raw)
		if !ok || f == 0 {
			return nil, fmt.Errorf("factor: expected non-zero number, got %v", raw)
		}
		factor = f
	}
	param, err := stringOption(opts, "param", "")
	if err != nil {
		return nil, err
	}
	index, err := intOption(opts, "index", 0)
	if err != nil {
		return nil, err
	}
	return &Scale{ops: ops, factor: factor, param: param, index: index}, nil
}

// LayerName implements ext.Named.
func (s *Scale) LayerName() string { return "scale" }

// Handler implements ext.Impl.
func (s *Scale) Handler(op string) ext.Handler {
	if !s.ops.covers(op) {
		return nil
	}
	return func(c *ext.Call) error {
		idx := s.index
		if s.param != "" {
			idx = c.Descriptor().ParamIndex(s.param)
		}
		if idx < 0 || idx >= len(c.Args) {
			return fmt.Errorf("scale: %s has no parameter %q at %d", c.Op, s.param, idx)
		}
		args := append([]ext.Value(nil), c.Args...)
		scaled, err := apply(args[idx], func(f float64) float64 { return f * s.factor })
		if err != nil {
			return fmt.Errorf("scale: %s: %w", c.Op, err)
		}
		args[idx] = scaled

		if cb, ok := c.Callback(); ok {
			last := len(args) - 1
			args[last] = ext.Callback(func(results ...ext.Value) {
				if n := len(results); n > 0 {
					if v, err := apply(results[n-1], func(f float64) float64 { return f / s.factor }); err == nil {
						results = append(results[:n-1:n-1], v)
					}
				}
				cb(results...)
			})
		}
		return c.Next(args...)
	}
}

func toFloat(v ext.Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// apply runs fn over a numeric value, keeping integers integral when the
// outcome is whole.
func apply(v ext.Value, fn func(float64) float64) (ext.Value, error) {
	switch n := v.(type) {
	case int:
		p := fn(float64(n))
		if p == float64(int(p)) {
			return int(p), nil
		}
		return p, nil
	case int64:
		p := fn(float64(n))
		if p == float64(int64(p)) {
			return int64(p), nil
		}
		return p, nil
	case float64:
		return fn(n), nil
	}
	return nil, fmt.Errorf("cannot scale %T", v)
}

// Package layers provides reusable layer implementations and registers them
// in an ext.TraitTable so manifests and the CLI can push them by name.
package layers

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/extensible/ext"
)

var log = commonlog.GetLogger("extensible.layers")

// Register adds every built-in layer factory to tt.
func Register(tt *ext.TraitTable) {
	tt.Register("trace", NewTrace)
	tt.Register("count", NewCount)
	tt.Register("echo", NewEcho)
	tt.Register("scale", NewScale)
	tt.Register("handoff", NewHandoff)
}

// Builtins returns a trait table holding only the built-in layers.
func Builtins() *ext.TraitTable {
	tt := ext.NewTraitTable()
	Register(tt)
	return tt
}

// opSet reads the optional "ops" option: the operations a layer should
// handle. An empty set means every operation.
type opSet map[string]bool

func opsOption(opts ext.Options) (opSet, error) {
	raw, ok := opts["ops"]
	if !ok || raw == nil {
		return nil, nil
	}
	set := make(opSet)
	switch v := raw.(type) {
	case string:
		set[v] = true
	case []string:
		for _, s := range v {
			set[s] = true
		}
	case []any:
		for _, s := range v {
			name, ok := s.(string)
			if !ok {
				return nil, fmt.Errorf("ops: expected string, got %T", s)
			}
			set[name] = true
		}
	default:
		return nil, fmt.Errorf("ops: expected string or list, got %T", raw)
	}
	return set, nil
}

func (s opSet) covers(op string) bool {
	return len(s) == 0 || s[op]
}

func stringOption(opts ext.Options, key, def string) (string, error) {
	raw, ok := opts[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, raw)
	}
	return s, nil
}

func intOption(opts ext.Options, key string, def int) (int, error) {
	raw, ok := opts[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s: %v is not an integer", key, v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%s: expected integer, got %T", key, raw)
}

// Package snapshot captures the shape of an extensible object for
// inspection: its operations, its layer stack and its lineage. Snapshots are
// encoded as canonical CBOR so equal shapes produce equal bytes.
package snapshot

import (
	"github.com/chazu/extensible/ext"
)

// Snapshot describes an object at one point in time.
type Snapshot struct {
	ID         string      `cbor:"1,keyasint" json:"id"`
	Parent     string      `cbor:"2,keyasint,omitempty" json:"parent,omitempty"`
	Instance   bool        `cbor:"3,keyasint,omitempty" json:"instance,omitempty"`
	Name       string      `cbor:"4,keyasint,omitempty" json:"name,omitempty"`
	Generation uint64      `cbor:"5,keyasint" json:"generation"`
	Operations []Operation `cbor:"6,keyasint,omitempty" json:"operations,omitempty"`
	Layers     []Layer     `cbor:"7,keyasint,omitempty" json:"layers,omitempty"`
}

// Operation describes an active operation descriptor.
type Operation struct {
	Name       string         `cbor:"1,keyasint" json:"name"`
	Params     []string       `cbor:"2,keyasint,omitempty" json:"params,omitempty"`
	Generation uint64         `cbor:"3,keyasint" json:"generation"`
	Upgrades   int            `cbor:"4,keyasint,omitempty" json:"upgrades,omitempty"`
	Metadata   map[string]any `cbor:"5,keyasint,omitempty" json:"metadata,omitempty"`
}

// Layer describes one layer, listed bottom-to-top.
type Layer struct {
	Name       string   `cbor:"1,keyasint" json:"name"`
	Generation uint64   `cbor:"2,keyasint" json:"generation"`
	Implements []string `cbor:"3,keyasint,omitempty" json:"implements,omitempty"`
}

// Take captures o.
func Take(o *ext.Object) *Snapshot {
	s := &Snapshot{
		ID:         o.ID().String(),
		Instance:   o.IsInstance(),
		Generation: uint64(o.Generation()),
	}
	if p := o.Parent(); p != nil {
		s.Parent = p.ID().String()
	}
	if name, ok := o.Get("name"); ok {
		s.Name, _ = name.(string)
	}

	var ops []string
	for d := range o.Descriptors() {
		ops = append(ops, d.Name)
		s.Operations = append(s.Operations, Operation{
			Name:       d.Name,
			Params:     d.Params(),
			Generation: uint64(d.Generation()),
			Upgrades:   d.Depth(),
			Metadata:   d.Metadata(),
		})
	}
	for l := range o.Layers() {
		info := Layer{Name: ext.ImplName(l.Impl()), Generation: uint64(l.Generation())}
		for _, op := range ops {
			if l.Implements(op) {
				info.Implements = append(info.Implements, op)
			}
		}
		s.Layers = append(s.Layers, info)
	}
	return s
}

// Operation returns the named operation, or nil.
func (s *Snapshot) Operation(name string) *Operation {
	for i := range s.Operations {
		if s.Operations[i].Name == name {
			return &s.Operations[i]
		}
	}
	return nil
}

package ext

import (
	"fmt"

	"github.com/google/uuid"
)

// Instance returns an object that delegates to o. It shares o's descriptors
// and layers, so later changes to either are visible through both, and reads
// attributes it has not set from o.
func (o *Object) Instance() *Object {
	inst := &Object{id: uuid.New(), parent: o, delegates: true}
	log.Debugf("object %s: instance %s", o.id, inst.id)
	return inst
}

// NewInstance creates an instance and runs init against it.
func (o *Object) NewInstance(init func(inst *Object) error) (*Object, error) {
	inst := o.Instance()
	if init != nil {
		if err := init(inst); err != nil {
			return nil, fmt.Errorf("instance initializer: %w", err)
		}
	}
	return inst, nil
}

// Fork returns an independently extensible copy of o. The fork gets its own
// descriptor table and a new layer stack wrapping the same implementations in
// the same order. Its parent link is kept for IsDescendantOf only.
func (o *Object) Fork() *Object {
	f := &Object{
		id:     uuid.New(),
		parent: o,
		reg:    o.registry().clone(),
		attrs:  o.visibleAttrs(),
	}
	log.Debugf("object %s: fork %s", o.id, f.id)
	return f
}

// Parent returns the object o was derived from, or nil.
func (o *Object) Parent() *Object {
	return o.parent
}

// IsInstance reports whether o delegates to its parent.
func (o *Object) IsInstance() bool {
	return o.delegates
}

// IsDescendantOf reports whether other appears in o's parent chain.
func (o *Object) IsDescendantOf(other *Object) bool {
	if other == nil {
		return false
	}
	for cur := o.parent; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

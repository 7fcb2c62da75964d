package ext

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// CallOperation is the operation behind Invoke. An object that declares it
// is callable.
const CallOperation = "$call"

// reservedNames are the object's own API and cannot name operations.
var reservedNames = map[string]bool{
	"Declare":        true,
	"Upgrade":        true,
	"UpgradeAdapted": true,
	"Use":            true,
	"UseFactory":     true,
	"Include":        true,
	"Descriptor":     true,
	"Descriptors":    true,
	"EachDescriptor": true,
	"Layers":         true,
	"EachLayer":      true,
	"Top":            true,
	"Instance":       true,
	"NewInstance":    true,
	"Fork":           true,
	"IsDescendantOf": true,
	"Parent":         true,
	"ID":             true,
	"Call":           true,
	"Invoke":         true,
	"Callable":       true,
	"Get":            true,
	"Set":            true,
	"Has":            true,
	"Generation":     true,
}

// IsReserved reports whether name is reserved by the object API.
func IsReserved(name string) bool {
	return reservedNames[name]
}

// registry holds the mutable state an object's operations dispatch through.
// Instances share their parent's registry; forks own a copy.
type registry struct {
	table *descriptorTable
	stack *layerStack
	gen   Generation
}

func newRegistry() *registry {
	return &registry{table: newDescriptorTable(), stack: &layerStack{}}
}

func (r *registry) clone() *registry {
	return &registry{table: r.table.clone(), stack: r.stack.clone(), gen: r.gen}
}

// Object is an extensible host object.
type Object struct {
	id     uuid.UUID
	parent *Object

	// reg is nil for instances, which resolve it through parent.
	reg *registry

	// attrs holds locally set attributes. delegates marks an instance,
	// whose unset attributes resolve through parent.
	attrs     map[string]Value
	delegates bool
}

// New creates an empty object with no operations and no layers.
func New() *Object {
	o := &Object{id: uuid.New(), reg: newRegistry()}
	log.Debugf("new object %s", o.id)
	return o
}

// ID returns the object's unique identifier.
func (o *Object) ID() uuid.UUID {
	return o.id
}

func (o *Object) registry() *registry {
	cur := o
	for cur.reg == nil {
		cur = cur.parent
	}
	return cur.reg
}

// Generation returns the object's current generation.
func (o *Object) Generation() Generation {
	return o.registry().gen
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Declare adds an operation. It fails with ErrAlreadyDeclared if the name is
// in use; use Upgrade to change an existing operation's shape.
func (o *Object) Declare(name string, params []string, metadata map[string]any) (*Descriptor, error) {
	return o.define(name, params, metadata, nil, false)
}

// Upgrade replaces an operation's descriptor. Layers pushed before the
// upgrade keep receiving arguments in the shape they were written for,
// matched by parameter name. Upgrading an undeclared name declares it.
func (o *Object) Upgrade(name string, params []string, metadata map[string]any) (*Descriptor, error) {
	return o.define(name, params, metadata, nil, true)
}

// UpgradeAdapted is Upgrade with an explicit adapter from the new shape to
// the one it replaces.
func (o *Object) UpgradeAdapted(name string, params []string, metadata map[string]any, adapter Adapter) (*Descriptor, error) {
	return o.define(name, params, metadata, adapter, true)
}

func (o *Object) define(name string, params []string, metadata map[string]any, adapter Adapter, upgrade bool) (*Descriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty operation name", ErrInvalidName)
	}
	if reservedNames[name] {
		return nil, fmt.Errorf("%w: %q", ErrNameReserved, name)
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p == "" || seen[p] {
			return nil, fmt.Errorf("%w: parameter %q of %s", ErrInvalidName, p, name)
		}
		seen[p] = true
	}

	r := o.registry()
	old := r.table.lookup(name)
	if old != nil && !upgrade {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyDeclared, name)
	}

	d := &Descriptor{
		Name:       name,
		Supersedes: old,
		Adapter:    adapter,
		params:     slices.Clone(params),
		metadata:   maps.Clone(metadata),
		gen:        r.gen,
	}
	if old != nil {
		if d.sameShape(old) {
			d.gen = old.gen
		} else {
			r.gen++
			d.gen = r.gen
		}
	}
	d.entry = compile(d)
	r.table.put(d)

	if old != nil {
		log.Debugf("object %s: upgraded %s%v at generation %d", o.id, name, d.params, d.gen)
	} else {
		log.Debugf("object %s: declared %s%v", o.id, name, d.params)
	}
	return d, nil
}

// Descriptor returns the active descriptor for name, or nil.
func (o *Object) Descriptor(name string) *Descriptor {
	return o.registry().table.lookup(name)
}

// Descriptors yields active descriptors in declaration order.
func (o *Object) Descriptors() iter.Seq[*Descriptor] {
	return func(yield func(*Descriptor) bool) {
		o.registry().table.all()(yield)
	}
}

// EachDescriptor calls visit for each active descriptor in declaration order.
func (o *Object) EachDescriptor(visit func(d *Descriptor)) {
	for d := range o.Descriptors() {
		visit(d)
	}
}

// Call invokes an operation with exactly its declared arguments.
func (o *Object) Call(name string, args ...Value) error {
	d := o.registry().table.lookup(name)
	if d == nil {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if err := d.entry(o, args); err != nil {
		log.Debugf("object %s: %s: %s", o.id, name, err)
		return err
	}
	return nil
}

// Callable reports whether the object declares CallOperation.
func (o *Object) Callable() bool {
	return o.Descriptor(CallOperation) != nil
}

// Invoke calls the object itself, dispatching CallOperation.
func (o *Object) Invoke(args ...Value) error {
	if !o.Callable() {
		return fmt.Errorf("%w: object %s", ErrNotCallable, o.id)
	}
	return o.Call(CallOperation, args...)
}

// ---------------------------------------------------------------------------
// Layers
// ---------------------------------------------------------------------------

// Use pushes impl as the new outermost layer and returns its node.
func (o *Object) Use(impl Impl) *Layer {
	r := o.registry()
	l := r.stack.push(impl, r.gen)
	log.Debugf("object %s: pushed layer %s at generation %d", o.id, ImplName(impl), r.gen)
	return l
}

// UseFactory runs f against the object and pushes the implementation it
// returns.
func (o *Object) UseFactory(f Factory, opts Options) (*Layer, error) {
	if f == nil {
		return nil, ErrNilFactory
	}
	impl, err := f(o, opts)
	if err != nil {
		return nil, fmt.Errorf("layer factory: %w", err)
	}
	return o.Use(impl), nil
}

// Include pushes a trait after checking that every operation it requires is
// declared.
func (o *Object) Include(t *Trait) (*Layer, error) {
	for _, op := range t.Requires {
		if o.Descriptor(op) == nil {
			return nil, fmt.Errorf("%w: trait %s requires %q", ErrMissingRequirement, t.Name, op)
		}
	}
	return o.Use(t), nil
}

// Top returns the outermost layer, or nil for an empty stack.
func (o *Object) Top() *Layer {
	return o.registry().stack.top
}

// Layers yields layers bottom-to-top: oldest first, the reverse of the order
// in which they see calls.
func (o *Object) Layers() iter.Seq[*Layer] {
	return func(yield func(*Layer) bool) {
		o.registry().stack.all()(yield)
	}
}

// EachLayer calls visit for each layer, bottom-to-top.
func (o *Object) EachLayer(visit func(l *Layer)) {
	for l := range o.Layers() {
		visit(l)
	}
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// Set stores an attribute on this object only.
func (o *Object) Set(key string, v Value) {
	if o.attrs == nil {
		o.attrs = make(map[string]Value)
	}
	o.attrs[key] = v
}

// Get returns an attribute. Instances fall back to their parent for keys
// they have not set.
func (o *Object) Get(key string) (Value, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		if v, ok := cur.attrs[key]; ok {
			return v, true
		}
		if !cur.delegates {
			break
		}
	}
	return nil, false
}

// Has reports whether Get would find key.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// visibleAttrs flattens the attributes Get can see.
func (o *Object) visibleAttrs() map[string]Value {
	var chain []*Object
	for cur := o; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
		if !cur.delegates {
			break
		}
	}
	out := make(map[string]Value)
	for i := len(chain) - 1; i >= 0; i-- {
		maps.Copy(out, chain[i].attrs)
	}
	return out
}

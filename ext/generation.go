package ext

import "fmt"

// Generation is the version epoch of an object's operation shapes.
//
// An object's generation advances exactly when an operation that is already
// declared is upgraded with a different parameter list. Every layer records
// the generation it was pushed under, and that generation decides which
// descriptor in an operation's supersedes chain the layer was written for.
type Generation uint64

// Adapter translates arguments from one operation shape into the shape it
// supersedes. It is only ever invoked with to == from.Supersedes.
type Adapter func(from, to *Descriptor, args []Value) ([]Value, error)

// RenameAdapter returns an Adapter that matches parameters by name. Parameters
// of the older shape that the newer one does not declare are filled from
// defaults, or left nil.
func RenameAdapter(defaults map[string]Value) Adapter {
	return func(from, to *Descriptor, args []Value) ([]Value, error) {
		out := make([]Value, len(to.params))
		for i, name := range to.params {
			if j := from.ParamIndex(name); j >= 0 {
				out[i] = args[j]
				continue
			}
			out[i] = defaults[name]
		}
		return out, nil
	}
}

var byName = RenameAdapter(nil)

// shapeAt returns the descriptor a layer pushed under gen was written
// against: the newest descriptor in active's chain not newer than gen, or the
// oldest one when the layer predates the operation. Metadata-only upgrades
// do not change the shape, so the newest descriptor of an unbroken run of
// equal parameter lists stands for the whole run.
func shapeAt(active *Descriptor, gen Generation) *Descriptor {
	d, run := active, active
	for d.gen > gen && d.Supersedes != nil {
		d = d.Supersedes
		if !d.sameShape(run) {
			run = d
		}
	}
	return run
}

// translate converts args from the from shape down the supersedes chain to
// the to shape, one adapter per step.
func translate(args []Value, from, to *Descriptor) ([]Value, error) {
	cur := from
	for cur != to {
		older := cur.Supersedes
		if older == nil {
			return nil, fmt.Errorf("%w: %s generation %d cannot reach generation %d",
				ErrShapeMismatch, from.Name, from.gen, to.gen)
		}
		adapt := cur.Adapter
		if adapt == nil {
			adapt = byName
		}
		next, err := adapt(cur, older, args)
		if err != nil {
			return nil, fmt.Errorf("%s: adapt generation %d to %d: %w", cur.Name, cur.gen, older.gen, err)
		}
		if len(next) != len(older.params) {
			return nil, fmt.Errorf("%w: %s adapter produced %d arguments, want %d",
				ErrShapeMismatch, cur.Name, len(next), len(older.params))
		}
		args, cur = next, older
	}
	return args, nil
}

package ext

import "reflect"

// Value is an argument or result carried through a dispatch chain.
type Value = any

// Options are passed to layer factories.
type Options map[string]any

// Callback is the conventional completion callback. Operations that report
// results declare it as their last parameter and the innermost layer invokes it.
type Callback func(results ...Value)

// asCallback converts a value to a Callback if it has a compatible func type.
func asCallback(v Value) (Callback, bool) {
	switch fn := v.(type) {
	case Callback:
		return fn, fn != nil
	case func(...Value):
		return fn, fn != nil
	}
	return nil, false
}

// truthy reports whether a hand-off state value replaces the inbound one.
// nil, false, zero numbers and the empty string are not truthy; nil pointers,
// maps, slices, funcs and channels are not truthy either.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return !rv.IsZero()
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/extensible/ext"
)

func push(t *testing.T, o *ext.Object, tt *ext.TraitTable, name string, opts ext.Options) ext.Impl {
	t.Helper()
	f := tt.Lookup(name)
	require.NotNil(t, f, "factory %s", name)
	l, err := o.UseFactory(f, opts)
	require.NoError(t, err)
	return l.Impl()
}

func TestBuiltins(t *testing.T) {
	tt := Builtins()
	assert.Equal(t, []string{"count", "echo", "handoff", "scale", "trace"}, tt.Names())
}

func TestScaleRoundTrip(t *testing.T) {
	tt := Builtins()
	o := ext.New()
	_, err := o.Declare("m", []string{"a", "cb"}, nil)
	require.NoError(t, err)

	push(t, o, tt, "echo", nil)
	push(t, o, tt, "scale", ext.Options{"factor": int64(64)})
	push(t, o, tt, "scale", ext.Options{"factor": 64.0, "param": "a"})
	counter := push(t, o, tt, "count", nil).(*Count)
	push(t, o, tt, "trace", ext.Options{"name": "outer"})

	var got []ext.Value
	require.NoError(t, o.Call("m", 1, ext.Callback(func(r ...ext.Value) { got = r })))
	assert.Equal(t, []ext.Value{1}, got)
	assert.Equal(t, 1, counter.Calls("m"))
	assert.Equal(t, map[string]int{"m": 1}, counter.Snapshot())
}

func TestEchoSeesScaledArgument(t *testing.T) {
	tt := Builtins()
	o := ext.New()
	o.Declare("m", []string{"a", "b", "cb"}, nil)
	push(t, o, tt, "echo", nil)
	push(t, o, tt, "scale", ext.Options{"factor": 64, "param": "a"})
	push(t, o, tt, "scale", ext.Options{"factor": 64})

	var got []ext.Value
	require.NoError(t, o.Call("m", 1, "b", ext.Callback(func(r ...ext.Value) { got = r })))
	require.Len(t, got, 2)
	assert.Equal(t, 4096, got[0])
}

func TestScaleFloat(t *testing.T) {
	tt := Builtins()
	o := ext.New()
	o.Declare("m", []string{"x", "cb"}, nil)
	push(t, o, tt, "echo", nil)
	push(t, o, tt, "scale", ext.Options{"factor": 2})

	var got []ext.Value
	require.NoError(t, o.Call("m", 1.5, ext.Callback(func(r ...ext.Value) { got = r })))
	assert.Equal(t, []ext.Value{1.5}, got)
}

func TestScaleErrors(t *testing.T) {
	tt := Builtins()
	o := ext.New()
	o.Declare("m", []string{"x"}, nil)

	_, err := o.UseFactory(tt.Lookup("scale"), ext.Options{"factor": 0})
	assert.Error(t, err)
	_, err = o.UseFactory(tt.Lookup("scale"), ext.Options{"factor": "big"})
	assert.Error(t, err)

	push(t, o, tt, "echo", nil)
	push(t, o, tt, "scale", ext.Options{"param": "missing"})
	assert.Error(t, o.Call("m", 1))

	o2 := ext.New()
	o2.Declare("m", []string{"x"}, nil)
	push(t, o2, tt, "echo", nil)
	push(t, o2, tt, "scale", nil)
	assert.Error(t, o2.Call("m", "not a number"))

	_, err = o.UseFactory(tt.Lookup("scale"), ext.Options{"index": 1.5})
	assert.Error(t, err)
}

func TestScaleIndex(t *testing.T) {
	o := ext.New()
	o.Declare("m", []string{"label", "x", "cb"}, nil)
	_, err := o.UseFactory(NewEcho, nil)
	require.NoError(t, err)
	_, err = o.UseFactory(NewScale, ext.Options{"index": int64(1), "factor": 10})
	require.NoError(t, err)

	var got []ext.Value
	require.NoError(t, o.Call("m", "n", 3, ext.Callback(func(r ...ext.Value) { got = r })))
	// echo returns ["n", 30]; the last result is divided back.
	assert.Equal(t, []ext.Value{"n", 3}, got)
}

func TestHandoffReachesEcho(t *testing.T) {
	tt := Builtins()
	o := ext.New()
	o.Declare("m", []string{"x", "cb"}, nil)
	push(t, o, tt, "echo", ext.Options{"state": true})
	push(t, o, tt, "count", nil)
	push(t, o, tt, "handoff", ext.Options{"state": "token"})

	var got []ext.Value
	require.NoError(t, o.Call("m", 7, ext.Callback(func(r ...ext.Value) { got = r })))
	assert.Equal(t, []ext.Value{"token", 7}, got)
}

func TestOpsOption(t *testing.T) {
	tt := Builtins()
	o := ext.New()
	o.Declare("a", []string{"cb"}, nil)
	o.Declare("b", []string{"cb"}, nil)
	push(t, o, tt, "echo", nil)
	counter := push(t, o, tt, "count", ext.Options{"ops": []any{"a"}}).(*Count)

	noop := ext.Callback(func(...ext.Value) {})
	require.NoError(t, o.Call("a", noop))
	require.NoError(t, o.Call("b", noop))
	assert.Equal(t, 1, counter.Calls("a"))
	assert.Equal(t, 0, counter.Calls("b"))

	single, err := NewCount(o, ext.Options{"ops": "b"})
	require.NoError(t, err)
	assert.Nil(t, single.Handler("a"))
	assert.NotNil(t, single.Handler("b"))

	_, err = NewCount(o, ext.Options{"ops": 3})
	assert.Error(t, err)
	_, err = NewTrace(o, ext.Options{"ops": []any{1}})
	assert.Error(t, err)
	_, err = NewTrace(o, ext.Options{"name": 1})
	assert.Error(t, err)
}

func TestEchoWithoutCallback(t *testing.T) {
	o := ext.New()
	o.Declare("m", []string{"x"}, nil)
	_, err := o.UseFactory(NewEcho, nil)
	require.NoError(t, err)
	assert.NoError(t, o.Call("m", 1))
}

func TestIntOption(t *testing.T) {
	n, err := intOption(ext.Options{"n": int64(3)}, "n", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = intOption(ext.Options{}, "n", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	_, err = intOption(ext.Options{"n": 1.5}, "n", 0)
	assert.Error(t, err)
	_, err = intOption(ext.Options{"n": "x"}, "n", 0)
	assert.Error(t, err)
}

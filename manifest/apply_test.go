package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/extensible/ext"
	"github.com/chazu/extensible/lib/layers"
)

func TestBuildScenario(t *testing.T) {
	m, err := Parse([]byte(scenarioManifest), "scenario")
	require.NoError(t, err)

	o, err := m.Build(layers.Builtins())
	require.NoError(t, err)

	name, ok := o.Get("name")
	require.True(t, ok)
	assert.Equal(t, "scenario", name)

	d := o.Descriptor("m")
	require.NotNil(t, d)
	assert.Equal(t, "multiply and divide", d.Metadata()["doc"])

	var got []ext.Value
	require.NoError(t, o.Call("m", 1, ext.Callback(func(r ...ext.Value) { got = r })))
	assert.Equal(t, []ext.Value{1}, got)
}

func TestBuildUpgradeWithDefaults(t *testing.T) {
	src := `
[[step]]
declare = "m"
params = ["a", "b", "cb"]

[[step]]
use = "echo"

[[step]]
upgrade = "m"
params = ["a", "cb"]
defaults = { b = "filled" }

[[step]]
use = "trace"
`
	m, err := Parse([]byte(src), "upgrade")
	require.NoError(t, err)
	o, err := m.Build(layers.Builtins())
	require.NoError(t, err)
	assert.Equal(t, ext.Generation(1), o.Generation())

	var got []ext.Value
	require.NoError(t, o.Call("m", "A", ext.Callback(func(r ...ext.Value) { got = r })))
	assert.Equal(t, []ext.Value{"A", "filled"}, got)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown trait", "[[step]]\nuse = \"nope\"\n", ErrUnknownTrait},
		{"duplicate declare", "[[step]]\ndeclare = \"m\"\n[[step]]\ndeclare = \"m\"\n", ext.ErrAlreadyDeclared},
		{"reserved", "[[step]]\ndeclare = \"Fork\"\n", ext.ErrNameReserved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.src), tt.name)
			require.NoError(t, err)
			_, err = m.Build(layers.Builtins())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplyEmptyStep(t *testing.T) {
	m := &Manifest{Steps: []Step{{}}}
	assert.ErrorIs(t, m.Apply(ext.New(), ext.NewTraitTable()), ErrEmptyStep)
}

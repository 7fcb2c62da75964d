package snapshot

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/extensible/ext"
	"github.com/chazu/extensible/lib/layers"
)

func buildHost(t *testing.T) *ext.Object {
	t.Helper()
	o := ext.New()
	o.Set("name", "demo")
	_, err := o.Declare("m", []string{"a", "b", "cb"}, map[string]any{"doc": "demo op"})
	require.NoError(t, err)
	_, err = o.Declare("other", nil, nil)
	require.NoError(t, err)

	tt := layers.Builtins()
	_, err = o.UseFactory(tt.Lookup("echo"), nil)
	require.NoError(t, err)
	_, err = o.Upgrade("m", []string{"a", "cb"}, nil)
	require.NoError(t, err)
	_, err = o.UseFactory(tt.Lookup("count"), ext.Options{"ops": "m"})
	require.NoError(t, err)
	return o
}

func TestTake(t *testing.T) {
	o := buildHost(t)
	s := Take(o)

	assert.Equal(t, o.ID().String(), s.ID)
	assert.Empty(t, s.Parent)
	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, uint64(1), s.Generation)

	require.Len(t, s.Operations, 2)
	m := s.Operation("m")
	require.NotNil(t, m)
	assert.Equal(t, []string{"a", "cb"}, m.Params)
	assert.Equal(t, 1, m.Upgrades)
	assert.Equal(t, uint64(1), m.Generation)
	assert.Nil(t, s.Operation("missing"))

	require.Len(t, s.Layers, 2)
	assert.Equal(t, Layer{Name: "echo", Generation: 0, Implements: []string{"m", "other"}}, s.Layers[0])
	assert.Equal(t, Layer{Name: "count", Generation: 1, Implements: []string{"m"}}, s.Layers[1])
}

func TestTakeLineage(t *testing.T) {
	o := buildHost(t)
	inst := o.Instance()
	s := Take(inst)
	assert.True(t, s.Instance)
	assert.Equal(t, o.ID().String(), s.Parent)
	assert.Equal(t, "demo", s.Name)
}

func TestCBORRoundTrip(t *testing.T) {
	s := Take(buildHost(t))
	data, err := Marshal(s)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Generation, got.Generation)
	assert.Equal(t, s.Layers, got.Layers)
	require.Len(t, got.Operations, 2)
	assert.Equal(t, "demo op", got.Operations[0].Metadata["doc"])

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, data, again, "canonical encoding should be stable")

	_, err = Unmarshal([]byte{0xff})
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	o := buildHost(t)
	forked := o.Fork()

	a, err := Take(o).Fingerprint()
	require.NoError(t, err)
	b, err := Take(forked).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b, "fresh fork should match its source")

	forked.Use(ext.NewTrait("extra"))
	c, err := Take(forked).Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Take(buildHost(t))))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "demo", decoded["name"])
	assert.Len(t, decoded["layers"], 2)
}

package options

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestOptionsAccessors(t *testing.T) {
	o := New(map[string]cty.Value{
		"color": cty.StringVal("r"),
		"alpha": cty.NumberFloatVal(0.5),
	})

	assert.Equal(t, 2, o.Len())
	assert.Equal(t, []string{"alpha", "color"}, o.Keys())

	v, ok := o.Get("color")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("r"), v)

	_, ok = o.Get("missing")
	assert.False(t, ok)
}

func TestOptionsMerged(t *testing.T) {
	old := New(map[string]cty.Value{
		"x": cty.StringVal("old"),
		"y": cty.StringVal("old"),
	})
	new_ := New(map[string]cty.Value{
		"y": cty.StringVal("new"),
		"z": cty.StringVal("new"),
	})

	merged := old.Merged(new_)

	want := map[string]cty.Value{
		"x": cty.StringVal("old"),
		"y": cty.StringVal("new"),
		"z": cty.StringVal("new"),
	}
	if diff := cmp.Diff(want, merged.Map(), cmp.Comparer(func(a, b cty.Value) bool {
		return a.RawEquals(b)
	})); diff != "" {
		t.Errorf("merged options mismatch (-want +got):\n%s", diff)
	}

	// The inputs must not be mutated.
	assert.Equal(t, 2, old.Len())
	assert.Equal(t, 2, new_.Len())
}

func TestOptionsNilReceiver(t *testing.T) {
	var o *Options
	assert.Equal(t, 0, o.Len())
	assert.Empty(t, o.Keys())
	_, ok := o.Get("anything")
	assert.False(t, ok)
}

func TestCycleFunc(t *testing.T) {
	t.Run("no arguments yields the default cycle", func(t *testing.T) {
		v, err := CycleFunc.Call(nil)
		require.NoError(t, err)
		c, ok := CycleFromVal(v)
		require.True(t, ok)
		assert.Equal(t, DefaultCycleKey, c.Key)
		assert.Empty(t, c.Values)
	})

	t.Run("string argument names a backend cycle", func(t *testing.T) {
		v, err := CycleFunc.Call([]cty.Value{cty.StringVal("colors")})
		require.NoError(t, err)
		c, ok := CycleFromVal(v)
		require.True(t, ok)
		assert.Equal(t, "colors", c.Key)
	})

	t.Run("tuple argument lists explicit values", func(t *testing.T) {
		arg := cty.TupleVal([]cty.Value{cty.StringVal("r"), cty.StringVal("g")})
		v, err := CycleFunc.Call([]cty.Value{arg})
		require.NoError(t, err)
		c, ok := CycleFromVal(v)
		require.True(t, ok)
		assert.Empty(t, c.Key)
		require.Len(t, c.Values, 2)
		assert.Equal(t, cty.StringVal("r"), c.Values[0])
	})

	t.Run("numeric argument is rejected", func(t *testing.T) {
		_, err := CycleFunc.Call([]cty.Value{cty.NumberIntVal(3)})
		assert.ErrorContains(t, err, "string or a sequence")
	})

	t.Run("two arguments are rejected", func(t *testing.T) {
		_, err := CycleFunc.Call([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})
		assert.ErrorContains(t, err, "at most one argument")
	})
}

func TestPaletteFunc(t *testing.T) {
	v, err := PaletteFunc.Call([]cty.Value{cty.StringVal("viridis")})
	require.NoError(t, err)
	p, ok := PaletteFromVal(v)
	require.True(t, ok)
	assert.Equal(t, "viridis", p.Key)

	_, ok = CycleFromVal(v)
	assert.False(t, ok, "a palette capsule must not unwrap as a cycle")
}

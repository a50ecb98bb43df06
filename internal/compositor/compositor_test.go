package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(Operation{Name: "max", Group: "Max"}))
	require.NoError(t, r.Register(Operation{Name: "add", Group: "Add"}))

	op, ok := r.Lookup("max")
	require.True(t, ok)
	assert.Equal(t, "Max", op.Group)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicatesAndEmptyNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Operation{Name: "max"}))

	err := r.Register(Operation{Name: "max"})
	assert.ErrorContains(t, err, "already registered")

	err = r.Register(Operation{})
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestRegistryGroupsPreserveOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Operation{Name: "toRGB", Group: "RGB"}))
	require.NoError(t, r.Register(Operation{Name: "max", Group: "Max"}))
	require.NoError(t, r.Register(Operation{Name: "min", Group: "Max"})) // same group
	require.NoError(t, r.Register(Operation{Name: "anon"}))              // no group

	assert.Equal(t, []string{"RGB", "Max"}, r.Groups())
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeData.Valid())
	assert.True(t, ModeDisplay.Valid())
	assert.False(t, Mode("foo").Valid())
	assert.False(t, Mode("").Valid())
}

func TestBuiltin(t *testing.T) {
	r := Builtin()
	for _, name := range []string{"toRGB", "alpha_overlay", "add", "mul", "max"} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "builtin registry should contain %q", name)
	}
}

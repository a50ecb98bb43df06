package app

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, cfg Config) (string, error) {
	t.Helper()
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	errW := &bytes.Buffer{}
	a := NewApp(out, errW, config)
	runErr := a.Run(context.Background(), config)
	return out.String(), runErr
}

func TestRun_OptionsSpec(t *testing.T) {
	t.Parallel()

	output, err := runApp(t, Config{
		Line:     "Curve (color='r' alpha=0.5) [show_grid=True] Image (cmap=None)",
		LogLevel: "error",
	})
	require.NoError(t, err)

	var rendered map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &rendered))
	require.Contains(t, rendered, "Curve")
	require.Contains(t, rendered, "Image")

	curve := rendered["Curve"]
	assert.Equal(t, "r", curve["style"]["color"])
	assert.Equal(t, 0.5, curve["style"]["alpha"])
	assert.Equal(t, true, curve["plot"]["show_grid"])

	// A null option value survives as an explicit JSON null key.
	image := rendered["Image"]
	v, ok := image["style"]["cmap"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestRun_OptionsSpecCycle(t *testing.T) {
	t.Parallel()

	output, err := runApp(t, Config{
		Line:     "Curve (color=Cycle(['r', 'g', 'b']))",
		LogLevel: "error",
	})
	require.NoError(t, err)

	var rendered map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &rendered))
	color, ok := rendered["Curve"]["style"]["color"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"r", "g", "b"}, color["cycle"])
}

func TestRun_CompositorSpec(t *testing.T) {
	t.Parallel()

	output, err := runApp(t, Config{
		Line:     "data max (A * B) C display add (C * D) E [alpha=0.5]",
		SpecType: SpecTypeCompositor,
		LogLevel: "error",
	})
	require.NoError(t, err)

	var rendered []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &rendered))
	require.Len(t, rendered, 2)

	assert.Equal(t, "data", rendered[0]["mode"])
	assert.Equal(t, "max", rendered[0]["operation"])
	assert.Equal(t, "A * B", rendered[0]["pattern"])
	assert.Equal(t, "C", rendered[0]["value"])

	settings, ok := rendered[1]["settings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.5, settings["alpha"])
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	output, err := runApp(t, Config{
		Line:     "@@@",
		LogLevel: "error",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid specification syntax")
	assert.Empty(t, output)
}

func TestRun_StrictMode(t *testing.T) {
	t.Parallel()

	_, err := runApp(t, Config{
		Line:     "Curve (color=bogus_name)",
		Strict:   true,
		LogLevel: "error",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not evaluate keyword")
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	t.Run("empty line is rejected", func(t *testing.T) {
		_, err := NewConfig(Config{})
		require.Error(t, err)
	})

	t.Run("spec type defaults to opts", func(t *testing.T) {
		cfg, err := NewConfig(Config{Line: "Curve"})
		require.NoError(t, err)
		assert.Equal(t, SpecTypeOpts, cfg.SpecType)
	})

	t.Run("unknown spec type is rejected", func(t *testing.T) {
		_, err := NewConfig(Config{Line: "Curve", SpecType: "layout"})
		require.Error(t, err)
	})
}

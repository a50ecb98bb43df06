package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoints(t *testing.T) {
	p, err := NewPoints([][]float64{{0, 0}, {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "Points", p.Group())
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []float64{1, 2}, p.Row(1))
	require.Len(t, p.KDims(), 2)
	assert.Equal(t, "x", p.KDims()[0].Name)
	assert.Empty(t, p.VDims())
}

func TestNewPointsWithValueDimensions(t *testing.T) {
	p, err := NewPoints([][]float64{{0, 0, 9}}, Dim("size"))
	require.NoError(t, err)
	require.Len(t, p.VDims(), 1)
	assert.Equal(t, "size", p.VDims()[0].Name)
}

func TestRowWidthValidation(t *testing.T) {
	_, err := NewPoints([][]float64{{0, 0}, {1}})
	assert.ErrorContains(t, err, "row 1 has 1 columns, want 2")

	_, err = NewSegments([][]float64{{0, 0, 1}})
	assert.ErrorContains(t, err, "want 4")
}

func TestVectorFieldDefaults(t *testing.T) {
	vf, err := NewVectorField([][]float64{{0, 0, math.Pi / 2, 1}})
	require.NoError(t, err)
	require.Len(t, vf.VDims(), 2)
	angle := vf.VDims()[0]
	assert.Equal(t, "Angle", angle.Name)
	assert.True(t, angle.Cyclic)
	assert.Equal(t, [2]float64{0, 2 * math.Pi}, angle.Range)
	assert.Equal(t, "Magnitude", vf.VDims()[1].Name)
}

func TestSegmentsAndRectanglesDimensions(t *testing.T) {
	s, err := NewSegments([][]float64{{0, 0, 1, 1}})
	require.NoError(t, err)
	r, err := NewRectangles([][]float64{{0, 0, 1, 1}})
	require.NoError(t, err)

	for _, g := range []Element{s, r} {
		require.Len(t, g.KDims(), 4)
		assert.Equal(t, "x0", g.KDims()[0].Name)
		assert.Equal(t, "y1", g.KDims()[3].Name)
	}
	assert.Equal(t, "Segments", s.Group())
	assert.Equal(t, "Rectangles", r.Group())
}

func TestBoundsNormalized(t *testing.T) {
	b := Bounds{X0: 3, Y0: 4, X1: 1, Y1: 2}.Normalized()
	assert.Equal(t, Bounds{X0: 1, Y0: 2, X1: 3, Y1: 4}, b)
}

func TestSelectBounds(t *testing.T) {
	p, err := NewPoints([][]float64{{0, 0}})
	require.NoError(t, err)

	sel, err := p.SelectBounds(Bounds{X0: 2, Y0: 3, X1: 0, Y1: 1}, false)
	require.NoError(t, err)

	require.Len(t, sel.Intervals, 2)
	assert.Equal(t, Interval{Dim: "x", Min: 0, Max: 2}, sel.Intervals[0])
	assert.Equal(t, Interval{Dim: "y", Min: 1, Max: 3}, sel.Intervals[1])

	require.NotNil(t, sel.Region)
	assert.Equal(t, 1, sel.Region.Len())
	assert.Equal(t, []float64{0, 1, 2, 3}, sel.Region.Row(0))

	assert.True(t, sel.Contains(map[string]float64{"x": 1, "y": 2}))
	assert.False(t, sel.Contains(map[string]float64{"x": 5, "y": 2}))
	assert.False(t, sel.Contains(map[string]float64{"x": 1}))
}

func TestSelectBoundsInvertAxes(t *testing.T) {
	p, err := NewPoints([][]float64{{0, 0}})
	require.NoError(t, err)

	sel, err := p.SelectBounds(Bounds{X0: 0, Y0: 1, X1: 2, Y1: 3}, true)
	require.NoError(t, err)
	assert.Equal(t, "y", sel.Intervals[0].Dim)
	assert.Equal(t, "x", sel.Intervals[1].Dim)
}

// Package element defines the geometric plot elements: typed data containers
// with a declared dimensionality, drawn in a 2D coordinate system. Elements
// carry no plotting state; styling is resolved separately from option
// specifications keyed by the element group name.
package element

import (
	"fmt"
	"math"
)

// Dimension describes one key or value dimension of an element.
type Dimension struct {
	Name string
	// Cyclic marks dimensions whose values wrap around Range, such as angles.
	Cyclic bool
	// Range is the valid value range for bounded dimensions; both zero means
	// unbounded.
	Range [2]float64
}

// Dim is shorthand for an unbounded, non-cyclic dimension.
func Dim(name string) Dimension {
	return Dimension{Name: name}
}

// Geometry is the base for all geometric elements. The key dimensions locate
// each object in 2D space; value dimensions control other visual attributes.
// Rows are stored column-aligned with KDims followed by VDims.
type Geometry struct {
	group string
	kdims []Dimension
	vdims []Dimension
	rows  [][]float64
}

func newGeometry(group string, kdims, vdims []Dimension, rows [][]float64) (Geometry, error) {
	width := len(kdims) + len(vdims)
	for i, row := range rows {
		if len(row) != width {
			return Geometry{}, fmt.Errorf("element: %s row %d has %d columns, want %d", group, i, len(row), width)
		}
	}
	return Geometry{group: group, kdims: kdims, vdims: vdims, rows: rows}, nil
}

// Group returns the element group name, e.g. "Points". Option specifications
// address elements by this name.
func (g *Geometry) Group() string { return g.group }

// KDims returns the key dimensions.
func (g *Geometry) KDims() []Dimension { return g.kdims }

// VDims returns the value dimensions.
func (g *Geometry) VDims() []Dimension { return g.vdims }

// Len returns the number of data rows.
func (g *Geometry) Len() int { return len(g.rows) }

// Row returns the i-th data row, key dimensions first.
func (g *Geometry) Row(i int) []float64 { return g.rows[i] }

// Element is implemented by every geometric element.
type Element interface {
	Group() string
	KDims() []Dimension
	VDims() []Dimension
	Len() int
}

var xyDims = []Dimension{Dim("x"), Dim("y")}

// Segments and Rectangles locate each object by two corner points.
var cornerDims = []Dimension{Dim("x0"), Dim("y0"), Dim("x1"), Dim("y1")}

// Points represents a set of coordinates in 2D space, optionally associated
// with any number of value dimensions.
type Points struct {
	Geometry
}

// NewPoints builds a Points element from rows of (x, y, vdims...).
func NewPoints(rows [][]float64, vdims ...Dimension) (*Points, error) {
	g, err := newGeometry("Points", xyDims, vdims, rows)
	if err != nil {
		return nil, err
	}
	return &Points{g}, nil
}

// VectorField represents a set of vectors in 2D space with an associated
// angle in radians and, by default, a magnitude normalized to [0, 1].
type VectorField struct {
	Geometry
}

// NewVectorField builds a VectorField from rows of (x, y, vdims...). When no
// value dimensions are given, the defaults are a cyclic Angle and a
// Magnitude; at least one value dimension is required.
func NewVectorField(rows [][]float64, vdims ...Dimension) (*VectorField, error) {
	if len(vdims) == 0 {
		vdims = []Dimension{
			{Name: "Angle", Cyclic: true, Range: [2]float64{0, 2 * math.Pi}},
			Dim("Magnitude"),
		}
	}
	g, err := newGeometry("VectorField", xyDims, vdims, rows)
	if err != nil {
		return nil, err
	}
	return &VectorField{g}, nil
}

// Segments represents a collection of lines given by start and end
// coordinates in 2D space.
type Segments struct {
	Geometry
}

// NewSegments builds a Segments element from rows of (x0, y0, x1, y1, vdims...).
func NewSegments(rows [][]float64, vdims ...Dimension) (*Segments, error) {
	g, err := newGeometry("Segments", cornerDims, vdims, rows)
	if err != nil {
		return nil, err
	}
	return &Segments{g}, nil
}

// Rectangles represents a collection of axis-aligned rectangles given by
// their bottom-left (x0, y0) and top-right (x1, y1) corners.
type Rectangles struct {
	Geometry
}

// NewRectangles builds a Rectangles element from rows of (x0, y0, x1, y1, vdims...).
func NewRectangles(rows [][]float64, vdims ...Dimension) (*Rectangles, error) {
	g, err := newGeometry("Rectangles", cornerDims, vdims, rows)
	if err != nil {
		return nil, err
	}
	return &Rectangles{g}, nil
}

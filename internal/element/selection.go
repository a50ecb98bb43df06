package element

// Bounds is an axis-aligned selection box in data coordinates.
type Bounds struct {
	X0, Y0, X1, Y1 float64
}

// Normalized returns the bounds with inverted axes untangled, so that
// X0 <= X1 and Y0 <= Y1 regardless of drag direction or axis inversion.
func (b Bounds) Normalized() Bounds {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Y0 > b.Y1 {
		b.Y0, b.Y1 = b.Y1, b.Y0
	}
	return b
}

// Interval restricts one dimension to [Min, Max].
type Interval struct {
	Dim string
	Min float64
	Max float64
}

// Selection is the result of a 2D bounds selection: a conjunction of
// per-dimension intervals plus the selected region as a Rectangles element.
type Selection struct {
	Intervals []Interval
	Region    *Rectangles
}

// Contains reports whether a point given per-dimension satisfies every
// interval of the selection. Dimensions absent from coords fail the test.
func (s Selection) Contains(coords map[string]float64) bool {
	for _, iv := range s.Intervals {
		v, ok := coords[iv.Dim]
		if !ok || v < iv.Min || v > iv.Max {
			return false
		}
	}
	return true
}

// SelectBounds computes the selection expression for a bounds selection on a
// 2D element. The first two key dimensions map to the x- and y-axis; when
// invertAxes is set the mapping is swapped. The region element records the
// selected box for display.
func (g *Geometry) SelectBounds(b Bounds, invertAxes bool) (Selection, error) {
	b = b.Normalized()
	xdim, ydim := g.kdims[0], g.kdims[1]
	if invertAxes {
		xdim, ydim = ydim, xdim
	}
	region, err := NewRectangles([][]float64{{b.X0, b.Y0, b.X1, b.Y1}})
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Intervals: []Interval{
			{Dim: xdim.Name, Min: b.X0, Max: b.X1},
			{Dim: ydim.Name, Min: b.Y0, Max: b.Y1},
		},
		Region: region,
	}, nil
}

// Package layout computes subplot grid placement for multi-panel figures.
// A Grid holds adjoint groups addressed by (row, col); Place expands that
// grid into a padded subplot matrix with marginal rows and columns inserted
// for the right/top marginal plots, which a plotting backend can consume
// directly. No rendering happens here.
package layout

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plotspec/internal/element"
)

// Position locates a subplot within an adjoint group.
type Position string

const (
	PosMain  Position = "main"
	PosRight Position = "right"
	PosTop   Position = "top"
)

// AdjointType classifies an adjoint group by how many positions it fills.
type AdjointType string

const (
	Single AdjointType = "Single"
	Dual   AdjointType = "Dual"
	Triple AdjointType = "Triple"
)

// Positions returns the filled positions for an adjoint type, main first.
func (t AdjointType) Positions() []Position {
	switch t {
	case Dual:
		return []Position{PosMain, PosRight}
	case Triple:
		return []Position{PosMain, PosRight, PosTop}
	default:
		return []Position{PosMain}
	}
}

// Default figure dimensions, in pixels per grid cell and for marginal plots.
const (
	DefaultCellWidth  = 400
	DefaultCellHeight = 400
	MarginalWidth     = 120
	MarginalHeight    = 120
)

// AdjointGroup is the content of one grid cell: a main element plus optional
// right and top marginal elements. An empty group leaves its panel blank.
type AdjointGroup struct {
	Main  element.Element
	Right element.Element
	Top   element.Element
}

// Type classifies the group. A top marginal implies the Triple layout even
// when no right marginal is present, matching the fixed position tables the
// backends use.
func (g AdjointGroup) Type() AdjointType {
	switch {
	case g.Top != nil:
		return Triple
	case g.Right != nil:
		return Dual
	default:
		return Single
	}
}

type cellKey struct{ row, col int }

// Grid is a fixed-shape arrangement of adjoint groups.
type Grid struct {
	rows, cols int
	cells      map[cellKey]AdjointGroup

	// CellWidth and CellHeight size each main panel.
	CellWidth  float64
	CellHeight float64
}

// NewGrid creates an empty rows-by-cols grid with default panel sizing.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("layout: grid shape %dx%d is invalid", rows, cols)
	}
	return &Grid{
		rows:       rows,
		cols:       cols,
		cells:      make(map[cellKey]AdjointGroup),
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
	}, nil
}

// Shape returns (rows, cols) of the unexpanded grid.
func (g *Grid) Shape() (int, int) { return g.rows, g.cols }

// SetCell places an adjoint group at (row, col). Marginals require a main
// element; a marginal with nothing to adjoin to has no meaningful position.
func (g *Grid) SetCell(row, col int, group AdjointGroup) error {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return fmt.Errorf("layout: cell (%d, %d) outside %dx%d grid", row, col, g.rows, g.cols)
	}
	if group.Main == nil && (group.Right != nil || group.Top != nil) {
		return fmt.Errorf("layout: cell (%d, %d) has marginals but no main element", row, col)
	}
	g.cells[cellKey{row, col}] = group
	return nil
}

// Cell returns the group at (row, col) and whether one was set.
func (g *Grid) Cell(row, col int) (AdjointGroup, bool) {
	group, ok := g.cells[cellKey{row, col}]
	return group, ok
}

// Size computes the overall figure size. Columns are narrowed to 80% of the
// cell width to leave room for shared axes between panels.
func (g *Grid) Size() (width, height float64) {
	return float64(g.cols) * g.CellWidth * 0.8, float64(g.rows) * g.CellHeight
}

// Subplot is one placed panel in the expanded matrix.
type Subplot struct {
	// Row and Col are the source grid coordinates of the owning cell.
	Row, Col int
	Pos      Position
	Element  element.Element
}

// Placement is the expanded subplot matrix. Matrix is row-major with nil
// entries for padding panels; its shape is Rows by Cols.
type Placement struct {
	Rows, Cols int
	Matrix     [][]*Subplot
}

// Place expands the grid into a subplot matrix. A column containing any
// right marginal gets one extra matrix column inserted after it; a row
// containing any top marginal gets one extra matrix row inserted above it.
// Cells without marginals in such rows/columns are padded with nil panels so
// every main panel keeps its relative position.
func (g *Grid) Place() *Placement {
	colHasRight := make([]bool, g.cols)
	rowHasTop := make([]bool, g.rows)
	for key, group := range g.cells {
		if group.Right != nil {
			colHasRight[key.col] = true
		}
		if group.Top != nil {
			rowHasTop[key.row] = true
		}
	}

	// Map source coordinates to expanded coordinates: each marginal column
	// shifts later columns right, each marginal row shifts its own row and
	// later rows down.
	colAt := make([]int, g.cols)
	shift := 0
	for c := 0; c < g.cols; c++ {
		colAt[c] = c + shift
		if colHasRight[c] {
			shift++
		}
	}
	totalCols := g.cols + shift

	rowAt := make([]int, g.rows)
	shift = 0
	for r := 0; r < g.rows; r++ {
		if rowHasTop[r] {
			shift++
		}
		rowAt[r] = r + shift
	}
	totalRows := g.rows + shift

	matrix := make([][]*Subplot, totalRows)
	for i := range matrix {
		matrix[i] = make([]*Subplot, totalCols)
	}

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			group, ok := g.cells[cellKey{r, c}]
			if !ok || group.Main == nil {
				continue
			}
			matrix[rowAt[r]][colAt[c]] = &Subplot{Row: r, Col: c, Pos: PosMain, Element: group.Main}
			if group.Right != nil {
				matrix[rowAt[r]][colAt[c]+1] = &Subplot{Row: r, Col: c, Pos: PosRight, Element: group.Right}
			}
			if group.Top != nil {
				matrix[rowAt[r]-1][colAt[c]] = &Subplot{Row: r, Col: c, Pos: PosTop, Element: group.Top}
			}
		}
	}

	return &Placement{Rows: totalRows, Cols: totalCols, Matrix: matrix}
}

// SideOptions returns the plot options that size and orient a marginal
// subplot relative to its main panel. Main panels have no side options.
func SideOptions(pos Position, mainWidth, mainHeight float64) map[string]cty.Value {
	switch pos {
	case PosRight:
		return map[string]cty.Value{
			"height":      cty.NumberFloatVal(mainHeight),
			"width":       cty.NumberIntVal(MarginalWidth),
			"yaxis":       cty.StringVal("right"),
			"invert_axes": cty.True,
			"xticks":      cty.NumberIntVal(2),
			"show_title":  cty.False,
		}
	case PosTop:
		return map[string]cty.Value{
			"width":      cty.NumberFloatVal(mainWidth),
			"height":     cty.NumberIntVal(MarginalHeight),
			"xaxis":      cty.StringVal("top"),
			"yticks":     cty.NumberIntVal(2),
			"show_title": cty.False,
		}
	default:
		return nil
	}
}

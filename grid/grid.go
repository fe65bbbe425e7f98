// Package grid maps pixel coordinates of a sheet buffer onto a logical
// grid of equally sized cells.
//
// The grid itself stores only the configured cell size and the uncommitted
// padding; everything else (column and row counts, cell rectangles) is
// recomputed from the buffer passed in on every call, so replacing the
// buffer can never leave stale geometry behind.
package grid

import (
	"fmt"
	"image"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/sheet"
)

// ErrBadConfig reports a cell size that cannot address any pixels.
var ErrBadConfig = errors.New("grid: cell width and height must be positive")

// Cell addresses one frame of a sheet by column and row.
type Cell struct {
	Col, Row int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Col, c.Row)
}

// Grid is the cell-size configuration of a sheet.
//
// Pad is spacing being previewed but not yet committed: while it is
// non-zero the working buffer is assumed to be the padded recomposition,
// so the effective cell pitch grows by 2*Pad on each axis. Committing the
// padding folds it into CellW/CellH and resets Pad to zero.
type Grid struct {
	CellW, CellH int
	Pad          int
}

// New returns a grid with the given cell size.
func New(cellW, cellH int) (Grid, error) {
	g := Grid{CellW: cellW, CellH: cellH}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// FromCount derives the cell size from a desired row/column count over the
// passed buffer. Both sizing modes are projections of the same cell size;
// this is the count-mode projection.
func FromCount(b *sheet.Buffer, rows, cols int) (Grid, error) {
	if b.Empty() {
		return Grid{}, fmt.Errorf("grid: no sheet to derive cell size from")
	}
	if rows <= 0 || cols <= 0 {
		return Grid{}, fmt.Errorf("grid: row and column counts must be positive, got %dx%d", cols, rows)
	}
	return New(b.W/cols, b.H/rows)
}

// Validate reports ErrBadConfig for non-positive cell sizes.
func (g Grid) Validate() error {
	if g.CellW <= 0 || g.CellH <= 0 {
		return ErrBadConfig
	}
	if g.Pad < 0 {
		return fmt.Errorf("grid: negative padding %d", g.Pad)
	}
	return nil
}

// PitchW returns the horizontal distance between cell origins, including
// any uncommitted padding.
func (g Grid) PitchW() int {
	return g.CellW + 2*g.Pad
}

// PitchH returns the vertical distance between cell origins, including
// any uncommitted padding.
func (g Grid) PitchH() int {
	return g.CellH + 2*g.Pad
}

// Columns returns how many whole cells fit across the buffer. Trailing
// pixels narrower than a cell are not addressable.
func (g Grid) Columns(b *sheet.Buffer) int {
	if b.Empty() || g.Validate() != nil {
		return 0
	}
	return b.W / g.PitchW()
}

// Rows returns how many whole cells fit down the buffer.
func (g Grid) Rows(b *sheet.Buffer) int {
	if b.Empty() || g.Validate() != nil {
		return 0
	}
	return b.H / g.PitchH()
}

// Dims returns Columns and Rows together.
func (g Grid) Dims(b *sheet.Buffer) (cols, rows int) {
	return g.Columns(b), g.Rows(b)
}

// CellAt maps a pixel position to the cell containing it. Positions
// outside the addressable area clamp to the nearest valid cell; pointer
// drags routinely leave the sheet and must keep resolving.
func (g Grid) CellAt(b *sheet.Buffer, px, py int) Cell {
	cols, rows := g.Dims(b)
	return Cell{
		Col: clamp(px/max(g.PitchW(), 1), 0, cols-1),
		Row: clamp(py/max(g.PitchH(), 1), 0, rows-1),
	}
}

// CellRect returns the pixel rectangle of a cell's interior at the current
// pitch. With uncommitted padding the rectangle is the cell image inside
// its padding border.
func (g Grid) CellRect(c Cell) image.Rectangle {
	x := c.Col*g.PitchW() + g.Pad
	y := c.Row*g.PitchH() + g.Pad
	return image.Rect(x, y, x+g.CellW, y+g.CellH)
}

// TileRect returns the full pixel tile of a cell at the current pitch,
// padding border included. Without padding it equals CellRect.
func (g Grid) TileRect(c Cell) image.Rectangle {
	x := c.Col * g.PitchW()
	y := c.Row * g.PitchH()
	return image.Rect(x, y, x+g.PitchW(), y+g.PitchH())
}

// RowRect returns the full-width pixel band of a row.
func (g Grid) RowRect(b *sheet.Buffer, row int) image.Rectangle {
	return image.Rect(0, row*g.PitchH(), b.W, (row+1)*g.PitchH())
}

// ColumnRect returns the full-height pixel band of a column.
func (g Grid) ColumnRect(b *sheet.Buffer, col int) image.Rectangle {
	return image.Rect(col*g.PitchW(), 0, (col+1)*g.PitchW(), b.H)
}

// Contains reports whether the cell addresses a whole cell of the buffer.
func (g Grid) Contains(b *sheet.Buffer, c Cell) bool {
	cols, rows := g.Dims(b)
	return c.Col >= 0 && c.Col < cols && c.Row >= 0 && c.Row < rows
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

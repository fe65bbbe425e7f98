// Package selection tracks which cells of a gridded sheet are selected and
// resolves that state to a concrete, ordered cell list on demand.
package selection

import (
	"fmt"

	"badc0de.net/pkg/go-spritesheet/grid"
)

// Policy says how a Selection picks its cells.
type Policy uint8

const (
	// NoSelection selects nothing.
	NoSelection Policy = iota
	// Rect selects the rectangle spanned by the anchor and cursor cells.
	Rect
	// WholeRow selects every cell of the anchor's row.
	WholeRow
	// WholeColumn selects every cell of the anchor's column.
	WholeColumn
	// Custom selects an explicit list of cells in the order they were
	// toggled in.
	Custom
)

func (p Policy) String() string {
	switch p {
	case NoSelection:
		return "none"
	case Rect:
		return "rect"
	case WholeRow:
		return "row"
	case WholeColumn:
		return "column"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

// Selection is the selection state of one editing session. The zero value
// selects nothing.
//
// A Selection stores intent, not cells: the concrete cell list is produced
// by Resolve against whatever grid dimensions the sheet has at that moment,
// so structural edits can never leave a stale selection pointing at pixels
// that moved.
type Selection struct {
	policy Policy

	// anchor is the first cell of a rect drag and doubles as the
	// row/column index for the whole-row and whole-column policies.
	anchor grid.Cell
	cursor grid.Cell

	custom []grid.Cell
}

// Policy returns the active selection policy.
func (s *Selection) Policy() Policy {
	return s.policy
}

// Anchor returns the cell a rect selection was started on. For WholeRow and
// WholeColumn it carries the selected row or column index.
func (s *Selection) Anchor() grid.Cell {
	return s.anchor
}

// Cursor returns the cell a rect selection was last dragged to.
func (s *Selection) Cursor() grid.Cell {
	return s.cursor
}

// Clear drops all selection state.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Start begins a rectangle selection at c. Any custom cell list is
// discarded, matching a fresh click replacing a hand-picked set.
func (s *Selection) Start(c grid.Cell) {
	s.policy = Rect
	s.anchor = c
	s.cursor = c
	s.custom = nil
}

// DragTo moves the rectangle cursor to c, keeping the anchor. Without a
// preceding Start it behaves like Start.
func (s *Selection) DragTo(c grid.Cell) {
	if s.policy != Rect {
		s.Start(c)
		return
	}
	s.cursor = c
}

// SelectRow selects every cell of row r.
func (s *Selection) SelectRow(r int) {
	s.policy = WholeRow
	s.anchor = grid.Cell{Col: 0, Row: r}
	s.cursor = s.anchor
	s.custom = nil
}

// SelectColumn selects every cell of column c.
func (s *Selection) SelectColumn(c int) {
	s.policy = WholeColumn
	s.anchor = grid.Cell{Col: c, Row: 0}
	s.cursor = s.anchor
	s.custom = nil
}

// Toggle adds c to the custom cell list, or removes it if it is already
// there. Coming from any other policy the list starts empty, so the first
// toggle selects exactly c. Removal keeps the order of the remaining cells.
func (s *Selection) Toggle(c grid.Cell) {
	if s.policy != Custom {
		s.policy = Custom
		s.custom = nil
	}
	for i, have := range s.custom {
		if have == c {
			s.custom = append(s.custom[:i], s.custom[i+1:]...)
			return
		}
	}
	s.custom = append(s.custom, c)
}

// Resolve produces the selected cells for a grid of the given dimensions.
//
// Rect, WholeRow and WholeColumn resolve in reading order (left to right,
// then top to bottom); Custom resolves in toggle order. Cells outside the
// grid are clipped, so a selection made before a structural edit stays
// valid afterwards, just possibly smaller.
func (s *Selection) Resolve(cols, rows int) []grid.Cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	switch s.policy {
	case Rect:
		x0, x1 := ordered(s.anchor.Col, s.cursor.Col)
		y0, y1 := ordered(s.anchor.Row, s.cursor.Row)
		x0, y0 = max(x0, 0), max(y0, 0)
		x1, y1 = min(x1, cols-1), min(y1, rows-1)
		var cells []grid.Cell
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				cells = append(cells, grid.Cell{Col: x, Row: y})
			}
		}
		return cells
	case WholeRow:
		if s.anchor.Row < 0 || s.anchor.Row >= rows {
			return nil
		}
		cells := make([]grid.Cell, 0, cols)
		for x := 0; x < cols; x++ {
			cells = append(cells, grid.Cell{Col: x, Row: s.anchor.Row})
		}
		return cells
	case WholeColumn:
		if s.anchor.Col < 0 || s.anchor.Col >= cols {
			return nil
		}
		cells := make([]grid.Cell, 0, rows)
		for y := 0; y < rows; y++ {
			cells = append(cells, grid.Cell{Col: s.anchor.Col, Row: y})
		}
		return cells
	case Custom:
		var cells []grid.Cell
		for _, c := range s.custom {
			if c.Col >= 0 && c.Col < cols && c.Row >= 0 && c.Row < rows {
				cells = append(cells, c)
			}
		}
		return cells
	}
	return nil
}

// Empty reports whether Resolve would yield no cells.
func (s *Selection) Empty(cols, rows int) bool {
	if s.policy == NoSelection {
		return true
	}
	return len(s.Resolve(cols, rows)) == 0
}

// String describes the selection the way the editor status bar words it.
func (s *Selection) String() string {
	switch s.policy {
	case Rect:
		x0, x1 := ordered(s.anchor.Col, s.cursor.Col)
		y0, y1 := ordered(s.anchor.Row, s.cursor.Row)
		switch {
		case x0 == x1 && y0 == y1:
			return fmt.Sprintf("Selected frame: (%d, %d)", x0, y0)
		case y0 == y1:
			return fmt.Sprintf("Selected row: %d", y0)
		case x0 == x1:
			return fmt.Sprintf("Selected column: %d", x0)
		}
		return fmt.Sprintf("Selected area: (%d, %d) to (%d, %d)", x0, y0, x1, y1)
	case WholeRow:
		return fmt.Sprintf("Selected row: %d", s.anchor.Row)
	case WholeColumn:
		return fmt.Sprintf("Selected column: %d", s.anchor.Col)
	case Custom:
		if n := len(s.custom); n > 0 {
			return fmt.Sprintf("Selected frames: %d", n)
		}
	}
	return "No selection"
}

func ordered(a, b int) (lo, hi int) {
	if a > b {
		return b, a
	}
	return a, b
}

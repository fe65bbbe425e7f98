package editor

import (
	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/selection"
	"badc0de.net/pkg/go-spritesheet/sheet"
)

// Session holds one sheet being edited: the committed base buffer, the
// working buffer (equal to the base, or to a padding preview derived from
// it), the grid configuration and the selection.
//
// Edits go through the pure operations in editor.go; the session supplies
// their target from the selection anchor and reports success as a plain
// bool, so a caller driving it from input events never has to handle an
// error mid-gesture. Rejected edits leave every part of the state as it
// was.
//
// A Session is not safe for concurrent use. Callers serving it over HTTP
// serialize access themselves.
type Session struct {
	base    *sheet.Buffer
	current *sheet.Buffer
	grid    grid.Grid
	sel     selection.Selection

	onChange func()
}

// NewSession returns an empty session. Most operations report failure
// until Load is called.
func NewSession() *Session {
	return &Session{}
}

// OnChange registers a callback invoked after every successful state
// change: loads, grid changes, selection updates and edits. At most one
// callback is kept.
func (s *Session) OnChange(fn func()) {
	s.onChange = fn
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Load replaces the sheet. Any padding preview and selection are dropped;
// the grid's cell size is kept so reloading a file preserves the
// configuration.
func (s *Session) Load(b *sheet.Buffer) error {
	if b == nil || b.Empty() {
		return ErrNoSheet
	}
	s.base = b
	s.current = b
	s.grid.Pad = 0
	s.sel.Clear()
	s.notify()
	return nil
}

// Loaded reports whether a sheet is present.
func (s *Session) Loaded() bool {
	return s.base != nil && !s.base.Empty()
}

// Buffer returns the working buffer: the padding preview while one is
// active, the base buffer otherwise. Callers must not modify it.
func (s *Session) Buffer() *sheet.Buffer {
	return s.current
}

// Grid returns the current grid configuration, including any uncommitted
// preview padding.
func (s *Session) Grid() grid.Grid {
	return s.grid
}

// Padding returns the active preview padding, zero when none.
func (s *Session) Padding() int {
	return s.grid.Pad
}

// Dims returns the column and row count of the working buffer.
func (s *Session) Dims() (cols, rows int) {
	return s.grid.Dims(s.current)
}

// SetCellSize reconfigures the grid by explicit cell size. The selection
// and any padding preview reset; the sheet pixels are untouched.
func (s *Session) SetCellSize(cellW, cellH int) error {
	g, err := grid.New(cellW, cellH)
	if err != nil {
		return err
	}
	s.reconfigure(g)
	return nil
}

// SetCellCount reconfigures the grid by the desired number of rows and
// columns, deriving the cell size from the base buffer. Both sizing modes
// end up in the same cell-size state.
func (s *Session) SetCellCount(rows, cols int) error {
	if !s.Loaded() {
		return ErrNoSheet
	}
	g, err := grid.FromCount(s.base, rows, cols)
	if err != nil {
		return err
	}
	s.reconfigure(g)
	return nil
}

func (s *Session) reconfigure(g grid.Grid) {
	s.grid = g
	s.current = s.base
	s.sel.Clear()
	s.notify()
}

// committed returns the grid without preview padding; structural edits
// always act on the unpadded base buffer.
func (s *Session) committed() grid.Grid {
	g := s.grid
	g.Pad = 0
	return g
}

// CellAt maps a pixel position on the working buffer to a cell.
func (s *Session) CellAt(px, py int) grid.Cell {
	return s.grid.CellAt(s.current, px, py)
}

// Selection exposes the selection state for reading. Mutations go through
// the session's selection methods so change notification stays accurate.
func (s *Session) Selection() *selection.Selection {
	return &s.sel
}

// StartSelection begins a rectangle selection at c.
func (s *Session) StartSelection(c grid.Cell) {
	s.sel.Start(c)
	s.notify()
}

// DragSelection extends the rectangle selection to c.
func (s *Session) DragSelection(c grid.Cell) {
	s.sel.DragTo(c)
	s.notify()
}

// SelectRow selects the whole row r.
func (s *Session) SelectRow(r int) {
	s.sel.SelectRow(r)
	s.notify()
}

// SelectColumn selects the whole column c.
func (s *Session) SelectColumn(c int) {
	s.sel.SelectColumn(c)
	s.notify()
}

// ToggleFrame adds c to, or removes it from, the custom frame selection.
func (s *Session) ToggleFrame(c grid.Cell) {
	s.sel.Toggle(c)
	s.notify()
}

// ClearSelection drops the selection.
func (s *Session) ClearSelection() {
	s.sel.Clear()
	s.notify()
}

// Resolve returns the selected cells against the current grid dimensions.
func (s *Session) Resolve() []grid.Cell {
	cols, rows := s.Dims()
	return s.sel.Resolve(cols, rows)
}

// SelectionLabel describes the selection for a status line.
func (s *Session) SelectionLabel() string {
	return s.sel.String()
}

// target derives the cell an edit applies to from the selection anchor.
// A custom selection targets its first picked frame.
func (s *Session) target() (grid.Cell, bool) {
	cols, rows := s.Dims()
	switch s.sel.Policy() {
	case selection.NoSelection:
		return grid.Cell{}, false
	case selection.Custom:
		picked := s.sel.Resolve(cols, rows)
		if len(picked) == 0 {
			return grid.Cell{}, false
		}
		return picked[0], true
	}
	a := s.sel.Anchor()
	if a.Col < 0 || a.Col >= cols || a.Row < 0 || a.Row >= rows {
		return grid.Cell{}, false
	}
	return a, true
}

// edit runs a pure operation against the base buffer and, on success,
// installs the result and re-derives any active padding preview from it.
func (s *Session) edit(name string, op func(*sheet.Buffer, grid.Grid) (*sheet.Buffer, error)) bool {
	if !s.Loaded() {
		glog.V(1).Infof("%s: no sheet loaded", name)
		return false
	}
	out, err := op(s.base, s.committed())
	if err != nil {
		glog.V(1).Infof("%s rejected: %v", name, err)
		return false
	}
	s.base = out
	s.refreshPreview()
	s.notify()
	return true
}

// refreshPreview recomputes the working buffer from the base after an
// edit, keeping an active padding preview in step with the new pixels.
func (s *Session) refreshPreview() {
	if s.grid.Pad == 0 {
		s.current = s.base
		return
	}
	out, err := PadPreview(s.base, s.committed(), s.grid.Pad)
	if err != nil {
		glog.Errorf("padding preview lost after edit: %v", err)
		s.grid.Pad = 0
		s.current = s.base
		return
	}
	s.current = out
}

// AddRowAbove inserts a blank row before the anchor's row.
func (s *Session) AddRowAbove() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("add row above", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return InsertRow(b, g, t.Row, false)
	})
}

// AddRowBelow inserts a blank row after the anchor's row.
func (s *Session) AddRowBelow() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("add row below", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return InsertRow(b, g, t.Row, true)
	})
}

// DeleteRow removes the anchor's row.
func (s *Session) DeleteRow() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("delete row", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return DeleteRow(b, g, t.Row)
	})
}

// DuplicateRow copies the anchor's row to the bottom of the sheet.
func (s *Session) DuplicateRow() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("duplicate row", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return DuplicateRow(b, g, t.Row)
	})
}

// AddColumnLeft inserts a blank column before the anchor's column.
func (s *Session) AddColumnLeft() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("add column left", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return InsertColumn(b, g, t.Col, false)
	})
}

// AddColumnRight inserts a blank column after the anchor's column.
func (s *Session) AddColumnRight() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("add column right", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return InsertColumn(b, g, t.Col, true)
	})
}

// DeleteColumn removes the anchor's column.
func (s *Session) DeleteColumn() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("delete column", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return DeleteColumn(b, g, t.Col)
	})
}

// DuplicateColumn copies the anchor's column to the right edge of the
// sheet.
func (s *Session) DuplicateColumn() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("duplicate column", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return DuplicateColumn(b, g, t.Col)
	})
}

// DuplicateFrame copies the anchor frame to a new column at the right edge
// of the sheet.
func (s *Session) DuplicateFrame() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("duplicate frame", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return DuplicateFrame(b, g, t)
	})
}

// DeleteFrame removes the anchor frame's whole column.
func (s *Session) DeleteFrame() bool {
	t, ok := s.target()
	if !ok {
		return false
	}
	return s.edit("delete frame", func(b *sheet.Buffer, g grid.Grid) (*sheet.Buffer, error) {
		return DeleteFrame(b, g, t)
	})
}

// PreviewPadding derives a padded working buffer with pad transparent
// pixels around every cell, without committing it. Zero restores the base
// buffer exactly.
func (s *Session) PreviewPadding(pad int) bool {
	if !s.Loaded() {
		return false
	}
	if pad == 0 {
		s.grid.Pad = 0
		s.current = s.base
		s.notify()
		return true
	}
	out, err := PadPreview(s.base, s.committed(), pad)
	if err != nil {
		glog.V(1).Infof("padding preview rejected: %v", err)
		return false
	}
	s.grid.Pad = pad
	s.current = out
	s.notify()
	return true
}

// ApplyPadding commits the active padding preview: the preview becomes the
// new base buffer and the committed cell size grows by twice the padding.
// Without an active preview this is a no-op. Applying is one way; the
// padding cannot be removed afterwards.
func (s *Session) ApplyPadding() bool {
	if !s.Loaded() || s.grid.Pad == 0 {
		return false
	}
	s.base = s.current
	s.grid.CellW += 2 * s.grid.Pad
	s.grid.CellH += 2 * s.grid.Pad
	s.grid.Pad = 0
	s.sel.Clear()
	s.notify()
	return true
}

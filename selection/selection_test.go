package selection

import (
	"reflect"
	"testing"

	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/sheettest"
)

func cells(cr ...int) []grid.Cell {
	var out []grid.Cell
	for i := 0; i+1 < len(cr); i += 2 {
		out = append(out, grid.Cell{Col: cr[i], Row: cr[i+1]})
	}
	return out
}

func TestZeroValueSelectsNothing(t *testing.T) {
	var s Selection
	if got := s.Resolve(4, 2); got != nil {
		t.Errorf("Resolve = %v, want nil", got)
	}
	sheettest.AssertTrue(t, "empty", s.Empty(4, 2))
	sheettest.AssertEqualString(t, "string", s.String(), "No selection")
}

func TestRectResolvesInReadingOrder(t *testing.T) {
	var s Selection
	s.Start(grid.Cell{Col: 1, Row: 0})
	s.DragTo(grid.Cell{Col: 2, Row: 1})

	want := cells(1, 0, 2, 0, 1, 1, 2, 1)
	if got := s.Resolve(4, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestRectDragBackwards(t *testing.T) {
	// Dragging up-left must span the same rectangle as down-right.
	var s Selection
	s.Start(grid.Cell{Col: 2, Row: 1})
	s.DragTo(grid.Cell{Col: 1, Row: 0})

	want := cells(1, 0, 2, 0, 1, 1, 2, 1)
	if got := s.Resolve(4, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestRectClipsToGrid(t *testing.T) {
	var s Selection
	s.Start(grid.Cell{Col: 2, Row: 1})
	s.DragTo(grid.Cell{Col: 9, Row: 9})

	want := cells(2, 1, 3, 1)
	if got := s.Resolve(4, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestDragWithoutStart(t *testing.T) {
	var s Selection
	s.DragTo(grid.Cell{Col: 1, Row: 1})
	want := cells(1, 1)
	if got := s.Resolve(4, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestWholeRow(t *testing.T) {
	var s Selection
	s.SelectRow(1)
	want := cells(0, 1, 1, 1, 2, 1, 3, 1, 4, 1)
	if got := s.Resolve(5, 3); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
	sheettest.AssertEqualString(t, "string", s.String(), "Selected row: 1")
}

func TestWholeRowOutOfRangeResolvesEmpty(t *testing.T) {
	var s Selection
	s.SelectRow(7)
	if got := s.Resolve(5, 3); got != nil {
		t.Errorf("Resolve = %v, want nil", got)
	}
	sheettest.AssertTrue(t, "empty", s.Empty(5, 3))
}

func TestWholeColumn(t *testing.T) {
	var s Selection
	s.SelectColumn(2)
	want := cells(2, 0, 2, 1, 2, 2)
	if got := s.Resolve(5, 3); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
	sheettest.AssertEqualString(t, "string", s.String(), "Selected column: 2")
}

func TestCustomKeepsToggleOrder(t *testing.T) {
	var s Selection
	s.Toggle(grid.Cell{Col: 2, Row: 0})
	s.Toggle(grid.Cell{Col: 0, Row: 1})
	s.Toggle(grid.Cell{Col: 1, Row: 0})

	want := cells(2, 0, 0, 1, 1, 0)
	if got := s.Resolve(4, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestToggleTwiceRemoves(t *testing.T) {
	var s Selection
	c := grid.Cell{Col: 1, Row: 1}
	s.Toggle(c)
	s.Toggle(c)
	sheettest.AssertTrue(t, "empty", s.Empty(4, 2))

	// Removal from the middle keeps the order of the rest.
	s.Toggle(grid.Cell{Col: 0, Row: 0})
	s.Toggle(grid.Cell{Col: 2, Row: 0})
	s.Toggle(grid.Cell{Col: 3, Row: 1})
	s.Toggle(grid.Cell{Col: 2, Row: 0})
	want := cells(0, 0, 3, 1)
	if got := s.Resolve(4, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestStartClearsCustom(t *testing.T) {
	var s Selection
	s.Toggle(grid.Cell{Col: 3, Row: 1})
	s.Start(grid.Cell{Col: 0, Row: 0})
	sheettest.AssertEqualInt(t, "policy", int(s.Policy()), int(Rect))

	// Toggling again starts a fresh list rather than resurrecting the old.
	s.Toggle(grid.Cell{Col: 1, Row: 0})
	want := cells(1, 0)
	if got := s.Resolve(4, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestCustomClipsStaleCells(t *testing.T) {
	var s Selection
	s.Toggle(grid.Cell{Col: 3, Row: 1})
	s.Toggle(grid.Cell{Col: 0, Row: 0})

	// The grid shrank under the selection; the stale cell drops out.
	want := cells(0, 0)
	if got := s.Resolve(2, 1); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestString(t *testing.T) {
	var s Selection

	s.Start(grid.Cell{Col: 2, Row: 1})
	sheettest.AssertEqualString(t, "frame", s.String(), "Selected frame: (2, 1)")

	s.DragTo(grid.Cell{Col: 3, Row: 1})
	sheettest.AssertEqualString(t, "row shaped", s.String(), "Selected row: 1")

	s.DragTo(grid.Cell{Col: 2, Row: 0})
	sheettest.AssertEqualString(t, "column shaped", s.String(), "Selected column: 2")

	s.DragTo(grid.Cell{Col: 0, Row: 0})
	sheettest.AssertEqualString(t, "area", s.String(), "Selected area: (0, 0) to (2, 1)")

	s.Toggle(grid.Cell{Col: 1, Row: 1})
	s.Toggle(grid.Cell{Col: 0, Row: 0})
	sheettest.AssertEqualString(t, "custom", s.String(), "Selected frames: 2")

	s.Clear()
	sheettest.AssertEqualString(t, "cleared", s.String(), "No selection")
}

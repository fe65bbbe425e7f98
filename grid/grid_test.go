package grid

import (
	"image"
	"testing"

	"badc0de.net/pkg/go-spritesheet/sheet"
	"badc0de.net/pkg/go-spritesheet/sheettest"
)

func TestDims(t *testing.T) {
	b := sheet.New(128, 64, sheet.RGBA)
	g, err := New(32, 32)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cols, rows := g.Dims(b)
	sheettest.AssertEqualInt(t, "columns", cols, 4)
	sheettest.AssertEqualInt(t, "rows", rows, 2)
}

func TestDimsExcludesPartialCells(t *testing.T) {
	// 130 px leaves a 2 px sliver on the right which is not a cell.
	b := sheet.New(130, 70, sheet.RGB)
	g, _ := New(32, 32)
	cols, rows := g.Dims(b)
	sheettest.AssertEqualInt(t, "columns", cols, 4)
	sheettest.AssertEqualInt(t, "rows", rows, 2)
}

func TestNewRejectsNonPositive(t *testing.T) {
	for _, tc := range []struct{ w, h int }{
		{0, 32}, {32, 0}, {-1, 32}, {0, 0},
	} {
		if _, err := New(tc.w, tc.h); err != ErrBadConfig {
			t.Errorf("New(%d, %d): want ErrBadConfig, got %v", tc.w, tc.h, err)
		}
	}
}

func TestFromCount(t *testing.T) {
	b := sheet.New(128, 64, sheet.RGBA)
	g, err := FromCount(b, 2, 4)
	if err != nil {
		t.Fatalf("FromCount: %v", err)
	}
	sheettest.AssertEqualInt(t, "cell width", g.CellW, 32)
	sheettest.AssertEqualInt(t, "cell height", g.CellH, 32)
}

func TestFromCountTooManyCells(t *testing.T) {
	b := sheet.New(16, 16, sheet.RGBA)
	if _, err := FromCount(b, 1, 20); err == nil {
		t.Error("FromCount with zero-width cells: want error, got nil")
	}
	if _, err := FromCount(b, 0, 2); err == nil {
		t.Error("FromCount with zero rows: want error, got nil")
	}
}

func TestCellAt(t *testing.T) {
	b := sheet.New(128, 64, sheet.RGBA)
	g, _ := New(32, 32)

	for _, tc := range []struct {
		name   string
		px, py int
		want   Cell
	}{
		{"origin", 0, 0, Cell{0, 0}},
		{"interior", 33, 40, Cell{1, 1}},
		{"cell edge", 31, 31, Cell{0, 0}},
		{"cell start", 32, 32, Cell{1, 1}},
		{"clamped right", 500, 10, Cell{3, 0}},
		{"clamped bottom", 10, 500, Cell{0, 1}},
		{"clamped negative", -5, -5, Cell{0, 0}},
	} {
		if got := g.CellAt(b, tc.px, tc.py); got != tc.want {
			t.Errorf("%s: CellAt(%d, %d) = %v, want %v", tc.name, tc.px, tc.py, got, tc.want)
		}
	}
}

func TestCellAtEmptyBuffer(t *testing.T) {
	g, _ := New(32, 32)
	if got := g.CellAt(&sheet.Buffer{}, 10, 10); got != (Cell{0, 0}) {
		t.Errorf("CellAt on empty buffer = %v, want (0, 0)", got)
	}
}

func TestCellRect(t *testing.T) {
	g, _ := New(32, 16)
	want := image.Rect(64, 16, 96, 32)
	if got := g.CellRect(Cell{2, 1}); got != want {
		t.Errorf("CellRect = %v, want %v", got, want)
	}
}

func TestPitchWithPadding(t *testing.T) {
	g, _ := New(32, 32)
	g.Pad = 4

	sheettest.AssertEqualInt(t, "pitch", g.PitchW(), 40)

	// A 160 px padded sheet holds 4 padded 32 px cells.
	b := sheet.New(160, 40, sheet.RGBA)
	cols, rows := g.Dims(b)
	sheettest.AssertEqualInt(t, "columns", cols, 4)
	sheettest.AssertEqualInt(t, "rows", rows, 1)

	// The cell interior sits inside its padding border.
	want := image.Rect(44, 4, 76, 36)
	if got := g.CellRect(Cell{1, 0}); got != want {
		t.Errorf("CellRect = %v, want %v", got, want)
	}
}

func TestBandRects(t *testing.T) {
	b := sheet.New(128, 64, sheet.RGBA)
	g, _ := New(32, 32)

	if got, want := g.RowRect(b, 1), image.Rect(0, 32, 128, 64); got != want {
		t.Errorf("RowRect = %v, want %v", got, want)
	}
	if got, want := g.ColumnRect(b, 3), image.Rect(96, 0, 128, 64); got != want {
		t.Errorf("ColumnRect = %v, want %v", got, want)
	}
}

func TestContains(t *testing.T) {
	b := sheet.New(128, 64, sheet.RGBA)
	g, _ := New(32, 32)

	sheettest.AssertTrue(t, "inside", g.Contains(b, Cell{3, 1}))
	sheettest.AssertTrue(t, "outside col", !g.Contains(b, Cell{4, 0}))
	sheettest.AssertTrue(t, "outside row", !g.Contains(b, Cell{0, 2}))
	sheettest.AssertTrue(t, "negative", !g.Contains(b, Cell{-1, 0}))
}

func TestCellString(t *testing.T) {
	sheettest.AssertEqualString(t, "cell", Cell{2, 1}.String(), "(2, 1)")
}

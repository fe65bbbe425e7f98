package sheetprint

import (
	"image/color"
	"testing"

	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/sheet"
)

func TestCheckerAt(t *testing.T) {
	cases := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, checkerWhite},
		{9, 9, checkerWhite},
		{10, 0, checkerGray},
		{0, 10, checkerGray},
		{10, 10, checkerWhite},
		{25, 13, checkerGray},
	}
	for _, c := range cases {
		if got := checkerAt(c.x, c.y); got != c.want {
			t.Errorf("checkerAt(%d, %d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestGlyph(t *testing.T) {
	cases := []struct {
		lum  uint8
		want string
	}{
		{0, ".."},
		{31, ".."},
		{32, "--"},
		{63, "--"},
		{64, "=="},
		{127, "=="},
		{128, "##"},
		{255, "##"},
	}
	for _, c := range cases {
		v := uint32(c.lum) * 0x101
		if got := glyph(v, v, v); got != c.want {
			t.Errorf("glyph(lum %d) = %q, want %q", c.lum, got, c.want)
		}
	}
}

func TestBlend(t *testing.T) {
	bg := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if got := blend(bg, color.NRGBA{}); got != bg {
		t.Errorf("transparent over white = %v, want background", got)
	}
	fg := color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}
	if got := blend(bg, fg); got != fg {
		t.Errorf("opaque over white = %v, want foreground", got)
	}
	got := blend(bg, color.NRGBA{B: 0xff, A: 0x80})
	want := color.NRGBA{R: 0x7f, G: 0x7f, B: 0xff, A: 0xff}
	if got != want {
		t.Errorf("half blue over white = %v, want %v", got, want)
	}
}

func TestComposeChecker(t *testing.T) {
	b := sheet.New(24, 12, sheet.RGBA)
	b.SetNRGBA(3, 3, color.NRGBA{R: 0xaa, A: 0xff})

	out := Compose(b, nil)
	if got := out.NRGBAAt(0, 0); got != checkerWhite {
		t.Errorf("corner = %v, want white", got)
	}
	if got := out.NRGBAAt(12, 0); got != checkerGray {
		t.Errorf("second square = %v, want gray", got)
	}
	if got := out.NRGBAAt(3, 3); got != (color.NRGBA{R: 0xaa, A: 0xff}) {
		t.Errorf("opaque pixel = %v, want unchanged", got)
	}
}

func TestComposeOpaqueModeHidesChecker(t *testing.T) {
	b := sheet.New(8, 8, sheet.RGB)
	out := Compose(b, nil)
	want := color.NRGBA{A: 0xff}
	if got := out.NRGBAAt(0, 0); got != want {
		t.Errorf("opaque black = %v, want %v", got, want)
	}
}

func TestComposeBoundary(t *testing.T) {
	b := sheet.New(16, 8, sheet.RGBA)
	g, _ := grid.New(8, 8)

	out := Compose(b, &g)
	want := blend(checkerWhite, boundaryRed)
	if got := out.NRGBAAt(8, 3); got != want {
		t.Errorf("cell edge = %v, want %v", got, want)
	}
	if got := out.NRGBAAt(4, 3); got != checkerWhite {
		t.Errorf("interior = %v, want plain checker", got)
	}
	// The backdrop square flips at x=10, so the right edge blends over gray.
	wantEdge := blend(checkerGray, boundaryRed)
	if got := out.NRGBAAt(15, 3); got != wantEdge {
		t.Errorf("right edge = %v, want %v", got, wantEdge)
	}
}

func TestComposeBoundaryUsesPitch(t *testing.T) {
	b := sheet.New(20, 10, sheet.RGBA)
	g := grid.Grid{CellW: 6, CellH: 6, Pad: 2}

	out := Compose(b, &g)
	want := blend(checkerGray, boundaryRed)
	if got := out.NRGBAAt(10, 3); got != want {
		t.Errorf("pitch edge = %v, want %v", got, want)
	}
	if got := out.NRGBAAt(6, 3); got != checkerWhite {
		t.Errorf("cell-size offset = %v, want plain checker", got)
	}
}

func TestComposeInvalidGridIgnored(t *testing.T) {
	b := sheet.New(8, 8, sheet.RGBA)
	out := Compose(b, &grid.Grid{})
	if got := out.NRGBAAt(0, 0); got != checkerWhite {
		t.Errorf("invalid grid drew an overlay: %v", got)
	}
}

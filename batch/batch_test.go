package batch

import (
	"context"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/kettek/apng"

	"badc0de.net/pkg/go-spritesheet/export"
	"badc0de.net/pkg/go-spritesheet/sheetio"
	"badc0de.net/pkg/go-spritesheet/sheettest"
)

func writeSheet(t *testing.T, path string, cols, rows, cw, ch int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := sheetio.SavePNG(path, sheettest.NewCellIDBuffer(cols, rows, cw, ch)); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}

func TestRunExportsArtifacts(t *testing.T) {
	root := t.TempDir()
	writeSheet(t, filepath.Join(root, "walk.png"), 3, 2, 8, 8)

	s, err := Run(context.Background(), root, Options{
		CellW: 8, CellH: 8,
		Frames: true, Rows: true, GIF: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sheettest.AssertEqualInt(t, "files", s.Files, 1)
	sheettest.AssertEqualInt(t, "failed", s.Failed, 0)

	framesDir := filepath.Join(root, "processed", "walk_frames")
	for i := 0; i < 6; i++ {
		fb, err := sheetio.Open(filepath.Join(framesDir, export.FrameName(i)))
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		sheettest.AssertEqualInt(t, "frame width", fb.W, 8)
		// Reading order: frame 4 is cell (1, 1).
		if i == 4 {
			if got := fb.NRGBAAt(0, 0); got != sheettest.IDColor(1, 1) {
				t.Errorf("frame 4 = %v, want %v", got, sheettest.IDColor(1, 1))
			}
		}
	}

	rowsDir := filepath.Join(root, "processed", "walk_rows")
	strip, err := sheetio.Open(filepath.Join(rowsDir, "row_001.png"))
	if err != nil {
		t.Fatalf("row strip: %v", err)
	}
	sheettest.AssertEqualInt(t, "strip width", strip.W, 24)
	sheettest.AssertEqualInt(t, "strip height", strip.H, 8)

	gf, err := os.Open(filepath.Join(rowsDir, "row_000.gif"))
	if err != nil {
		t.Fatalf("row gif: %v", err)
	}
	defer gf.Close()
	gg, err := gif.DecodeAll(gf)
	if err != nil {
		t.Fatalf("gif.DecodeAll: %v", err)
	}
	sheettest.AssertEqualInt(t, "gif frames", len(gg.Image), 3)
	sheettest.AssertEqualInt(t, "gif loop", gg.LoopCount, 0)
}

func TestRunBakesPadding(t *testing.T) {
	root := t.TempDir()
	writeSheet(t, filepath.Join(root, "idle.png"), 2, 1, 8, 8)

	if _, err := Run(context.Background(), root, Options{
		CellW: 8, CellH: 8, Padding: 2,
		Frames: true,
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	fb, err := sheetio.Open(filepath.Join(root, "processed", "idle_frames", "frame_001.png"))
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	sheettest.AssertEqualInt(t, "padded frame width", fb.W, 12)
	sheettest.AssertEqualInt(t, "padded frame height", fb.H, 12)

	// The cell pixels sit inside the padding border.
	if got := fb.NRGBAAt(2, 2); got != sheettest.IDColor(1, 0) {
		t.Errorf("padded cell interior = %v, want %v", got, sheettest.IDColor(1, 0))
	}
	if got := fb.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("padding corner alpha = %d, want transparent", got.A)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	root := t.TempDir()
	writeSheet(t, filepath.Join(root, "good.png"), 2, 1, 8, 8)
	if err := os.WriteFile(filepath.Join(root, "bad.png"), []byte("not an image"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Run(context.Background(), root, Options{CellW: 8, CellH: 8, Frames: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sheettest.AssertEqualInt(t, "files", s.Files, 2)
	sheettest.AssertEqualInt(t, "failed", s.Failed, 1)

	// The good file still produced its frames.
	if _, err := os.Stat(filepath.Join(root, "processed", "good_frames", "frame_000.png")); err != nil {
		t.Errorf("good file output missing: %v", err)
	}
}

func TestRunRecursiveMirrorsTree(t *testing.T) {
	root := t.TempDir()
	writeSheet(t, filepath.Join(root, "top.png"), 2, 1, 8, 8)
	writeSheet(t, filepath.Join(root, "chars", "hero.png"), 2, 1, 8, 8)

	s, err := Run(context.Background(), root, Options{
		CellW: 8, CellH: 8, Rows: true, Recursive: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sheettest.AssertEqualInt(t, "files", s.Files, 2)

	if _, err := os.Stat(filepath.Join(root, "processed", "chars", "hero_rows", "row_000.png")); err != nil {
		t.Errorf("nested output missing: %v", err)
	}

	// A second run must not pick up the first run's artifacts.
	s2, err := Run(context.Background(), root, Options{
		CellW: 8, CellH: 8, Rows: true, Recursive: true,
	})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	sheettest.AssertEqualInt(t, "files on rerun", s2.Files, 2)
}

func TestRunAPNGWinsOverStrip(t *testing.T) {
	root := t.TempDir()
	writeSheet(t, filepath.Join(root, "fx.png"), 3, 1, 8, 8)

	if _, err := Run(context.Background(), root, Options{
		CellW: 8, CellH: 8, Rows: true, APNG: true,
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Both exports target row_000.png; the APNG is written last.
	f, err := os.Open(filepath.Join(root, "processed", "fx_rows", "row_000.png"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	a, err := apng.DecodeAll(f)
	if err != nil {
		t.Fatalf("apng.DecodeAll: %v", err)
	}
	sheettest.AssertEqualInt(t, "apng frames", len(a.Frames), 3)
}

func TestRunEmptyRoot(t *testing.T) {
	root := t.TempDir()
	s, err := Run(context.Background(), root, Options{CellW: 8, CellH: 8, Frames: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sheettest.AssertEqualInt(t, "files", s.Files, 0)

	// Nothing to do, so no output root either.
	if _, err := os.Stat(filepath.Join(root, "processed")); !os.IsNotExist(err) {
		t.Errorf("processed/ created for an empty run: stat err = %v", err)
	}
}

func TestRunRejectsBadGrid(t *testing.T) {
	if _, err := Run(context.Background(), t.TempDir(), Options{CellW: 0, CellH: 8}); err == nil {
		t.Fatal("want error for zero cell width")
	}
}

func TestRunParallel(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		writeSheet(t, filepath.Join(root, name), 2, 1, 8, 8)
	}

	s, err := Run(context.Background(), root, Options{
		CellW: 8, CellH: 8, Frames: true, Workers: 4,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sheettest.AssertEqualInt(t, "files", s.Files, 4)
	sheettest.AssertEqualInt(t, "failed", s.Failed, 0)
}

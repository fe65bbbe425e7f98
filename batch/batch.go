// Package batch applies the grid-slicing and export pipeline to every
// sprite sheet under a folder tree.
//
// For each image it optionally bakes padding between cells, then writes
// the requested artifacts under a processed/ directory mirroring the
// input layout:
//
//	processed/<subdir>/<name>_frames/frame_000.png ...
//	processed/<subdir>/<name>_rows/row_000.png     (row strip)
//	processed/<subdir>/<name>_rows/row_000.gif     (row animation)
//	processed/<subdir>/<name>_rows/row_000.png     (row APNG)
//
// Requesting both row strips and APNG writes the APNG over the strip,
// since both use the row's .png name.
//
// One file's failure never stops the run; it is logged, counted and the
// next file is processed. By default files are handled one at a time,
// which bounds peak memory to a single decoded sheet; Options.Workers
// trades that bound for throughput.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-spritesheet/editor"
	"badc0de.net/pkg/go-spritesheet/export"
	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/selection"
	"badc0de.net/pkg/go-spritesheet/sheet"
	"badc0de.net/pkg/go-spritesheet/sheetio"
)

// OutputDirName is the directory created under the input root to hold all
// batch artifacts.
const OutputDirName = "processed"

// Options selects what Run produces for each sheet.
type Options struct {
	CellW, CellH int
	Padding      int

	Frames bool // individual frame PNGs
	Rows   bool // per-row strip PNGs
	GIF    bool // per-row animated GIFs
	APNG   bool // per-row animated PNGs

	Recursive bool
	Workers   int // concurrent files; 0 or 1 processes sequentially
}

// Summary reports what a Run did.
type Summary struct {
	Files  int // images found
	Failed int // images that could not be processed
}

// Run processes every sprite sheet under root according to opts.
func Run(ctx context.Context, root string, opts Options) (Summary, error) {
	g, err := grid.New(opts.CellW, opts.CellH)
	if err != nil {
		return Summary{}, err
	}
	if opts.Padding < 0 {
		return Summary{}, fmt.Errorf("batch: negative padding %d", opts.Padding)
	}

	outRoot := filepath.Join(root, OutputDirName)
	files, err := discover(root, outRoot, opts.Recursive)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		glog.Infof("no sprite sheets found under %s", root)
		return Summary{}, nil
	}
	if err := os.MkdirAll(outRoot, 0755); err != nil {
		return Summary{}, errors.Wrapf(err, "creating %s", outRoot)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var done, failed atomic.Int32
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, path := range files {
		path := path // per-iteration copy; required for correct capture under go <= 1.21
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			glog.Infof("processing %d/%d: %s", done.Add(1), len(files), filepath.Base(path))
			if err := processFile(path, root, outRoot, g, opts); err != nil {
				glog.Errorf("error processing %s: %v", filepath.Base(path), err)
				failed.Add(1)
			}
			return nil
		})
	}
	err = eg.Wait()
	s := Summary{Files: len(files), Failed: int(failed.Load())}
	glog.Infof("batch complete: %d files, %d failed", s.Files, s.Failed)
	return s, err
}

// discover lists the image files to process. The output root is never
// descended into, so artifacts of an earlier run are not picked up as
// inputs.
func discover(root, outRoot string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", root)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && sheetio.IsImagePath(e.Name()) {
				files = append(files, filepath.Join(root, e.Name()))
			}
		}
		return files, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == outRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if sheetio.IsImagePath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return files, nil
}

func processFile(path, root, outRoot string, g grid.Grid, opts Options) error {
	buf, err := sheetio.Open(path)
	if err != nil {
		return err
	}

	if opts.Padding > 0 {
		padded, err := editor.PadPreview(buf, g, opts.Padding)
		if err != nil {
			return errors.Wrap(err, "padding")
		}
		buf = padded
		g.CellW += 2 * opts.Padding
		g.CellH += 2 * opts.Padding
	}

	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return errors.Wrap(err, "relativizing path")
	}
	outDir := filepath.Join(outRoot, rel)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", outDir)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if opts.Frames {
		if err := exportFrames(buf, g, outDir, base); err != nil {
			return err
		}
	}
	if opts.Rows || opts.GIF || opts.APNG {
		if err := exportRows(buf, g, outDir, base, opts); err != nil {
			return err
		}
	}
	return nil
}

// exportFrames writes every whole cell of the sheet as frame_NNN.png, in
// reading order.
func exportFrames(buf *sheet.Buffer, g grid.Grid, outDir, base string) error {
	dir := filepath.Join(outDir, base+"_frames")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	cols, rows := g.Dims(buf)
	if cols == 0 || rows == 0 {
		glog.V(1).Infof("%s: no whole cells at %dx%d, nothing to export", base, g.CellW, g.CellH)
		return nil
	}

	var sel selection.Selection
	sel.Start(grid.Cell{Col: 0, Row: 0})
	sel.DragTo(grid.Cell{Col: cols - 1, Row: rows - 1})
	frames, err := export.Frames(buf, g, &sel)
	if err != nil {
		return err
	}
	for i, fr := range frames {
		if err := sheetio.SavePNG(filepath.Join(dir, export.FrameName(i)), fr); err != nil {
			return err
		}
	}
	return nil
}

// exportRows writes the per-row artifacts: strip PNGs, animated GIFs and
// APNGs, as requested. A row whose animation fails to encode is logged
// and skipped without sinking the rest of the file.
func exportRows(buf *sheet.Buffer, g grid.Grid, outDir, base string, opts Options) error {
	dir := filepath.Join(outDir, base+"_rows")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	cols, rows := g.Dims(buf)
	if cols == 0 || rows == 0 {
		glog.V(1).Infof("%s: no whole cells at %dx%d, nothing to export", base, g.CellW, g.CellH)
		return nil
	}

	for row := 0; row < rows; row++ {
		var sel selection.Selection
		sel.SelectRow(row)

		if opts.Rows {
			strip, err := export.Strip(buf, g, &sel)
			if err != nil {
				return err
			}
			if err := sheetio.SavePNG(filepath.Join(dir, export.RowName(row, "png")), strip); err != nil {
				return err
			}
		}
		if opts.GIF {
			frames, err := export.Animation(buf, g, &sel)
			if err != nil {
				return err
			}
			gifPath := filepath.Join(dir, export.RowName(row, "gif"))
			if err := sheetio.SaveGIF(gifPath, frames, export.FrameDelay, true); err != nil {
				glog.Errorf("error creating GIF for row %d of %s: %v", row, base, err)
			}
		}
		if opts.APNG {
			frames, err := export.Animation(buf, g, &sel)
			if err != nil {
				return err
			}
			// Same .png name as the row strip; when both are requested
			// the APNG wins.
			apngPath := filepath.Join(dir, export.RowName(row, "png"))
			if err := sheetio.SaveAPNG(apngPath, frames, export.FrameDelay, true); err != nil {
				glog.Errorf("error creating APNG for row %d of %s: %v", row, base, err)
			}
		}
	}
	return nil
}

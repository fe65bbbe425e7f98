package main

import (
	"context"
	"flag"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-spritesheet/batch"
)

var (
	root      = flag.String("root", "", "directory holding the sheets to process")
	cellW     = flag.Int("cell_width", 32, "cell width in pixels")
	cellH     = flag.Int("cell_height", 32, "cell height in pixels")
	padding   = flag.Int("padding", 0, "padding baked around each cell before export, in pixels")
	frames    = flag.Bool("frames", true, "export each cell as an individual png")
	rows      = flag.Bool("rows", true, "export each row as a horizontal strip png")
	gifs      = flag.Bool("gif", false, "export each row as an animated gif")
	apng      = flag.Bool("apng", false, "export each row as an animated png (overwrites the row strip png)")
	recursive = flag.Bool("recursive", false, "descend into subdirectories")
	workers   = flag.Int("workers", 1, "sheets processed in parallel; 1 keeps memory use at one sheet")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *root == "" {
		glog.Exit("missing --root: nothing to do")
	}

	sum, err := batch.Run(context.Background(), *root, batch.Options{
		CellW:     *cellW,
		CellH:     *cellH,
		Padding:   *padding,
		Frames:    *frames,
		Rows:      *rows,
		GIF:       *gifs,
		APNG:      *apng,
		Recursive: *recursive,
		Workers:   *workers,
	})
	if err != nil {
		glog.Exitf("batch run: %v", err)
	}
	if sum.Failed > 0 {
		glog.Exitf("processed %d files, %d failed", sum.Files, sum.Failed)
	}
	glog.Infof("processed %d files", sum.Files)
}

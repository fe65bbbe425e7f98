package main

import (
	"flag"
	"image"

	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-spritesheet/sheetprint"
)

var (
	col      = flag.Bool("col", true, "whether to print in color")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with rasterm (kitty, iterm, sixel)")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "downsize the printed image to fit the terminal")
)

func out(img image.Image) {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if (termSize.WSXPixel != 0 && termSize.WSYPixel != 0) && (*rasterm || *iterm) {
				// Native pixel size when an image renderer will draw
				// real pixels rather than character cells.
				img = resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.Lanczos3)
			} else {
				// Character backends print every pixel two columns wide.
				img = resize.Thumbnail(termSize.WSCol/2, termSize.WSRow, img, resize.Lanczos3)
			}
		}
	}

	if *rasterm {
		sheetprint.PrintRasTerm(img)
	} else if !*col {
		sheetprint.PrintNoColor(img, *blanks)
	} else if *iterm {
		sheetprint.PrintITerm(img, "sheet.png")
	} else if *col256 {
		sheetprint.Print256Color(img, *blanks)
	} else {
		sheetprint.Print24bit(img, *blanks)
	}
}

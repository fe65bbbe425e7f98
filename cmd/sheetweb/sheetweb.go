package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-spritesheet/editor"
	"badc0de.net/pkg/go-spritesheet/sheetio"
	"badc0de.net/pkg/go-spritesheet/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for sheetweb")
	in            = flag.String("in", "", "path of the sprite sheet to serve")
	cellW         = flag.Int("cell_width", 32, "cell width in pixels")
	cellH         = flag.Int("cell_height", 32, "cell height in pixels")
	watch         = flag.Bool("watch", true, "reload the sheet when the file changes on disk")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	figure.NewFigure("sheetweb", "", true).Print()

	if *in == "" {
		glog.Exit("missing --in: nothing to serve")
	}

	s := editor.NewSession()
	b, err := sheetio.Open(*in)
	if err != nil {
		glog.Exitf("loading sheet: %v", err)
	}
	if err := s.Load(b); err != nil {
		glog.Exitf("loading sheet: %v", err)
	}
	if err := s.SetCellSize(*cellW, *cellH); err != nil {
		glog.Exitf("sizing grid: %v", err)
	}

	h := web.NewHandler(s, *in)

	if *watch {
		w, err := web.NewWatcher(*in, h.Reload)
		if err != nil {
			glog.Errorf("watching %s: %v", *in, err)
		} else {
			defer w.Close()
			go w.Run(context.Background())
		}
	}

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	glog.Infof("serving %s on %s", *in, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stderr, r))))
}

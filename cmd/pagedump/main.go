// Command pagedump renders one page of a PDF the way the classroom display
// shows it and writes the raster as PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"classroom/internal/buildinfo"
	"classroom/vclass/docview"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Input PDF.")
		outPath = flag.String("out", "", "Output PNG.")
		page    = flag.Int("page", 1, "1-based page number.")
		width   = flag.Int("width", docview.DefaultConfig().Width, "Raster width.")
		height  = flag.Int("height", docview.DefaultConfig().Height, "Raster height.")
		verbose = flag.Bool("v", false, "Log to stderr.")
		version = flag.Bool("version", false, "Print the version and exit.")
	)
	flag.Parse()

	if *version {
		fmt.Println("pagedump", buildinfo.String())
		return
	}
	if *inPath == "" || *outPath == "" {
		fatalf("usage: pagedump -in doc.pdf -out page.png [-page 1] [-width 1920 -height 1440]")
	}

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(logOut, nil))

	data, err := os.ReadFile(*inPath)
	if err != nil {
		fatalf("read: %v", err)
	}
	if err := dump(data, *inPath, *outPath, *page, *width, *height, log); err != nil {
		fatalf("%v", err)
	}
}

// dump loads data into a surface, renders page and writes the raster to
// outPath.
func dump(data []byte, name, outPath string, page, width, height int, log *slog.Logger) error {
	s := docview.New(docview.Config{Width: width, Height: height, Brightness: 1}, nil, log)
	if err := renderPage(s, name, data, page); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	err = png.Encode(f, s.Raster())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	log.Info("page written", "page", page, "of", s.Total(), "out", outPath)
	return nil
}

// renderPage leaves page of data in the surface's raster. Load renders page 1
// but only logs a failure, so any page not yet in the raster is rendered here
// to surface the error.
func renderPage(s *docview.Surface, name string, data []byte, page int) error {
	if _, err := s.Load(name, docview.DeclaredMIME(name), data); err != nil {
		return err
	}
	if s.Rendered() == page {
		return nil
	}
	return s.RenderPage(page)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

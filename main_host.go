//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/muesli/termenv"

	"classroom/app"
	"classroom/hal"
	"classroom/internal/buildinfo"
	"classroom/internal/config"
)

func main() {
	var (
		headless    hal.HeadlessConfig
		host        hal.HostConfig
		cfgPath     string
		pdfPath     string
		scale       int
		showVersion bool
	)
	flag.StringVar(&cfgPath, "config", "", "TOML settings file.")
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&headless.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.StringVar(&pdfPath, "pdf", "", "PDF to show at startup.")
	flag.StringVar(&host.WatchDir, "watch", "", "Upload inbox: PDFs written here are shown.")
	flag.IntVar(&scale, "scale", 0, "Window scale (overrides the config).")
	flag.BoolVar(&showVersion, "version", false, "Print the version and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println("classroom", buildinfo.String())
		return
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		exit(err)
	}
	if scale > 0 {
		cfg.Window.Scale = scale
	}
	host.Width, host.Height = cfg.Render.Width, cfg.Render.Height
	host.Color = termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
	if pdfPath != "" {
		host.Files = []string{pdfPath}
	}

	if headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, headless, host, app.Factory(cfg)); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			exit(err)
		}
		return
	}

	win := hal.WindowConfig{Title: cfg.Window.Title, Scale: cfg.Window.Scale}
	if err := hal.RunWindow(win, host, app.Factory(cfg)); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

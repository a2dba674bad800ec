// Package main is the weft showcase: a gallery of small pages that build
// headless, settle their animations and print what they paint.
//
//	go run ./showcase              # list pages
//	go run ./showcase /buttons     # paint one page
//	go run ./showcase -dark /forms
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/config"
	"github.com/go-drift/weft/pkg/entity"
	weferrors "github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

const frameTime = 16 * time.Millisecond

type options struct {
	dark          bool
	width, height float64
	logLevel      string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("showcase", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.BoolVar(&opts.dark, "dark", false, "start in dark mode")
	fs.Float64Var(&opts.width, "width", 480, "viewport width")
	fs.Float64Var(&opts.height, "height", 800, "viewport height")
	fs.StringVar(&opts.logLevel, "log", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		printIndex(stdout)
		return nil
	}
	demo, ok := findDemo(fs.Arg(0))
	if !ok {
		return fmt.Errorf("unknown page %q (run without arguments to list pages)", fs.Arg(0))
	}

	logger, err := config.NewLogger(config.LogConfig{Level: opts.logLevel}, stderr)
	if err != nil {
		return err
	}
	cx := newShowcase(demo, opts, logger)
	ticks := cx.Settle(frameTime, 240)
	logger.Debug("page settled", slog.String("route", demo.Route), slog.Int("ticks", ticks))

	printPaint(stdout, cx)
	return nil
}

func printIndex(w io.Writer) {
	for _, category := range []string{CategoryWidgets, CategoryStyle} {
		fmt.Fprintf(w, "%s:\n", category)
		for _, d := range demosByCategory(category) {
			fmt.Fprintf(w, "  %-18s %s\n", d.Route, d.Subtitle)
		}
	}
}

// newShowcase creates a context showing demo.
func newShowcase(demo Demo, opts options, logger *slog.Logger) *ui.Context {
	cx := ui.New(
		ui.WithViewport(opts.width, opts.height),
		ui.WithLogger(logger),
		ui.WithErrorHandler(&weferrors.LogHandler{Logger: logger}),
	)
	mode := "light"
	if opts.dark {
		mode = "dark"
	}
	cx.Style().AddClass(cx.Root(), mode)
	mountDemo(cx, cx.Root(), demo)
	return cx
}

// mountDemo loads the showcase stylesheet and builds demo's page under
// root.
func mountDemo(cx *ui.Context, root entity.Entity, demo Demo) entity.Entity {
	cx.LoadStylesheet("showcase.css", showcaseSheet)
	page := cx.Child(root, ui.Element("page")).
		ID("page").
		Class("page").
		Entity()
	cx.Child(page, ui.Element("label")).
		Class("title").
		Role(style.RoleHeading).
		Text(binding.Const(demo.Title))
	cx.Child(page, ui.Element("label")).
		Class("subtitle").
		Text(binding.Const(demo.Subtitle))
	demo.Build(cx, page)
	return page
}

// printPaint writes one line per painted entity, back to front.
func printPaint(w io.Writer, cx *ui.Context) {
	cx.Paint(func(e entity.Entity, s style.Resolved, box layout.Rect) {
		var b strings.Builder
		b.WriteString(cx.Style().Element(e))
		if id := cx.Style().ID(e); id != "" {
			b.WriteString("#" + id)
		}
		fmt.Fprintf(&b, " [%g,%g %gx%g]", box.Left, box.Top, box.Width(), box.Height())
		if _, _, _, a := s.Background.Channels(); a != 0 {
			fmt.Fprintf(&b, " bg=%s", s.Background)
		}
		if s.Opacity < 1 {
			fmt.Fprintf(&b, " opacity=%.2f", s.Opacity)
		}
		if s.Text != "" {
			fmt.Fprintf(&b, " %q", s.Text)
		}
		fmt.Fprintln(w, b.String())
	})
}

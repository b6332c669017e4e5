package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/tiledecor/internal/borders"
	"github.com/1broseidon/tiledecor/internal/config"
	"github.com/1broseidon/tiledecor/internal/decor"
	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

type previewOptions struct {
	width       uint32
	height      uint32
	titleOffset uint32
	active      bool
	// overrides are applied on top of the configured registry.
	overrides map[string]any
}

// captureCompositor keeps the last submitted decoration.
type captureCompositor struct {
	last render.Renderable
}

func (c *captureCompositor) Submit(_ decor.WindowID, r render.Renderable, _ geometry.Geometry) error {
	c.last = r
	return nil
}

func (c *captureCompositor) Withdraw(decor.WindowID) {
	c.last = nil
}

func runPreview(args []string, stdout *os.File) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/tiledecor/config.yaml)")
	width := fs.Uint("width", 320, "Window content width")
	height := fs.Uint("height", 200, "Window content height")
	thickness := fs.Int("thickness", -1, "Border size override")
	color := fs.String("color", "", "Border color override (#rrggbb)")
	active := fs.Bool("active", false, "Render the focused-window color")
	out := fs.String("out", "-", "Output PNG path, - for stdout")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tiledecor preview [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Render one decoration with the configured settings and write it as PNG.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	opts := previewOptions{
		width:       uint32(*width),
		height:      uint32(*height),
		titleOffset: res.Config.TitleOffset,
		active:      *active,
		overrides:   map[string]any{},
	}
	if *thickness >= 0 {
		opts.overrides[config.KeyBorderSize] = *thickness
	}
	if *color != "" {
		packed, err := parseColor(*color)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		key := config.KeyBorderColor
		if *active {
			key = config.KeyActiveBorderColor
		}
		opts.overrides[key] = packed
	}

	surface, err := renderPreview(res.Config, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var w io.Writer = stdout
	if *out == "-" {
		if term.IsTerminal(int(stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "refusing to write PNG data to a terminal; use --out or redirect stdout")
			return 2
		}
	} else {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		w = f
	}

	if err := png.Encode(w, surface); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// renderPreview draws one window's decoration through the same manager the
// daemon uses and returns its pixels.
func renderPreview(cfg *config.Config, opts previewOptions) (*render.Surface, error) {
	registry := cfg.NewRegistry()
	for k, v := range opts.overrides {
		registry.Set(k, v)
	}

	capture := &captureCompositor{}
	manager, err := decor.NewManager(decor.Config{
		Policy:     borders.NewPolicy(registry, opts.titleOffset),
		Style:      cfg.Style,
		Compositor: capture,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})),
	})
	if err != nil {
		return nil, err
	}

	const win = decor.WindowID(1)
	err = manager.Sync([]decor.WindowState{{
		ID:      win,
		Content: geometry.New(0, 0, opts.width, opts.height),
		Active:  opts.active,
	}})
	if err != nil {
		return nil, err
	}
	if capture.last == nil {
		return nil, errors.New("border_size is 0: nothing to render")
	}
	return capture.last.Surface(), nil
}

// parseColor accepts #rrggbb, 0xrrggbb or rrggbb.
func parseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(n), nil
}

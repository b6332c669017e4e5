package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/tiledecor/internal/borders"
	"github.com/1broseidon/tiledecor/internal/config"
	"github.com/1broseidon/tiledecor/internal/daemon"
	"github.com/1broseidon/tiledecor/internal/decor"
	"github.com/1broseidon/tiledecor/internal/ipc"
	"github.com/1broseidon/tiledecor/internal/runtimepath"
	"github.com/1broseidon/tiledecor/internal/x11"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/tiledecor/config.yaml)")
	display := fs.String("display", "", "X display (default: config display, then $DISPLAY)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tiledecor daemon [--config PATH] [--display NAME]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	log.Printf("Configuration loaded (style: %s, poll: %s, files: %d)", cfg.Style, cfg.PollInterval, len(res.Files))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if *display == "" {
		*display = cfg.Display
	}
	conn, err := x11.NewConnection(*display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer conn.Close()

	output, err := x11.NewOutput(conn)
	if err != nil {
		log.Fatalf("Failed to prepare output: %v", err)
	}
	defer output.Close()

	registry := cfg.NewRegistry()
	policy := borders.NewPolicy(registry, cfg.TitleOffset)
	manager, err := decor.NewManager(decor.Config{
		Policy:     policy,
		Style:      cfg.Style,
		Compositor: output,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create decoration manager: %v", err)
	}
	defer manager.Close()

	source := x11.NewWindowSource(conn)
	poller := daemon.NewPoller(daemon.PollerConfig{
		Interval: cfg.PollInterval,
		Logger:   logger,
	}, source, manager)

	configPath := *path
	if configPath == "" {
		configPath, _ = config.DefaultConfigPath()
	}
	handler := &daemonHandler{
		configPath: configPath,
		loaded:     cfg,
		registry:   registry,
		policy:     policy,
		manager:    manager,
		source:     source,
		logger:     logger,
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket path: %v", err)
	}
	ipcServer, err := ipc.NewServer(socketPath, handler)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				if err := handler.Reload(); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				log.Println("Config reloaded successfully")
			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down tiledecor daemon...")
				cancel()
				return
			}
		}
	}()

	log.Println("tiledecor daemon started successfully")
	poller.Run(ctx)
	return 0
}

// daemonHandler answers control requests and applies config reloads.
type daemonHandler struct {
	configPath string
	loaded     *config.Config
	registry   *config.Registry
	policy     *borders.Policy
	manager    *decor.Manager
	source     *x11.WindowSource
	logger     *slog.Logger
}

// Reload re-reads the config file and repaints every decoration with the
// new registry values. Settings other than the registry need a restart.
func (h *daemonHandler) Reload() error {
	res, err := config.LoadFromPath(h.configPath)
	if err != nil {
		return err
	}
	next := res.Config
	if next.TitleOffset != h.loaded.TitleOffset || next.Style != h.loaded.Style ||
		next.PollInterval != h.loaded.PollInterval || next.Display != h.loaded.Display {
		h.logger.Warn("only registry changes apply on reload; restart for the rest",
			"path", h.configPath)
	}
	h.registry.Replace(next.Registry)
	return h.manager.Refresh()
}

func (h *daemonHandler) Status() ipc.StatusData {
	return ipc.StatusData{
		DecoratedWindows: h.manager.Len(),
		BorderSize:       h.policy.Thickness(),
		ConfigPath:       h.configPath,
	}
}

func (h *daemonHandler) Monitors() ([]ipc.MonitorInfo, error) {
	monitors, err := h.source.Monitors()
	if err != nil {
		return nil, err
	}
	infos := make([]ipc.MonitorInfo, len(monitors))
	for i, m := range monitors {
		infos[i] = ipc.MonitorInfo{
			ID:     m.ID,
			Name:   m.Name,
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		}
	}
	return infos, nil
}

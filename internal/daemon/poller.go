package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/tiledecor/internal/decor"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 250 * time.Millisecond

// WindowSource lists the windows that should be decorated.
type WindowSource interface {
	Windows() ([]decor.WindowState, error)
}

// Syncer applies a window snapshot.
type Syncer interface {
	Sync(states []decor.WindowState) error
}

// PollerConfig holds configuration for the poller.
type PollerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Poller periodically reads the window list and brings the decorations in
// line with it.
type Poller struct {
	interval time.Duration
	source   WindowSource
	sync     Syncer
	logger   *slog.Logger
}

// NewPoller creates a poller feeding snapshots from source into sync.
func NewPoller(cfg PollerConfig, source WindowSource, sync Syncer) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		interval: interval,
		source:   source,
		sync:     sync,
		logger:   logger,
	}
}

// Run polls once immediately and then on every tick. Blocks until ctx is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("poller started", "interval", p.interval)
	p.poll()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// Poll performs a single pass and returns its error.
func (p *Poller) Poll() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("poll panic: %v", r)
		}
	}()

	states, err := p.source.Windows()
	if err != nil {
		return fmt.Errorf("listing windows: %w", err)
	}
	return p.sync.Sync(states)
}

func (p *Poller) poll() {
	if err := p.Poll(); err != nil {
		p.logger.Error("poll failed", "error", err)
	}
}

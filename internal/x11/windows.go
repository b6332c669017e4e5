package x11

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tiledecor/internal/decor"
	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

// monitorTTL bounds how long a RandR snapshot is reused between polls.
const monitorTTL = 5 * time.Second

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	return len(types) == 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// IsHidden reports whether the window manager has minimized or hidden the window.
func (c *Connection) IsHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	return hasHiddenState(states)
}

func hasHiddenState(states []string) bool {
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// ContentGeometry returns the on-screen rectangle of a client including any
// frame the window manager put around it, in root coordinates.
func (c *Connection) ContentGeometry(windowID xproto.Window) (geometry.Geometry, error) {
	rect, err := xwindow.New(c.XUtil, windowID).DecorGeometry()
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("window %d geometry: %w", windowID, err)
	}
	return rectGeometry(rect.X(), rect.Y(), rect.Width(), rect.Height()), nil
}

func rectGeometry(x, y, w, h int) geometry.Geometry {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return geometry.New(int32(x), int32(y), uint32(w), uint32(h))
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	if name, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(name)
	}
	return ""
}

// WindowSource lists the managed, visible client windows of the current
// desktop from the EWMH client list.
type WindowSource struct {
	conn *Connection

	mu        sync.Mutex
	monitors  []Monitor
	refreshed time.Time
}

// NewWindowSource returns a source reading from conn.
func NewWindowSource(conn *Connection) *WindowSource {
	return &WindowSource{conn: conn}
}

// Monitors returns the cached monitor list, refreshing it when stale.
func (s *WindowSource) Monitors() ([]Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.monitors != nil && time.Since(s.refreshed) < monitorTTL {
		return s.monitors, nil
	}
	monitors, err := s.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	s.monitors = monitors
	s.refreshed = time.Now()
	return monitors, nil
}

// Windows implements daemon.WindowSource.
func (s *WindowSource) Windows() ([]decor.WindowState, error) {
	c := s.conn
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	active, _ := c.GetActiveWindow()
	current, desktopErr := c.GetCurrentDesktop()
	// Without RandR every window is placed on output 0.
	monitors, _ := s.Monitors()

	states := make([]decor.WindowState, 0, len(clients))
	for _, win := range clients {
		if !c.IsNormalWindow(win) || c.IsHidden(win) {
			continue
		}
		if desktopErr == nil {
			if d, err := c.GetWindowDesktop(win); err == nil && !onDesktop(d, current) {
				continue
			}
		}
		content, err := c.ContentGeometry(win)
		if err != nil || content.Empty() {
			continue
		}

		cx := int(content.Origin.X) + int(content.Size.W)/2
		cy := int(content.Origin.Y) + int(content.Size.H)/2
		states = append(states, decor.WindowState{
			ID:      decor.WindowID(win),
			Content: content,
			Output:  render.Output(MonitorAt(monitors, cx, cy)),
			Title:   c.WindowTitle(win),
			Active:  win == active,
		})
	}
	return states, nil
}

package decor

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/tiledecor/internal/borders"
	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

// WindowID identifies a client window on the display server.
type WindowID uint32

// WindowState is one window as seen by a window source.
type WindowState struct {
	ID      WindowID
	Content geometry.Geometry
	Output  render.Output
	Title   string
	Active  bool
}

// Compositor puts finished decorations on screen.
type Compositor interface {
	// Submit shows r around the window's content rectangle, replacing any
	// image previously submitted for win.
	Submit(win WindowID, r render.Renderable, content geometry.Geometry) error
	// Withdraw removes whatever is shown for win.
	Withdraw(win WindowID)
}

// Config configures a Manager.
type Config struct {
	Policy     *borders.Policy
	Style      string
	Compositor Compositor
	// NewContext creates drawing contexts; nil uses the default engine.
	NewContext render.ContextFactory
	Logger     *slog.Logger
}

type entry struct {
	borders   *borders.Borders
	content   geometry.Geometry
	output    render.Output
	title     string
	submitted bool
	// current is set once the latest paint reached the compositor.
	current bool
}

// Manager keeps one decoration per window in step with window geometry,
// focus and configuration. It is safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	policy     *borders.Policy
	style      string
	compositor Compositor
	newContext render.ContextFactory
	logger     *slog.Logger

	windows map[WindowID]*entry
	active  WindowID
}

// NewManager validates cfg and returns a Manager with no windows.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Policy == nil {
		return nil, errors.New("decor: policy is required")
	}
	if cfg.Compositor == nil {
		return nil, errors.New("decor: compositor is required")
	}
	if _, err := borders.NewDrawable(cfg.Style, nil, render.Black); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		policy:     cfg.Policy,
		style:      cfg.Style,
		compositor: cfg.Compositor,
		newContext: cfg.NewContext,
		logger:     logger,
		windows:    make(map[WindowID]*entry),
	}, nil
}

// Update decorates win around content, creating, resizing or moving its
// buffer as needed and repainting it. Nothing happens when the window is
// already decorated at exactly this place. When borders are disabled the
// decoration is withdrawn.
func (m *Manager) Update(win WindowID, content geometry.Geometry, output render.Output) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.update(m.entry(win), win, content, output, false)
	return err
}

// Remove withdraws and forgets the decoration of win.
func (m *Manager) Remove(win WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(win)
}

// SetActive marks win as focused. The previous and new active windows are
// repainted when their color changes. A zero win clears focus.
func (m *Manager) SetActive(win WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if win == m.active {
		return nil
	}
	prev := m.active
	m.active = win

	var errs []error
	for _, id := range []WindowID{prev, win} {
		e, ok := m.windows[id]
		if !ok || e.borders == nil {
			continue
		}
		if err := m.paint(id, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetTitle records the title of win. It is kept across buffer reallocations.
func (m *Manager) SetTitle(win WindowID, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setTitle(m.entry(win), title)
}

// Sync reconciles the decorations with a full snapshot of the windows on
// screen: new windows are decorated, changed ones updated and missing ones
// removed. Errors for individual windows do not stop the pass.
func (m *Manager) Sync(states []WindowState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[WindowID]struct{}, len(states))
	var active WindowID
	for _, s := range states {
		seen[s.ID] = struct{}{}
		if s.Active {
			active = s.ID
		}
	}
	for _, id := range m.ids() {
		if _, ok := seen[id]; !ok {
			m.remove(id)
		}
	}

	prev := m.active
	m.active = active

	var errs []error
	for _, s := range states {
		e := m.entry(s.ID)
		m.setTitle(e, s.Title)
		recolor := prev != active && (s.ID == prev || s.ID == active)
		painted, err := m.update(e, s.ID, s.Content, s.Output, false)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if recolor && !painted && e.borders != nil {
			if err := m.paint(s.ID, e); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Refresh re-reads the configuration for every window: buffers are resized
// for the current border size and repainted with the current colors.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, id := range m.ids() {
		e := m.windows[id]
		if _, err := m.update(e, id, e.content, e.output, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of windows that currently have a decoration.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.windows {
		if e.borders != nil {
			n++
		}
	}
	return n
}

// Decoration returns the current decoration of win, if any.
func (m *Manager) Decoration(win WindowID) (*borders.Borders, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.windows[win]
	if !ok || e.borders == nil {
		return nil, false
	}
	return e.borders, true
}

// Close withdraws every decoration.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.ids() {
		m.remove(id)
	}
}

func (m *Manager) entry(win WindowID) *entry {
	e, ok := m.windows[win]
	if !ok {
		e = &entry{title: borders.DefaultTitle}
		m.windows[win] = e
	}
	return e
}

func (m *Manager) setTitle(e *entry, title string) {
	if title == "" {
		title = borders.DefaultTitle
	}
	e.title = title
	if e.borders != nil {
		e.borders.SetTitle(title)
	}
}

// update reports whether it repainted the buffer.
func (m *Manager) update(e *entry, win WindowID, content geometry.Geometry, output render.Output, force bool) (bool, error) {
	if e.borders != nil && e.current && !force && e.content == content && e.output == output {
		return false, nil
	}
	e.content = content
	e.output = output

	if e.borders == nil || e.borders.Output() != output {
		if e.borders != nil {
			e.borders.Surface().Finish()
		}
		e.borders = m.policy.NewBorders(content, output)
	} else {
		e.borders = e.borders.Reallocate(content)
	}

	if e.borders == nil {
		m.withdraw(win, e)
		return false, nil
	}
	e.borders.SetTitle(e.title)
	return true, m.paint(win, e)
}

// paint draws e's buffer with the color for its focus state and submits it.
// A drawing failure drops the buffer but leaves the last submitted image on
// screen; the next update allocates a new one.
func (m *Manager) paint(win WindowID, e *entry) error {
	b := e.borders
	if c, ok := m.policy.ActiveColor(); ok && win == m.active {
		b.SetColor(&c)
	} else {
		b.SetColor(nil)
	}

	base := borders.Begin(b, m.newContext)
	d, err := borders.NewDrawable(m.style, base, b.Color())
	if err != nil {
		return err
	}
	drawn, err := d.Draw(geometry.Geometry{Size: b.Geometry().Size})
	if err != nil {
		var derr *borders.DrawErr
		if errors.As(err, &derr) {
			m.logger.Error("drawing decoration failed, keeping previous image",
				"window_id", uint32(win),
				"geometry", b.Geometry().String(),
				"status", derr.Status.String())
			e.borders = nil
			b.Surface().Finish()
		}
		return fmt.Errorf("window %d: %w", win, err)
	}
	e.borders = drawn
	e.current = false

	if err := m.compositor.Submit(win, drawn, e.content); err != nil {
		return fmt.Errorf("submitting decoration for window %d: %w", win, err)
	}
	e.submitted = true
	e.current = true
	return nil
}

func (m *Manager) remove(win WindowID) {
	e, ok := m.windows[win]
	if !ok {
		return
	}
	m.withdraw(win, e)
	if e.borders != nil {
		e.borders.Surface().Finish()
	}
	delete(m.windows, win)
	if m.active == win {
		m.active = 0
	}
}

func (m *Manager) withdraw(win WindowID, e *entry) {
	if !e.submitted {
		return
	}
	m.compositor.Withdraw(win)
	e.submitted = false
}

func (m *Manager) ids() []WindowID {
	ids := make([]WindowID, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

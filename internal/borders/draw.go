package borders

import (
	"fmt"

	"github.com/1broseidon/tiledecor/internal/config"
	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

// DrawErr reports a drawing engine failure during a paint pass. It carries
// the Borders that was being painted, possibly half-drawn, so the caller can
// discard or reuse it.
type DrawErr struct {
	Status  render.Status
	Borders *Borders
}

func (e *DrawErr) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Borders == nil {
		return fmt.Sprintf("drawing borders: %v", e.Status)
	}
	return fmt.Sprintf("drawing borders at %v: %v", e.Borders.Geometry(), e.Status)
}

// Drawable is a border style. Draw paints the style into the wrapped buffer
// for the given buffer-local geometry and returns the finished Borders. A
// Drawable is used for exactly one Draw call.
type Drawable interface {
	Draw(borderGeometry geometry.Geometry) (*Borders, error)
}

// BaseDraw is one paint pass over a Borders buffer. The embedded Context is
// bound to the buffer's surface.
//
// The engine does not report errors from individual calls, so every step
// that matters must be followed by CheckStatus. A session ends either with
// Finish or with the *DrawErr returned by CheckStatus; using it afterwards
// panics.
type BaseDraw struct {
	render.Context
	borders *Borders
}

// NewBaseDraw starts a session over b using ctx, which must be bound to
// b.Surface().
func NewBaseDraw(b *Borders, ctx render.Context) *BaseDraw {
	return &BaseDraw{Context: ctx, borders: b}
}

// Begin starts a session over b with a context created by newContext.
func Begin(b *Borders, newContext render.ContextFactory) *BaseDraw {
	if newContext == nil {
		newContext = render.NewContext
	}
	return NewBaseDraw(b, newContext(b.Surface()))
}

// CheckStatus returns a *DrawErr if the last engine operation failed. On
// failure the session is consumed and the Borders moves into the error.
func (d *BaseDraw) CheckStatus() error {
	d.mustBeLive()
	if status := d.Status(); status != render.StatusSuccess {
		return &DrawErr{Status: status, Borders: d.release()}
	}
	return nil
}

// SetColorSource sets the paint color.
func (d *BaseDraw) SetColorSource(c render.Color) {
	d.mustBeLive()
	d.SetSourceRGBA(c.Floats())
}

// Clear erases the whole buffer to transparent.
func (d *BaseDraw) Clear() {
	d.mustBeLive()
	op := d.Operator()
	d.SetOperator(render.OperatorSource)
	d.SetSourceRGBA(0, 0, 0, 0)
	d.Paint()
	d.SetOperator(op)
}

// Finish ends the session, records g as the Borders' geometry and returns it.
func (d *BaseDraw) Finish(g geometry.Geometry) *Borders {
	d.mustBeLive()
	b := d.release()
	b.geometry = g
	return b
}

// Borders gives read access to the buffer being painted.
func (d *BaseDraw) Borders() *Borders {
	d.mustBeLive()
	return d.borders
}

func (d *BaseDraw) release() *Borders {
	b := d.borders
	_ = d.Context.Close()
	d.borders = nil
	d.Context = nil
	return b
}

func (d *BaseDraw) mustBeLive() {
	if d == nil || d.borders == nil {
		panic("borders: drawing session used after it was consumed")
	}
}

// NewDrawable returns the drawer for a configured style name.
func NewDrawable(style string, base *BaseDraw, color render.Color) (Drawable, error) {
	switch style {
	case "", config.StyleSimple:
		return NewSimpleDraw(base, color), nil
	default:
		return nil, fmt.Errorf("unknown border style %q", style)
	}
}

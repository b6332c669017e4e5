package borders

import (
	"fmt"

	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

// DefaultTitle is the title a new decoration starts with.
const DefaultTitle = "untitled"

// Borders is the pixel buffer and placement of one window's decoration.
//
// The surface always matches the outer geometry's size. A Borders may be
// handed between goroutines but must not be mutated from two at once; a
// drawing session takes it over for the duration of a paint pass.
type Borders struct {
	policy *Policy

	surface *render.Surface
	// geometry is the outer rectangle, including thickness and title strip.
	geometry  geometry.Geometry
	output    render.Output
	color     *render.Color
	title     string
	thickness uint32
}

var _ render.Renderable = (*Borders)(nil)

// NewBorders allocates a decoration for a window's content rectangle. It
// returns nil when the configured thickness is 0 or the buffer would be too
// large to allocate.
func (p *Policy) NewBorders(content geometry.Geometry, output render.Output) *Borders {
	thickness := p.Thickness()
	if thickness == 0 {
		return nil
	}
	outer, ok := p.outer(content, thickness)
	if !ok {
		return nil
	}
	surface, err := render.TryNewSurface(outer.Size.W, outer.Size.H)
	if err != nil {
		return nil
	}
	return &Borders{
		policy:    p,
		surface:   surface,
		geometry:  outer,
		output:    output,
		title:     DefaultTitle,
		thickness: thickness,
	}
}

// Constructor adapts NewBorders to render.Constructor.
func (p *Policy) Constructor() render.Constructor {
	return func(content geometry.Geometry, output render.Output) (render.Renderable, bool) {
		b := p.NewBorders(content, output)
		if b == nil {
			return nil, false
		}
		return b, true
	}
}

// Reallocate fits the buffer to a new content rectangle and returns the
// updated Borders, or nil when borders are now disabled or too large.
//
// The buffer is kept when the outer size is unchanged and only the position
// moves. Otherwise it is replaced with a fresh zero-filled one and the old
// surface is finished. This allocates; call it on geometry changes, not on
// every frame.
func (b *Borders) Reallocate(content geometry.Geometry) *Borders {
	thickness := b.policy.Thickness()
	if thickness == 0 {
		b.surface.Finish()
		return nil
	}
	outer, ok := b.policy.outer(content, thickness)
	if !ok {
		b.surface.Finish()
		return nil
	}
	if outer.SameSize(b.geometry) {
		b.thickness = thickness
		b.geometry = outer
		return b
	}

	surface, err := render.TryNewSurface(outer.Size.W, outer.Size.H)
	if err != nil {
		b.surface.Finish()
		return nil
	}
	old := b.surface
	b.surface = surface
	b.geometry = outer
	b.thickness = thickness
	old.Finish()
	return b
}

// outer returns the decoration geometry for content, or false when its
// buffer would exceed the surface limits.
func (p *Policy) outer(content geometry.Geometry, thickness uint32) (geometry.Geometry, bool) {
	w := uint64(content.Size.W) + uint64(thickness)
	h := uint64(content.Size.H) + uint64(thickness) + uint64(p.TitleOffset())
	if !render.SurfaceFits(w, h) {
		return geometry.Geometry{}, false
	}
	return geometry.Outer(content, thickness, p.TitleOffset()), true
}

// ReallocateBuffer implements render.Renderable.
func (b *Borders) ReallocateBuffer(content geometry.Geometry) bool {
	return b.Reallocate(content) != nil
}

func (b *Borders) Surface() *render.Surface {
	return b.surface
}

func (b *Borders) Geometry() geometry.Geometry {
	return b.geometry
}

func (b *Borders) SetGeometry(g geometry.Geometry) {
	b.geometry = g
}

func (b *Borders) Output() render.Output {
	return b.output
}

// Thickness is the border size the buffer was last sized with.
func (b *Borders) Thickness() uint32 {
	return b.thickness
}

func (b *Borders) Title() string {
	return b.title
}

func (b *Borders) SetTitle(title string) {
	b.title = title
}

// Color returns the override color if one is set, else the configured default.
func (b *Borders) Color() render.Color {
	if b.color != nil {
		return *b.color
	}
	return b.policy.DefaultColor()
}

// SetColor sets or, with nil, clears the override color. The buffer is not
// repainted; run a new draw pass to show the change.
func (b *Borders) SetColor(c *render.Color) {
	if c == nil {
		b.color = nil
		return
	}
	cc := *c
	b.color = &cc
}

// HasColor reports whether an override color is set.
func (b *Borders) HasColor() bool {
	return b.color != nil
}

// Equal compares placement only; buffer contents are ignored.
func (b *Borders) Equal(other *Borders) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.geometry == other.geometry
}

func (b *Borders) String() string {
	return fmt.Sprintf("Borders{geometry: %v}", b.geometry)
}

package geometry

import (
	"fmt"
	"image"
)

// Point is a position in output coordinates.
type Point struct {
	X int32
	Y int32
}

// Size is a width/height pair in pixels.
type Size struct {
	W uint32
	H uint32
}

// Geometry is a rectangle: origin plus size.
//
// It is used both for the content rectangle of a decorated window and for the
// outer rectangle of its decoration. Geometry values are never mutated in
// place by this package; every transform returns a new value.
type Geometry struct {
	Origin Point
	Size   Size
}

// New builds a Geometry from its four components.
func New(x, y int32, w, h uint32) Geometry {
	return Geometry{
		Origin: Point{X: x, Y: y},
		Size:   Size{W: w, H: h},
	}
}

// Outer derives the decoration rectangle from a window's content rectangle.
//
// The origin moves up/left by thickness, and additionally up by titleOffset.
// The size grows by thickness in both axes, and the height additionally by
// titleOffset. The title strip only ever applies to the top edge.
//
// A thickness of 0 means "no decoration"; callers check for it before
// calling Outer.
func Outer(content Geometry, thickness, titleOffset uint32) Geometry {
	out := content
	out.Origin.X -= int32(thickness)
	out.Origin.Y -= int32(thickness)
	out.Origin.Y -= int32(titleOffset)
	out.Size.W += thickness
	out.Size.H += thickness
	out.Size.H += titleOffset
	return out
}

// SameSize reports whether a and b have identical dimensions.
func (g Geometry) SameSize(other Geometry) bool {
	return g.Size.W == other.Size.W && g.Size.H == other.Size.H
}

// Empty reports whether the rectangle covers no pixels.
func (g Geometry) Empty() bool {
	return g.Size.W == 0 || g.Size.H == 0
}

// Translate returns g moved by (dx, dy).
func (g Geometry) Translate(dx, dy int32) Geometry {
	g.Origin.X += dx
	g.Origin.Y += dy
	return g
}

// Local returns g expressed relative to the origin of frame.
func (g Geometry) Local(frame Geometry) Geometry {
	return g.Translate(-frame.Origin.X, -frame.Origin.Y)
}

// Rectangle converts g to an image.Rectangle.
func (g Geometry) Rectangle() image.Rectangle {
	x, y := int(g.Origin.X), int(g.Origin.Y)
	return image.Rect(x, y, x+int(g.Size.W), y+int(g.Size.H))
}

// FromRectangle converts r to a Geometry. Empty rectangles yield a zero size.
func FromRectangle(r image.Rectangle) Geometry {
	r = r.Canon()
	return New(int32(r.Min.X), int32(r.Min.Y), uint32(r.Dx()), uint32(r.Dy()))
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", g.Size.W, g.Size.H, g.Origin.X, g.Origin.Y)
}

package render

import "github.com/1broseidon/tiledecor/internal/geometry"

// Output identifies the compositor output a buffer is destined for. It is
// opaque to the rendering code and only stored and handed back.
type Output uint32

// Renderable is a pixel buffer positioned on an output.
//
// The compositor-facing code works against this interface so that any
// decoration type can be submitted without knowing how it allocates.
type Renderable interface {
	// Surface returns the backing buffer for painting.
	Surface() *Surface
	// Geometry returns the outer rectangle the surface is displayed at.
	Geometry() geometry.Geometry
	SetGeometry(geometry.Geometry)
	Output() Output
	// ReallocateBuffer resizes the buffer for a new content rectangle. It
	// reports false when the renderable should no longer exist; the caller
	// must then drop it.
	ReallocateBuffer(content geometry.Geometry) bool
}

// Constructor creates a Renderable for a content rectangle on an output, or
// returns false when nothing should be rendered for it.
type Constructor func(content geometry.Geometry, output Output) (Renderable, bool)

package render

import "fmt"

// Status is the outcome of the last drawing operation on a Context.
type Status int

const (
	StatusSuccess Status = iota
	StatusNoMemory
	StatusInvalidSize
	StatusInvalidPathData
	StatusSurfaceFinished
	StatusRasterFailure
	StatusContextClosed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNoMemory:
		return "out of memory"
	case StatusInvalidSize:
		return "invalid size"
	case StatusInvalidPathData:
		return "invalid path data"
	case StatusSurfaceFinished:
		return "surface finished"
	case StatusRasterFailure:
		return "raster failure"
	case StatusContextClosed:
		return "context closed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Operator selects how painted pixels combine with the surface.
type Operator int

const (
	// OperatorOver composites the source over the existing pixels.
	OperatorOver Operator = iota
	// OperatorSource replaces the existing pixels with the source.
	OperatorSource
)

// Context is a drawing context bound to a single Surface.
//
// Operations do not return errors. The first failure latches into Status and
// turns every later operation into a no-op, so callers check Status after
// each step they care about.
type Context interface {
	Status() Status

	SetSourceRGBA(r, g, b, a float64)
	SetOperator(op Operator)
	Operator() Operator

	// Rectangle adds a closed rectangle to the current path.
	Rectangle(x, y, width, height float64)
	// NewPath discards the current path.
	NewPath()
	// Fill paints the current path with the source and clears the path.
	Fill()
	// Paint paints the source over the whole surface.
	Paint()

	// Close releases the context. The surface is left untouched.
	Close() error
}

// ContextFactory binds a new Context to a surface.
type ContextFactory func(*Surface) Context

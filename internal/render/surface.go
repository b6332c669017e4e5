package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Format identifies the pixel layout of a Surface.
type Format int

const (
	// FormatARGB32 stores each pixel as a native-endian uint32 with alpha in
	// the high byte and premultiplied color in the rest.
	FormatARGB32 Format = iota
)

func (f Format) String() string {
	switch f {
	case FormatARGB32:
		return "argb32"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

const bitsPerPixelARGB32 = 32

// CalculateStride returns the row length in bytes of an ARGB32 buffer of the
// given width, rounded up to a 4-byte boundary.
func CalculateStride(width uint32) int {
	bytes := (int(width)*bitsPerPixelARGB32 + 7) / 8
	return (bytes + 3) &^ 3
}

// Surface is an owned pixel buffer in a fixed format.
//
// A Surface is finished when the buffer is replaced by a reallocation; a
// finished surface keeps its dimensions but has no data, and any Context
// still bound to it reports StatusSurfaceFinished.
type Surface struct {
	data     []byte
	format   Format
	width    int
	height   int
	stride   int
	finished bool
}

var _ image.Image = (*Surface)(nil)

// Allocation limits for a single surface. MaxSurfaceSize is the largest
// width or height the X11 protocol can address.
const (
	MaxSurfaceSize  = 32767
	MaxSurfaceBytes = 256 << 20
)

// ErrSurfaceTooLarge is returned when a requested surface exceeds the
// allocation limits.
var ErrSurfaceTooLarge = errors.New("surface too large")

// SurfaceFits reports whether a width x height ARGB32 surface is within the
// allocation limits. Sizes are taken as uint64 so callers can check sums
// that would overflow uint32.
func SurfaceFits(width, height uint64) bool {
	if width > MaxSurfaceSize || height > MaxSurfaceSize {
		return false
	}
	return uint64(CalculateStride(uint32(width)))*height <= MaxSurfaceBytes
}

// TryNewSurface allocates a zero-filled ARGB32 surface of the given size, or
// returns ErrSurfaceTooLarge.
func TryNewSurface(width, height uint32) (*Surface, error) {
	if !SurfaceFits(uint64(width), uint64(height)) {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrSurfaceTooLarge)
	}
	stride := CalculateStride(width)
	return NewSurfaceForData(make([]byte, stride*int(height)), FormatARGB32, int(width), int(height), stride)
}

// NewSurface is TryNewSurface for sizes known to be in range. It panics
// otherwise.
func NewSurface(width, height uint32) *Surface {
	s, err := TryNewSurface(width, height)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSurfaceForData wraps data as a surface without copying it.
func NewSurfaceForData(data []byte, format Format, width, height, stride int) (*Surface, error) {
	if format != FormatARGB32 {
		return nil, fmt.Errorf("unsupported surface format %s", format)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if stride < width*4 {
		return nil, fmt.Errorf("stride %d too small for width %d", stride, width)
	}
	if len(data) < stride*height {
		return nil, fmt.Errorf("buffer of %d bytes too small for %d rows of %d bytes", len(data), height, stride)
	}
	return &Surface{
		data:   data,
		format: format,
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

func (s *Surface) Data() []byte { return s.data }
func (s *Surface) Format() Format { return s.format }
func (s *Surface) Width() int { return s.width }
func (s *Surface) Height() int { return s.height }
func (s *Surface) Stride() int { return s.stride }
func (s *Surface) Finished() bool { return s.finished }
func (s *Surface) Len() int { return len(s.data) }

// Finish releases the buffer. It is safe to call more than once.
func (s *Surface) Finish() {
	s.data = nil
	s.finished = true
}

// Pixel returns the raw ARGB32 value at (x, y), or 0 outside the surface.
func (s *Surface) Pixel(x, y int) uint32 {
	if s.finished || x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0
	}
	i := y*s.stride + x*4
	return binary.NativeEndian.Uint32(s.data[i : i+4])
}

// SetPixel stores a raw ARGB32 value at (x, y). Out-of-bounds writes are dropped.
func (s *Surface) SetPixel(x, y int, v uint32) {
	if s.finished || x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	i := y*s.stride + x*4
	binary.NativeEndian.PutUint32(s.data[i:i+4], v)
}

// Row returns the pixel bytes of row y without the stride padding.
func (s *Surface) Row(y int) []byte {
	if s.finished || y < 0 || y >= s.height {
		return nil
	}
	start := y * s.stride
	return s.data[start : start+s.width*4]
}

func (s *Surface) ColorModel() color.Model { return color.RGBAModel }

func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

func (s *Surface) At(x, y int) color.Color {
	v := s.Pixel(x, y)
	return color.RGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// Set implements draw.Image.
func (s *Surface) Set(x, y int, c color.Color) {
	s.SetPixel(x, y, packPremultiplied(c))
}

func packPremultiplied(c color.Color) uint32 {
	r, g, b, a := c.RGBA()
	return (a>>8)<<24 | (r>>8)<<16 | (g>>8)<<8 | b>>8
}

package render

import "fmt"

// Color is an 8-bit-per-channel RGBA color. Channels are not premultiplied.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// Black is opaque black, the value FromPacked(0) resolves to.
var Black = Color{A: 0xff}

// Transparent has every channel at zero.
var Transparent = Color{}

// FromPacked converts a packed 0xRRGGBB value, as stored in the configuration
// registry, into an opaque Color. Bits above the low 24 are ignored.
func FromPacked(v uint32) Color {
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}

// Packed returns the 0xRRGGBB form of c. Alpha is not represented.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Floats returns the channels normalized to [0, 1].
func (c Color) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

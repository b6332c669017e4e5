package render

import (
	"math"

	"github.com/gogpu/gg"
)

type pathRect struct {
	x, y, w, h float64
}

// ggContext rasterises through a gg.Context and mirrors every completed
// operation back into the bound Surface.
type ggContext struct {
	surface *Surface
	dc      *gg.Context
	source  gg.RGBA
	op      Operator
	path    []pathRect
	status  Status
}

var _ Context = (*ggContext)(nil)

// NewContext returns the default software Context for s.
func NewContext(s *Surface) Context {
	c := &ggContext{source: gg.RGBA2(0, 0, 0, 1)}
	switch {
	case s == nil || s.Finished():
		c.status = StatusSurfaceFinished
		return c
	case s.Width() == 0 || s.Height() == 0:
		c.status = StatusInvalidSize
		return c
	}
	c.surface = s
	c.dc = gg.NewContextForImage(s)
	return c
}

func (c *ggContext) Status() Status {
	if c.status == StatusSuccess && c.surface != nil && c.surface.Finished() {
		c.status = StatusSurfaceFinished
	}
	return c.status
}

func (c *ggContext) ok() bool {
	return c.Status() == StatusSuccess
}

func (c *ggContext) SetSourceRGBA(r, g, b, a float64) {
	if !c.ok() {
		return
	}
	c.source = gg.RGBA2(clampUnit(r), clampUnit(g), clampUnit(b), clampUnit(a))
}

func (c *ggContext) SetOperator(op Operator) {
	if !c.ok() {
		return
	}
	c.op = op
}

func (c *ggContext) Operator() Operator {
	return c.op
}

func (c *ggContext) Rectangle(x, y, width, height float64) {
	if !c.ok() {
		return
	}
	for _, v := range []float64{x, y, width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			c.status = StatusInvalidPathData
			return
		}
	}
	c.path = append(c.path, pathRect{x: x, y: y, w: width, h: height})
}

func (c *ggContext) NewPath() {
	c.path = c.path[:0]
}

func (c *ggContext) Fill() {
	defer c.NewPath()
	if !c.ok() || len(c.path) == 0 {
		return
	}

	var err error
	switch c.op {
	case OperatorSource:
		err = c.fillSource()
	default:
		c.replay(c.dc)
		c.dc.SetRGBA(c.source.R, c.source.G, c.source.B, c.source.A)
		err = c.dc.Fill()
	}
	if err != nil {
		c.status = StatusRasterFailure
		return
	}
	c.sync()
}

func (c *ggContext) Paint() {
	if !c.ok() {
		return
	}
	switch c.op {
	case OperatorSource:
		c.dc.ClearWithColor(c.source.Premultiply())
	default:
		c.dc.ClearPath()
		c.dc.DrawRectangle(0, 0, float64(c.surface.Width()), float64(c.surface.Height()))
		c.dc.SetRGBA(c.source.R, c.source.G, c.source.B, c.source.A)
		if err := c.dc.Fill(); err != nil {
			c.status = StatusRasterFailure
			return
		}
	}
	c.sync()
}

func (c *ggContext) Close() error {
	if c.status == StatusContextClosed {
		return nil
	}
	var err error
	if c.dc != nil {
		err = c.dc.Close()
	}
	c.dc = nil
	c.surface = nil
	c.path = nil
	c.status = StatusContextClosed
	return err
}

func (c *ggContext) replay(dc *gg.Context) {
	dc.ClearPath()
	for _, r := range c.path {
		dc.DrawRectangle(r.x, r.y, r.w, r.h)
	}
}

// fillSource replaces covered pixels with the source. Coverage comes from
// rasterising the path opaque white on a scratch context, so antialiased
// edges blend between old and new pixel values.
func (c *ggContext) fillSource() error {
	w, h := c.surface.Width(), c.surface.Height()
	mask := gg.NewContext(w, h)
	defer mask.Close()

	c.replay(mask)
	mask.SetRGBA(1, 1, 1, 1)
	if err := mask.Fill(); err != nil {
		return err
	}

	src := c.source.Premultiply()
	coverage := mask.ResizeTarget()
	dst := c.dc.ResizeTarget()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cov := coverage.GetPixel(x, y).A
			if cov <= 0 {
				continue
			}
			dst.SetPixel(x, y, dst.GetPixel(x, y).Lerp(src, cov))
		}
	}
	return nil
}

// sync copies the rasteriser's pixels into the surface as premultiplied ARGB32.
func (c *ggContext) sync() {
	pm := c.dc.ResizeTarget()
	for y := 0; y < c.surface.Height(); y++ {
		for x := 0; x < c.surface.Width(); x++ {
			p := pm.GetPixel(x, y)
			c.surface.SetPixel(x, y, packUnit(p.R, p.G, p.B, p.A))
		}
	}
}

func packUnit(r, g, b, a float64) uint32 {
	return uint32(toByte(a))<<24 | uint32(toByte(r))<<16 | uint32(toByte(g))<<8 | uint32(toByte(b))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clampUnit(v) * 255))
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

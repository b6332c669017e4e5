package x11

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tiledecor/internal/decor"
	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

// putImageHeader is the fixed part of a PutImage request in bytes.
const putImageHeader = 24

// strip is one override-redirect window showing part of a decoration. Its
// background pixmap holds the pixels, so the server repaints it on expose.
type strip struct {
	window xproto.Window
	pixmap xproto.Pixmap
	size   geometry.Size
	mapped bool
}

// Output shows decorations as up to four strip windows per client, covering
// the decoration's outer rectangle minus the client's content rectangle.
type Output struct {
	conn     *Connection
	gc       xproto.Gcontext
	depth    byte
	visual   xproto.Visualid
	maxBytes int
	order    binary.ByteOrder

	mu       sync.Mutex
	overlays map[decor.WindowID][]*strip
}

var _ decor.Compositor = (*Output)(nil)

// NewOutput prepares the graphics context used for uploads.
func NewOutput(conn *Connection) (*Output, error) {
	xc := conn.XUtil.Conn()
	screen := conn.XUtil.Screen()

	gc, err := xproto.NewGcontextId(xc)
	if err != nil {
		return nil, fmt.Errorf("allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(
		xc,
		gc,
		xproto.Drawable(conn.Root),
		xproto.GcGraphicsExposures,
		[]uint32{0},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create gc: %w", err)
	}

	return &Output{
		conn:     conn,
		gc:       gc,
		depth:    screen.RootDepth,
		visual:   screen.RootVisual,
		maxBytes: conn.MaxRequestBytes(),
		order:    imageByteOrder(xproto.Setup(xc).ImageByteOrder),
		overlays: make(map[decor.WindowID][]*strip),
	}, nil
}

// Submit implements decor.Compositor.
func (o *Output) Submit(win decor.WindowID, r render.Renderable, content geometry.Geometry) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	outer := r.Geometry()
	pieces := geometry.Strips(outer, content)

	strips := o.overlays[win]
	for len(strips) < len(pieces) {
		st, err := o.createStrip()
		if err != nil {
			o.overlays[win] = strips
			return err
		}
		strips = append(strips, st)
	}
	o.overlays[win] = strips

	for i, piece := range pieces {
		if err := o.showStrip(strips[i], r.Surface(), piece, piece.Local(outer)); err != nil {
			return fmt.Errorf("window %d strip %d: %w", win, i, err)
		}
	}
	for _, st := range strips[len(pieces):] {
		o.hideStrip(st)
	}
	return nil
}

// Withdraw implements decor.Compositor.
func (o *Output) Withdraw(win decor.WindowID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, st := range o.overlays[win] {
		o.destroyStrip(st)
	}
	delete(o.overlays, win)
}

// Close destroys every strip window and the graphics context.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for win, strips := range o.overlays {
		for _, st := range strips {
			o.destroyStrip(st)
		}
		delete(o.overlays, win)
	}
	xproto.FreeGC(o.conn.XUtil.Conn(), o.gc)
}

func (o *Output) createStrip() (*strip, error) {
	xc := o.conn.XUtil.Conn()

	wid, err := xproto.NewWindowId(xc)
	if err != nil {
		return nil, err
	}

	err = xproto.CreateWindowChecked(
		xc,
		o.depth,
		wid,
		o.conn.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		o.visual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create strip window: %w", err)
	}

	return &strip{window: wid}, nil
}

// showStrip uploads the local part of s into the strip's pixmap and places
// the strip at root.
func (o *Output) showStrip(st *strip, s *render.Surface, root, local geometry.Geometry) error {
	if root.Size.W > math.MaxUint16 || root.Size.H > math.MaxUint16 {
		return fmt.Errorf("strip %v exceeds X11 limits", root)
	}
	xc := o.conn.XUtil.Conn()

	if st.pixmap == 0 || st.size != root.Size {
		if st.pixmap != 0 {
			xproto.FreePixmap(xc, st.pixmap)
			st.pixmap = 0
		}
		pid, err := xproto.NewPixmapId(xc)
		if err != nil {
			return err
		}
		err = xproto.CreatePixmapChecked(xc, o.depth, pid, xproto.Drawable(o.conn.Root),
			uint16(root.Size.W), uint16(root.Size.H)).Check()
		if err != nil {
			return fmt.Errorf("create pixmap: %w", err)
		}
		st.pixmap = pid
		st.size = root.Size
	}

	width := int(local.Size.W)
	rows := rowsPerRequest(o.maxBytes, width)
	for y := 0; y < int(local.Size.H); y += rows {
		n := min(rows, int(local.Size.H)-y)
		xproto.PutImage(xc, xproto.ImageFormatZPixmap, xproto.Drawable(st.pixmap), o.gc,
			uint16(width), uint16(n), 0, int16(y), 0, o.depth,
			stripPixels(s, local, y, n, o.order))
	}

	xproto.ChangeWindowAttributes(xc, st.window, xproto.CwBackPixmap, []uint32{uint32(st.pixmap)})
	xproto.ConfigureWindow(
		xc,
		st.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(root.Origin.X),
			uint32(root.Origin.Y),
			root.Size.W,
			root.Size.H,
			xproto.StackModeAbove,
		},
	)
	xproto.ClearArea(xc, false, st.window, 0, 0, 0, 0)
	if !st.mapped {
		xproto.MapWindow(xc, st.window)
		st.mapped = true
	}
	return nil
}

func (o *Output) hideStrip(st *strip) {
	if !st.mapped {
		return
	}
	xproto.UnmapWindow(o.conn.XUtil.Conn(), st.window)
	st.mapped = false
}

func (o *Output) destroyStrip(st *strip) {
	xc := o.conn.XUtil.Conn()
	if st.window != 0 {
		xproto.DestroyWindow(xc, st.window)
	}
	if st.pixmap != 0 {
		xproto.FreePixmap(xc, st.pixmap)
	}
	*st = strip{}
}

// rowsPerRequest returns how many rows of a ZPixmap image width pixels wide
// fit in one PutImage request of at most maxBytes. It is never less than 1.
func rowsPerRequest(maxBytes, width int) int {
	rowBytes := width * 4
	if rowBytes <= 0 {
		return 1
	}
	n := (maxBytes - putImageHeader) / rowBytes
	if n < 1 {
		return 1
	}
	return n
}

// imageByteOrder maps the server's announced image byte order.
func imageByteOrder(order byte) binary.ByteOrder {
	if order == xproto.ImageOrderMSBFirst {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// stripPixels copies rows [y0, y0+rows) of the region local of s as 32-bit
// pixels in the server's image byte order. Pixels outside the surface are
// transparent.
func stripPixels(s *render.Surface, local geometry.Geometry, y0, rows int, order binary.ByteOrder) []byte {
	width := int(local.Size.W)
	out := make([]byte, width*rows*4)
	for y := 0; y < rows; y++ {
		sy := int(local.Origin.Y) + y0 + y
		for x := 0; x < width; x++ {
			sx := int(local.Origin.X) + x
			i := (y*width + x) * 4
			order.PutUint32(out[i:i+4], s.Pixel(sx, sy))
		}
	}
	return out
}

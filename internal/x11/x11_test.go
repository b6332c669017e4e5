package x11

import (
	"encoding/binary"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

func TestRowsPerRequest(t *testing.T) {
	cases := []struct {
		maxBytes, width, want int
	}{
		{maxBytes: 262140, width: 104, want: (262140 - 24) / 416},
		{maxBytes: 424, width: 100, want: 1},
		{maxBytes: 100, width: 100, want: 1},
		{maxBytes: 1024, width: 0, want: 1},
	}
	for _, tc := range cases {
		if got := rowsPerRequest(tc.maxBytes, tc.width); got != tc.want {
			t.Fatalf("rowsPerRequest(%d, %d) = %d, want %d", tc.maxBytes, tc.width, got, tc.want)
		}
	}
}

func TestRowsPerRequest_FitsLimit(t *testing.T) {
	for _, width := range []int{1, 7, 104, 1920} {
		rows := rowsPerRequest(16384, width)
		if 24+rows*width*4 > 16384 && rows > 1 {
			t.Fatalf("width %d: %d rows overflow the request", width, rows)
		}
	}
}

func TestStripPixels_CopiesRegion(t *testing.T) {
	s := render.NewSurface(8, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			s.SetPixel(x, y, uint32(y<<8|x))
		}
	}

	local := geometry.New(2, 1, 3, 4)
	got := stripPixels(s, local, 1, 2, binary.LittleEndian)
	if len(got) != 3*2*4 {
		t.Fatalf("expected %d bytes, got %d", 3*2*4, len(got))
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			i := (y*3 + x) * 4
			want := uint32((1+1+y)<<8 | (2 + x))
			if px := binary.LittleEndian.Uint32(got[i:]); px != want {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, px, want)
			}
		}
	}
}

func TestStripPixels_OutsideSurfaceIsTransparent(t *testing.T) {
	s := render.NewSurface(2, 2)
	s.SetPixel(1, 1, 0xffffffff)

	got := stripPixels(s, geometry.New(1, 1, 2, 1), 0, 1, binary.LittleEndian)
	if binary.LittleEndian.Uint32(got[0:]) != 0xffffffff {
		t.Fatalf("expected in-bounds pixel copied")
	}
	if binary.LittleEndian.Uint32(got[4:]) != 0 {
		t.Fatalf("expected out-of-bounds pixel to be zero")
	}
}

func TestStripPixels_FollowsServerByteOrder(t *testing.T) {
	s := render.NewSurface(1, 1)
	s.SetPixel(0, 0, 0xff3498db)

	if got := stripPixels(s, geometry.New(0, 0, 1, 1), 0, 1, imageByteOrder(xproto.ImageOrderMSBFirst)); string(got) != "\xff\x34\x98\xdb" {
		t.Fatalf("expected MSB-first bytes, got % x", got)
	}
	if got := stripPixels(s, geometry.New(0, 0, 1, 1), 0, 1, imageByteOrder(xproto.ImageOrderLSBFirst)); string(got) != "\xdb\x98\x34\xff" {
		t.Fatalf("expected LSB-first bytes, got % x", got)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, X: 0, Y: 0, Width: 1920, Height: 1080},
		{ID: 1, X: 1920, Y: 0, Width: 2560, Height: 1440},
	}
	if got := MonitorAt(monitors, 100, 100); got != 0 {
		t.Fatalf("expected monitor 0, got %d", got)
	}
	if got := MonitorAt(monitors, 1920, 10); got != 1 {
		t.Fatalf("expected monitor 1 at its left edge, got %d", got)
	}
	if got := MonitorAt(monitors, -50, 5000); got != 0 {
		t.Fatalf("expected fallback to first monitor, got %d", got)
	}
	if got := MonitorAt(nil, 5, 5); got != 0 {
		t.Fatalf("expected 0 with no monitors, got %d", got)
	}
}

func TestOnDesktop(t *testing.T) {
	if !onDesktop(2, 2) {
		t.Fatalf("expected same desktop visible")
	}
	if onDesktop(1, 2) {
		t.Fatalf("expected other desktop hidden")
	}
	if !onDesktop(stickyDesktop, 5) {
		t.Fatalf("expected sticky window visible everywhere")
	}
}

func TestHasHiddenState(t *testing.T) {
	if !hasHiddenState([]string{"_NET_WM_STATE_FOCUSED", "_NET_WM_STATE_HIDDEN"}) {
		t.Fatalf("expected hidden")
	}
	if hasHiddenState([]string{"_NET_WM_STATE_MAXIMIZED_VERT"}) {
		t.Fatalf("expected visible")
	}
}

func TestRectGeometry_ClampsNegativeSize(t *testing.T) {
	if got := rectGeometry(-5, 10, -1, 20); got != geometry.New(-5, 10, 0, 20) {
		t.Fatalf("unexpected geometry %v", got)
	}
}

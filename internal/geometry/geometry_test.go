package geometry

import (
	"testing"
)

func TestOuter_ScenarioWithTitleOffset(t *testing.T) {
	content := New(10, 10, 100, 50)
	got := Outer(content, 4, 50)
	want := New(6, -44, 104, 104)
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOuter_AdditiveInsets(t *testing.T) {
	cases := []struct {
		content     Geometry
		thickness   uint32
		titleOffset uint32
	}{
		{New(0, 0, 1, 1), 1, 0},
		{New(-20, 300, 640, 480), 7, 50},
		{New(1920, 0, 1280, 1024), 2, 18},
		{New(5, 5, 0, 0), 3, 0},
	}

	for _, tc := range cases {
		got := Outer(tc.content, tc.thickness, tc.titleOffset)
		if got.Size.W != tc.content.Size.W+tc.thickness {
			t.Fatalf("%v: width = %d, want %d", tc.content, got.Size.W, tc.content.Size.W+tc.thickness)
		}
		if got.Size.H != tc.content.Size.H+tc.thickness+tc.titleOffset {
			t.Fatalf("%v: height = %d, want %d", tc.content, got.Size.H, tc.content.Size.H+tc.thickness+tc.titleOffset)
		}
		if got.Origin.X != tc.content.Origin.X-int32(tc.thickness) {
			t.Fatalf("%v: x = %d", tc.content, got.Origin.X)
		}
		if got.Origin.Y != tc.content.Origin.Y-int32(tc.thickness+tc.titleOffset) {
			t.Fatalf("%v: y = %d", tc.content, got.Origin.Y)
		}
	}
}

func TestOuter_DoesNotMutateInput(t *testing.T) {
	content := New(10, 10, 100, 50)
	_ = Outer(content, 4, 50)
	if content != New(10, 10, 100, 50) {
		t.Fatalf("content geometry was mutated: %v", content)
	}
}

func TestSameSizeIgnoresOrigin(t *testing.T) {
	a := New(0, 0, 10, 20)
	b := New(50, -3, 10, 20)
	if !a.SameSize(b) {
		t.Fatalf("expected %v and %v to have the same size", a, b)
	}
	if a.SameSize(New(0, 0, 11, 20)) {
		t.Fatalf("expected different widths to differ")
	}
}

func TestRectangleRoundTrip(t *testing.T) {
	g := New(-4, 9, 30, 12)
	if got := FromRectangle(g.Rectangle()); got != g {
		t.Fatalf("expected %v, got %v", g, got)
	}
}

func TestStripsCoverFrameWithoutHole(t *testing.T) {
	content := New(10, 10, 100, 50)
	outer := New(6, 6, 108, 58)

	strips := Strips(outer, content)
	if len(strips) != 4 {
		t.Fatalf("expected 4 strips, got %d: %v", len(strips), strips)
	}

	var area uint32
	for _, s := range strips {
		if !s.Rectangle().Intersect(content.Rectangle()).Empty() {
			t.Fatalf("strip %v overlaps content %v", s, content)
		}
		area += s.Size.W * s.Size.H
	}
	want := outer.Size.W*outer.Size.H - content.Size.W*content.Size.H
	if area != want {
		t.Fatalf("strip area = %d, want %d", area, want)
	}
}

func TestStripsOmitEmptyEdges(t *testing.T) {
	content := New(10, 10, 100, 50)
	outer := Outer(content, 4, 50)

	// The outer rectangle grows by thickness only once per axis, so it ends
	// flush with the content on the right and bottom.
	strips := Strips(outer, content)
	if len(strips) != 2 {
		t.Fatalf("expected top and left strips only, got %v", strips)
	}
	if strips[0] != New(6, -44, 104, 54) {
		t.Fatalf("unexpected top strip %v", strips[0])
	}
	if strips[1] != New(6, 10, 4, 50) {
		t.Fatalf("unexpected left strip %v", strips[1])
	}
}

func TestStripsDisjointHoleReturnsOuter(t *testing.T) {
	outer := New(0, 0, 10, 10)
	strips := Strips(outer, New(100, 100, 5, 5))
	if len(strips) != 1 || strips[0] != outer {
		t.Fatalf("expected the full outer rect, got %v", strips)
	}
}

package geometry

import "image"

// Strips returns the parts of outer not covered by hole, as at most four
// non-overlapping rectangles ordered top, bottom, left, right. Top and bottom
// span the full width of outer; left and right fill the band between them.
// Empty strips are omitted.
func Strips(outer, hole Geometry) []Geometry {
	o := outer.Rectangle()
	h := hole.Rectangle().Intersect(o)
	if h.Empty() {
		if o.Empty() {
			return nil
		}
		return []Geometry{outer}
	}

	candidates := []image.Rectangle{
		image.Rect(o.Min.X, o.Min.Y, o.Max.X, h.Min.Y),
		image.Rect(o.Min.X, h.Max.Y, o.Max.X, o.Max.Y),
		image.Rect(o.Min.X, h.Min.Y, h.Min.X, h.Max.Y),
		image.Rect(h.Max.X, h.Min.Y, o.Max.X, h.Max.Y),
	}

	var out []Geometry
	for _, r := range candidates {
		if r.Empty() {
			continue
		}
		out = append(out, FromRectangle(r))
	}
	return out
}

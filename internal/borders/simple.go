package borders

import (
	"github.com/1broseidon/tiledecor/internal/geometry"
	"github.com/1broseidon/tiledecor/internal/render"
)

// SimpleDraw paints the border region in one flat color.
type SimpleDraw struct {
	base  *BaseDraw
	color render.Color
}

func NewSimpleDraw(base *BaseDraw, color render.Color) *SimpleDraw {
	return &SimpleDraw{base: base, color: color}
}

// Draw fills borderGeometry, grown by the border thickness, with the color.
// Coordinates are relative to the buffer: (0,0) is its top-left pixel.
//
// The origin moves by thickness/2 with integer division, so odd thicknesses
// shift by one pixel less than half. The returned Borders keeps its outer
// geometry; the painted rectangle is not stored.
func (s *SimpleDraw) Draw(borderGeometry geometry.Geometry) (*Borders, error) {
	base := s.base
	s.base = nil

	original := base.Borders().Geometry()
	thickness := base.Borders().Thickness()
	paint := borderGeometry
	paint.Origin.X -= int32(thickness / 2)
	paint.Origin.Y -= int32(thickness / 2)
	paint.Size.W += thickness
	paint.Size.H += thickness

	base.Clear()
	base.SetColorSource(s.color)
	base.Rectangle(
		float64(paint.Origin.X),
		float64(paint.Origin.Y),
		float64(paint.Size.W),
		float64(paint.Size.H),
	)
	if err := base.CheckStatus(); err != nil {
		return nil, err
	}
	base.Fill()
	if err := base.CheckStatus(); err != nil {
		return nil, err
	}
	return base.Finish(original), nil
}

package borders

import (
	"math"

	"github.com/1broseidon/tiledecor/internal/config"
	"github.com/1broseidon/tiledecor/internal/render"
)

// DefaultTitleOffset is the height of the title strip above the top border.
const DefaultTitleOffset = config.DefaultTitleOffset

// Registry is the read side of the settings store.
type Registry interface {
	Get(key string) (config.Value, bool)
}

// Policy answers the per-call configuration questions of the decoration
// code: how thick borders are and which colors to use. Nothing is cached;
// each call reads the registry again so configuration changes apply to the
// next allocation or paint.
type Policy struct {
	registry    Registry
	titleOffset uint32
}

// NewPolicy returns a Policy reading settings from reg.
func NewPolicy(reg Registry, titleOffset uint32) *Policy {
	return &Policy{registry: reg, titleOffset: titleOffset}
}

// TitleOffset returns the title strip height.
func (p *Policy) TitleOffset() uint32 {
	return p.titleOffset
}

// Thickness returns the configured border size in pixels. Missing,
// non-numeric and non-positive values all mean 0, which disables borders.
func (p *Policy) Thickness() uint32 {
	n, ok := p.number(config.KeyBorderSize)
	if !ok {
		return 0
	}
	return toUnsigned(n)
}

// DefaultColor returns the configured border color, or opaque black when it
// is unset or not a number.
func (p *Policy) DefaultColor() render.Color {
	n, _ := p.number(config.KeyBorderColor)
	return render.FromPacked(toUnsigned(n))
}

// ActiveColor returns the color for the focused window's borders. The second
// result is false when no active color is configured, which is different
// from one configured as 0.
func (p *Policy) ActiveColor() (render.Color, bool) {
	n, ok := p.number(config.KeyActiveBorderColor)
	if !ok {
		return render.Color{}, false
	}
	return render.FromPacked(toUnsigned(n)), true
}

func (p *Policy) number(key string) (float64, bool) {
	if p == nil || p.registry == nil {
		return 0, false
	}
	v, ok := p.registry.Get(key)
	if !ok {
		return 0, false
	}
	return v.Float64()
}

func toUnsigned(n float64) uint32 {
	switch {
	case math.IsNaN(n) || n <= 0:
		return 0
	case n >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(n)
	}
}

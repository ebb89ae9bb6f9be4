package filter

import (
	"image"
	"log/slog"

	"seehuhn.de/go/geom/matrix"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/pixel"
)

// Direction restricts a blur to one axis.
type Direction uint8

// Blur directions.
const (
	BothDirections Direction = iota
	Horizontal
	Vertical
)

// GaussianBlur describes a blur effect. Sigma is in user units and is
// scaled by the transform given to Update.
type GaussianBlur struct {
	Sigma     float32
	Direction Direction
	Border    Border
	// Quality in [1, 100] selects one to three box passes per axis.
	Quality int

	box   boxCascade
	valid bool
}

// Update resolves the box sizes under m. It reports whether the blur has
// a visible effect; a zero sigma disables it.
func (g *GaussianBlur) Update(m matrix.Matrix) bool {
	s := g.Sigma * sfixed.ScaleX(m)
	g.valid = g.box.init(s*s, g.Quality) > 0
	return g.valid
}

// Valid reports the result of the last Update.
func (g *GaussianBlur) Valid() bool { return g.valid }

// Region returns how far the blur spreads content past its bounds, as a
// rectangle to add to the bounds' corners.
func (g *GaussianBlur) Region() image.Rectangle {
	var r image.Rectangle
	e := g.box.extends
	if g.Direction != Vertical {
		r.Min.X, r.Max.X = -e, e
	}
	if g.Direction != Horizontal {
		r.Min.Y, r.Max.Y = -e, e
	}
	return r
}

// Blur blurs the region r of img in place. It is a no-op for an invalid
// blur.
func Blur[P pixel.Pixel](ops *pixel.Ops[P], img Image[P], r image.Rectangle, g *GaussianBlur, s *Scratch) {
	w, h := r.Dx(), r.Dy()
	if !g.valid || w <= 0 || h <= 0 {
		return
	}
	slogger().Debug("gaussian blur",
		slog.Any("region", r),
		slog.Float64("sigma", float64(g.Sigma)),
		slog.Int("direction", int(g.Direction)),
		slog.Int("border", int(g.Border)),
		slog.Int("level", g.box.level))

	n := w * h
	s.front, s.back = grow(s.front, n), grow(s.back, n)
	load(ops, s.front, img, r)

	if g.Direction != Vertical {
		for i := range g.box.level {
			boxRows(s.Pool, s.back, s.front, w, h, g.box.kernel[i], g.Border)
			s.front, s.back = s.back, s.front
		}
	}
	if g.Direction != Horizontal {
		flip(s.back, s.front, w, h)
		s.front, s.back = s.back, s.front
		for i := range g.box.level {
			boxRows(s.Pool, s.back, s.front, h, w, g.box.kernel[i], g.Border)
			s.front, s.back = s.back, s.front
		}
		flip(s.back, s.front, h, w)
		s.front, s.back = s.back, s.front
	}
	store(ops, img, r, s.front)
}

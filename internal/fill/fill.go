package fill

import (
	"github.com/chewxy/math32"
	"seehuhn.de/go/geom/matrix"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/pixel"
)

// TableSize is the number of entries of a color table.
const TableSize = 256

// radialPrecision is the smallest usable quadratic coefficient. Smaller
// values mean the focal circle touches or leaves the end circle.
const radialPrecision = 0.01

// linearParams maps a device pixel to the gradient parameter:
// t = a*x + b*y + c.
type linearParams struct {
	a, b, c float32
}

// radialParams holds the inverse transform rows and the quadratic
// coefficients solved per pixel.
type radialParams struct {
	i0, i1, i2, i3, i4, i5 float32 // device → gradient space
	fx, fy, fr             float32
	dx, dy, dr             float32
	a, invA                float32
}

// Fill is a resolved paint bound to one pixel format. It is reused across
// shapes; Prepare replaces its content.
type Fill[P pixel.Pixel] struct {
	ops *pixel.Ops[P]

	kind   Kind
	lin    linearParams
	rad    radialParams
	spread Spread

	stops   []Stop
	opacity uint8

	table  bool
	ctable [TableSize]P
	// alpha holds the per-entry weights for formats without an alpha
	// channel.
	alpha [TableSize]uint8

	solid       bool
	solidColor  P
	solidWeight uint8
	translucent bool
}

// New returns an empty fill for the format described by ops.
func New[P pixel.Pixel](ops *pixel.Ops[P]) *Fill[P] {
	return &Fill[P]{ops: ops}
}

// Reset clears the fill, keeping its storage.
func (f *Fill[P]) Reset() {
	f.kind = 0
	f.stops = f.stops[:0]
	f.solid = false
	f.table = false
	f.translucent = false
}

// Prepare resolves g under the shape transform m with the given opacity.
// useTable forces the color-table form. cache may be nil. It reports
// false when g cannot be drawn: no stops or a singular transform.
func (f *Fill[P]) Prepare(g *Gradient, m matrix.Matrix, opacity uint8, useTable bool, cache *RampCache[P]) bool {
	f.Reset()
	if g == nil || len(g.Stops) == 0 {
		return false
	}
	f.kind = g.Kind
	f.spread = g.Spread
	f.opacity = opacity
	f.stops = sortedStops(f.stops, g.Stops)

	for _, s := range f.stops {
		if pixel.Mul(s.A, opacity) < 255 {
			f.translucent = true
			break
		}
	}

	if len(f.stops) == 1 {
		f.setSolid(f.stops[0])
		return true
	}

	total := sfixed.Concat(m, g.Transform)
	inv, ok := sfixed.Invert(total)
	if !ok {
		return false
	}

	var degenerate bool
	switch g.Kind {
	case Linear:
		degenerate = f.prepareLinear(g, inv)
	case Radial:
		degenerate = f.prepareRadial(g, inv)
	default:
		return false
	}
	if f.solid {
		return true
	}

	f.table = useTable || degenerate
	if f.table {
		f.buildTable(cache)
	}
	return true
}

func (f *Fill[P]) setSolid(s Stop) {
	f.solid = true
	f.solidColor, f.solidWeight = f.ops.Color(s.R, s.G, s.B, pixel.Mul(s.A, f.opacity))
}

// prepareLinear reports whether the gradient is degenerate.
func (f *Fill[P]) prepareLinear(g *Gradient, inv matrix.Matrix) bool {
	dx, dy := g.X2-g.X1, g.Y2-g.Y1
	l2 := dx*dx + dy*dy
	if l2 < 1e-6 {
		// a zero-length vector paints the last stop everywhere
		f.setSolid(f.stops[len(f.stops)-1])
		return false
	}
	ndx, ndy := dx/l2, dy/l2
	f.lin = linearParams{
		a: ndx*float32(inv[0]) + ndy*float32(inv[1]),
		b: ndx*float32(inv[2]) + ndy*float32(inv[3]),
		c: ndx*(float32(inv[4])-g.X1) + ndy*(float32(inv[5])-g.Y1),
	}
	return false
}

// prepareRadial reports whether the gradient is degenerate.
func (f *Fill[P]) prepareRadial(g *Gradient, inv matrix.Matrix) bool {
	r := &f.rad
	r.i0, r.i1, r.i2 = float32(inv[0]), float32(inv[1]), float32(inv[2])
	r.i3, r.i4, r.i5 = float32(inv[3]), float32(inv[4]), float32(inv[5])
	r.fx, r.fy, r.fr = g.FX, g.FY, max(g.FR, 0)
	r.dx, r.dy, r.dr = g.CX-g.FX, g.CY-g.FY, g.R-r.fr
	r.a = r.dr*r.dr - r.dx*r.dx - r.dy*r.dy

	degenerate := false
	if r.a < radialPrecision {
		r.a = radialPrecision
		degenerate = true
	}
	r.invA = 1 / r.a
	return degenerate
}

// Solid reports whether the fill collapsed to one color, and returns it
// with its weight.
func (f *Fill[P]) Solid() (P, uint8, bool) {
	return f.solidColor, f.solidWeight, f.solid
}

// Translucent reports whether any stop is not fully opaque.
func (f *Fill[P]) Translucent() bool {
	return f.translucent
}

// Table reports whether the fill evaluates through its color table.
func (f *Fill[P]) Table() bool {
	return f.table
}

// Fetch writes the colors of len(dst) pixels starting at (x, y). weight,
// when not nil, receives the per-pixel alpha for formats without an alpha
// channel and 255 otherwise.
func (f *Fill[P]) Fetch(dst []P, weight []uint8, x, y int) {
	if f.solid {
		for i := range dst {
			dst[i] = f.solidColor
		}
		for i := range weight {
			weight[i] = f.solidWeight
		}
		return
	}
	px, py := float32(x)+0.5, float32(y)+0.5
	switch f.kind {
	case Linear:
		l := &f.lin
		t := l.a*px + l.b*py + l.c
		for i := range dst {
			f.put(dst, weight, i, t)
			t += l.a
		}
	case Radial:
		r := &f.rad
		rx := r.i0*px + r.i2*py + r.i4 - r.fx
		ry := r.i1*px + r.i3*py + r.i5 - r.fy
		for i := range dst {
			f.put(dst, weight, i, r.at(rx, ry))
			rx += r.i0
			ry += r.i1
		}
	}
}

// at solves for the largest t whose circle passes through (rx, ry),
// given relative to the focal point.
func (r *radialParams) at(rx, ry float32) float32 {
	b := (r.dr*r.fr + rx*r.dx + ry*r.dy) * r.invA
	det := b*b + (rx*rx+ry*ry-r.fr*r.fr)*r.invA
	if det < 0 {
		det = 0
	}
	return math32.Sqrt(det) - b
}

func (f *Fill[P]) put(dst []P, weight []uint8, i int, t float32) {
	if f.table {
		idx := f.index(t)
		dst[i] = f.ctable[idx]
		if weight != nil {
			weight[i] = f.alpha[idx]
		}
		return
	}
	cr, cg, cb, ca := colorAt(f.stops, f.spreadT(t))
	c, w := f.ops.Color(cr, cg, cb, pixel.Mul(ca, f.opacity))
	dst[i] = c
	if weight != nil {
		weight[i] = w
	}
}

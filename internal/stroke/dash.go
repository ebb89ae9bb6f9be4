package stroke

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/outline"
)

const (
	// dashEpsilon absorbs rounding when a pattern entry is consumed.
	dashEpsilon = 1e-4

	// maxDashPieces bounds the work for patterns that are tiny relative
	// to the path.
	maxDashPieces = 1 << 20

	// maxFlattenSegments bounds the polyline emitted for one curve.
	maxFlattenSegments = 256
)

// DashPattern normalizes a dash array. It reports false when the pattern
// disables dashing: empty, containing a negative or non-finite entry, or
// summing to zero. Odd-length patterns are repeated once.
func DashPattern(pattern []float64) ([]float64, bool) {
	if len(pattern) == 0 {
		return nil, false
	}
	sum := 0.0
	for _, v := range pattern {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		sum += v
	}
	if sum <= 0 {
		return nil, false
	}
	if len(pattern)%2 == 1 {
		out := make([]float64, 0, 2*len(pattern))
		out = append(out, pattern...)
		return append(out, pattern...), true
	}
	return pattern, true
}

// Dash replaces the content of o with the dashed pieces of p, transformed
// by m. Pattern lengths and the offset are in user space. Curves are
// flattened before dashing. Dash reports false, leaving o empty, when the
// pattern disables dashing; the caller then strokes the undashed path.
func Dash(o *outline.Outline, p *path.Data, m matrix.Matrix, pattern []float64, offset float64) bool {
	o.Reset()
	pat, ok := DashPattern(pattern)
	if !ok || p == nil {
		return false
	}

	scale := float64(max(sfixed.ScaleX(m), sfixed.ScaleY(m)))
	if scale <= 0 {
		return false
	}
	sum := 0.0
	for _, v := range pat {
		sum += v
	}
	// a period below 1/64 device pixel is indistinguishable from solid
	if sum*scale < 1.0/64 {
		return false
	}

	d := &dasher{
		o:         o,
		m:         m,
		pattern:   pat,
		tolerance: 0.25 / scale,
	}
	d.initOffset(offset, sum)
	d.walk(p)
	o.End()
	return true
}

type dasher struct {
	o         *outline.Outline
	m         matrix.Matrix
	pattern   []float64
	tolerance float64

	// pattern state at the start of every sub-path
	startIdx int
	startRem float64

	idx     int
	rem     float64
	on      bool
	penDown bool
	pieces  int

	cur, start vec.Vec2
}

func (d *dasher) initOffset(offset, sum float64) {
	off := math.Mod(offset, sum)
	if off < 0 {
		off += sum
	}
	idx, rem := 0, d.pattern[0]
	for off > 0 {
		if off >= rem {
			off -= rem
			idx = (idx + 1) % len(d.pattern)
			rem = d.pattern[idx]
		} else {
			rem -= off
			off = 0
		}
	}
	d.startIdx, d.startRem = idx, rem
	d.restart()
}

func (d *dasher) restart() {
	d.idx = d.startIdx
	d.rem = d.startRem
	d.on = d.idx%2 == 0
	d.penUp()
}

func (d *dasher) penUp() {
	if d.penDown {
		d.o.End()
		d.penDown = false
	}
}

func (d *dasher) advance() {
	d.idx = (d.idx + 1) % len(d.pattern)
	d.rem = d.pattern[d.idx]
	d.on = !d.on
	if !d.on {
		d.penUp()
	}
}

func (d *dasher) walk(p *path.Data) {
	idx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			d.restart()
			d.cur = p.Coords[idx]
			d.start = d.cur
			idx++
		case path.CmdLineTo:
			d.lineTo(p.Coords[idx])
			idx++
		case path.CmdQuadTo:
			q, end := p.Coords[idx], p.Coords[idx+1]
			idx += 2
			c1 := lerp(d.cur, q, 2.0/3.0)
			c2 := lerp(end, q, 2.0/3.0)
			d.cubicTo(c1, c2, end)
		case path.CmdCubeTo:
			d.cubicTo(p.Coords[idx], p.Coords[idx+1], p.Coords[idx+2])
			idx += 3
		case path.CmdClose:
			d.lineTo(d.start)
		}
	}
}

func (d *dasher) cubicTo(c1, c2, end vec.Vec2) {
	p0 := d.cur
	// second-difference bound on the flattening error
	dd := math.Max(
		math.Hypot(p0.X-2*c1.X+c2.X, p0.Y-2*c1.Y+c2.Y),
		math.Hypot(c1.X-2*c2.X+end.X, c1.Y-2*c2.Y+end.Y),
	)
	n := int(math.Ceil(math.Sqrt(0.75 * dd / d.tolerance)))
	n = min(max(n, 1), maxFlattenSegments)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		a := mt * mt * mt
		b := 3 * mt * mt * t
		c := 3 * mt * t * t
		e := t * t * t
		d.lineTo(vec.Vec2{
			X: a*p0.X + b*c1.X + c*c2.X + e*end.X,
			Y: a*p0.Y + b*c1.Y + c*c2.Y + e*end.Y,
		})
	}
}

func (d *dasher) emit(from, to vec.Vec2) {
	if !d.penDown {
		d.o.MoveTo(sfixed.Transform(from, d.m))
		d.penDown = true
	}
	d.o.LineTo(sfixed.Transform(to, d.m))
	d.pieces++
}

func (d *dasher) lineTo(to vec.Vec2) {
	from := d.cur
	d.cur = to
	length := math.Hypot(to.X-from.X, to.Y-from.Y)
	if length == 0 {
		if d.on {
			d.emit(from, to)
		}
		return
	}

	pos := 0.0
	for pos < length && d.pieces < maxDashPieces {
		step := min(d.rem, length-pos)
		if d.on {
			d.emit(lerp(from, to, pos/length), lerp(from, to, (pos+step)/length))
		}
		pos += step
		d.rem -= step
		if d.rem <= dashEpsilon {
			d.advance()
		}
	}
}

func lerp(a, b vec.Vec2, t float64) vec.Vec2 {
	return vec.Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

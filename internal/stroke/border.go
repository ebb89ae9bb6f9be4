package stroke

import (
	"golang.org/x/image/math/fixed"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/outline"
)

// Border point tags.
const (
	tagOn    uint8 = 1 << 0
	tagCubic uint8 = 1 << 1
	tagBegin uint8 = 1 << 2
	tagEnd   uint8 = 1 << 3

	tagBeginEnd = tagBegin | tagEnd
)

// arcCubicAngle is the widest arc emitted as a single cubic.
const arcCubicAngle = sfixed.AnglePi / 2

// border is one side of a stroke under construction.
type border struct {
	pts  []fixed.Point26_6
	tags []uint8

	// start is the index of the first point of the current sub-path,
	// -1 when no sub-path is open.
	start int

	// movable marks the last point as the far end of a line, which the
	// next inner corner may pull onto the intersection of both lines.
	movable bool
}

func (b *border) reset() {
	b.pts = b.pts[:0]
	b.tags = b.tags[:0]
	b.start = -1
	b.movable = false
}

func (b *border) lineTo(to fixed.Point26_6, movable bool) {
	n := len(b.pts)
	if b.movable && n > 0 {
		b.pts[n-1] = to
	} else {
		if n > 0 && b.pts[n-1] == to && b.tags[n-1]&tagOn != 0 {
			b.movable = movable
			return
		}
		b.pts = append(b.pts, to)
		b.tags = append(b.tags, tagOn)
	}
	b.movable = movable
}

func (b *border) cubicTo(c1, c2, to fixed.Point26_6) {
	b.pts = append(b.pts, c1, c2, to)
	b.tags = append(b.tags, tagCubic, tagCubic, tagOn)
	b.movable = false
}

// arcTo appends a circular arc of the given radius around center, from
// angleStart sweeping angleDiff, split into cubics of at most 90°.
func (b *border) arcTo(center fixed.Point26_6, radius fixed.Int26_6, angleStart, angleDiff sfixed.Angle) {
	arcs := sfixed.Angle(1)
	for angleDiff > arcCubicAngle*arcs || -angleDiff > arcCubicAngle*arcs {
		arcs++
	}

	// control tangent length: 4/3 tan(θ/4)
	coef := int64(sfixed.Tan(angleDiff / (4 * arcs)))
	coef += coef / 3

	a0 := sfixed.Polar(radius, angleStart)
	a1 := fixed.Point26_6{
		X: fixed.Int26_6(sfixed.Multiply(int64(-a0.Y), coef)),
		Y: fixed.Int26_6(sfixed.Multiply(int64(a0.X), coef)),
	}
	a0 = a0.Add(center)
	a1 = a1.Add(a0)

	for i := sfixed.Angle(1); i <= arcs; i++ {
		a3 := sfixed.Polar(radius, angleStart+i*angleDiff/arcs)
		a2 := fixed.Point26_6{
			X: fixed.Int26_6(sfixed.Multiply(int64(a3.Y), coef)),
			Y: fixed.Int26_6(sfixed.Multiply(int64(-a3.X), coef)),
		}
		a3 = a3.Add(center)
		a2 = a2.Add(a3)
		b.cubicTo(a1, a2, a3)
		a1 = fixed.Point26_6{X: a3.X - a2.X + a3.X, Y: a3.Y - a2.Y + a3.Y}
	}
}

func (b *border) moveTo(to fixed.Point26_6) {
	if b.start >= 0 {
		b.close(false)
	}
	b.start = len(b.pts)
	b.movable = false
	b.lineTo(to, false)
}

// close finishes the current sub-path. The last point carries the
// adjusted start position, so it replaces the first one.
func (b *border) close(reverse bool) {
	start := b.start
	count := len(b.pts)
	if start < 0 {
		return
	}
	if count <= start+1 {
		b.pts = b.pts[:start]
		b.tags = b.tags[:start]
	} else {
		count--
		b.pts[start] = b.pts[count]
		b.tags[start] = b.tags[count]
		b.pts = b.pts[:count]
		b.tags = b.tags[:count]

		if reverse {
			for i, j := start+1, count-1; i < j; i, j = i+1, j-1 {
				b.pts[i], b.pts[j] = b.pts[j], b.pts[i]
				b.tags[i], b.tags[j] = b.tags[j], b.tags[i]
			}
		}
		b.tags[start] |= tagBegin
		b.tags[count-1] |= tagEnd
	}
	b.start = -1
	b.movable = false
}

// appendReversed appends the open sub-path of src to b in reverse order
// and truncates src.
func (b *border) appendReversed(src *border) {
	if src.start < 0 {
		return
	}
	for i := len(src.pts) - 1; i >= src.start; i-- {
		b.pts = append(b.pts, src.pts[i])
		b.tags = append(b.tags, src.tags[i]&^tagBeginEnd)
	}
	src.pts = src.pts[:src.start]
	src.tags = src.tags[:src.start]
	src.start = -1
	src.movable = false
	b.movable = false
}

// export appends the finished contours of b to o.
func (b *border) export(o *outline.Outline) {
	open := false
	for i := 0; i < len(b.pts); i++ {
		t := b.tags[i]
		switch {
		case t&tagBegin != 0:
			o.MoveTo(b.pts[i])
			open = true
		case !open:
			continue
		case t&tagCubic != 0 && i+2 < len(b.pts):
			o.CubicTo(b.pts[i], b.pts[i+1], b.pts[i+2])
			i += 2
			t = b.tags[i]
		default:
			o.LineTo(b.pts[i])
		}
		if t&tagEnd != 0 && open {
			o.Close()
			open = false
		}
	}
}

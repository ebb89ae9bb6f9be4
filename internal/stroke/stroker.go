package stroke

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/outline"
)

// Style describes how a path is stroked. Lengths are in user space.
type Style struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	// Dash is the on/off pattern; empty or all-zero disables dashing.
	Dash       []float64
	DashOffset float64
}

// DefaultStyle returns a 1-unit butt-capped miter-joined stroke.
func DefaultStyle() Style {
	return Style{
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: 4,
	}
}

const (
	// innerIntersectLimit is the widest half-turn at which the inner
	// border is pulled onto the intersection of both offset lines.
	innerIntersectLimit sfixed.Angle = 0x59C000

	// curveTolerance is the flatness used when flattening curved input,
	// a quarter pixel in 26.6.
	curveTolerance fixed.Int26_6 = 16
)

// Stroker builds stroke outlines. A Stroker is reused across shapes; it
// keeps the storage of its two borders between calls.
type Stroker struct {
	radius     fixed.Int26_6
	miterLimit int64 // 16.16
	cap        graphics.LineCapStyle
	join       graphics.LineJoinStyle

	angleIn    sfixed.Angle
	angleOut   sfixed.Angle
	center     fixed.Point26_6
	lineLength fixed.Int26_6
	firstPt    bool
	open       bool

	subPathAngle      sfixed.Angle
	subPathStart      fixed.Point26_6
	subPathLineLength fixed.Int26_6

	borders [2]border
}

// New returns an idle stroker.
func New() *Stroker {
	s := &Stroker{}
	s.borders[0].start = -1
	s.borders[1].start = -1
	return s
}

// Reset prepares the stroker for style under transform m. The stroke
// radius is half the width scaled by the geometric mean of the transform
// axes. It reports false when the stroke is invisible.
func (s *Stroker) Reset(st Style, m matrix.Matrix) bool {
	s.borders[0].reset()
	s.borders[1].reset()

	det := math32.Abs(float32(m[0]*m[3] - m[1]*m[2]))
	scale := math32.Sqrt(det)
	if st.Width <= 0 || scale == 0 {
		s.radius = 0
		return false
	}
	s.radius = sfixed.FromFloat(float32(st.Width) * 0.5 * scale)
	if s.radius <= 0 {
		return false
	}

	limit := st.MiterLimit
	if limit < 1 {
		limit = 1
	}
	s.miterLimit = int64(limit * sfixed.One)
	s.cap = st.Cap
	s.join = st.Join
	return true
}

// Radius returns the device-space half width.
func (s *Stroker) Radius() fixed.Int26_6 {
	return s.radius
}

// Parse strokes every contour of o.
func (s *Stroker) Parse(o *outline.Outline) bool {
	if s.radius <= 0 || !o.Valid() {
		return false
	}
	for i := range o.Cntrs {
		first, last := o.Contour(i)
		if last < first {
			continue
		}
		closed := o.Closed[i]
		s.beginSubPath(o.Pts[first], !closed)

		for j := first + 1; j <= last; j++ {
			if o.Types[j] == outline.TagCubic && j+2 <= last {
				c := sfixed.Cubic{s.center, o.Pts[j], o.Pts[j+1], o.Pts[j+2]}
				sfixed.FlattenCubic(c, curveTolerance, s.lineTo)
				j += 2
				continue
			}
			s.lineTo(o.Pts[j])
		}
		s.endSubPath()
	}
	return true
}

// Export writes the stroke outline to o, which is reset first. The
// result always uses the non-zero rule.
func (s *Stroker) Export(o *outline.Outline) {
	o.Reset()
	s.borders[0].export(o)
	s.borders[1].export(o)
	o.End()
	o.FillRule = outline.NonZero
}

func (s *Stroker) beginSubPath(to fixed.Point26_6, open bool) {
	s.firstPt = true
	s.center = to
	s.open = open
	s.subPathStart = to
	s.angleIn = 0
}

// firstSegment starts both borders once the first direction is known.
func (s *Stroker) firstSegment(startAngle sfixed.Angle, lineLength fixed.Int26_6) {
	delta := sfixed.Polar(s.radius, startAngle+sfixed.AnglePi2)
	s.borders[0].moveTo(s.center.Add(delta))
	s.borders[1].moveTo(s.center.Sub(delta))

	s.subPathAngle = startAngle
	s.firstPt = false
	s.subPathLineLength = lineLength
}

func (s *Stroker) lineTo(to fixed.Point26_6) {
	delta := to.Sub(s.center)
	if sfixed.Zero(delta) {
		return
	}
	lineLength := sfixed.Length(delta)
	angle := sfixed.Atan(delta)
	delta = sfixed.Polar(s.radius, angle+sfixed.AnglePi2)

	if s.firstPt {
		s.firstSegment(angle, lineLength)
	} else {
		s.angleOut = angle
		s.processCorner(lineLength)
	}

	for side := range s.borders {
		d := delta
		if side == 1 {
			d = fixed.Point26_6{X: -delta.X, Y: -delta.Y}
		}
		s.borders[side].lineTo(to.Add(d), true)
	}

	s.angleIn = angle
	s.center = to
	s.lineLength = lineLength
}

func (s *Stroker) processCorner(lineLength fixed.Int26_6) {
	turn := sfixed.Diff(s.angleIn, s.angleOut)
	if turn == 0 {
		return
	}
	inside := 0
	if turn < 0 {
		inside = 1
	}
	s.inside(inside, lineLength)
	s.outside(1-inside, lineLength)
}

func sideRotation(side int) sfixed.Angle {
	return sfixed.AnglePi2 - sfixed.Angle(side)*sfixed.AnglePi
}

func (s *Stroker) inside(side int, lineLength fixed.Int26_6) {
	b := &s.borders[side]
	theta := sfixed.Diff(s.angleIn, s.angleOut) / 2
	rotate := sideRotation(side)

	intersect := false
	if b.movable && s.lineLength != 0 && theta <= innerIntersectLimit && theta >= -innerIntersectLimit {
		minLength := fixed.Int26_6(sfixed.Multiply(int64(s.radius), int64(sfixed.Tan(theta))))
		if minLength < 0 {
			minLength = -minLength
		}
		intersect = s.lineLength >= minLength && lineLength >= minLength
	}

	var delta fixed.Point26_6
	if !intersect {
		delta = sfixed.Polar(s.radius, s.angleOut+rotate)
		b.movable = false
	} else {
		phi := s.angleIn + theta + rotate
		length := fixed.Int26_6(sfixed.Divide(int64(s.radius), int64(sfixed.Cos(theta))))
		delta = sfixed.Polar(length, phi)
	}
	b.lineTo(s.center.Add(delta), false)
}

func (s *Stroker) outside(side int, lineLength fixed.Int26_6) {
	b := &s.borders[side]
	rotate := sideRotation(side)
	b.movable = false

	if s.join == graphics.LineJoinRound {
		total := sfixed.Diff(s.angleIn, s.angleOut)
		if total == sfixed.AnglePi {
			total = -rotate * 2
		}
		b.arcTo(s.center, s.radius, s.angleIn+rotate, total)
		b.movable = false
		return
	}

	theta := sfixed.Diff(s.angleIn, s.angleOut)
	if theta == sfixed.AnglePi {
		theta = -rotate
	} else {
		theta /= 2
	}
	phi := s.angleIn + theta + rotate

	bevel := s.join == graphics.LineJoinBevel
	var length int64
	if !bevel {
		sigma := sfixed.Multiply(s.miterLimit, int64(sfixed.Cos(theta)))
		if sigma < sfixed.One {
			bevel = true
		} else {
			length = sfixed.MulDiv(int64(s.radius), s.miterLimit, sigma)
		}
	}

	if !bevel {
		delta := sfixed.Polar(fixed.Int26_6(length), phi)
		b.lineTo(s.center.Add(delta), false)
	}
	// both joins end on the offset point of the outgoing segment
	delta := sfixed.Polar(s.radius, s.angleOut+rotate)
	b.lineTo(s.center.Add(delta), true)
}

// addCap appends a cap at the current center, facing angle, to border side.
func (s *Stroker) addCap(angle sfixed.Angle, side int) {
	b := &s.borders[side]
	switch s.cap {
	case graphics.LineCapRound:
		b.arcTo(s.center, s.radius, angle+sfixed.AnglePi2, -sfixed.AnglePi)
		b.movable = false
		return
	case graphics.LineCapSquare, graphics.LineCapButt:
		mid := s.center
		if s.cap == graphics.LineCapSquare {
			mid = mid.Add(sfixed.Polar(s.radius, angle))
		}
		d := sfixed.Polar(s.radius, angle+sfixed.AnglePi2)
		b.lineTo(mid.Add(d), false)
		b.lineTo(mid.Sub(d), false)
	}
}

// dot replaces a zero-length sub-path by its cap geometry.
func (s *Stroker) dot() {
	b := &s.borders[0]
	r := s.radius
	switch s.cap {
	case graphics.LineCapRound:
		b.moveTo(s.center.Add(fixed.Point26_6{X: r}))
		b.arcTo(s.center, r, 0, sfixed.Angle2Pi)
		b.close(false)
	case graphics.LineCapSquare:
		c := s.center
		b.moveTo(fixed.Point26_6{X: c.X - r, Y: c.Y - r})
		b.lineTo(fixed.Point26_6{X: c.X + r, Y: c.Y - r}, false)
		b.lineTo(fixed.Point26_6{X: c.X + r, Y: c.Y + r}, false)
		b.lineTo(fixed.Point26_6{X: c.X - r, Y: c.Y + r}, false)
		b.lineTo(fixed.Point26_6{X: c.X - r, Y: c.Y - r}, false)
		b.close(false)
	}
}

func (s *Stroker) endSubPath() {
	if s.firstPt {
		s.dot()
		return
	}

	if s.open {
		right := &s.borders[0]

		s.addCap(s.angleIn, 0)
		right.appendReversed(&s.borders[1])

		s.center = s.subPathStart
		s.addCap(s.subPathAngle+sfixed.AnglePi, 0)
		right.close(false)
		return
	}

	if s.center != s.subPathStart {
		s.lineTo(s.subPathStart)
	}
	s.angleOut = s.subPathAngle
	if sfixed.Diff(s.angleIn, s.angleOut) != 0 {
		s.processCorner(s.subPathLineLength)
	}
	s.borders[0].close(false)
	s.borders[1].close(true)
}

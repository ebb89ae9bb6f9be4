package fixed

import "golang.org/x/image/math/fixed"

// Cubic is a cubic Bézier segment in 26.6 device coordinates.
type Cubic [4]fixed.Point26_6

// Split bisects c at t=0.5 using de Casteljau averaging.
func (c Cubic) Split() (left, right Cubic) {
	ab := mid(c[0], c[1])
	bc := mid(c[1], c[2])
	cd := mid(c[2], c[3])
	abc := mid(ab, bc)
	bcd := mid(bc, cd)
	m := mid(abc, bcd)
	return Cubic{c[0], ab, abc, m}, Cubic{m, bcd, cd, c[3]}
}

// Flat reports whether the control polygon deviates from the chord by at
// most tolerance along either axis.
func (c Cubic) Flat(tolerance fixed.Int26_6) bool {
	return Abs(2*c[0].X-3*c[1].X+c[3].X) <= tolerance &&
		Abs(2*c[0].Y-3*c[1].Y+c[3].Y) <= tolerance &&
		Abs(c[0].X-3*c[2].X+2*c[3].X) <= tolerance &&
		Abs(c[0].Y-3*c[2].Y+2*c[3].Y) <= tolerance
}

// Bounds returns the control-box extremes of c.
func (c Cubic) Bounds() (minY, maxY fixed.Int26_6) {
	minY, maxY = c[0].Y, c[0].Y
	for _, p := range c[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return minY, maxY
}

// SplitLine bisects the segment a-b.
func SplitLine(a, b fixed.Point26_6) fixed.Point26_6 {
	return mid(a, b)
}

// MaxSplitDepth bounds recursive cubic bisection so malformed input
// always terminates.
const MaxSplitDepth = 16

// FlattenCubic subdivides c until every piece is flat within tolerance
// and calls lineTo with the end point of each piece in order.
func FlattenCubic(c Cubic, tolerance fixed.Int26_6, lineTo func(fixed.Point26_6)) {
	var stack [MaxSplitDepth + 1]Cubic
	var depth [MaxSplitDepth + 1]int
	top := 0
	stack[0] = c
	for top >= 0 {
		cur := stack[top]
		d := depth[top]
		if d < MaxSplitDepth && !cur.Flat(tolerance) {
			left, right := cur.Split()
			stack[top], depth[top] = right, d+1
			top++
			stack[top], depth[top] = left, d+1
			continue
		}
		lineTo(cur[3])
		top--
	}
}

func mid(a, b fixed.Point26_6) fixed.Point26_6 {
	return fixed.Point26_6{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Package fixed provides the fixed-point geometry shared by the outline
// builder, the stroker and the scan converter.
//
// Coordinates are 26.6 fixed-point values from golang.org/x/image/math/fixed
// (1 unit = 1/64 pixel). Angles are 16.16 fixed-point degrees, so a full turn
// is 360<<16. Trigonometry is evaluated in float32 and rounded back to fixed
// point, which keeps every result deterministic for a given input.
package fixed

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/fixed"
)

// Angle is a 16.16 fixed-point angle in degrees.
type Angle int64

// Angle constants.
const (
	AnglePi  Angle = 180 << 16
	Angle2Pi       = AnglePi << 1
	AnglePi2       = AnglePi >> 1
	AnglePi4       = AnglePi >> 2
)

// One is 1.0 in 16.16 fixed point.
const One = 1 << 16

// Fixed is a 16.16 fixed-point scalar used for unit vectors and ratios.
type Fixed int64

func toRadian(a Angle) float32 {
	return float32(a) / 65536.0 * (math32.Pi / 180.0)
}

func fromRadian(r float32) Angle {
	return Angle(r * (180.0 / math32.Pi) * 65536.0)
}

// Multiply returns a*b/65536 rounded half away from zero.
func Multiply(a, b int64) int64 {
	neg := false
	if a < 0 {
		a, neg = -a, !neg
	}
	if b < 0 {
		b, neg = -b, !neg
	}
	c := (a*b + 0x8000) >> 16
	if neg {
		return -c
	}
	return c
}

// Divide returns a*65536/b rounded; a zero divisor saturates.
func Divide(a, b int64) int64 {
	neg := false
	if a < 0 {
		a, neg = -a, !neg
	}
	if b < 0 {
		b, neg = -b, !neg
	}
	var q int64
	if b == 0 {
		q = 0x7FFFFFFF
	} else {
		q = ((a << 16) + (b >> 1)) / b
	}
	if neg {
		return -q
	}
	return q
}

// MulDiv returns a*b/c rounded; a zero divisor saturates.
func MulDiv(a, b, c int64) int64 {
	neg := false
	if a < 0 {
		a, neg = -a, !neg
	}
	if b < 0 {
		b, neg = -b, !neg
	}
	if c < 0 {
		c, neg = -c, !neg
	}
	var d int64
	if c > 0 {
		d = (a*b + (c >> 1)) / c
	} else {
		d = 0x7FFFFFFF
	}
	if neg {
		return -d
	}
	return d
}

// Cos returns cos(a) in 16.16 fixed point.
func Cos(a Angle) Fixed {
	return Fixed(math32.Cos(toRadian(a)) * 65536.0)
}

// Sin returns sin(a) in 16.16 fixed point.
func Sin(a Angle) Fixed {
	if a == 0 {
		return 0
	}
	return Cos(AnglePi2 - a)
}

// Tan returns tan(a) in 16.16 fixed point.
func Tan(a Angle) Fixed {
	if a == 0 {
		return 0
	}
	return Fixed(math32.Tan(toRadian(a)) * 65536.0)
}

// Atan returns the direction of pt. The zero vector has direction 0.
func Atan(pt fixed.Point26_6) Angle {
	if pt.X == 0 && pt.Y == 0 {
		return 0
	}
	return fromRadian(math32.Atan2(ToFloat(pt.Y), ToFloat(pt.X)))
}

// Diff returns angle2-angle1 normalized to (-180°, 180°].
func Diff(angle1, angle2 Angle) Angle {
	delta := angle2 - angle1
	delta %= Angle2Pi
	if delta < 0 {
		delta += Angle2Pi
	}
	if delta > AnglePi {
		delta -= Angle2Pi
	}
	return delta
}

// Mean returns the angle halfway between angle1 and angle2.
func Mean(angle1, angle2 Angle) Angle {
	return angle1 + Diff(angle1, angle2)/2
}

// Rotate rotates pt by angle around the origin.
func Rotate(pt fixed.Point26_6, angle Angle) fixed.Point26_6 {
	if angle == 0 || (pt.X == 0 && pt.Y == 0) {
		return pt
	}
	x, y := ToFloat(pt.X), ToFloat(pt.Y)
	r := toRadian(angle)
	c, s := math32.Cos(r), math32.Sin(r)
	return fixed.Point26_6{
		X: fixed.Int26_6(math32.Round((x*c - y*s) * 64.0)),
		Y: fixed.Int26_6(math32.Round((x*s + y*c) * 64.0)),
	}
}

// Polar returns the vector of the given length pointing at angle.
func Polar(length fixed.Int26_6, angle Angle) fixed.Point26_6 {
	r := toRadian(angle)
	l := float32(length)
	return fixed.Point26_6{
		X: fixed.Int26_6(math32.Round(l * math32.Cos(r))),
		Y: fixed.Int26_6(math32.Round(l * math32.Sin(r))),
	}
}

// Length returns the euclidean length of pt.
func Length(pt fixed.Point26_6) fixed.Int26_6 {
	if pt.X == 0 {
		return Abs(pt.Y)
	}
	if pt.Y == 0 {
		return Abs(pt.X)
	}
	x, y := float32(pt.X), float32(pt.Y)
	return fixed.Int26_6(math32.Round(math32.Sqrt(x*x + y*y)))
}

// Abs returns |v|.
func Abs(v fixed.Int26_6) fixed.Int26_6 {
	if v < 0 {
		return -v
	}
	return v
}

// ToFloat converts a 26.6 value to pixels.
func ToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64.0
}

// FromFloat converts pixels to the nearest 26.6 value.
func FromFloat(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math32.Round(v * 64.0))
}

// Small reports whether pt is within the 2-unit epsilon used to collapse
// degenerate segments.
func Small(pt fixed.Point26_6) bool {
	return pt.X > -2 && pt.X < 2 && pt.Y > -2 && pt.Y < 2
}

// Zero reports whether pt is the origin.
func Zero(pt fixed.Point26_6) bool {
	return pt.X == 0 && pt.Y == 0
}

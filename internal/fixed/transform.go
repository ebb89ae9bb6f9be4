package fixed

import (
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Transform maps the user-space point pt through m into 26.6 device space.
// m follows the PDF layout: x' = m[0]x + m[2]y + m[4], y' = m[1]x + m[3]y + m[5].
func Transform(pt vec.Vec2, m matrix.Matrix) fixed.Point26_6 {
	x := float32(m[0]*pt.X + m[2]*pt.Y + m[4])
	y := float32(m[1]*pt.X + m[3]*pt.Y + m[5])
	return fixed.Point26_6{X: FromFloat(x), Y: FromFloat(y)}
}

// Invert returns the inverse of m. ok is false for singular matrices.
func Invert(m matrix.Matrix) (inv matrix.Matrix, ok bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det > -1e-12 && det < 1e-12 {
		return matrix.Matrix{}, false
	}
	id := 1 / det
	inv[0] = m[3] * id
	inv[1] = -m[1] * id
	inv[2] = -m[2] * id
	inv[3] = m[0] * id
	inv[4] = (m[2]*m[5] - m[3]*m[4]) * id
	inv[5] = (m[1]*m[4] - m[0]*m[5]) * id
	return inv, true
}

// Concat returns the transform that applies inner first, then outer.
func Concat(outer, inner matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		inner[0]*outer[0] + inner[1]*outer[2],
		inner[0]*outer[1] + inner[1]*outer[3],
		inner[2]*outer[0] + inner[3]*outer[2],
		inner[2]*outer[1] + inner[3]*outer[3],
		inner[4]*outer[0] + inner[5]*outer[2] + outer[4],
		inner[4]*outer[1] + inner[5]*outer[3] + outer[5],
	}
}

// ScaleX returns the length of the transformed x unit vector.
func ScaleX(m matrix.Matrix) float32 {
	a, b := float32(m[0]), float32(m[1])
	return math32.Sqrt(a*a + b*b)
}

// ScaleY returns the length of the transformed y unit vector.
func ScaleY(m matrix.Matrix) float32 {
	c, d := float32(m[2]), float32(m[3])
	return math32.Sqrt(c*c + d*d)
}

// RightAngle reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles.
func RightAngle(m matrix.Matrix) bool {
	return (m[1] == 0 && m[2] == 0) || (m[0] == 0 && m[3] == 0)
}

// TranslateOnly reports whether m is a pure translation.
func TranslateOnly(m matrix.Matrix) bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1
}

// ClipBBox intersects clippee with clipper. It reports false when the
// result is empty.
func ClipBBox(clipper image.Rectangle, clippee *image.Rectangle) bool {
	*clippee = clippee.Intersect(clipper)
	return !clippee.Empty()
}

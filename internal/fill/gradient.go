// Package fill resolves solid and gradient paints into per-pixel colors.
//
// A gradient is evaluated either directly, interpolating the color stops
// at every pixel, or through a 256-entry premultiplied color table. The
// direct form is used unless the caller asks for tables or the gradient
// is degenerate under the transform, in which case the table is the
// well-defined fallback.
package fill

import (
	"sort"

	"seehuhn.de/go/geom/matrix"
)

// Spread selects how a gradient parameter outside [0, 1] is mapped back.
type Spread uint8

// Spread policies.
const (
	// Pad clamps to the end colors.
	Pad Spread = iota
	// Repeat wraps the parameter.
	Repeat
	// Reflect mirrors the parameter on every period.
	Reflect
)

var spreadNames = [...]string{"Pad", "Repeat", "Reflect"}

// String returns the policy name.
func (s Spread) String() string {
	if int(s) < len(spreadNames) {
		return spreadNames[s]
	}
	return "Spread(?)"
}

// ParseSpread returns the policy with the given name.
func ParseSpread(name string) (Spread, bool) {
	for i, n := range spreadNames {
		if n == name {
			return Spread(i), true
		}
	}
	return Pad, false
}

// Kind tags the gradient geometry.
type Kind uint8

// Gradient kinds.
const (
	Linear Kind = iota + 1
	Radial
)

// Stop is one color stop with a straight (unpremultiplied) color.
type Stop struct {
	Offset     float32
	R, G, B, A uint8
}

// Gradient describes a linear or radial gradient in its own coordinate
// space. Transform maps gradient space to the shape's user space.
type Gradient struct {
	Kind      Kind
	Stops     []Stop
	Spread    Spread
	Transform matrix.Matrix

	// Linear: the parameter runs from (X1, Y1) to (X2, Y2).
	X1, Y1, X2, Y2 float32

	// Radial: the end circle (CX, CY, R) and the focal circle
	// (FX, FY, FR).
	CX, CY, R  float32
	FX, FY, FR float32
}

// NewLinear returns a linear gradient from (x1, y1) to (x2, y2).
func NewLinear(x1, y1, x2, y2 float32, stops ...Stop) *Gradient {
	return &Gradient{
		Kind: Linear, Stops: stops, Transform: matrix.Identity,
		X1: x1, Y1: y1, X2: x2, Y2: y2,
	}
}

// NewRadial returns a radial gradient centered at (cx, cy) with radius r
// and its focal point on the center.
func NewRadial(cx, cy, r float32, stops ...Stop) *Gradient {
	return &Gradient{
		Kind: Radial, Stops: stops, Transform: matrix.Identity,
		CX: cx, CY: cy, R: r, FX: cx, FY: cy,
	}
}

// sortedStops returns the stops ordered by offset with offsets clamped to
// [0, 1]. Equal offsets keep their order.
func sortedStops(dst, stops []Stop) []Stop {
	dst = append(dst[:0], stops...)
	for i := range dst {
		dst[i].Offset = min(max(dst[i].Offset, 0), 1)
	}
	sort.SliceStable(dst, func(i, j int) bool {
		return dst[i].Offset < dst[j].Offset
	})
	return dst
}

// colorAt interpolates straight colors at t in [0, 1].
func colorAt(stops []Stop, t float32) (r, g, b, a uint8) {
	first, last := stops[0], stops[len(stops)-1]
	if t <= first.Offset {
		return first.R, first.G, first.B, first.A
	}
	if t >= last.Offset {
		return last.R, last.G, last.B, last.A
	}
	i := sort.Search(len(stops), func(i int) bool { return stops[i].Offset > t })
	c0, c1 := stops[i-1], stops[i]
	span := c1.Offset - c0.Offset
	if span <= 0 {
		return c1.R, c1.G, c1.B, c1.A
	}
	w := (t - c0.Offset) / span
	return lerp8(c0.R, c1.R, w), lerp8(c0.G, c1.G, w), lerp8(c0.B, c1.B, w), lerp8(c0.A, c1.A, w)
}

func lerp8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}

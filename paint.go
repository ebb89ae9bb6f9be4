package swraster

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"github.com/gogpu/swraster/internal/fill"
	"github.com/gogpu/swraster/internal/outline"
	"github.com/gogpu/swraster/internal/pixel"
	"github.com/gogpu/swraster/internal/stroke"
)

// Color is a straight (unpremultiplied) 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGBA returns the color with the given channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Gradient types, re-exported for callers.
type (
	Gradient = fill.Gradient
	Stop     = fill.Stop
	Spread   = fill.Spread
)

// Spread policies.
const (
	SpreadPad     = fill.Pad
	SpreadRepeat  = fill.Repeat
	SpreadReflect = fill.Reflect
)

// NewLinearGradient returns a linear gradient from (x1, y1) to (x2, y2).
func NewLinearGradient(x1, y1, x2, y2 float32, stops ...Stop) *Gradient {
	return fill.NewLinear(x1, y1, x2, y2, stops...)
}

// NewRadialGradient returns a radial gradient centered at (cx, cy).
func NewRadialGradient(cx, cy, r float32, stops ...Stop) *Gradient {
	return fill.NewRadial(cx, cy, r, stops...)
}

// Paint is either a solid color or, when Gradient is set, a gradient.
type Paint struct {
	Color    Color
	Gradient *Gradient
}

// Solid returns a solid color paint.
func Solid(c Color) *Paint {
	return &Paint{Color: c}
}

func (p *Paint) visible() bool {
	if p == nil {
		return false
	}
	if p.Gradient != nil {
		return len(p.Gradient.Stops) > 0
	}
	return p.Color.A > 0
}

// FillRule selects the inside test of a fill.
type FillRule = outline.FillRule

// Fill rules.
const (
	NonZero = outline.NonZero
	EvenOdd = outline.EvenOdd
)

// StrokeStyle describes the pen: width, caps, joins and dashes.
type StrokeStyle = stroke.Style

// Cap and join styles.
const (
	CapButt   = graphics.LineCapButt
	CapRound  = graphics.LineCapRound
	CapSquare = graphics.LineCapSquare
	JoinMiter = graphics.LineJoinMiter
	JoinRound = graphics.LineJoinRound
	JoinBevel = graphics.LineJoinBevel
)

// DefaultStrokeStyle returns a one unit wide pen with butt caps and miter
// joins.
func DefaultStrokeStyle() StrokeStyle {
	return stroke.DefaultStyle()
}

// Stroke is the pen and paint of an outline.
type Stroke struct {
	Style StrokeStyle
	Paint Paint
}

// Shape is one path with its fill and stroke. Nil paints are not drawn.
type Shape struct {
	Path      *path.Data
	Transform matrix.Matrix
	FillRule  FillRule
	Fill      *Paint
	Stroke    *Stroke
}

// BlendMethod selects how source pixels combine with the target.
type BlendMethod = pixel.BlendMethod

// Blend methods.
const (
	BlendNormal     = pixel.Normal
	BlendSrcOver    = pixel.SrcOver
	BlendAdd        = pixel.Add
	BlendScreen     = pixel.Screen
	BlendMultiply   = pixel.Multiply
	BlendOverlay    = pixel.Overlay
	BlendDifference = pixel.Difference
	BlendExclusion  = pixel.Exclusion
	BlendDarken     = pixel.Darken
	BlendLighten    = pixel.Lighten
	BlendColorDodge = pixel.ColorDodge
	BlendColorBurn  = pixel.ColorBurn
	BlendHardLight  = pixel.HardLight
	BlendSoftLight  = pixel.SoftLight
)

// CompositeMethod selects how a compositor joins its parent.
type CompositeMethod uint8

// Composite methods. ClipPath compositors are resolved through span
// clipping, so EndComposite only pops them.
const (
	CompositeNone CompositeMethod = iota
	CompositeClipPath
	CompositeAlphaMask
	CompositeInvAlphaMask
	CompositeLumaMask
	CompositeInvLumaMask
)

var compositeNames = [...]string{"None", "ClipPath", "AlphaMask", "InvAlphaMask", "LumaMask", "InvLumaMask"}

// String returns the method name.
func (m CompositeMethod) String() string {
	if int(m) < len(compositeNames) {
		return compositeNames[m]
	}
	return "CompositeMethod(?)"
}

// matte returns the mask method of a masking compositor.
func (m CompositeMethod) matte() (pixel.MaskMethod, bool) {
	switch m {
	case CompositeAlphaMask:
		return pixel.AlphaMask, true
	case CompositeInvAlphaMask:
		return pixel.InvAlphaMask, true
	case CompositeLumaMask:
		return pixel.LumaMask, true
	case CompositeInvLumaMask:
		return pixel.InvLumaMask, true
	}
	return 0, false
}

// MaskOp combines a nested mask with the mask enclosing it.
type MaskOp = pixel.MaskOp

// Mask compose operations.
const (
	MaskIntersect  = pixel.MaskIntersect
	MaskAdd        = pixel.MaskAdd
	MaskSubtract   = pixel.MaskSubtract
	MaskDifference = pixel.MaskDifference
)

// ParseBlendMethod returns the blend method named like its constant
// without the Blend prefix, such as "Multiply".
func ParseBlendMethod(name string) (BlendMethod, bool) {
	return pixel.ParseBlendMethod(name)
}

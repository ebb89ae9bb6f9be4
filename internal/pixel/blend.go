package pixel

import "github.com/chewxy/math32"

// BlendMethod selects how a source pixel combines with the destination.
//
// Separable modes follow the W3C compositing model: the blend function
// runs on straight (unpremultiplied) channels, the result is mixed with
// the source by the destination alpha and composited source-over.
type BlendMethod uint8

// Blend methods.
const (
	// Normal is source-over with the coverage applied to the source.
	Normal BlendMethod = iota
	// SrcOver is source-over for a source already scaled by its coverage.
	SrcOver
	Add
	Screen
	Multiply
	Overlay
	Difference
	Exclusion
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight

	blendCount
)

var blendNames = [...]string{
	"Normal", "SrcOver", "Add", "Screen", "Multiply", "Overlay", "Difference",
	"Exclusion", "Darken", "Lighten", "ColorDodge", "ColorBurn", "HardLight", "SoftLight",
}

// String returns the method name.
func (m BlendMethod) String() string {
	if m < blendCount {
		return blendNames[m]
	}
	return "BlendMethod(?)"
}

// ParseBlendMethod returns the method with the given name.
func ParseBlendMethod(name string) (BlendMethod, bool) {
	for i, n := range blendNames {
		if n == name {
			return BlendMethod(i), true
		}
	}
	return Normal, false
}

func normal32(s, d uint32, a uint8) uint32 {
	t := AlphaBlend(s, a)
	return t + AlphaBlend(d, 255-alpha32(t))
}

func srcOver32(s, d uint32, _ uint8) uint32 {
	return s + AlphaBlend(d, 255-alpha32(s))
}

// Channel blend functions on straight values; s is the source, d the
// backdrop.

func chanMultiply(s, d uint8) uint8 { return mulRound(s, d) }

func chanScreen(s, d uint8) uint8 { return s + d - mulRound(s, d) }

func chanOverlay(s, d uint8) uint8 {
	if d < 128 {
		return mulRound(s, 2*d)
	}
	return chanScreen(s, 2*d-255)
}

func chanHardLight(s, d uint8) uint8 {
	return chanOverlay(d, s)
}

func chanDarken(s, d uint8) uint8 { return min(s, d) }

func chanLighten(s, d uint8) uint8 { return max(s, d) }

func chanColorDodge(s, d uint8) uint8 {
	switch {
	case d == 0:
		return 0
	case s == 255:
		return 255
	}
	return divRound(d, 255-s)
}

func chanColorBurn(s, d uint8) uint8 {
	switch {
	case d == 255:
		return 255
	case s == 0:
		return 0
	}
	return 255 - divRound(255-d, s)
}

func chanSoftLight(s, d uint8) uint8 {
	sf := float32(s) / 255
	df := float32(d) / 255
	var r float32
	if sf <= 0.5 {
		r = df - (1-2*sf)*df*(1-df)
	} else {
		var dx float32
		if df <= 0.25 {
			dx = ((16*df-12)*df + 4) * df
		} else {
			dx = math32.Sqrt(df)
		}
		r = df + (2*sf-1)*(dx-df)
	}
	return uint8(math32.Round(min(max(r, 0), 1) * 255))
}

func chanDifference(s, d uint8) uint8 {
	if s > d {
		return s - d
	}
	return d - s
}

func chanExclusion(s, d uint8) uint8 {
	v := int(s) + int(d) - 2*int(mulRound(s, d))
	return uint8(min(max(v, 0), 255))
}

func chanAdd(s, d uint8) uint8 {
	return uint8(min(uint32(s)+uint32(d), 255))
}

// separable builds a W3C separable blender from a channel function.
func separable[P Pixel](o *Ops[P], f func(s, d uint8) uint8) Blender[P] {
	return func(s, d P, a uint8) P {
		sr, sg, sb, sa := o.Unpremultiplied(s)
		if sa == 0 || a == 0 {
			return d
		}
		dr, dg, db, da := o.Unpremultiplied(d)
		br, bg, bb := sr, sg, sb
		if da != 0 {
			br = mix(f(sr, dr), sr, da)
			bg = mix(f(sg, dg), sg, da)
			bb = mix(f(sb, db), sb, da)
		}
		w := Mul(sa, a)
		if w == 255 {
			return o.Join(br, bg, bb, 255)
		}
		return o.Interpolate(o.Join(br, bg, bb, 255), d, w)
	}
}

// premultiplied builds a blender that applies f to every premultiplied
// channel, alpha included, after scaling the source by a.
func premultiplied[P Pixel](o *Ops[P], f func(s, d uint8) uint8) Blender[P] {
	return func(s, d P, a uint8) P {
		t := o.Scale(s, a)
		sr, sg, sb, sa := o.Split(t)
		dr, dg, db, da := o.Split(d)
		return o.Join(f(sr, dr), f(sg, dg), f(sb, db), f(sa, da))
	}
}

// bind fills the blend and matte tables. Formats override the entries
// they have faster forms for.
func (o *Ops[P]) bind() {
	o.blenders[Add] = premultiplied(o, chanAdd)
	o.blenders[Screen] = premultiplied(o, chanScreen)
	o.blenders[Multiply] = separable(o, chanMultiply)
	o.blenders[Overlay] = separable(o, chanOverlay)
	o.blenders[Difference] = separable(o, chanDifference)
	o.blenders[Exclusion] = separable(o, chanExclusion)
	o.blenders[Darken] = separable(o, chanDarken)
	o.blenders[Lighten] = separable(o, chanLighten)
	o.blenders[ColorDodge] = separable(o, chanColorDodge)
	o.blenders[ColorBurn] = separable(o, chanColorBurn)
	o.blenders[HardLight] = separable(o, chanHardLight)
	o.blenders[SoftLight] = separable(o, chanSoftLight)

	o.mattes[AlphaMask] = o.Alpha
	o.mattes[InvAlphaMask] = func(p P) uint8 { return 255 - o.Alpha(p) }
	o.mattes[LumaMask] = func(p P) uint8 {
		r, g, b, _ := o.Unpremultiplied(p)
		return Luma(r, g, b)
	}
	o.mattes[InvLumaMask] = func(p P) uint8 {
		r, g, b, _ := o.Unpremultiplied(p)
		return 255 - Luma(r, g, b)
	}
}

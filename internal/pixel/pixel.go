// Package pixel is the format-generic pixel layer: channel join and split,
// premultiplication, interpolation, the blend-mode table and the matte
// alpha functions for every supported encoding.
//
// Each encoding is described once by an [Ops] value, a capability struct
// of plain function values chosen when a surface is created. Hot loops
// call through the struct and never branch on the format.
//
// Supported encodings:
//
//   - ABGR8888 and ARGB8888: 32-bit premultiplied, alpha in the top byte.
//   - RGB565: 16-bit opaque color; alpha arrives as a separate weight.
//   - Gray8: 8-bit single channel holding coverage or mask alpha.
package pixel

// Pixel is the set of packed pixel types.
type Pixel interface {
	~uint8 | ~uint16 | ~uint32
}

// Format identifies a pixel encoding.
type Format uint8

// Formats.
const (
	ABGR8888 Format = iota
	ARGB8888
	RGB565
	Gray8
)

var formatNames = [...]string{"ABGR8888", "ARGB8888", "RGB565", "Gray8"}

// String returns the format name.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "Format(?)"
}

// Size returns the bytes per pixel.
func (f Format) Size() int {
	switch f {
	case RGB565:
		return 2
	case Gray8:
		return 1
	default:
		return 4
	}
}

// Blender combines source s into destination d with weight a.
type Blender[P Pixel] func(s, d P, a uint8) P

// Ops is the capability struct of one pixel encoding.
type Ops[P Pixel] struct {
	Format Format

	// HasAlpha reports whether pixels carry their own alpha. Formats
	// without it take the source alpha through the weight argument.
	HasAlpha bool

	// Join packs premultiplied channels.
	Join func(r, g, b, a uint8) P
	// Split unpacks to premultiplied channels.
	Split func(p P) (r, g, b, a uint8)
	// Alpha returns the alpha of p.
	Alpha func(p P) uint8
	// Scale multiplies every channel of p by a/255.
	Scale func(p P, a uint8) P
	// Interpolate returns s*a + d*(255-a).
	Interpolate func(s, d P, a uint8) P

	blenders [blendCount]Blender[P]
	mattes   [matteCount]func(p P) uint8
}

// Color packs an unpremultiplied color. It returns the pixel and the
// weight that must be folded into the coverage when the format cannot
// store the alpha itself.
func (o *Ops[P]) Color(r, g, b, a uint8) (P, uint8) {
	if !o.HasAlpha {
		return o.Join(r, g, b, 255), a
	}
	return o.Join(premultiplyChannel(r, a), premultiplyChannel(g, a), premultiplyChannel(b, a), a), 255
}

// Blender returns the blend function for m; unknown methods map to Normal.
func (o *Ops[P]) Blender(m BlendMethod) Blender[P] {
	if m >= blendCount {
		m = Normal
	}
	return o.blenders[m]
}

// Matte returns the alpha proxy function for a mask method.
func (o *Ops[P]) Matte(m MaskMethod) func(p P) uint8 {
	if m >= matteCount {
		m = AlphaMask
	}
	return o.mattes[m]
}

// Premultiply premultiplies an unpremultiplied pixel.
func (o *Ops[P]) Premultiply(p P) P {
	if !o.HasAlpha || o.Format == Gray8 {
		return p
	}
	r, g, b, a := o.Split(p)
	return o.Join(premultiplyChannel(r, a), premultiplyChannel(g, a), premultiplyChannel(b, a), a)
}

// Unpremultiply reverses Premultiply. Pixels with alpha 0 become 0.
func (o *Ops[P]) Unpremultiply(p P) P {
	if !o.HasAlpha || o.Format == Gray8 {
		return p
	}
	r, g, b, a := o.Split(p)
	return o.Join(unpremultiplyChannel(r, a), unpremultiplyChannel(g, a), unpremultiplyChannel(b, a), a)
}

// Unpremultiplied returns the straight channels of p.
func (o *Ops[P]) Unpremultiplied(p P) (r, g, b, a uint8) {
	r, g, b, a = o.Split(p)
	if o.HasAlpha && a != 255 {
		r, g, b = unpremultiplyChannel(r, a), unpremultiplyChannel(g, a), unpremultiplyChannel(b, a)
	}
	return r, g, b, a
}

func newOps32(f Format, join func(r, g, b, a uint8) uint32, split func(uint32) (r, g, b, a uint8)) *Ops[uint32] {
	o := &Ops[uint32]{
		Format:      f,
		HasAlpha:    true,
		Join:        join,
		Split:       split,
		Alpha:       alpha32,
		Scale:       AlphaBlend,
		Interpolate: Interpolate32,
	}
	o.bind()
	o.blenders[Normal] = normal32
	o.blenders[SrcOver] = srcOver32
	return o
}

// NewABGR8888 returns the ops of 32-bit pixels with red in the low byte.
func NewABGR8888() *Ops[uint32] {
	return newOps32(ABGR8888,
		func(r, g, b, a uint8) uint32 {
			return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
		},
		func(c uint32) (r, g, b, a uint8) {
			return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
		})
}

// NewARGB8888 returns the ops of 32-bit pixels with blue in the low byte.
func NewARGB8888() *Ops[uint32] {
	return newOps32(ARGB8888,
		func(r, g, b, a uint8) uint32 {
			return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
		},
		func(c uint32) (r, g, b, a uint8) {
			return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
		})
}

// NewRGB565 returns the ops of opaque 16-bit pixels.
func NewRGB565() *Ops[uint16] {
	o := &Ops[uint16]{
		Format: RGB565,
		Join: func(r, g, b, _ uint8) uint16 {
			return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
		},
		Split: func(c uint16) (r, g, b, a uint8) {
			return expand5(c >> 11), expand6(c >> 5), expand5(c), 255
		},
		Alpha: func(uint16) uint8 { return 255 },
		Scale: func(c uint16, a uint8) uint16 {
			return interpolate565(c, 0, a)
		},
		Interpolate: interpolate565,
	}
	o.bind()
	o.blenders[Normal] = interpolate565
	o.blenders[SrcOver] = interpolate565
	return o
}

// NewGray8 returns the ops of 8-bit coverage pixels. Joining keeps the
// alpha; splitting yields premultiplied white.
func NewGray8() *Ops[uint8] {
	o := &Ops[uint8]{
		Format:   Gray8,
		HasAlpha: true,
		Join:     func(_, _, _, a uint8) uint8 { return a },
		Split: func(v uint8) (r, g, b, a uint8) {
			return v, v, v, v
		},
		Alpha:       func(v uint8) uint8 { return v },
		Scale:       Mul,
		Interpolate: mix,
	}
	o.bind()
	// the stored value is both coverage and gray level
	o.mattes[LumaMask] = o.Alpha
	o.mattes[InvLumaMask] = func(v uint8) uint8 { return 255 - v }
	normal := func(s, d, a uint8) uint8 {
		t := Mul(s, a)
		return t + Mul(d, 255-t)
	}
	// a single alpha channel composites to the union for every
	// separable mode
	for m := range o.blenders {
		o.blenders[m] = normal
	}
	o.blenders[SrcOver] = func(s, d, _ uint8) uint8 { return s + Mul(d, 255-s) }
	o.blenders[Add] = func(s, d, a uint8) uint8 {
		return uint8(min(uint32(Mul(s, a))+uint32(d), 255))
	}
	return o
}

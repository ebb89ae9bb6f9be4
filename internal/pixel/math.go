package pixel

// Channel arithmetic on 8-bit values. The fast forms use shifts instead of
// division by 255 and may be off by one; the rounded forms are exact to
// the nearest integer and are used where an exact fixed point matters
// (blend-mode formulas, premultiplication).

// Mul returns a*b/255 using the (x+255)>>8 approximation.
func Mul(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 0xff) >> 8)
}

// mulRound returns a*b/255 rounded to nearest.
func mulRound(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + (t >> 8)) >> 8)
}

// divRound returns a*255/b rounded and clamped to 255; b must be > 0.
func divRound(a, b uint8) uint8 {
	v := (uint32(a)*255 + uint32(b)/2) / uint32(b)
	return uint8(min(v, 255))
}

// mix returns x*a + y*(255-a), rounded.
func mix(x, y, a uint8) uint8 {
	v := uint32(x)*uint32(a) + uint32(y)*uint32(255-a) + 127
	return uint8(v / 255)
}

// AlphaBlend scales every channel of a packed 32-bit pixel by a/255.
// The a+1 multiplier makes a=255 exact.
func AlphaBlend(c uint32, a uint8) uint32 {
	m := uint32(a) + 1
	return ((((c >> 8) & 0x00ff00ff) * m) & 0xff00ff00) +
		((((c & 0x00ff00ff) * m) >> 8) & 0x00ff00ff)
}

// Interpolate32 returns s*a + d*(255-a) per channel.
func Interpolate32(s, d uint32, a uint8) uint32 {
	return AlphaBlend(s, a) + AlphaBlend(d, 255-a)
}

// alpha32 returns the alpha of a packed pixel; both 32-bit layouts keep
// alpha in the top byte.
func alpha32(c uint32) uint8 {
	return uint8(c >> 24)
}

// interpolate565 blends two RGB565 pixels. The weight is reduced to six
// bits with (a+2)>>2, which is exact at 0 and 255 and off by at most one
// step of the destination precision elsewhere.
func interpolate565(s, d uint16, a uint8) uint16 {
	w := (uint32(a) + 2) >> 2
	iw := 64 - w
	rb := (uint32(s&0xF81F)*w + uint32(d&0xF81F)*iw) >> 6
	g := (uint32(s&0x07E0)*w + uint32(d&0x07E0)*iw) >> 6
	return uint16(rb&0xF81F | g&0x07E0)
}

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	v &= 0x3f
	return uint8(v<<2 | v>>4)
}

// Luma returns the Rec. 601 style luminance with 8-bit weights.
func Luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*54 + uint32(g)*183 + uint32(b)*19) >> 8)
}

// premultiplyChannel returns c*a/255 rounded.
func premultiplyChannel(c, a uint8) uint8 {
	return mulRound(c, a)
}

// unpremultiplyChannel returns c*255/a rounded, or 0 for a transparent
// pixel.
func unpremultiplyChannel(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	return divRound(c, a)
}

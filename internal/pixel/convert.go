package pixel

// SwapRB converts between ABGR8888 and ARGB8888 in place by exchanging
// the red and blue bytes. Applying it twice restores the buffer.
func SwapRB(buf []uint32) {
	for i, c := range buf {
		buf[i] = c&0xff00ff00 | (c>>16)&0xff | (c&0xff)<<16
	}
}

// PremultiplyBuffer premultiplies every pixel of buf in place.
func PremultiplyBuffer[P Pixel](o *Ops[P], buf []P) {
	if !o.HasAlpha || o.Format == Gray8 {
		return
	}
	for i, p := range buf {
		buf[i] = o.Premultiply(p)
	}
}

// UnpremultiplyBuffer reverses PremultiplyBuffer in place.
func UnpremultiplyBuffer[P Pixel](o *Ops[P], buf []P) {
	if !o.HasAlpha || o.Format == Gray8 {
		return
	}
	for i, p := range buf {
		buf[i] = o.Unpremultiply(p)
	}
}

// Fill sets every pixel of buf to v.
func Fill[P Pixel](buf []P, v P) {
	if len(buf) == 0 {
		return
	}
	buf[0] = v
	for n := 1; n < len(buf); n *= 2 {
		copy(buf[n:], buf[:n])
	}
}

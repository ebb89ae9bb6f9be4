package swraster

import (
	"image"

	"github.com/gogpu/swraster/internal/pixel"
)

// ColorSpace identifies the pixel encoding of a surface.
type ColorSpace = pixel.Format

// Color spaces.
const (
	ABGR8888 = pixel.ABGR8888
	ARGB8888 = pixel.ARGB8888
	RGB565   = pixel.RGB565
	Gray8    = pixel.Gray8
)

// Surface is a caller-owned pixel buffer the renderer draws into. Pixels
// are addressed as Buf[y*Stride+x].
//
// Drawing always happens on premultiplied pixels. A surface created with
// premultiplied set to false is premultiplied when it becomes the render
// target and converted back by Renderer.Sync.
type Surface[P pixel.Pixel] struct {
	Buf           []P
	Width, Height int
	Stride        int
	ColorSpace    ColorSpace
	Premultiplied bool

	ops *pixel.Ops[P]
}

func newSurface[P pixel.Pixel](buf []P, w, h, stride int, ops *pixel.Ops[P], premultiplied bool) (*Surface[P], error) {
	if buf == nil || w <= 0 || h <= 0 || stride < w || len(buf) < stride*(h-1)+w {
		return nil, ErrInvalidSurface
	}
	return &Surface[P]{
		Buf:           buf,
		Width:         w,
		Height:        h,
		Stride:        stride,
		ColorSpace:    ops.Format,
		Premultiplied: premultiplied || !ops.HasAlpha || ops.Format == pixel.Gray8,
		ops:           ops,
	}, nil
}

// NewSurface32 wraps a 32-bit buffer in either ABGR8888 or ARGB8888
// order.
func NewSurface32(buf []uint32, w, h, stride int, cs ColorSpace, premultiplied bool) (*Surface[uint32], error) {
	var ops *pixel.Ops[uint32]
	switch cs {
	case ABGR8888:
		ops = pixel.NewABGR8888()
	case ARGB8888:
		ops = pixel.NewARGB8888()
	default:
		return nil, ErrInvalidSurface
	}
	return newSurface(buf, w, h, stride, ops, premultiplied)
}

// NewSurface16 wraps an opaque RGB565 buffer.
func NewSurface16(buf []uint16, w, h, stride int) (*Surface[uint16], error) {
	return newSurface(buf, w, h, stride, pixel.NewRGB565(), true)
}

// NewSurface8 wraps an 8-bit alpha buffer, typically used as a mask.
func NewSurface8(buf []uint8, w, h, stride int) (*Surface[uint8], error) {
	return newSurface(buf, w, h, stride, pixel.NewGray8(), true)
}

// Bounds returns the surface rectangle.
func (s *Surface[P]) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

func (s *Surface[P]) row(y, x0, x1 int) []P {
	o := y * s.Stride
	return s.Buf[o+x0 : o+x1]
}

// Premultiply converts straight pixels to premultiplied ones in place.
func (s *Surface[P]) Premultiply() {
	if s.Premultiplied {
		return
	}
	for y := range s.Height {
		pixel.PremultiplyBuffer(s.ops, s.row(y, 0, s.Width))
	}
	s.Premultiplied = true
}

// Unpremultiply converts premultiplied pixels to straight ones in place.
// Fully transparent pixels become zero.
func (s *Surface[P]) Unpremultiply() {
	if !s.Premultiplied || !s.ops.HasAlpha || s.ops.Format == pixel.Gray8 {
		return
	}
	for y := range s.Height {
		pixel.UnpremultiplyBuffer(s.ops, s.row(y, 0, s.Width))
	}
	s.Premultiplied = false
}

// Clear zeroes the pixels of r.
func (s *Surface[P]) Clear(r image.Rectangle) {
	clearRegion(s.Buf, s.Stride, r.Intersect(s.Bounds()))
}

func clearRegion[P pixel.Pixel](buf []P, stride int, r image.Rectangle) {
	if r.Empty() {
		return
	}
	if r.Min.X == 0 && r.Dx() == stride {
		clear(buf[r.Min.Y*stride : r.Max.Y*stride])
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		clear(buf[y*stride+r.Min.X : y*stride+r.Max.X])
	}
}

// ConvertColorSpace reorders a 32-bit surface to cs in place. Converting
// twice restores the original buffer.
func ConvertColorSpace(s *Surface[uint32], cs ColorSpace) error {
	if s.ColorSpace == cs {
		return nil
	}
	var ops *pixel.Ops[uint32]
	switch cs {
	case ABGR8888:
		ops = pixel.NewABGR8888()
	case ARGB8888:
		ops = pixel.NewARGB8888()
	default:
		return ErrInvalidArgument
	}
	for y := range s.Height {
		pixel.SwapRB(s.row(y, 0, s.Width))
	}
	s.ColorSpace, s.ops = cs, ops
	return nil
}

package swraster

import (
	"github.com/gogpu/swraster/internal/fill"
	"github.com/gogpu/swraster/internal/pixel"
	"github.com/gogpu/swraster/internal/rle"
)

// source is a resolved paint: either one color with its weight or a
// gradient evaluator.
type source[P pixel.Pixel] struct {
	visible bool
	color   P
	weight  uint8
	opaque  bool
	fill    *fill.Fill[P]
	grad    bool
}

// resolve turns p under the shape transform into a source at opacity.
func (r *Renderer[P]) resolve(src *source[P], p *Paint, sh *Shape, opacity uint8) {
	src.visible = false
	src.grad = false
	if !p.visible() || opacity == 0 {
		return
	}
	if p.Gradient == nil {
		c := p.Color
		a := pixel.Mul(c.A, opacity)
		src.color, src.weight = r.ops.Color(c.R, c.G, c.B, a)
		src.opaque = a == 255
		src.visible = a > 0
		return
	}
	if src.fill == nil {
		src.fill = fill.New(r.ops)
	}
	if !src.fill.Prepare(p.Gradient, sh.Transform, opacity, r.opts.colorTable, r.ramps) {
		return
	}
	src.visible = true
	if c, w, ok := src.fill.Solid(); ok {
		src.color, src.weight = c, w
		src.opaque = !src.fill.Translucent()
		return
	}
	src.grad = true
}

// rasterRle draws spans with src onto the canvas.
func (r *Renderer[P]) rasterRle(c *canvas[P], spans *rle.RLE, src *source[P]) {
	if spans == nil || !src.visible {
		return
	}
	for _, s := range spans.Fetch(c.bounds) {
		y := int(s.Y)
		x0 := max(int(s.X), c.bounds.Min.X)
		x1 := min(int(s.X)+int(s.Len), c.bounds.Max.X)
		if x0 >= x1 {
			continue
		}
		if !src.grad {
			r.blendSolid(c, x0, y, x1-x0, src, s.Coverage)
			continue
		}
		n := x1 - x0
		colors, weights := r.span(n)
		src.fill.Fetch(colors, weights, x0, y)
		r.blendPixels(c, x0, y, colors, weights, s.Coverage)
	}
}

// span returns scratch buffers of n pixels.
func (r *Renderer[P]) span(n int) ([]P, []uint8) {
	if cap(r.colors) < n {
		r.colors = make([]P, n)
		r.weights = make([]uint8, n)
	}
	return r.colors[:n], r.weights[:n]
}

// blendSolid draws n pixels of one color at coverage a.
func (r *Renderer[P]) blendSolid(c *canvas[P], x, y, n int, src *source[P], a uint8) {
	row := c.buf[y*c.stride+x : y*c.stride+x+n]
	w := pixel.Mul(a, src.weight)
	if c.mask == nil {
		if w == 255 && src.opaque && r.blendMethod == BlendNormal {
			pixel.Fill(row, src.color)
			return
		}
		for i, d := range row {
			row[i] = r.blend(src.color, d, w)
		}
		return
	}
	for i, d := range row {
		if m := c.mask.maskAlpha(x+i, y); m > 0 {
			row[i] = r.blend(src.color, d, pixel.Mul(w, m))
		}
	}
}

// blendPixels draws src at coverage a, scaled per pixel by weights when
// given.
func (r *Renderer[P]) blendPixels(c *canvas[P], x, y int, src []P, weights []uint8, a uint8) {
	row := c.buf[y*c.stride+x : y*c.stride+x+len(src)]
	for i, s := range src {
		w := a
		if weights != nil {
			w = pixel.Mul(w, weights[i])
		}
		if c.mask != nil {
			w = pixel.Mul(w, c.mask.maskAlpha(x+i, y))
		}
		if w > 0 {
			row[i] = r.blend(s, row[i], w)
		}
	}
}

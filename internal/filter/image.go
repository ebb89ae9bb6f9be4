package filter

import (
	"image"

	"github.com/gogpu/swraster/internal/parallel"
	"github.com/gogpu/swraster/internal/pixel"
)

// Image is a view on a pixel buffer. Regions passed alongside it are in
// buffer coordinates and must lie inside it.
type Image[P pixel.Pixel] struct {
	Pix    []P
	Stride int
}

func (m Image[P]) row(y, x0, x1 int) []P {
	o := y * m.Stride
	return m.Pix[o+x0 : o+x1]
}

// rgba is one premultiplied pixel split into channels.
type rgba [4]uint8

// Scratch holds the working buffers of the effects so repeated calls do not
// allocate. A Scratch must not be shared between concurrent effect calls.
type Scratch struct {
	front, back []rgba
	a0, a1      []uint8
	Pool        *parallel.WorkerPool
}

func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// Border selects how rows are extended past their ends.
type Border uint8

// Border modes.
const (
	// Extend repeats the edge pixel.
	Extend Border = iota
	// Wrap continues from the opposite edge.
	Wrap
)

func remap(border Border, end, idx int) int {
	if border == Wrap {
		r := idx % (end + 1)
		if r < 0 {
			r += end + 1
		}
		return r
	}
	return min(max(idx, 0), end)
}

// load splits the region of img into the compact buffer dst.
func load[P pixel.Pixel](ops *pixel.Ops[P], dst []rgba, img Image[P], r image.Rectangle) {
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		out := dst[(y-r.Min.Y)*w:]
		for x, p := range img.row(y, r.Min.X, r.Max.X) {
			cr, cg, cb, ca := ops.Split(p)
			out[x] = rgba{cr, cg, cb, ca}
		}
	}
}

// store joins the compact buffer src back into the region of img.
func store[P pixel.Pixel](ops *pixel.Ops[P], img Image[P], r image.Rectangle, src []rgba) {
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		in := src[(y-r.Min.Y)*w:]
		row := img.row(y, r.Min.X, r.Max.X)
		for x := range row {
			c := in[x]
			row[x] = ops.Join(c[0], c[1], c[2], c[3])
		}
	}
}

// flip transposes the w×h buffer src into the h×w buffer dst.
func flip[T any](dst, src []T, w, h int) {
	const block = 32
	for by := 0; by < h; by += block {
		for bx := 0; bx < w; bx += block {
			for y := by; y < min(by+block, h); y++ {
				for x := bx; x < min(bx+block, w); x++ {
					dst[x*h+y] = src[y*w+x]
				}
			}
		}
	}
}

// boxRows runs one box filter of half width dim over every row of the w×h
// buffer src, writing dst.
func boxRows(pool *parallel.WorkerPool, dst, src []rgba, w, h, dim int, border Border) {
	size := 2*dim + 1
	half := size / 2
	end := w - 1
	pool.For(h, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			in := src[y*w : (y+1)*w]
			out := dst[y*w : (y+1)*w]
			var acc [4]int
			for x := -(dim + 1); x < dim; x++ {
				c := in[remap(border, end, x)]
				acc[0] += int(c[0])
				acc[1] += int(c[1])
				acc[2] += int(c[2])
				acc[3] += int(c[3])
			}
			l, r := -(dim + 1), dim
			for x := range w {
				rc, lc := in[remap(border, end, r)], in[remap(border, end, l)]
				for i := range acc {
					acc[i] += int(rc[i]) - int(lc[i])
				}
				out[x] = rgba{
					uint8((acc[0] + half) / size),
					uint8((acc[1] + half) / size),
					uint8((acc[2] + half) / size),
					uint8((acc[3] + half) / size),
				}
				l++
				r++
			}
		}
	})
}

// boxAlpha is boxRows for a single channel.
func boxAlpha(pool *parallel.WorkerPool, dst, src []uint8, w, h, dim int) {
	size := 2*dim + 1
	half := size / 2
	end := w - 1
	pool.For(h, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			in := src[y*w : (y+1)*w]
			out := dst[y*w : (y+1)*w]
			acc := 0
			for x := -(dim + 1); x < dim; x++ {
				acc += int(in[remap(Extend, end, x)])
			}
			l, r := -(dim + 1), dim
			for x := range w {
				acc += int(in[remap(Extend, end, r)]) - int(in[remap(Extend, end, l)])
				out[x] = uint8((acc + half) / size)
				l++
				r++
			}
		}
	})
}

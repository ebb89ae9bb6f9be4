package swraster

import (
	"image"

	"github.com/gogpu/swraster/internal/fill"
	"github.com/gogpu/swraster/internal/filter"
	"github.com/gogpu/swraster/internal/mpool"
	"github.com/gogpu/swraster/internal/parallel"
	"github.com/gogpu/swraster/internal/pixel"
	"github.com/gogpu/swraster/internal/rle"
	"github.com/gogpu/swraster/internal/stroke"
)

// worker holds the prepare state of one thread slot.
type worker struct {
	ras     *rle.Rasterizer
	stroker *stroke.Stroker
}

// canvas is the buffer draws currently land in, with the compositor whose
// image gates them when masking.
type canvas[P pixel.Pixel] struct {
	buf    []P
	stride int
	bounds image.Rectangle
	mask   *Compositor[P]
}

// Renderer rasterizes shapes and images into a target surface.
//
// Prepare calls with distinct thread ids may run concurrently; each id
// owns one slot of outline buffers and one scan converter. Render,
// compositor and effect calls must come from a single goroutine, in
// painter's order.
type Renderer[P pixel.Pixel] struct {
	opts options

	surface  *Surface[P]
	ops      *pixel.Ops[P]
	straight bool

	blendMethod BlendMethod
	blend       pixel.Blender[P]

	cur   canvas[P]
	stack []*Compositor[P]
	free  []*Compositor[P]
	// allocated counts the bytes of every compositor buffer, in use or
	// on the free list.
	allocated int64

	mpool   *mpool.Pool
	workers []worker
	ramps   *fill.RampCache[P]

	pool    *parallel.WorkerPool
	scratch filter.Scratch

	colors  []P
	weights []uint8
}

// NewRenderer creates a renderer for pixels of type P. A target surface
// must be set before drawing.
func NewRenderer[P pixel.Pixel](opts ...Option) *Renderer[P] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer[P]{
		opts:    o,
		mpool:   mpool.New(o.threads),
		workers: make([]worker, o.threads),
	}
	for i := range r.workers {
		r.workers[i] = worker{ras: rle.NewRasterizer(), stroker: stroke.New()}
	}
	if o.rampCache > 0 {
		r.ramps = fill.NewRampCache[P](o.rampCache)
	}
	if o.threads > 1 {
		r.pool = parallel.NewWorkerPool(o.threads)
	}
	r.scratch.Pool = r.pool
	return r
}

// Target sets the surface to draw into. A straight-alpha surface is
// premultiplied here and restored by Sync. Open compositors go back to the
// free list, which is dropped when the buffer size changes.
func (r *Renderer[P]) Target(s *Surface[P]) error {
	if s == nil || s.ops == nil {
		return ErrInvalidSurface
	}
	r.releaseStack()
	if r.surface != nil && (r.surface.Stride != s.Stride || r.surface.Height != s.Height) {
		r.dropCompositors()
	}
	r.surface = s
	r.ops = s.ops
	r.straight = !s.Premultiplied
	s.Premultiply()
	r.SetBlendMethod(r.blendMethod)
	r.cur = canvas[P]{buf: s.Buf, stride: s.Stride, bounds: s.Bounds()}
	return nil
}

// Bounds returns the target rectangle, or an empty one without a target.
func (r *Renderer[P]) Bounds() image.Rectangle {
	if r.surface == nil {
		return image.Rectangle{}
	}
	return r.surface.Bounds()
}

// SetBlendMethod selects how shapes, images and compositors combine with
// what is below them.
func (r *Renderer[P]) SetBlendMethod(m BlendMethod) {
	r.blendMethod = m
	if r.ops != nil {
		r.blend = r.ops.Blender(m)
	}
}

// BlendMethod returns the current blend method.
func (r *Renderer[P]) BlendMethod() BlendMethod {
	return r.blendMethod
}

// Sync finishes a frame: a straight-alpha target gets its pixels
// unpremultiplied. Drawing after Sync premultiplies the surface again
// through Target.
func (r *Renderer[P]) Sync() error {
	if r.surface == nil {
		return ErrNoTarget
	}
	if r.straight {
		r.surface.Unpremultiply()
	}
	return nil
}

// Clear resets the frame state: the compositor stack and the outline
// slots. Buffers are kept for reuse.
func (r *Renderer[P]) Clear() {
	r.releaseStack()
	if r.surface != nil {
		r.cur = canvas[P]{buf: r.surface.Buf, stride: r.surface.Stride, bounds: r.surface.Bounds()}
	}
	r.mpool.Clear()
}

// releaseStack returns every open compositor to the free list.
func (r *Renderer[P]) releaseStack() {
	for len(r.stack) > 0 {
		c := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		r.release(c)
		c.state = Idle
	}
}

// Close releases every buffer and stops the workers. The renderer must not
// be used afterwards.
func (r *Renderer[P]) Close() {
	r.Clear()
	r.dropCompositors()
	r.mpool.Term()
	if r.pool != nil {
		r.pool.Close()
	}
	if r.ramps != nil {
		r.ramps.Clear()
	}
	r.surface = nil
}

func (r *Renderer[P]) worker(tid int) *worker {
	if tid < 0 || tid >= len(r.workers) {
		panic("swraster: thread id out of range")
	}
	return &r.workers[tid]
}

// clipBox intersects the target with the bounds of every clip.
func (r *Renderer[P]) clipBox(clips []*ShapeData[P]) image.Rectangle {
	box := r.surface.Bounds()
	for _, c := range clips {
		box = box.Intersect(c.bbox)
	}
	return box
}

// applyClips restricts spans to every clip, by rectangle for fast-track
// clips and by span intersection otherwise.
func applyClips[P pixel.Pixel](spans *rle.RLE, clips []*ShapeData[P]) {
	for _, c := range clips {
		if c.fastTrack {
			rle.ClipRect(spans, c.bbox)
		} else {
			rle.Clip(spans, c.clipSpans())
		}
	}
}

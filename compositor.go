package swraster

import (
	"image"
	"log/slog"
	"unsafe"

	"github.com/gogpu/swraster/internal/pixel"
)

// CompositorState is the life cycle stage of a compositor.
type CompositorState uint8

// Compositor states.
const (
	// Idle compositors hold no group, such as those dropped by Clear.
	Idle CompositorState = iota
	// Opened compositors receive draws or act as masks.
	Opened
	// Direct compositors had an effect blend them into the parent
	// already; EndComposite skips the merge.
	Direct
	// Resolved compositors were merged into the parent and popped.
	Resolved
)

var stateNames = [...]string{"Idle", "Opened", "Direct", "Resolved"}

// String returns the state name.
func (s CompositorState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "CompositorState(?)"
}

// Compositor is an intermediate render target for a group of draws. It
// is as large as the target surface; only its bounds are cleared and
// merged.
type Compositor[P pixel.Pixel] struct {
	image  []P
	stride int
	bytes  int64

	bbox    image.Rectangle
	method  CompositeMethod
	opacity uint8
	matte   func(P) uint8
	maskOp  pixel.MaskOp
	state   CompositorState

	// recover is the canvas that was current when the compositor opened.
	recover canvas[P]
}

// Bounds returns the region the compositor covers.
func (c *Compositor[P]) Bounds() image.Rectangle { return c.bbox }

// State returns the life cycle stage.
func (c *Compositor[P]) State() CompositorState { return c.state }

// SetMaskOp selects how a mask compositor combines with the mask of the
// group it was opened in. The default is MaskIntersect; it has no effect
// when the enclosing group is unmasked.
func (c *Compositor[P]) SetMaskOp(op MaskOp) { c.maskOp = op }

// Method returns the composite method set by BeginComposite.
func (c *Compositor[P]) Method() CompositeMethod { return c.method }

// OpenCompositor pushes a compositor covering bbox. Draws go to its image
// until BeginComposite or EndComposite. It fails with ErrOutOfMemory when
// a new buffer would exceed the memory limit.
func (r *Renderer[P]) OpenCompositor(bbox image.Rectangle) (*Compositor[P], error) {
	if r.surface == nil {
		return nil, ErrNoTarget
	}
	bbox = bbox.Intersect(r.surface.Bounds())

	c, err := r.acquire()
	if err != nil {
		return nil, err
	}
	c.bbox = bbox
	c.method = CompositeNone
	c.opacity = 255
	c.matte = nil
	c.maskOp = MaskIntersect
	c.state = Opened
	c.recover = r.cur
	clearRegion(c.image, c.stride, bbox)

	r.stack = append(r.stack, c)
	r.cur = canvas[P]{buf: c.image, stride: c.stride, bounds: bbox}
	Logger().Debug("compositor open", slog.Any("bbox", bbox), slog.Int("depth", len(r.stack)))
	return c, nil
}

// acquire takes a buffer from the free list or allocates one.
func (r *Renderer[P]) acquire() (*Compositor[P], error) {
	if n := len(r.free); n > 0 {
		c := r.free[n-1]
		r.free = r.free[:n-1]
		return c, nil
	}
	stride, h := r.surface.Stride, r.surface.Height
	var zero P
	need := int64(stride) * int64(h) * int64(unsafe.Sizeof(zero))
	if lim := r.opts.memoryLimit; lim > 0 && r.allocated+need > lim {
		Logger().Warn("compositor buffer refused",
			slog.Int64("bytes", need),
			slog.Int64("allocated", r.allocated),
			slog.Int64("limit", lim))
		return nil, ErrOutOfMemory
	}
	r.allocated += need
	return &Compositor[P]{image: make([]P, stride*h), stride: stride, bytes: need}, nil
}

func (r *Renderer[P]) release(c *Compositor[P]) {
	c.recover = canvas[P]{}
	r.free = append(r.free, c)
}

func (r *Renderer[P]) dropCompositors() {
	for _, c := range r.free {
		r.allocated -= c.bytes
	}
	for _, c := range r.stack {
		r.allocated -= c.bytes
	}
	r.free = nil
	r.stack = r.stack[:0]
}

// BeginComposite sets how c joins its parent. With a mask method, draws
// return to the parent and are gated per pixel by c's image; otherwise
// they keep landing in c.
func (r *Renderer[P]) BeginComposite(c *Compositor[P], method CompositeMethod, opacity uint8) {
	c.method = method
	c.opacity = opacity
	if mm, ok := method.matte(); ok {
		c.matte = r.ops.Matte(mm)
		r.cur = c.recover
		r.cur.mask = c
	}
	Logger().Debug("compositor begin", slog.String("method", method.String()), slog.Int("opacity", int(opacity)))
}

// EndComposite pops c, which must be the innermost open compositor, and
// merges it into the restored parent unless a mask or a direct effect
// already placed its content.
func (r *Renderer[P]) EndComposite(c *Compositor[P]) error {
	if c == nil {
		return ErrInvalidArgument
	}
	n := len(r.stack)
	if n == 0 || r.stack[n-1] != c {
		panic("swraster: EndComposite out of order")
	}
	r.stack = r.stack[:n-1]
	r.cur = c.recover

	if _, masked := c.method.matte(); !masked && c.state != Direct && c.opacity > 0 {
		r.mergeCompositor(c)
	}
	Logger().Debug("compositor end",
		slog.Any("bbox", c.bbox),
		slog.String("state", c.state.String()),
		slog.Int("depth", len(r.stack)))
	r.release(c)
	c.state = Resolved
	return nil
}

// mergeCompositor blends the bounds of c into the current canvas at the
// compositor opacity.
func (r *Renderer[P]) mergeCompositor(c *Compositor[P]) {
	b := c.bbox.Intersect(r.cur.bounds)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		o := y * c.stride
		r.blendPixels(&r.cur, b.Min.X, y, c.image[o+b.Min.X:o+b.Max.X], nil, c.opacity)
	}
}

// maskAlpha returns the gating alpha of the mask at (x, y), combined with
// the enclosing mask if there is one. Outside its bounds the mask reads as
// transparent.
func (c *Compositor[P]) maskAlpha(x, y int) uint8 {
	var m uint8
	if image.Pt(x, y).In(c.bbox) {
		m = c.matte(c.image[y*c.stride+x])
	} else {
		var zero P
		m = c.matte(zero)
	}
	if outer := c.recover.mask; outer != nil {
		m = c.maskOp.Compose(m, outer.maskAlpha(x, y))
	}
	return m
}

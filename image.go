package swraster

import (
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/outline"
	"github.com/gogpu/swraster/internal/pixel"
	"github.com/gogpu/swraster/internal/rle"
)

// downScaleTolerance is the scale below which images are sampled with a
// box filter instead of bilinear interpolation.
const downScaleTolerance = 0.5

// Image is a premultiplied pixel buffer in the target's format. Rows are
// Stride pixels apart.
type Image[P pixel.Pixel] struct {
	Pix           []P
	Width, Height int
	Stride        int
}

func (img *Image[P]) valid() bool {
	if img == nil || img.Pix == nil || img.Width <= 0 || img.Height <= 0 || img.Stride < img.Width {
		return false
	}
	return len(img.Pix) >= img.Stride*(img.Height-1)+img.Width
}

func (img *Image[P]) at(x, y int) P { return img.Pix[y*img.Stride+x] }

// ImageData is an image prepared for one target.
type ImageData[P pixel.Pixel] struct {
	img     *Image[P]
	opacity uint8
	visible bool

	// direct images are copied at an integer offset without sampling.
	direct bool
	ox, oy int

	inv       matrix.Matrix
	halfScale int

	// useRle clips the image by spans instead of by region.
	useRle bool
	spans  rle.RLE
	region image.Rectangle
}

// Bounds returns the pixel region the image touches.
func (d *ImageData[P]) Bounds() image.Rectangle {
	if d.useRle {
		return d.spans.Bounds()
	}
	return d.region
}

// Direct reports whether the image is placed without resampling.
func (d *ImageData[P]) Direct() bool { return d.direct }

// PrepareImage places img under m inside the target and every clip. An
// integer translation is drawn directly. Rotations, skews and
// non-rectangular clips go through the spans of the image quad.
func (r *Renderer[P]) PrepareImage(d *ImageData[P], img *Image[P], m matrix.Matrix, clips []*ShapeData[P], opacity uint8, tid int) error {
	if r.surface == nil {
		return ErrNoTarget
	}
	if d == nil || !img.valid() {
		return ErrInvalidArgument
	}
	w := r.worker(tid)
	*d = ImageData[P]{img: img, opacity: opacity, spans: d.spans}
	d.spans.Reset()
	if opacity == 0 {
		return nil
	}
	inv, ok := sfixed.Invert(m)
	if !ok {
		return nil
	}
	d.inv = inv

	box := r.clipBox(clips)
	o := r.mpool.Outline(tid)
	defer r.mpool.ReleaseOutline(tid)
	outline.BuildRect(o, float64(img.Width), float64(img.Height), m)

	if sfixed.TranslateOnly(m) && m[4] == math.Trunc(m[4]) && m[5] == math.Trunc(m[5]) {
		d.direct = true
		d.ox, d.oy = int(m[4]), int(m[5])
	} else {
		scale := min(sfixed.ScaleX(m), sfixed.ScaleY(m))
		if scale < downScaleTolerance {
			d.halfScale = int(0.5 / scale)
			d.halfScale = min(d.halfScale, max(img.Width, img.Height)/2)
		}
	}

	fastClips := true
	for _, c := range clips {
		if !c.fastTrack {
			fastClips = false
			break
		}
	}
	if !fastClips || !d.direct && !sfixed.RightAngle(m) {
		d.useRle = true
		w.ras.Render(&d.spans, o, box, r.opts.antiAlias)
		applyClips(&d.spans, clips)
		d.visible = !d.spans.Empty()
		return nil
	}
	region, ok := o.UpdateBBox(box, d.direct)
	if d.direct {
		region = image.Rect(d.ox, d.oy, d.ox+img.Width, d.oy+img.Height).Intersect(box)
		ok = !region.Empty()
	}
	d.region = region
	d.visible = ok
	return nil
}

// RenderImage draws a prepared image into the current canvas.
func (r *Renderer[P]) RenderImage(d *ImageData[P]) error {
	if r.surface == nil {
		return ErrNoTarget
	}
	if d == nil {
		return ErrInvalidArgument
	}
	if !d.visible {
		return nil
	}
	c := &r.cur
	if d.useRle {
		for _, s := range d.spans.Fetch(c.bounds) {
			x0 := max(int(s.X), c.bounds.Min.X)
			x1 := min(int(s.X)+int(s.Len), c.bounds.Max.X)
			if x0 < x1 {
				r.imageSpan(c, d, x0, x1, int(s.Y), pixel.Mul(s.Coverage, d.opacity))
			}
		}
		return nil
	}
	region := d.region.Intersect(c.bounds)
	if region.Empty() {
		return nil
	}
	for y := region.Min.Y; y < region.Max.Y; y++ {
		r.imageSpan(c, d, region.Min.X, region.Max.X, y, d.opacity)
	}
	return nil
}

// imageSpan draws the image pixels for device pixels [x0, x1) of row y.
func (r *Renderer[P]) imageSpan(c *canvas[P], d *ImageData[P], x0, x1, y int, a uint8) {
	img := d.img
	colors, weights := r.span(x1 - x0)
	if d.direct {
		sy := y - d.oy
		for i := range colors {
			sx := x0 + i - d.ox
			if sy < 0 || sy >= img.Height || sx < 0 || sx >= img.Width {
				weights[i] = 0
				continue
			}
			colors[i], weights[i] = img.at(sx, sy), 255
		}
		r.blendPixels(c, x0, y, colors, weights, a)
		return
	}
	fy := float64(y) + 0.5
	for i := range colors {
		fx := float64(x0+i) + 0.5
		u := d.inv[0]*fx + d.inv[2]*fy + d.inv[4]
		v := d.inv[1]*fx + d.inv[3]*fy + d.inv[5]
		if u < 0 || v < 0 || u >= float64(img.Width) || v >= float64(img.Height) {
			weights[i] = 0
			continue
		}
		if d.halfScale > 0 {
			colors[i] = r.downSample(img, int(u), int(v), d.halfScale)
		} else {
			colors[i] = r.upSample(img, u, v)
		}
		weights[i] = 255
	}
	r.blendPixels(c, x0, y, colors, weights, a)
}

// upSample interpolates bilinearly around image point (u, v), with
// neighbors clamped to the image.
func (r *Renderer[P]) upSample(img *Image[P], u, v float64) P {
	u -= 0.5
	v -= 0.5
	x0, y0 := int(math.Floor(u)), int(math.Floor(v))
	fx := uint8((u - float64(x0)) * 255)
	fy := uint8((v - float64(y0)) * 255)
	x1, y1 := min(x0+1, img.Width-1), min(y0+1, img.Height-1)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = max(x1, 0), max(y1, 0)

	lerp := r.ops.Interpolate
	top := lerp(img.at(x1, y0), img.at(x0, y0), fx)
	bottom := lerp(img.at(x1, y1), img.at(x0, y1), fx)
	return lerp(bottom, top, fy)
}

// downSample averages the (2n+1)² box around image pixel (x, y).
func (r *Renderer[P]) downSample(img *Image[P], x, y, n int) P {
	x0, x1 := max(x-n, 0), min(x+n+1, img.Width)
	y0, y1 := max(y-n, 0), min(y+n+1, img.Height)
	var sr, sg, sb, sa, cnt int
	for j := y0; j < y1; j++ {
		for i := x0; i < x1; i++ {
			cr, cg, cb, ca := r.ops.Split(img.at(i, j))
			sr += int(cr)
			sg += int(cg)
			sb += int(cb)
			sa += int(ca)
			cnt++
		}
	}
	if cnt == 0 {
		return img.at(min(x, img.Width-1), min(y, img.Height-1))
	}
	return r.ops.Join(uint8(sr/cnt), uint8(sg/cnt), uint8(sb/cnt), uint8(sa/cnt))
}

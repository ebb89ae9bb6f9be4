package swraster

import (
	"image"

	"github.com/gogpu/swraster/internal/outline"
	"github.com/gogpu/swraster/internal/pixel"
	"github.com/gogpu/swraster/internal/rle"
	"github.com/gogpu/swraster/internal/stroke"
)

// ShapeData is a shape prepared for one target: its fill and stroke
// coverage and its resolved paints. It doubles as a clip region for
// other shapes. The zero value is ready to use and is reused across
// frames.
type ShapeData[P pixel.Pixel] struct {
	fillSpans   rle.RLE
	strokeSpans rle.RLE
	fillSrc     source[P]
	strokeSrc   source[P]

	bbox image.Rectangle
	// fastTrack marks an unclipped axis-aligned rectangle whose spans
	// are the pixel-rounded rectangle itself.
	fastTrack bool
	// merged holds the union of clip shapes built by MergeClips.
	merged *rle.RLE
}

// Bounds returns the pixel region the shape touches.
func (sd *ShapeData[P]) Bounds() image.Rectangle { return sd.bbox }

// FillSpans returns the coverage spans of the fill.
func (sd *ShapeData[P]) FillSpans() []rle.Span { return sd.fillSpans.Spans }

// StrokeSpans returns the coverage spans of the stroke.
func (sd *ShapeData[P]) StrokeSpans() []rle.Span { return sd.strokeSpans.Spans }

// clipSpans returns the region sd covers when used as a clip.
func (sd *ShapeData[P]) clipSpans() *rle.RLE {
	if sd.merged != nil {
		return sd.merged
	}
	return &sd.fillSpans
}

// PrepareShape converts s into coverage spans inside the target and every
// clip, using the outline slot of thread tid. The fill is prepared when
// s.Fill is visible, the stroke when s.Stroke has a positive width and a
// visible paint. A clip shape is prepared with its fill paint set to any
// opaque color.
func (r *Renderer[P]) PrepareShape(sd *ShapeData[P], s *Shape, clips []*ShapeData[P], opacity uint8, tid int) error {
	if r.surface == nil {
		return ErrNoTarget
	}
	if sd == nil || s == nil || s.Path == nil {
		return ErrInvalidArgument
	}
	w := r.worker(tid)
	box := r.clipBox(clips)

	sd.fillSpans.Reset()
	sd.strokeSpans.Reset()
	sd.bbox = image.Rectangle{}
	sd.fastTrack = false
	sd.merged = nil

	r.resolve(&sd.fillSrc, s.Fill, s, opacity)
	if sd.fillSrc.visible {
		o := r.mpool.Outline(tid)
		outline.Build(o, s.Path, s.Transform, s.FillRule)
		if o.AxisAlignedRect() && len(clips) == 0 {
			if bbox, ok := o.UpdateBBox(box, true); ok {
				rle.RenderRect(&sd.fillSpans, bbox)
				sd.fastTrack = true
			}
		} else {
			w.ras.Render(&sd.fillSpans, o, box, r.opts.antiAlias)
			applyClips(&sd.fillSpans, clips)
		}
		r.mpool.ReleaseOutline(tid)
	}

	if s.Stroke != nil {
		r.resolve(&sd.strokeSrc, &s.Stroke.Paint, s, opacity)
	} else {
		sd.strokeSrc.visible = false
	}
	if sd.strokeSrc.visible {
		if !r.prepareStroke(sd, s, box, tid) {
			sd.strokeSrc.visible = false
		}
		applyClips(&sd.strokeSpans, clips)
	}

	if sd.fastTrack {
		sd.bbox = sd.fillSpans.Bounds()
	} else {
		sd.bbox = sd.fillSpans.Bounds().Union(sd.strokeSpans.Bounds())
	}
	return nil
}

// prepareStroke dashes and strokes the path, then scan converts the
// stroke outline. It reports false for an invisible stroke.
func (r *Renderer[P]) prepareStroke(sd *ShapeData[P], s *Shape, box image.Rectangle, tid int) bool {
	w := r.worker(tid)
	st := s.Stroke.Style
	if !w.stroker.Reset(st, s.Transform) {
		return false
	}
	defer r.mpool.ReleaseOutline(tid)
	defer r.mpool.ReleaseDashOutline(tid)
	defer r.mpool.ReleaseStrokeOutline(tid)

	src := r.mpool.DashOutline(tid)
	if !stroke.Dash(src, s.Path, s.Transform, st.Dash, st.DashOffset) {
		// not dashed: stroke the path itself
		src = r.mpool.Outline(tid)
		outline.Build(src, s.Path, s.Transform, s.FillRule)
	}
	if !w.stroker.Parse(src) {
		return false
	}
	out := r.mpool.StrokeOutline(tid)
	w.stroker.Export(out)
	w.ras.Render(&sd.strokeSpans, out, box, r.opts.antiAlias)
	return !sd.strokeSpans.Empty()
}

// MergeClips makes dst the union of the clip regions of a and b, for
// clips made of several shapes.
func (r *Renderer[P]) MergeClips(dst, a, b *ShapeData[P]) {
	dst.merged = rle.Merge(a.clipSpans(), b.clipSpans())
	dst.bbox = dst.merged.Bounds()
	dst.fastTrack = false
	dst.fillSrc.visible = false
	dst.strokeSrc.visible = false
}

// RenderShape draws the fill and then the stroke of sd into the current
// canvas.
func (r *Renderer[P]) RenderShape(sd *ShapeData[P]) error {
	if r.surface == nil {
		return ErrNoTarget
	}
	if sd == nil {
		return ErrInvalidArgument
	}
	r.rasterRle(&r.cur, &sd.fillSpans, &sd.fillSrc)
	r.rasterRle(&r.cur, &sd.strokeSpans, &sd.strokeSrc)
	return nil
}

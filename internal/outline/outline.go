// Package outline holds the device-space polygonal outline consumed by the
// scan converter and the stroker, plus the builder that produces it from
// user-space path commands and a transform.
package outline

import (
	"image"

	"golang.org/x/image/math/fixed"
)

// Point tags.
const (
	// TagPoint marks an on-curve point.
	TagPoint uint8 = iota
	// TagCubic marks a cubic control point.
	TagCubic
)

// FillRule selects how contour winding maps to inside/outside.
type FillRule uint8

const (
	// NonZero fills every point with a non-zero winding number.
	NonZero FillRule = iota
	// EvenOdd fills every point with an odd winding number.
	EvenOdd
)

// String returns the fill rule name.
func (r FillRule) String() string {
	if r == EvenOdd {
		return "EvenOdd"
	}
	return "NonZero"
}

// Outline is a device-space description of a shape boundary. Pts, Types
// are parallel; Cntrs holds the index of the last point of each contour
// and Closed whether that contour was explicitly closed.
//
// Outlines are reset, not freed, between frames so their backing arrays
// are reused.
type Outline struct {
	Pts      []fixed.Point26_6
	Types    []uint8
	Cntrs    []int
	Closed   []bool
	FillRule FillRule

	start int  // first point of the open contour
	open  bool // a contour is in progress
}

// New returns an empty outline.
func New() *Outline {
	return &Outline{}
}

// Reset empties the outline, keeping its storage.
func (o *Outline) Reset() {
	o.Pts = o.Pts[:0]
	o.Types = o.Types[:0]
	o.Cntrs = o.Cntrs[:0]
	o.Closed = o.Closed[:0]
	o.FillRule = NonZero
	o.open = false
}

// Empty reports whether the outline has no contours.
func (o *Outline) Empty() bool {
	return len(o.Cntrs) == 0 && !o.open
}

// MoveTo ends the current contour and starts a new one at pt.
func (o *Outline) MoveTo(pt fixed.Point26_6) {
	o.End()
	o.start = len(o.Pts)
	o.open = true
	o.Pts = append(o.Pts, pt)
	o.Types = append(o.Types, TagPoint)
}

// LineTo appends a straight segment. Without a current contour it starts
// one at pt.
func (o *Outline) LineTo(pt fixed.Point26_6) {
	if !o.open {
		o.MoveTo(pt)
		return
	}
	o.Pts = append(o.Pts, pt)
	o.Types = append(o.Types, TagPoint)
}

// CubicTo appends a cubic segment with control points c1, c2.
func (o *Outline) CubicTo(c1, c2, pt fixed.Point26_6) {
	if !o.open {
		o.MoveTo(c1)
	}
	o.Pts = append(o.Pts, c1, c2, pt)
	o.Types = append(o.Types, TagCubic, TagCubic, TagPoint)
}

// Close closes the current contour back to its first point.
func (o *Outline) Close() {
	if !o.open {
		return
	}
	first := o.Pts[o.start]
	if o.Pts[len(o.Pts)-1] != first || len(o.Pts)-o.start == 1 {
		o.Pts = append(o.Pts, first)
		o.Types = append(o.Types, TagPoint)
	}
	o.Cntrs = append(o.Cntrs, len(o.Pts)-1)
	o.Closed = append(o.Closed, true)
	o.open = false
}

// End terminates the current contour as open.
func (o *Outline) End() {
	if !o.open {
		return
	}
	o.Cntrs = append(o.Cntrs, len(o.Pts)-1)
	o.Closed = append(o.Closed, false)
	o.open = false
}

// Contour returns the point range [first, last] of contour i.
func (o *Outline) Contour(i int) (first, last int) {
	if i > 0 {
		first = o.Cntrs[i-1] + 1
	}
	return first, o.Cntrs[i]
}

// Valid checks the structural invariants of the outline.
func (o *Outline) Valid() bool {
	if len(o.Pts) != len(o.Types) || len(o.Cntrs) != len(o.Closed) {
		return false
	}
	prev := -1
	for _, c := range o.Cntrs {
		if c <= prev || c >= len(o.Pts) {
			return false
		}
		prev = c
	}
	return true
}

// Bounds returns the 26.6 control box of all points.
func (o *Outline) Bounds() fixed.Rectangle26_6 {
	if len(o.Pts) == 0 {
		return fixed.Rectangle26_6{}
	}
	r := fixed.Rectangle26_6{Min: o.Pts[0], Max: o.Pts[0]}
	for _, p := range o.Pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// UpdateBBox computes the pixel region covered by the outline, clipped to
// clip. Fast-track regions round to the nearest pixel edge; others expand
// to whole pixels. ok is false when nothing is visible.
func (o *Outline) UpdateBBox(clip image.Rectangle, fastTrack bool) (region image.Rectangle, ok bool) {
	if len(o.Pts) == 0 {
		return image.Rectangle{}, false
	}
	b := o.Bounds()
	if fastTrack {
		region = image.Rect(b.Min.X.Round(), b.Min.Y.Round(), b.Max.X.Round(), b.Max.Y.Round())
	} else {
		region = image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
		if region.Dx() == 0 {
			region.Max.X++
		}
		if region.Dy() == 0 {
			region.Max.Y++
		}
	}
	region = region.Intersect(clip)
	return region, !region.Empty()
}

// AxisAlignedRect reports whether the outline is a single closed
// rectangle with axis-aligned edges.
func (o *Outline) AxisAlignedRect() bool {
	if len(o.Cntrs) != 1 || len(o.Pts) != 5 {
		return false
	}
	for _, t := range o.Types {
		if t != TagPoint {
			return false
		}
	}
	p := o.Pts
	if p[0] != p[4] {
		return false
	}
	if p[0].Y == p[1].Y && p[1].X == p[2].X && p[2].Y == p[3].Y && p[3].X == p[0].X {
		return true
	}
	return p[0].X == p[1].X && p[1].Y == p[2].Y && p[2].X == p[3].X && p[3].Y == p[0].Y
}

// Package rle converts device-space outlines into run-length coverage
// spans and implements the span algebra used for clipping.
//
// A span list is ordered by row, then by column, and spans on one row never
// overlap. Producers in this package keep that order; consumers rely on it
// to binary-search a row range and to merge two lists in one pass.
package rle

import (
	"image"
	"sort"
)

// Span is a horizontal run of pixels sharing one coverage value.
type Span struct {
	X, Y     uint16
	Len      uint16
	Coverage uint8
}

// RLE is an ordered span list.
type RLE struct {
	Spans []Span
}

// Reset empties the list, keeping its storage.
func (r *RLE) Reset() {
	if r != nil {
		r.Spans = r.Spans[:0]
	}
}

// Empty reports whether the list has no spans.
func (r *RLE) Empty() bool {
	return r == nil || len(r.Spans) == 0
}

// Bounds returns the smallest rectangle containing every span.
func (r *RLE) Bounds() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	b := image.Rect(int(r.Spans[0].X), int(r.Spans[0].Y), int(r.Spans[0].X), int(r.Spans[0].Y)+1)
	for _, s := range r.Spans {
		b.Min.X = min(b.Min.X, int(s.X))
		b.Max.X = max(b.Max.X, int(s.X)+int(s.Len))
	}
	b.Max.Y = int(r.Spans[len(r.Spans)-1].Y) + 1
	return b
}

// Fetch returns the sub-slice of spans whose rows intersect bbox. It does
// not trim spans horizontally.
func (r *RLE) Fetch(bbox image.Rectangle) []Span {
	if r.Empty() {
		return nil
	}
	spans := r.Spans
	lo := sort.Search(len(spans), func(i int) bool { return int(spans[i].Y) >= bbox.Min.Y })
	hi := sort.Search(len(spans), func(i int) bool { return int(spans[i].Y) >= bbox.Max.Y })
	if lo >= hi {
		return nil
	}
	return spans[lo:hi]
}

// Clone returns a deep copy of r.
func (r *RLE) Clone() *RLE {
	if r == nil {
		return nil
	}
	return &RLE{Spans: append([]Span(nil), r.Spans...)}
}

// add appends a run, extending the previous span when it continues it
// with the same coverage. Long runs are split to fit Len.
func (r *RLE) add(x, y, n int, coverage uint8) {
	for n > 0 {
		if k := len(r.Spans); k > 0 {
			last := &r.Spans[k-1]
			if int(last.Y) == y && int(last.X)+int(last.Len) == x && last.Coverage == coverage &&
				int(last.Len)+n <= maxSpanLen {
				last.Len += uint16(n)
				return
			}
		}
		l := min(n, maxSpanLen)
		r.Spans = append(r.Spans, Span{X: uint16(x), Y: uint16(y), Len: uint16(l), Coverage: coverage})
		x += l
		n -= l
	}
}

const maxSpanLen = 0xFFFF

// RenderRect replaces the content of r with fully covered spans for the
// pixel rectangle bbox. It is the scan conversion of an axis-aligned
// rectangle whose edges sit on pixel boundaries.
func RenderRect(r *RLE, bbox image.Rectangle) *RLE {
	if r == nil {
		r = &RLE{}
	}
	r.Reset()
	bbox = bbox.Intersect(image.Rect(0, 0, maxSpanLen, maxSpanLen))
	if bbox.Empty() {
		return r
	}
	for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
		r.add(bbox.Min.X, y, bbox.Dx(), 255)
	}
	return r
}

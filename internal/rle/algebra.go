package rle

import "image"

// multiply scales coverage a by coverage b.
func multiply(a, b uint8) uint8 {
	return uint8((int(a)*int(b) + 0xff) >> 8)
}

// ClipRect trims r in place to the pixels inside clip.
func ClipRect(r *RLE, clip image.Rectangle) {
	if r.Empty() {
		return
	}
	out := r.Spans[:0]
	for _, s := range r.Spans {
		y := int(s.Y)
		if y < clip.Min.Y || y >= clip.Max.Y {
			continue
		}
		x0 := max(int(s.X), clip.Min.X)
		x1 := min(int(s.X)+int(s.Len), clip.Max.X)
		if x1 <= x0 {
			continue
		}
		out = append(out, Span{X: uint16(x0), Y: s.Y, Len: uint16(x1 - x0), Coverage: s.Coverage})
	}
	r.Spans = out
}

// rowEnd returns the index past the last span of the row starting at i.
func rowEnd(spans []Span, i int) int {
	y := spans[i].Y
	for i < len(spans) && spans[i].Y == y {
		i++
	}
	return i
}

// Clip replaces r with its intersection with clip. Coverage of overlapping
// pixels is the product of both coverages.
func Clip(r, clip *RLE) {
	if r.Empty() {
		return
	}
	if clip.Empty() {
		r.Reset()
		return
	}
	out := make([]Span, 0, len(r.Spans))
	a, b := r.Spans, clip.Spans
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Y < b[j].Y:
			i = rowEnd(a, i)
		case a[i].Y > b[j].Y:
			j = rowEnd(b, j)
		default:
			ai, bj := rowEnd(a, i), rowEnd(b, j)
			out = intersectRow(out, a[i:ai], b[j:bj])
			i, j = ai, bj
		}
	}
	r.Spans = append(r.Spans[:0], out...)
}

func intersectRow(out, a, b []Span) []Span {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		a0, a1 := int(a[i].X), int(a[i].X)+int(a[i].Len)
		b0, b1 := int(b[j].X), int(b[j].X)+int(b[j].Len)
		x0, x1 := max(a0, b0), min(a1, b1)
		if x1 > x0 {
			if c := multiply(a[i].Coverage, b[j].Coverage); c > 0 {
				out = appendRun(out, x0, int(a[i].Y), x1-x0, c)
			}
		}
		if a1 < b1 {
			i++
		} else {
			j++
		}
	}
	return out
}

// Merge returns the union of a and b. Where both cover a pixel the
// coverages combine like two independent alpha layers.
func Merge(a, b *RLE) *RLE {
	switch {
	case a.Empty() && b.Empty():
		return &RLE{}
	case a.Empty():
		return b.Clone()
	case b.Empty():
		return a.Clone()
	}
	out := &RLE{Spans: make([]Span, 0, len(a.Spans)+len(b.Spans))}
	sa, sb := a.Spans, b.Spans
	i, j := 0, 0
	for i < len(sa) || j < len(sb) {
		switch {
		case j >= len(sb) || (i < len(sa) && sa[i].Y < sb[j].Y):
			ai := rowEnd(sa, i)
			out.Spans = append(out.Spans, sa[i:ai]...)
			i = ai
		case i >= len(sa) || sb[j].Y < sa[i].Y:
			bj := rowEnd(sb, j)
			out.Spans = append(out.Spans, sb[j:bj]...)
			j = bj
		default:
			ai, bj := rowEnd(sa, i), rowEnd(sb, j)
			out.Spans = unionRow(out.Spans, sa[i:ai], sb[j:bj])
			i, j = ai, bj
		}
	}
	return out
}

// coverageAt returns the coverage of the row spans at x, advancing *k
// past spans that end at or before x.
func coverageAt(row []Span, k *int, x int) uint8 {
	for *k < len(row) && int(row[*k].X)+int(row[*k].Len) <= x {
		*k++
	}
	if *k < len(row) && int(row[*k].X) <= x {
		return row[*k].Coverage
	}
	return 0
}

// nextEdge returns the first span boundary of row greater than x, or -1.
func nextEdge(row []Span, k, x int) int {
	for ; k < len(row); k++ {
		if s := int(row[k].X); s > x {
			return s
		}
		if e := int(row[k].X) + int(row[k].Len); e > x {
			return e
		}
	}
	return -1
}

func unionRow(out, a, b []Span) []Span {
	y := int(a[0].Y)
	x := min(int(a[0].X), int(b[0].X))
	i, j := 0, 0
	for {
		ca := coverageAt(a, &i, x)
		cb := coverageAt(b, &j, x)
		na, nb := nextEdge(a, i, x), nextEdge(b, j, x)
		var next int
		switch {
		case na < 0 && nb < 0:
			return out
		case na < 0:
			next = nb
		case nb < 0:
			next = na
		default:
			next = min(na, nb)
		}
		if c := int(ca) + int(cb) - int(multiply(ca, cb)); c > 0 {
			out = appendRun(out, x, y, next-x, uint8(min(c, 255)))
		}
		x = next
	}
}

// appendRun appends a run to spans, extending the last span when it
// continues it with the same coverage.
func appendRun(spans []Span, x, y, n int, coverage uint8) []Span {
	if k := len(spans); k > 0 {
		last := &spans[k-1]
		if int(last.Y) == y && int(last.X)+int(last.Len) == x && last.Coverage == coverage &&
			int(last.Len)+n <= maxSpanLen {
			last.Len += uint16(n)
			return spans
		}
	}
	return append(spans, Span{X: uint16(x), Y: uint16(y), Len: uint16(n), Coverage: coverage})
}

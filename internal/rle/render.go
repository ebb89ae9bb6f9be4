package rle

import (
	"image"

	"golang.org/x/image/math/fixed"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/outline"
)

// The converter accumulates signed area and cover per touched cell with
// 8 bits of sub-pixel precision (24.8), then sweeps each row turning the
// accumulated values into coverage.
const (
	pixelBits = 8
	onePixel  = 1 << pixelBits
	pixelMask = onePixel - 1

	// 26.6 → 24.8
	upscaleShift = pixelBits - 6

	// coordinates are clamped so that products of two deltas fit int64
	coordLimit = 1 << 28

	// curveTolerance is the flatness used for cubic segments, 1/8 px in 26.6.
	curveTolerance fixed.Int26_6 = 8
)

type cell struct {
	x     int
	cover int
	area  int
	next  int32
}

// Rasterizer scan converts outlines. Its cell storage is kept between
// calls; a Rasterizer must not be used concurrently.
type Rasterizer struct {
	cells []cell
	rows  []int32

	minEx, maxEx int
	minEy, maxEy int

	ex, ey      int
	area, cover int
	invalid     bool

	x, y int // pen position, 24.8

	evenOdd   bool
	antiAlias bool
}

// NewRasterizer returns an idle rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Render replaces the content of dst with the coverage spans of o inside
// clip. A nil dst allocates a new list. The result is never nil.
func (rs *Rasterizer) Render(dst *RLE, o *outline.Outline, clip image.Rectangle, antiAlias bool) *RLE {
	if dst == nil {
		dst = &RLE{}
	}
	dst.Reset()

	clip = clip.Intersect(image.Rect(0, 0, maxSpanLen, maxSpanLen))
	if o == nil || o.Empty() || !o.Valid() || clip.Empty() {
		return dst
	}
	bounds, ok := o.UpdateBBox(clip, false)
	if !ok {
		return dst
	}

	rs.minEx, rs.maxEx = bounds.Min.X, bounds.Max.X
	rs.minEy, rs.maxEy = bounds.Min.Y, bounds.Max.Y
	rs.evenOdd = o.FillRule == outline.EvenOdd
	rs.antiAlias = antiAlias

	rs.cells = rs.cells[:0]
	rows := rs.maxEy - rs.minEy
	if cap(rs.rows) < rows {
		rs.rows = make([]int32, rows)
	}
	rs.rows = rs.rows[:rows]
	for i := range rs.rows {
		rs.rows[i] = -1
	}

	rs.area, rs.cover = 0, 0
	rs.invalid = true
	rs.decompose(o)
	rs.sweep(dst)
	return dst
}

func upscale(v fixed.Int26_6) int {
	c := int(v) << upscaleShift
	return min(max(c, -coordLimit), coordLimit)
}

func trunc(v int) int { return v >> pixelBits }
func fract(v int) int { return v & pixelMask }

func (rs *Rasterizer) decompose(o *outline.Outline) {
	for i := range o.Cntrs {
		first, last := o.Contour(i)
		start := o.Pts[first]
		rs.moveTo(start)

		cur := start
		for j := first + 1; j <= last; j++ {
			if o.Types[j] == outline.TagCubic && j+2 <= last {
				c := sfixed.Cubic{cur, o.Pts[j], o.Pts[j+1], o.Pts[j+2]}
				rs.cubicTo(c)
				cur = c[3]
				j += 2
				continue
			}
			cur = o.Pts[j]
			rs.lineTo(upscale(cur.X), upscale(cur.Y))
		}
		// every contour is filled as closed
		if cur != start {
			rs.lineTo(upscale(start.X), upscale(start.Y))
		}
	}
	rs.recordCell()
	rs.area, rs.cover = 0, 0
	rs.invalid = true
}

func (rs *Rasterizer) cubicTo(c sfixed.Cubic) {
	// cubics entirely above or below the band only move the pen
	minY, maxY := c.Bounds()
	if trunc(upscale(maxY)) < rs.minEy || trunc(upscale(minY)) >= rs.maxEy {
		rs.lineTo(upscale(c[3].X), upscale(c[3].Y))
		return
	}
	sfixed.FlattenCubic(c, curveTolerance, func(p fixed.Point26_6) {
		rs.lineTo(upscale(p.X), upscale(p.Y))
	})
}

func (rs *Rasterizer) moveTo(p fixed.Point26_6) {
	rs.recordCell()
	rs.area, rs.cover = 0, 0
	rs.x, rs.y = upscale(p.X), upscale(p.Y)
	rs.ex, rs.ey = rs.clampEx(trunc(rs.x)), trunc(rs.y)
	rs.invalid = rs.outside(rs.ex, rs.ey)
}

// clampEx folds every column left of the clip into one column, which only
// contributes its cover to the row sweep.
func (rs *Rasterizer) clampEx(ex int) int {
	if ex < rs.minEx {
		return rs.minEx - 1
	}
	if ex > rs.maxEx {
		return rs.maxEx
	}
	return ex
}

func (rs *Rasterizer) outside(ex, ey int) bool {
	return ey < rs.minEy || ey >= rs.maxEy || ex >= rs.maxEx
}

func (rs *Rasterizer) setCell(ex, ey int) {
	ex = rs.clampEx(ex)
	if ex == rs.ex && ey == rs.ey {
		return
	}
	rs.recordCell()
	rs.area, rs.cover = 0, 0
	rs.ex, rs.ey = ex, ey
	rs.invalid = rs.outside(ex, ey)
}

// jump moves the pen without accumulating anything.
func (rs *Rasterizer) jump(x, y int) {
	rs.x, rs.y = x, y
	rs.setCell(trunc(x), trunc(y))
}

func (rs *Rasterizer) recordCell() {
	if rs.invalid || (rs.area == 0 && rs.cover == 0) {
		return
	}
	row := rs.ey - rs.minEy
	prev := int32(-1)
	idx := rs.rows[row]
	for idx >= 0 && rs.cells[idx].x < rs.ex {
		prev = idx
		idx = rs.cells[idx].next
	}
	if idx >= 0 && rs.cells[idx].x == rs.ex {
		rs.cells[idx].area += rs.area
		rs.cells[idx].cover += rs.cover
		return
	}
	rs.cells = append(rs.cells, cell{x: rs.ex, area: rs.area, cover: rs.cover, next: idx})
	n := int32(len(rs.cells) - 1)
	if prev < 0 {
		rs.rows[row] = n
	} else {
		rs.cells[prev].next = n
	}
}

// lineTo clips the segment from the pen to (x, y) against the band of
// rows in the clip and against the clip columns, then renders what is
// left. Parts left of the clip become vertical edges in the fold column;
// parts right of it are dropped. Parts above or below the band are
// skipped with a jump.
func (rs *Rasterizer) lineTo(x, y int) {
	x0, y0 := rs.x, rs.y
	top, bottom := rs.minEy<<pixelBits, rs.maxEy<<pixelBits

	if (y0 <= top && y <= top) || (y0 >= bottom && y >= bottom) {
		rs.jump(x, y)
		return
	}

	// vertical clip
	sx, sy, ex, ey := x0, y0, x, y
	if sy < top || ey < top {
		cx := xAtY(x0, y0, x, y, top)
		if sy < top {
			sx, sy = cx, top
		} else {
			ex, ey = cx, top
		}
	}
	if sy > bottom || ey > bottom {
		cx := xAtY(x0, y0, x, y, bottom)
		if sy > bottom {
			sx, sy = cx, bottom
		} else {
			ex, ey = cx, bottom
		}
	}
	if sx != rs.x || sy != rs.y {
		rs.jump(sx, sy)
	}

	rs.hclip(sx, sy, ex, ey)

	if ex != x || ey != y {
		rs.jump(x, y)
	}
}

type point struct{ x, y int }

// hclip renders the segment with every part outside the clip columns
// replaced by a vertical edge on the nearest side: the fold column on the
// left, the first column past the clip on the right. The pen ends on the
// true end point.
func (rs *Rasterizer) hclip(x0, y0, x1, y1 int) {
	left := rs.minEx << pixelBits
	right := rs.maxEx << pixelBits
	fold := left - 1

	pts := [4]point{{x0, y0}}
	n := 1
	bounds := [2]int{left, right}
	if x1 < x0 {
		bounds = [2]int{right, left}
	}
	for _, b := range bounds {
		if b > min(x0, x1) && b < max(x0, x1) {
			pts[n] = point{b, yAtX(x0, y0, x1, y1, b)}
			n++
		}
	}
	pts[n] = point{x1, y1}
	n++

	for i := 1; i < n; i++ {
		a, c := pts[i-1], pts[i]
		switch mid := (a.x + c.x) / 2; {
		case mid < left:
			rs.renderLine(fold, a.y)
			rs.renderLine(fold, c.y)
		case mid > right:
			rs.renderLine(right, a.y)
			rs.renderLine(right, c.y)
		default:
			rs.renderLine(a.x, a.y)
			rs.renderLine(c.x, c.y)
		}
	}
	rs.x = x1
}

// renderLine accumulates the segment from the pen to (toX, toY), walking
// the rows it crosses.
func (rs *Rasterizer) renderLine(toX, toY int) {
	ey1, ey2 := trunc(rs.y), trunc(toY)
	fy1, fy2 := fract(rs.y), fract(toY)

	if (ey1 >= rs.maxEy && ey2 >= rs.maxEy) || (ey1 < rs.minEy && ey2 < rs.minEy) {
		rs.x, rs.y = toX, toY
		rs.setCell(trunc(toX), ey2)
		return
	}

	dx := toX - rs.x
	dy := toY - rs.y

	switch {
	case ey1 == ey2:
		rs.renderScanline(ey1, rs.x, fy1, toX, fy2)

	case dx == 0:
		ex := trunc(rs.x)
		twoFx := fract(rs.x) << 1
		first, incr := onePixel, 1
		if dy < 0 {
			first, incr = 0, -1
		}
		delta := first - fy1
		rs.area += twoFx * delta
		rs.cover += delta
		ey1 += incr
		rs.setCell(ex, ey1)

		delta = first + first - onePixel
		area := twoFx * delta
		for ey1 != ey2 {
			rs.area += area
			rs.cover += delta
			ey1 += incr
			rs.setCell(ex, ey1)
		}
		delta = fy2 - onePixel + first
		rs.area += twoFx * delta
		rs.cover += delta

	default:
		p := (onePixel - fy1) * dx
		first, incr := onePixel, 1
		if dy < 0 {
			p = fy1 * dx
			first, incr = 0, -1
			dy = -dy
		}
		delta, mod := floorDivMod(p, dy)

		x := rs.x + delta
		rs.renderScanline(ey1, rs.x, fy1, x, first)
		ey1 += incr
		rs.setCell(trunc(x), ey1)

		if ey1 != ey2 {
			lift, rem := floorDivMod(onePixel*dx, dy)
			mod -= dy
			for ey1 != ey2 {
				delta = lift
				mod += rem
				if mod >= 0 {
					mod -= dy
					delta++
				}
				x2 := x + delta
				rs.renderScanline(ey1, x, onePixel-first, x2, first)
				x = x2
				ey1 += incr
				rs.setCell(trunc(x), ey1)
			}
		}
		rs.renderScanline(ey1, x, onePixel-first, toX, fy2)
	}

	rs.x, rs.y = toX, toY
}

// renderScanline accumulates a segment confined to row ey; y1 and y2 are
// fractional row positions.
func (rs *Rasterizer) renderScanline(ey, x1, y1, x2, y2 int) {
	ex1, ex2 := trunc(x1), trunc(x2)
	fx1, fx2 := fract(x1), fract(x2)

	if y1 == y2 {
		rs.setCell(ex2, ey)
		return
	}
	if ex1 == ex2 {
		delta := y2 - y1
		rs.area += (fx1 + fx2) * delta
		rs.cover += delta
		return
	}

	dx := x2 - x1
	p := (onePixel - fx1) * (y2 - y1)
	first, incr := onePixel, 1
	if dx < 0 {
		p = fx1 * (y2 - y1)
		first, incr = 0, -1
		dx = -dx
	}
	delta, mod := floorDivMod(p, dx)

	rs.area += (fx1 + first) * delta
	rs.cover += delta
	y1 += delta
	ex1 += incr
	rs.setCell(ex1, ey)

	if ex1 != ex2 {
		lift, rem := floorDivMod(onePixel*(y2-y1+delta), dx)
		mod -= dx
		for ex1 != ex2 {
			delta = lift
			mod += rem
			if mod >= 0 {
				mod -= dx
				delta++
			}
			rs.area += onePixel * delta
			rs.cover += delta
			y1 += delta
			ex1 += incr
			rs.setCell(ex1, ey)
		}
	}
	delta = y2 - y1
	rs.area += (fx2 + onePixel - first) * delta
	rs.cover += delta
}

// floorDivMod returns the floored quotient and the non-negative remainder
// of a/b for b > 0.
func floorDivMod(a, b int) (q, r int) {
	q, r = a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

func xAtY(x0, y0, x1, y1, y int) int {
	if y1 == y0 {
		return x0
	}
	return x0 + (x1-x0)*(y-y0)/(y1-y0)
}

func yAtX(x0, y0, x1, y1, x int) int {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// sweep turns the accumulated cells into spans, row by row.
func (rs *Rasterizer) sweep(dst *RLE) {
	for row, idx := range rs.rows {
		y := rs.minEy + row
		cover := 0
		x := rs.minEx
		for ; idx >= 0; idx = rs.cells[idx].next {
			c := &rs.cells[idx]
			if c.x > x && cover != 0 {
				rs.hline(dst, x, y, cover*(onePixel*2), c.x-x)
			}
			cover += c.cover
			area := cover*(onePixel*2) - c.area
			if area != 0 && c.x >= rs.minEx {
				rs.hline(dst, c.x, y, area, 1)
			}
			x = c.x + 1
		}
		if cover != 0 && x < rs.maxEx {
			rs.hline(dst, x, y, cover*(onePixel*2), rs.maxEx-x)
		}
	}
}

func (rs *Rasterizer) hline(dst *RLE, x, y, area, count int) {
	// area carries 2*pixelBits+1 fractional bits
	coverage := area >> (pixelBits*2 + 1 - 8)
	if coverage < 0 {
		coverage = -coverage
	}
	if rs.evenOdd {
		coverage &= 511
		if coverage > 256 {
			coverage = 512 - coverage
		} else if coverage == 256 {
			coverage = 255
		}
	} else if coverage >= 256 {
		coverage = 255
	}
	if !rs.antiAlias {
		if coverage >= 128 {
			coverage = 255
		} else {
			coverage = 0
		}
	}
	if coverage == 0 {
		return
	}

	x = max(x, rs.minEx)
	end := min(x+count, rs.maxEx)
	if end <= x {
		return
	}
	dst.add(x, y, end-x, uint8(coverage))
}

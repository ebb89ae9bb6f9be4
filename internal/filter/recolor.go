package filter

import (
	"image"
	"log/slog"

	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/swraster/internal/pixel"
)

// Fill replaces the color of the region while keeping its coverage.
type Fill struct {
	Color [4]uint8
}

// Tint maps luminance onto the gradient from Black to White. Intensity
// blends the result with the original color.
type Tint struct {
	Black, White [3]uint8
	Intensity    uint8
}

// Tritone maps dark, middle and bright luminance onto three colors.
type Tritone struct {
	Shadow, Midtone, Highlight [3]uint8
}

// Update reports true; a fill does not depend on the transform.
func (f *Fill) Update(matrix.Matrix) bool { return true }

// Region is empty; a fill does not spread.
func (f *Fill) Region() image.Rectangle { return image.Rectangle{} }

// Update reports true; a tint does not depend on the transform.
func (t *Tint) Update(matrix.Matrix) bool { return true }

// Region is empty; a tint does not spread.
func (t *Tint) Region() image.Rectangle { return image.Rectangle{} }

// Update reports true; a tritone does not depend on the transform.
func (t *Tritone) Update(matrix.Matrix) bool { return true }

// Region is empty; a tritone does not spread.
func (t *Tritone) Region() image.Rectangle { return image.Rectangle{} }

// mix returns x*a + y*(255-a), rounded.
func mix(x, y, a uint8) uint8 {
	return uint8((uint32(x)*uint32(a) + uint32(y)*uint32(255-a) + 127) / 255)
}

func mix3(x, y [3]uint8, a uint8) [3]uint8 {
	return [3]uint8{mix(x[0], y[0], a), mix(x[1], y[1], a), mix(x[2], y[2], a)}
}

func (t *Tint) apply(c [3]uint8) [3]uint8 {
	l := pixel.Luma(c[0], c[1], c[2])
	v := mix3(t.White, t.Black, l)
	return mix3(v, c, t.Intensity)
}

func (t *Tritone) apply(c [3]uint8) [3]uint8 {
	l := int(pixel.Luma(c[0], c[1], c[2]))
	if l < 128 {
		return mix3(t.Midtone, t.Shadow, uint8(min(l*2, 255)))
	}
	return mix3(t.Highlight, t.Midtone, uint8(2*(l-128)))
}

// recolor rewrites every pixel of r through fn, which receives and returns
// straight colors. With direct set the result is blended into parent at
// the pixel alpha times opacity; otherwise img is rewritten in place.
func recolor[P pixel.Pixel](ops *pixel.Ops[P], img, parent Image[P], r image.Rectangle, opacity uint8, direct bool, fn func([3]uint8) [3]uint8) {
	normal := ops.Blender(pixel.Normal)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := img.row(y, r.Min.X, r.Max.X)
		var dst []P
		if direct {
			dst = parent.row(y, r.Min.X, r.Max.X)
		}
		for x, p := range src {
			cr, cg, cb, ca := ops.Unpremultiplied(p)
			if ca == 0 {
				continue
			}
			c := fn([3]uint8{cr, cg, cb})
			if direct {
				v, _ := ops.Color(c[0], c[1], c[2], 255)
				dst[x] = normal(v, dst[x], pixel.Mul(opacity, ca))
			} else {
				src[x], _ = ops.Color(c[0], c[1], c[2], ca)
			}
		}
	}
}

// ApplyFill recolors the region of img with f. It reports whether the
// result was already blended into parent.
func ApplyFill[P pixel.Pixel](ops *pixel.Ops[P], img, parent Image[P], r image.Rectangle, f *Fill, opacity uint8, direct bool) bool {
	slogger().Debug("fill effect", slog.Any("region", r), slog.Any("color", f.Color[:]))
	c := [3]uint8{f.Color[0], f.Color[1], f.Color[2]}
	base, _ := ops.Color(c[0], c[1], c[2], 255)
	if direct {
		normal := ops.Blender(pixel.Normal)
		op := pixel.Mul(f.Color[3], opacity)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			src := img.row(y, r.Min.X, r.Max.X)
			dst := parent.row(y, r.Min.X, r.Max.X)
			for x, p := range src {
				if a := pixel.Mul(op, ops.Alpha(p)); a > 0 {
					dst[x] = normal(base, dst[x], a)
				}
			}
		}
		return true
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.row(y, r.Min.X, r.Max.X)
		for x, p := range row {
			row[x] = ops.Scale(base, pixel.Mul(f.Color[3], ops.Alpha(p)))
		}
	}
	return false
}

// ApplyTint recolors the region of img with t. It reports whether the
// result was already blended into parent.
func ApplyTint[P pixel.Pixel](ops *pixel.Ops[P], img, parent Image[P], r image.Rectangle, t *Tint, opacity uint8, direct bool) bool {
	slogger().Debug("tint effect", slog.Any("region", r), slog.Int("intensity", int(t.Intensity)))
	recolor(ops, img, parent, r, opacity, direct, t.apply)
	return direct
}

// ApplyTritone recolors the region of img with t. It reports whether the
// result was already blended into parent.
func ApplyTritone[P pixel.Pixel](ops *pixel.Ops[P], img, parent Image[P], r image.Rectangle, t *Tritone, opacity uint8, direct bool) bool {
	slogger().Debug("tritone effect", slog.Any("region", r))
	recolor(ops, img, parent, r, opacity, direct, t.apply)
	return direct
}

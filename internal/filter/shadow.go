package filter

import (
	"image"
	"log/slog"

	"github.com/chewxy/math32"
	"seehuhn.de/go/geom/matrix"

	sfixed "github.com/gogpu/swraster/internal/fixed"
	"github.com/gogpu/swraster/internal/pixel"
)

// DropShadow describes a shadow cast by the region content. Color is a
// straight color whose alpha is the shadow opacity. Angle is in degrees,
// clockwise from up; Distance and Sigma are in user units.
type DropShadow struct {
	Color    [4]uint8
	Angle    float32
	Distance float32
	Sigma    float32
	Quality  int

	box    boxCascade
	offset image.Point
	valid  bool
}

// Update resolves the blur and the offset under m. A zero sigma or a
// transparent color disables the shadow.
func (d *DropShadow) Update(m matrix.Matrix) bool {
	s := d.Sigma * sfixed.ScaleX(m)
	d.valid = d.box.init(s*s, d.Quality) > 0 && d.Color[3] > 0
	if !d.valid {
		return false
	}
	d.offset = image.Point{}
	if d.Distance > 0 {
		rad := (90 - d.Angle) * math32.Pi / 180
		d.offset = image.Pt(int(math32.Floor(d.Distance*math32.Cos(rad)+0.5)), int(math32.Floor(-d.Distance*math32.Sin(rad)+0.5)))
	}
	return true
}

// Valid reports the result of the last Update.
func (d *DropShadow) Valid() bool { return d.valid }

// Offset returns the device offset of the shadow.
func (d *DropShadow) Offset() image.Point { return d.offset }

// Region returns how far the shadow reaches past the content bounds.
func (d *DropShadow) Region() image.Rectangle {
	e := d.box.extends
	r := image.Rect(-e, -e, e, e)
	r.Min.X = min(r.Min.X+d.offset.X, r.Min.X)
	r.Min.Y = min(r.Min.Y+d.offset.Y, r.Min.Y)
	r.Max.X = r.Min.X + 2*e + abs(d.offset.X)
	r.Max.Y = r.Min.Y + 2*e + abs(d.offset.Y)
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Shadow draws the shadow of the region r of img. With direct set the
// shadow is blended into parent at opacity times the color alpha, and img
// keeps the body alone for the caller to composite. Otherwise img receives
// the body composited over its shadow.
func Shadow[P pixel.Pixel](ops *pixel.Ops[P], img, parent Image[P], r image.Rectangle, d *DropShadow, opacity uint8, direct bool, s *Scratch) {
	w, h := r.Dx(), r.Dy()
	if !d.valid || w <= 0 || h <= 0 {
		return
	}
	// the shadow falls entirely outside the region
	if abs(d.offset.X) >= w || abs(d.offset.Y) >= h {
		return
	}
	slogger().Debug("drop shadow",
		slog.Any("region", r),
		slog.Float64("angle", float64(d.Angle)),
		slog.Float64("distance", float64(d.Distance)),
		slog.Float64("sigma", float64(d.Sigma)),
		slog.Int("level", d.box.level))

	n := w * h
	s.a0, s.a1 = grow(s.a0, n), grow(s.a1, n)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		out := s.a0[(y-r.Min.Y)*w:]
		for x, p := range img.row(y, r.Min.X, r.Max.X) {
			out[x] = ops.Alpha(p)
		}
	}

	for i := range d.box.level {
		boxAlpha(s.Pool, s.a1, s.a0, w, h, d.box.kernel[i])
		s.a0, s.a1 = s.a1, s.a0
	}
	flip(s.a1, s.a0, w, h)
	s.a0, s.a1 = s.a1, s.a0
	for i := range d.box.level {
		boxAlpha(s.Pool, s.a1, s.a0, h, w, d.box.kernel[i])
		s.a0, s.a1 = s.a1, s.a0
	}
	flip(s.a1, s.a0, h, w)
	s.a0, s.a1 = s.a1, s.a0

	sop := d.Color[3]
	if direct {
		sop = pixel.Mul(sop, opacity)
	}
	normal := ops.Blender(pixel.Normal)
	over := ops.Blender(pixel.SrcOver)
	ox, oy := d.offset.X, d.offset.Y

	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := y - r.Min.Y - oy
		var dst []P
		if direct {
			dst = parent.row(y, r.Min.X, r.Max.X)
		} else {
			dst = img.row(y, r.Min.X, r.Max.X)
		}
		for x := range dst {
			var sa uint8
			if sx := x - ox; sy >= 0 && sy < h && sx >= 0 && sx < w {
				sa = s.a0[sy*w+sx]
			}
			if sa == 0 && !direct {
				// nothing beneath the body
				continue
			}
			sc, weight := ops.Color(d.Color[0], d.Color[1], d.Color[2], pixel.Mul(sa, sop))
			if direct {
				dst[x] = normal(sc, dst[x], weight)
			} else {
				dst[x] = over(dst[x], normal(sc, zero[P](), weight), 255)
			}
		}
	}
}

func zero[P pixel.Pixel]() P {
	var z P
	return z
}

package swraster

import (
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

var (
	red   = Color{R: 255, A: 255}
	green = Color{G: 255, A: 255}
	blue  = Color{B: 255, A: 255}
	black = Color{A: 255}
)

// newTestRenderer returns a renderer targeting a transparent w×h
// premultiplied ABGR8888 surface.
func newTestRenderer(t *testing.T, w, h int, opts ...Option) *Renderer[uint32] {
	t.Helper()
	s, err := NewSurface32(make([]uint32, w*h), w, h, w, ABGR8888, true)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer[uint32](opts...)
	t.Cleanup(r.Close)
	if err := r.Target(s); err != nil {
		t.Fatal(err)
	}
	return r
}

func abgr(c Color) uint32 {
	return uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

func channels(p uint32) Color {
	return Color{R: uint8(p), G: uint8(p >> 8), B: uint8(p >> 16), A: uint8(p >> 24)}
}

func (r *Renderer[P]) at(x, y int) P {
	return r.surface.Buf[y*r.surface.Stride+x]
}

func fillSurface(r *Renderer[uint32], c Color) {
	for i := range r.surface.Buf {
		r.surface.Buf[i] = abgr(c)
	}
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func nearColor(a, b Color, tol int) bool {
	return near(a.R, b.R, tol) && near(a.G, b.G, tol) && near(a.B, b.B, tol) && near(a.A, b.A, tol)
}

func rectPath(x, y, w, h float64) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x, Y: y}).
		LineTo(vec.Vec2{X: x + w, Y: y}).
		LineTo(vec.Vec2{X: x + w, Y: y + h}).
		LineTo(vec.Vec2{X: x, Y: y + h}).
		Close()
}

func linePath(x0, y0, x1, y1 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1})
}

func fillShape(p *path.Data, c Color) *Shape {
	return &Shape{Path: p, Transform: matrix.Identity, Fill: Solid(c)}
}

// draw prepares and renders s at full opacity on thread 0.
func draw(t *testing.T, r *Renderer[uint32], s *Shape, clips ...*ShapeData[uint32]) *ShapeData[uint32] {
	t.Helper()
	sd := &ShapeData[uint32]{}
	if err := r.PrepareShape(sd, s, clips, 255, 0); err != nil {
		t.Fatalf("PrepareShape: %v", err)
	}
	if err := r.RenderShape(sd); err != nil {
		t.Fatalf("RenderShape: %v", err)
	}
	return sd
}

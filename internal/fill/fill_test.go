package fill

import (
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/swraster/internal/pixel"
)

func twoStops() []Stop {
	return []Stop{
		{Offset: 0, R: 255, A: 255},
		{Offset: 1, B: 255, A: 255},
	}
}

func TestSingleStopIsSolid(t *testing.T) {
	ops := pixel.NewABGR8888()
	g := NewLinear(0, 0, 100, 0, Stop{Offset: 0.3, R: 10, G: 20, B: 30, A: 255})
	f := New(ops)
	if !f.Prepare(g, matrix.Identity, 255, false, nil) {
		t.Fatal("Prepare failed")
	}
	c, w, ok := f.Solid()
	if !ok {
		t.Fatal("single stop should collapse to solid")
	}
	want, _ := ops.Color(10, 20, 30, 255)
	if c != want || w != 255 {
		t.Errorf("solid = %#x/%d, want %#x/255", c, w, want)
	}
	dst := make([]uint32, 8)
	f.Fetch(dst, nil, 3, 4)
	for i, p := range dst {
		if p != want {
			t.Errorf("dst[%d] = %#x, want %#x", i, p, want)
		}
	}
}

func TestNoStops(t *testing.T) {
	f := New(pixel.NewABGR8888())
	if f.Prepare(NewLinear(0, 0, 1, 0), matrix.Identity, 255, false, nil) {
		t.Error("gradient without stops should not prepare")
	}
}

func TestLinearEndpoints(t *testing.T) {
	for _, useTable := range []bool{false, true} {
		ops := pixel.NewABGR8888()
		f := New(ops)
		g := NewLinear(0, 0, 100, 0, twoStops()...)
		if !f.Prepare(g, matrix.Identity, 255, useTable, nil) {
			t.Fatal("Prepare failed")
		}
		dst := make([]uint32, 100)
		f.Fetch(dst, nil, 0, 0)
		r0, _, b0, _ := ops.Split(dst[0])
		r1, _, b1, _ := ops.Split(dst[99])
		if r0 < 250 || b0 > 5 {
			t.Errorf("table=%v: first pixel r=%d b=%d", useTable, r0, b0)
		}
		if b1 < 250 || r1 > 5 {
			t.Errorf("table=%v: last pixel r=%d b=%d", useTable, r1, b1)
		}
		rm, _, bm, _ := ops.Split(dst[49])
		if d := int(rm) - int(bm); d < -6 || d > 6 {
			t.Errorf("table=%v: middle r=%d b=%d", useTable, rm, bm)
		}
	}
}

func TestZeroLengthLinear(t *testing.T) {
	ops := pixel.NewABGR8888()
	f := New(ops)
	if !f.Prepare(NewLinear(5, 5, 5, 5, twoStops()...), matrix.Identity, 255, false, nil) {
		t.Fatal("Prepare failed")
	}
	c, _, ok := f.Solid()
	want, _ := ops.Color(0, 0, 255, 255)
	if !ok || c != want {
		t.Errorf("zero-length gradient = %#x solid=%v, want last stop %#x", c, ok, want)
	}
}

func TestZeroRadiusRadial(t *testing.T) {
	ops := pixel.NewABGR8888()
	f := New(ops)
	g := NewRadial(10, 10, 0, twoStops()...)
	if !f.Prepare(g, matrix.Identity, 255, false, nil) {
		t.Fatal("Prepare failed")
	}
	if !f.Table() {
		t.Error("degenerate radial should use the color table")
	}
	want, _ := ops.Color(0, 0, 255, 255)
	dst := make([]uint32, 20)
	for y := 0; y < 20; y += 3 {
		f.Fetch(dst, nil, 0, y)
		for x, p := range dst {
			if p != want {
				t.Fatalf("(%d,%d) = %#x, want last stop %#x", x, y, p, want)
			}
		}
	}
}

func TestRadialCenterAndEdge(t *testing.T) {
	ops := pixel.NewABGR8888()
	f := New(ops)
	g := NewRadial(50, 50, 40, twoStops()...)
	if !f.Prepare(g, matrix.Identity, 255, false, nil) {
		t.Fatal("Prepare failed")
	}
	dst := make([]uint32, 1)
	f.Fetch(dst, nil, 49, 49)
	if r, _, _, _ := ops.Split(dst[0]); r < 245 {
		t.Errorf("center red = %d, want near 255", r)
	}
	f.Fetch(dst, nil, 95, 50)
	if _, _, b, _ := ops.Split(dst[0]); b != 255 {
		t.Errorf("outside blue = %d, want 255 (pad)", b)
	}
}

func TestSpread(t *testing.T) {
	tests := []struct {
		spread Spread
		t      float32
		want   float32
	}{
		{Pad, -0.5, 0},
		{Pad, 1.5, 1},
		{Repeat, 1.25, 0.25},
		{Repeat, -0.25, 0.75},
		{Reflect, 1.25, 0.75},
		{Reflect, -0.25, 0.25},
		{Reflect, 2.5, 0.5},
	}
	for _, tt := range tests {
		f := &Fill[uint32]{spread: tt.spread}
		got := f.spreadT(tt.t)
		if d := got - tt.want; d < -1e-5 || d > 1e-5 {
			t.Errorf("%v spreadT(%v) = %v, want %v", tt.spread, tt.t, got, tt.want)
		}
	}
}

func TestIndexSpread(t *testing.T) {
	tests := []struct {
		spread Spread
		t      float32
		want   int
	}{
		{Pad, -3, 0},
		{Pad, 7, 255},
		{Pad, 0.5, 128},
		{Repeat, 1, 255},
		{Repeat, 1.5, 127},
		{Reflect, 1.5, 128},
		{Reflect, -0.5, 126},
	}
	for _, tt := range tests {
		f := &Fill[uint32]{spread: tt.spread}
		if got := f.index(tt.t); got != tt.want {
			t.Errorf("%v index(%v) = %d, want %d", tt.spread, tt.t, got, tt.want)
		}
	}
	f := &Fill[uint32]{}
	nan := float32(0)
	nan /= nan
	if got := f.index(nan); got != 0 {
		t.Errorf("index(NaN) = %d, want 0", got)
	}
}

func TestOpacityWeightWithoutAlpha(t *testing.T) {
	ops := pixel.NewRGB565()
	f := New(ops)
	g := NewLinear(0, 0, 10, 0, Stop{R: 255, A: 255})
	f.Prepare(g, matrix.Identity, 128, false, nil)
	dst := make([]uint16, 4)
	w := make([]uint8, 4)
	f.Fetch(dst, w, 0, 0)
	for i := range w {
		if w[i] != 128 {
			t.Errorf("weight[%d] = %d, want 128", i, w[i])
		}
	}
	if !f.Translucent() {
		t.Error("fill at opacity 128 should be translucent")
	}
}

func TestRampCache(t *testing.T) {
	ops := pixel.NewABGR8888()
	cache := NewRampCache[uint32](2)
	g := NewLinear(0, 0, 10, 0, twoStops()...)

	f := New(ops)
	f.Prepare(g, matrix.Identity, 255, true, cache)
	f.Prepare(g, matrix.Identity, 255, true, cache)
	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("hits=%d misses=%d, want 1 and 1", hits, misses)
	}

	for op := range 5 {
		f.Prepare(g, matrix.Identity, uint8(op), true, cache)
	}
	if n := cache.Len(); n > 2 {
		t.Errorf("cache holds %d tables, soft limit 2", n)
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Error("Clear left entries")
	}
}

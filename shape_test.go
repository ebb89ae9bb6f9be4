package swraster

import (
	"errors"
	"image"
	"slices"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func TestFillRect(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	sd := draw(t, r, fillShape(rectPath(0, 0, 10, 10), red))

	spans := sd.FillSpans()
	if len(spans) != 10 {
		t.Fatalf("got %d spans, want 10", len(spans))
	}
	for i, s := range spans {
		if int(s.Y) != i || s.X != 0 || s.Len != 10 || s.Coverage != 255 {
			t.Errorf("span %d = %+v", i, s)
		}
	}
	if sd.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("Bounds() = %v", sd.Bounds())
	}
	if got := r.at(9, 9); got != abgr(red) {
		t.Errorf("pixel (9,9) = %#x, want red", got)
	}
	if got := r.at(10, 10); got != 0 {
		t.Errorf("pixel (10,10) = %#x, want untouched", got)
	}
}

func TestFillRectScanlines(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	sd := draw(t, r, fillShape(rectPath(5, 5, 10, 10), black))
	spans := sd.FillSpans()
	if len(spans) != 10 {
		t.Fatalf("got %d spans, want one per row", len(spans))
	}
	for i, s := range spans {
		if int(s.Y) != 5+i || s.X != 5 || int(s.X)+int(s.Len)-1 != 14 || s.Coverage != 255 {
			t.Errorf("span %d = %+v, want row %d x in [5,14]", i, s, 5+i)
		}
	}
	for y := range 20 {
		if inside := y >= 5 && y < 15; (r.at(7, y) == abgr(black)) != inside {
			t.Errorf("row %d drawn = %v", y, !inside)
		}
	}
}

func TestFillAntiAliasedEdge(t *testing.T) {
	tests := []struct {
		name      string
		antiAlias bool
		want      uint8
	}{
		{"anti-aliased", true, 128},
		{"aliased", false, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, 20, 20, WithAntiAlias(tt.antiAlias))
			// a clip keeps the rectangle off the fast path
			s := fillShape(rectPath(2, 2, 5.5, 6), red)
			sd := draw(t, r, s, &ShapeData[uint32]{bbox: image.Rect(0, 0, 20, 20), fastTrack: true})
			got := channels(r.at(7, 4)).A
			if !near(got, tt.want, 2) {
				t.Errorf("edge alpha = %d, want about %d", got, tt.want)
			}
			if sd.Bounds().Max.X != 8 {
				t.Errorf("Bounds() = %v", sd.Bounds())
			}
		})
	}
}

func TestEvenOddHole(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	p := rectPath(0, 0, 20, 20).
		MoveTo(vec.Vec2{X: 5, Y: 5}).
		LineTo(vec.Vec2{X: 15, Y: 5}).
		LineTo(vec.Vec2{X: 15, Y: 15}).
		LineTo(vec.Vec2{X: 5, Y: 15}).
		Close()
	for _, rule := range []FillRule{NonZero, EvenOdd} {
		fillSurface(r, Color{})
		s := fillShape(p, red)
		s.FillRule = rule
		draw(t, r, s)
		center := r.at(10, 10)
		if rule == EvenOdd && center != 0 {
			t.Errorf("even-odd center = %#x, want hole", center)
		}
		if rule == NonZero && center != abgr(red) {
			t.Errorf("non-zero center = %#x, want red", center)
		}
	}
}

func TestShapeOpacity(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	sd := &ShapeData[uint32]{}
	if err := r.PrepareShape(sd, fillShape(rectPath(0, 0, 10, 10), red), nil, 128, 0); err != nil {
		t.Fatal(err)
	}
	if err := r.RenderShape(sd); err != nil {
		t.Fatal(err)
	}
	got := channels(r.at(5, 5))
	if !nearColor(got, Color{R: 128, A: 128}, 1) {
		t.Errorf("pixel = %+v, want half red", got)
	}

	sd0 := &ShapeData[uint32]{}
	if err := r.PrepareShape(sd0, fillShape(rectPath(0, 0, 10, 10), blue), nil, 0, 0); err != nil {
		t.Fatal(err)
	}
	if len(sd0.FillSpans()) != 0 {
		t.Error("zero opacity produced spans")
	}
}

func TestStrokeWidthZero(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	s := &Shape{
		Path:      linePath(2, 10, 18, 10),
		Transform: matrix.Identity,
		Stroke:    &Stroke{Style: DefaultStrokeStyle(), Paint: *Solid(red)},
	}
	s.Stroke.Style.Width = 0
	sd := draw(t, r, s)
	if n := len(sd.StrokeSpans()); n != 0 {
		t.Errorf("zero width stroke produced %d spans", n)
	}
	if !sd.Bounds().Empty() {
		t.Errorf("Bounds() = %v, want empty", sd.Bounds())
	}
}

func TestStrokeLine(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	s := &Shape{
		Path:      linePath(2, 10, 18, 10),
		Transform: matrix.Identity,
		Stroke:    &Stroke{Style: DefaultStrokeStyle(), Paint: *Solid(red)},
	}
	s.Stroke.Style.Width = 4
	sd := draw(t, r, s)
	if got := sd.Bounds(); got != image.Rect(2, 8, 18, 12) {
		t.Errorf("Bounds() = %v, want (2,8)-(18,12)", got)
	}
	if got := r.at(10, 9); got != abgr(red) {
		t.Errorf("pixel in stroke = %#x", got)
	}
	if got := r.at(10, 13); got != 0 {
		t.Errorf("pixel past stroke = %#x", got)
	}
}

func TestZeroDashIsSolid(t *testing.T) {
	r := newTestRenderer(t, 40, 20)
	mk := func(dash []float64) *Shape {
		s := &Shape{
			Path:      linePath(2, 10, 38, 10),
			Transform: matrix.Identity,
			Stroke:    &Stroke{Style: DefaultStrokeStyle(), Paint: *Solid(red)},
		}
		s.Stroke.Style.Width = 3
		s.Stroke.Style.Dash = dash
		return s
	}
	plain := draw(t, r, mk(nil))
	zero := draw(t, r, mk([]float64{0, 0}))
	if !slices.Equal(plain.StrokeSpans(), zero.StrokeSpans()) {
		t.Error("all-zero dash differs from a continuous stroke")
	}

	dashed := draw(t, r, mk([]float64{4, 4}))
	if len(dashed.StrokeSpans()) <= len(plain.StrokeSpans()) {
		t.Errorf("dashed stroke has %d spans, continuous %d", len(dashed.StrokeSpans()), len(plain.StrokeSpans()))
	}
}

func TestSingleStopGradientIsSolid(t *testing.T) {
	for _, table := range []bool{false, true} {
		solid := newTestRenderer(t, 16, 16)
		draw(t, solid, fillShape(rectPath(1, 1, 13, 13), green))

		grad := newTestRenderer(t, 16, 16, WithColorTable(table))
		s := fillShape(rectPath(1, 1, 13, 13), Color{})
		s.Fill = &Paint{Gradient: NewLinearGradient(0, 0, 16, 0, Stop{Offset: 0.5, G: 255, A: 255})}
		draw(t, grad, s)

		if !slices.Equal(solid.surface.Buf, grad.surface.Buf) {
			t.Errorf("table=%v: single-stop gradient differs from solid fill", table)
		}
	}
}

func TestLinearGradientRamp(t *testing.T) {
	r := newTestRenderer(t, 256, 1)
	s := fillShape(rectPath(0, 0, 256, 1), Color{})
	s.Fill = &Paint{Gradient: NewLinearGradient(0, 0, 256, 0,
		Stop{Offset: 0, A: 255},
		Stop{Offset: 1, R: 255, A: 255})}
	draw(t, r, s)
	prev := uint8(0)
	for x := range 256 {
		c := channels(r.at(x, 0))
		if c.A != 255 || c.R < prev {
			t.Fatalf("pixel %d = %+v after red %d", x, c, prev)
		}
		prev = c.R
	}
	if first, last := channels(r.at(0, 0)).R, channels(r.at(255, 0)).R; first > 2 || last < 253 {
		t.Errorf("ramp ends = %d, %d", first, last)
	}
}

func TestClipByRect(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	clip := &ShapeData[uint32]{}
	if err := r.PrepareShape(clip, fillShape(rectPath(5, 5, 5, 5), black), nil, 255, 0); err != nil {
		t.Fatal(err)
	}
	if !clip.fastTrack {
		t.Fatal("axis-aligned rectangle not on the fast track")
	}
	sd := draw(t, r, fillShape(rectPath(0, 0, 20, 20), red), clip)
	if got := sd.Bounds(); got != image.Rect(5, 5, 10, 10) {
		t.Errorf("clipped bounds = %v", got)
	}
	if r.at(4, 4) != 0 || r.at(5, 5) != abgr(red) || r.at(10, 9) != 0 {
		t.Error("clip by rectangle leaked or missed")
	}
}

func TestClipByPath(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	clip := &ShapeData[uint32]{}
	rot := fillShape(rectPath(-5, -5, 10, 10), black)
	rot.Transform = matrix.RotateDeg(45).Translate(10, 10)
	if err := r.PrepareShape(clip, rot, nil, 255, 0); err != nil {
		t.Fatal(err)
	}
	if clip.fastTrack {
		t.Fatal("rotated square on the fast track")
	}
	draw(t, r, fillShape(rectPath(0, 0, 20, 20), red), clip)
	if r.at(10, 10) != abgr(red) {
		t.Error("center of the diamond not drawn")
	}
	if r.at(3, 3) != 0 || r.at(16, 16) != 0 {
		t.Error("corner outside the diamond drawn")
	}
}

func TestMergeClips(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	a, b := &ShapeData[uint32]{}, &ShapeData[uint32]{}
	_ = r.PrepareShape(a, fillShape(rectPath(0, 0, 5, 5), black), nil, 255, 0)
	_ = r.PrepareShape(b, fillShape(rectPath(15, 15, 5, 5), black), nil, 255, 0)
	var both ShapeData[uint32]
	r.MergeClips(&both, a, b)
	draw(t, r, fillShape(rectPath(0, 0, 20, 20), red), &both)
	if r.at(2, 2) != abgr(red) || r.at(17, 17) != abgr(red) {
		t.Error("merged clip lost a region")
	}
	if r.at(10, 10) != 0 {
		t.Error("merged clip drew between its regions")
	}
}

func TestPrepareShapeErrors(t *testing.T) {
	r := NewRenderer[uint32]()
	defer r.Close()
	sd := &ShapeData[uint32]{}
	if err := r.PrepareShape(sd, fillShape(rectPath(0, 0, 1, 1), red), nil, 255, 0); !errors.Is(err, ErrNoTarget) {
		t.Errorf("no target: err = %v", err)
	}

	r2 := newTestRenderer(t, 4, 4)
	if err := r2.PrepareShape(sd, &Shape{}, nil, 255, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil path: err = %v", err)
	}
	if err := r2.RenderShape(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil data: err = %v", err)
	}
}

func TestThreadSlots(t *testing.T) {
	r := newTestRenderer(t, 32, 32, WithThreads(4))
	data := make([]ShapeData[uint32], 4)
	done := make(chan error, 4)
	for tid := range 4 {
		go func() {
			s := fillShape(rectPath(float64(tid*8), 0, 8, 32), red)
			s.Transform = matrix.RotateDeg(0.5)
			done <- r.PrepareShape(&data[tid], s, nil, 255, tid)
		}()
	}
	for range 4 {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
	for i := range data {
		if len(data[i].FillSpans()) == 0 {
			t.Errorf("slot %d prepared no spans", i)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("thread id out of range did not panic")
		}
	}()
	_ = r.PrepareShape(&data[0], fillShape(rectPath(0, 0, 1, 1), red), nil, 255, 4)
}

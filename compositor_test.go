package swraster

import (
	"errors"
	"image"
	"testing"
)

func TestNestedOpacity(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	fillSurface(r, black)

	outer, err := r.OpenCompositor(r.Bounds())
	if err != nil {
		t.Fatal(err)
	}
	inner, err := r.OpenCompositor(r.Bounds())
	if err != nil {
		t.Fatal(err)
	}
	draw(t, r, fillShape(rectPath(0, 0, 10, 10), red))
	r.BeginComposite(inner, CompositeNone, 128)
	if err := r.EndComposite(inner); err != nil {
		t.Fatal(err)
	}
	r.BeginComposite(outer, CompositeNone, 128)
	if err := r.EndComposite(outer); err != nil {
		t.Fatal(err)
	}

	// 128/255 of 128/255 is a quarter
	got := channels(r.at(5, 5))
	if !nearColor(got, Color{R: 64, A: 255}, 1) {
		t.Errorf("pixel = %+v, want quarter red over black", got)
	}
	if inner.State() != Resolved || outer.State() != Resolved {
		t.Errorf("states = %v, %v", inner.State(), outer.State())
	}
}

func TestCompositorBounds(t *testing.T) {
	r := newTestRenderer(t, 20, 20)
	c, err := r.OpenCompositor(image.Rect(5, 5, 10, 10))
	if err != nil {
		t.Fatal(err)
	}
	draw(t, r, fillShape(rectPath(0, 0, 20, 20), red))
	r.BeginComposite(c, CompositeNone, 255)
	if err := r.EndComposite(c); err != nil {
		t.Fatal(err)
	}
	if r.at(4, 4) != 0 || r.at(5, 5) != abgr(red) || r.at(10, 10) != 0 {
		t.Error("compositor merged outside its bounds")
	}
	off, _ := r.OpenCompositor(image.Rect(-5, -5, 30, 3))
	if off.Bounds() != image.Rect(0, 0, 20, 3) {
		t.Errorf("Bounds() = %v, want clipped to the target", off.Bounds())
	}
}

func TestMasks(t *testing.T) {
	tests := []struct {
		name        string
		method      CompositeMethod
		mask        Color
		left, right bool
	}{
		{"alpha", CompositeAlphaMask, black, true, false},
		{"inverse alpha", CompositeInvAlphaMask, black, false, true},
		{"luma white", CompositeLumaMask, Color{R: 255, G: 255, B: 255, A: 255}, true, false},
		{"luma black", CompositeLumaMask, black, false, false},
		{"inverse luma", CompositeInvLumaMask, Color{R: 255, G: 255, B: 255, A: 255}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, 20, 10)
			c, err := r.OpenCompositor(image.Rect(0, 0, 10, 10))
			if err != nil {
				t.Fatal(err)
			}
			draw(t, r, fillShape(rectPath(0, 0, 10, 10), tt.mask))
			r.BeginComposite(c, tt.method, 255)
			draw(t, r, fillShape(rectPath(0, 0, 20, 10), red))
			if err := r.EndComposite(c); err != nil {
				t.Fatal(err)
			}

			if got := r.at(5, 5) == abgr(red); got != tt.left {
				t.Errorf("inside mask drawn = %v, want %v (pixel %#x)", got, tt.left, r.at(5, 5))
			}
			if got := r.at(15, 5) == abgr(red); got != tt.right {
				t.Errorf("outside mask drawn = %v, want %v (pixel %#x)", got, tt.right, r.at(15, 5))
			}
		})
	}
}

func TestNestedMasks(t *testing.T) {
	// the outer mask passes x < 20, the inner one x >= 10
	tests := []struct {
		op   MaskOp
		want [3]bool
	}{
		{MaskIntersect, [3]bool{false, true, false}},
		{MaskAdd, [3]bool{true, true, true}},
		{MaskSubtract, [3]bool{true, false, false}},
		{MaskDifference, [3]bool{true, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			r := newTestRenderer(t, 30, 10)
			outer, err := r.OpenCompositor(r.Bounds())
			if err != nil {
				t.Fatal(err)
			}
			draw(t, r, fillShape(rectPath(0, 0, 20, 10), black))
			r.BeginComposite(outer, CompositeAlphaMask, 255)

			inner, err := r.OpenCompositor(r.Bounds())
			if err != nil {
				t.Fatal(err)
			}
			draw(t, r, fillShape(rectPath(10, 0, 20, 10), black))
			inner.SetMaskOp(tt.op)
			r.BeginComposite(inner, CompositeAlphaMask, 255)
			draw(t, r, fillShape(rectPath(0, 0, 30, 10), red))

			if err := r.EndComposite(inner); err != nil {
				t.Fatal(err)
			}
			if err := r.EndComposite(outer); err != nil {
				t.Fatal(err)
			}
			for i, x := range []int{5, 15, 25} {
				if got := r.at(x, 5) == abgr(red); got != tt.want[i] {
					t.Errorf("x=%d drawn = %v, want %v (pixel %#x)", x, got, tt.want[i], r.at(x, 5))
				}
			}
		})
	}
}

func TestMemoryLimit(t *testing.T) {
	// one 10x10 buffer of 4-byte pixels fits, two do not
	r := newTestRenderer(t, 10, 10, WithMemoryLimit(600))
	a, err := r.OpenCompositor(r.Bounds())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.OpenCompositor(r.Bounds()); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("second buffer: err = %v, want ErrOutOfMemory", err)
	}
	if err := r.EndComposite(a); err != nil {
		t.Fatal(err)
	}
	// the released buffer is reused without allocating
	b, err := r.OpenCompositor(r.Bounds())
	if err != nil {
		t.Fatalf("reuse: %v", err)
	}
	if b != a {
		t.Error("compositor not taken from the free list")
	}
}

func TestTargetReleasesCompositors(t *testing.T) {
	r := newTestRenderer(t, 10, 10, WithMemoryLimit(400))
	a, err := r.OpenCompositor(r.Bounds())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Target(r.surface); err != nil {
		t.Fatal(err)
	}
	if a.State() != Idle {
		t.Errorf("state after Target = %v, want Idle", a.State())
	}
	b, err := r.OpenCompositor(r.Bounds())
	if err != nil {
		t.Fatalf("open after Target: %v", err)
	}
	if b != a {
		t.Error("compositor not taken from the free list")
	}

	// a resized target drops the pooled buffers and their budget
	s, err := NewSurface32(make([]uint32, 100), 10, 10, 10, ABGR8888, true)
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := NewSurface32(make([]uint32, 50), 5, 10, 5, ABGR8888, true)
	if err := r.Target(s2); err != nil {
		t.Fatal(err)
	}
	if r.allocated != 0 || len(r.free) != 0 {
		t.Errorf("after resize: allocated=%d free=%d, want 0 0", r.allocated, len(r.free))
	}
	if err := r.Target(s); err != nil {
		t.Fatal(err)
	}
	if _, err := r.OpenCompositor(r.Bounds()); err != nil {
		t.Fatalf("open after resize: %v", err)
	}
}

func TestEndCompositeOrder(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	outer, _ := r.OpenCompositor(r.Bounds())
	_, _ = r.OpenCompositor(r.Bounds())

	if err := r.EndComposite(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil compositor: err = %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("popping the outer compositor first did not panic")
		}
	}()
	_ = r.EndComposite(outer)
}

func TestClearDropsStack(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	c, _ := r.OpenCompositor(r.Bounds())
	r.Clear()
	if c.State() != Idle {
		t.Errorf("state after Clear = %v", c.State())
	}
	draw(t, r, fillShape(rectPath(0, 0, 4, 4), red))
	if r.at(1, 1) != abgr(red) {
		t.Error("draw after Clear did not reach the surface")
	}
}

func TestBlendMethodDraw(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	fillSurface(r, Color{R: 200, G: 100, B: 50, A: 255})
	r.SetBlendMethod(BlendMultiply)
	if r.BlendMethod() != BlendMultiply {
		t.Fatalf("BlendMethod() = %v", r.BlendMethod())
	}
	draw(t, r, fillShape(rectPath(0, 0, 4, 4), Color{R: 255, G: 128, A: 255}))
	got := channels(r.at(1, 1))
	if !nearColor(got, Color{R: 200, G: 50, B: 0, A: 255}, 1) {
		t.Errorf("multiply = %+v", got)
	}
}

func TestStraightTargetSync(t *testing.T) {
	buf := make([]uint32, 16)
	s, _ := NewSurface32(buf, 4, 4, 4, ABGR8888, false)
	r := NewRenderer[uint32]()
	defer r.Close()
	if err := r.Target(s); err != nil {
		t.Fatal(err)
	}
	draw(t, r, fillShape(rectPath(0, 0, 4, 4), Color{R: 255, A: 128}))
	if got := channels(buf[5]); !nearColor(got, Color{R: 128, A: 128}, 1) {
		t.Errorf("while drawing = %+v, want premultiplied", got)
	}
	if err := r.Sync(); err != nil {
		t.Fatal(err)
	}
	if got := channels(buf[5]); !nearColor(got, Color{R: 255, A: 128}, 2) {
		t.Errorf("after Sync = %+v, want straight", got)
	}
	if err := NewRenderer[uint32]().Sync(); !errors.Is(err, ErrNoTarget) {
		t.Errorf("Sync without target: err = %v", err)
	}
}

func TestCompositeMethodString(t *testing.T) {
	if CompositeInvLumaMask.String() != "InvLumaMask" {
		t.Errorf("String() = %q", CompositeInvLumaMask.String())
	}
	if Direct.String() != "Direct" {
		t.Errorf("String() = %q", Direct.String())
	}
}

package swraster

import (
	"errors"
	"image"
	"testing"

	"seehuhn.de/go/geom/matrix"
)

// drawWithEffect draws s into a compositor sized for e, applies e and
// merges the group.
func drawWithEffect(t *testing.T, r *Renderer[uint32], s *Shape, e Effect, direct bool) *Compositor[uint32] {
	t.Helper()
	if !PrepareEffect(e, matrix.Identity) {
		t.Fatal("effect not valid")
	}
	sd := &ShapeData[uint32]{}
	if err := r.PrepareShape(sd, s, nil, 255, 0); err != nil {
		t.Fatal(err)
	}
	c, err := r.OpenCompositor(EffectRegion(e, sd.Bounds()))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RenderShape(sd); err != nil {
		t.Fatal(err)
	}
	r.BeginComposite(c, CompositeNone, 255)
	ok, err := r.Effect(c, e, direct)
	if err != nil || !ok {
		t.Fatalf("Effect() = %v, %v", ok, err)
	}
	if err := r.EndComposite(c); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestEffectRegion(t *testing.T) {
	bbox := image.Rect(10, 10, 20, 20)
	if got := EffectRegion(&Tint{}, bbox); got != bbox {
		t.Errorf("tint region = %v", got)
	}
	if got := EffectRegion(nil, bbox); got != bbox {
		t.Errorf("nil region = %v", got)
	}
	b := &GaussianBlur{Sigma: 3, Quality: 100}
	PrepareEffect(b, matrix.Identity)
	got := EffectRegion(b, bbox)
	if !got.In(image.Rect(0, 0, 30, 30)) || got.Dx() <= bbox.Dx() {
		t.Errorf("blur region = %v", got)
	}
	if PrepareEffect(nil, matrix.Identity) {
		t.Error("PrepareEffect(nil) = true")
	}
}

func TestBlurGroup(t *testing.T) {
	for _, threads := range []int{1, 4} {
		r := newTestRenderer(t, 40, 40, WithThreads(threads))
		drawWithEffect(t, r, fillShape(rectPath(15, 15, 10, 10), red), &GaussianBlur{Sigma: 2, Quality: 100}, false)
		if a := channels(r.at(13, 20)).A; a == 0 {
			t.Errorf("threads=%d: blur did not spread past the edge", threads)
		}
		if a := channels(r.at(20, 20)).A; a < 240 {
			t.Errorf("threads=%d: center alpha %d", threads, a)
		}
		if r.at(2, 2) != 0 {
			t.Errorf("threads=%d: blur reached far corner", threads)
		}
	}
}

func TestShadowGroup(t *testing.T) {
	r := newTestRenderer(t, 40, 40)
	sh := &DropShadow{Color: [4]uint8{0, 0, 0, 255}, Angle: 180, Distance: 6, Sigma: 2, Quality: 100}
	drawWithEffect(t, r, fillShape(rectPath(10, 10, 10, 10), red), sh, false)
	if r.at(15, 15) != abgr(red) {
		t.Errorf("body pixel = %#x", r.at(15, 15))
	}
	// angle 180 casts downwards
	below := channels(r.at(15, 23))
	if below.A < 200 || below.R != 0 {
		t.Errorf("shadow pixel = %+v", below)
	}
	if r.at(15, 7) != 0 {
		t.Error("shadow cast upwards")
	}
}

func TestDirectTint(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	fillSurface(r, black)
	tint := &Tint{Black: [3]uint8{0, 0, 0}, White: [3]uint8{0, 0, 255}, Intensity: 255}
	c := drawWithEffect(t, r, fillShape(rectPath(0, 0, 10, 10), Color{R: 255, G: 255, B: 255, A: 255}), tint, true)
	if c.State() != Resolved {
		t.Errorf("state = %v", c.State())
	}
	if got := channels(r.at(5, 5)); !nearColor(got, blue, 1) {
		t.Errorf("tinted white = %+v, want blue", got)
	}
}

func TestDirectEffectState(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	c, _ := r.OpenCompositor(r.Bounds())
	draw(t, r, fillShape(rectPath(0, 0, 10, 10), red))
	r.BeginComposite(c, CompositeNone, 255)
	f := &FillEffect{Color: [4]uint8{0, 255, 0, 255}}
	if ok, err := r.Effect(c, f, true); !ok || err != nil {
		t.Fatalf("Effect() = %v, %v", ok, err)
	}
	if c.State() != Direct {
		t.Errorf("state = %v, want Direct", c.State())
	}
	if r.at(3, 3) != abgr(green) {
		t.Errorf("parent pixel = %#x, want green", r.at(3, 3))
	}
	if err := r.EndComposite(c); err != nil {
		t.Fatal(err)
	}
	// the red content was never merged
	if r.at(3, 3) != abgr(green) {
		t.Errorf("after EndComposite = %#x", r.at(3, 3))
	}
}

func TestTritoneGroup(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	tt := &Tritone{Shadow: [3]uint8{255, 0, 0}, Midtone: [3]uint8{0, 255, 0}, Highlight: [3]uint8{0, 0, 255}}
	drawWithEffect(t, r, fillShape(rectPath(0, 0, 10, 10), black), tt, false)
	if got := channels(r.at(5, 5)); !nearColor(got, red, 1) {
		t.Errorf("black through tritone = %+v, want the shadow color", got)
	}
}

func TestEffectErrors(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	c, _ := r.OpenCompositor(r.Bounds())
	if _, err := r.Effect(nil, &Tint{}, false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil compositor: err = %v", err)
	}
	if _, err := r.Effect(c, nil, false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil effect: err = %v", err)
	}
	blur := &GaussianBlur{}
	PrepareEffect(blur, matrix.Identity)
	if ok, err := r.Effect(c, blur, false); ok || err != nil {
		t.Errorf("zero sigma blur = %v, %v", ok, err)
	}
	_ = r.EndComposite(c)
	if _, err := r.Effect(c, &Tint{}, false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ended compositor: err = %v", err)
	}
}

func TestEffectSkippedWithoutAlpha(t *testing.T) {
	buf := make([]uint16, 100)
	s, err := NewSurface16(buf, 10, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer[uint16]()
	defer r.Close()
	if err := r.Target(s); err != nil {
		t.Fatal(err)
	}
	c, err := r.OpenCompositor(r.Bounds())
	if err != nil {
		t.Fatal(err)
	}
	b := &GaussianBlur{Sigma: 2, Quality: 50}
	PrepareEffect(b, matrix.Identity)
	if ok, err := r.Effect(c, b, false); ok || err != nil {
		t.Errorf("Effect on RGB565 = %v, %v, want skipped", ok, err)
	}
	_ = r.EndComposite(c)
}

func TestEffectRegionOneDirection(t *testing.T) {
	b := &GaussianBlur{Sigma: 3, Quality: 100, Direction: BlurHorizontal}
	PrepareEffect(b, matrix.Identity)
	bbox := image.Rect(10, 10, 20, 20)
	got := EffectRegion(b, bbox)
	if got.Min.Y != 10 || got.Max.Y != 20 || got.Min.X >= 10 || got.Max.X <= 20 {
		t.Errorf("horizontal blur region = %v", got)
	}
}

package fixed

import (
	"testing"

	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		a1, a2 Angle
		want   Angle
	}{
		{"zero", 0, 0, 0},
		{"quarter", 0, AnglePi2, AnglePi2},
		{"negative quarter", AnglePi2, 0, -AnglePi2},
		{"wraps forward", 350 << 16, 10 << 16, 20 << 16},
		{"wraps backward", 10 << 16, 350 << 16, -(20 << 16)},
		{"half turn is positive", 0, AnglePi, AnglePi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diff(tt.a1, tt.a2); got != tt.want {
				t.Errorf("Diff(%d, %d) = %d, want %d", tt.a1, tt.a2, got, tt.want)
			}
		})
	}
}

func TestAtanAxes(t *testing.T) {
	tests := []struct {
		pt   fixed.Point26_6
		want Angle
	}{
		{fixed.Point26_6{X: 64}, 0},
		{fixed.Point26_6{Y: 64}, AnglePi2},
		{fixed.Point26_6{X: -64}, AnglePi},
		{fixed.Point26_6{Y: -64}, -AnglePi2},
	}
	for _, tt := range tests {
		got := Atan(tt.pt)
		if d := got - tt.want; d < -64 || d > 64 {
			t.Errorf("Atan(%v) = %d, want %d", tt.pt, got, tt.want)
		}
	}
	if Atan(fixed.Point26_6{}) != 0 {
		t.Error("Atan of the zero vector should be 0")
	}
}

func TestPolarLength(t *testing.T) {
	for _, a := range []Angle{0, AnglePi4, AnglePi2, 3 * AnglePi4, AnglePi} {
		v := Polar(640, a)
		if l := Length(v); l < 638 || l > 642 {
			t.Errorf("Length(Polar(640, %d)) = %d, want ~640", a, l)
		}
	}
}

func TestRotateQuarter(t *testing.T) {
	got := Rotate(fixed.Point26_6{X: 640}, AnglePi2)
	if Abs(got.X) > 1 || got.Y < 639 || got.Y > 641 {
		t.Errorf("Rotate = %v, want (0, 640)", got)
	}
}

func TestMultiplyDivide(t *testing.T) {
	if got := Multiply(3<<16, 2<<16); got != 6<<16 {
		t.Errorf("Multiply = %d, want %d", got, 6<<16)
	}
	if got := Divide(6<<16, 3<<16); got != 2<<16 {
		t.Errorf("Divide = %d, want %d", got, 2<<16)
	}
	if got := Divide(1, 0); got != 0x7FFFFFFF {
		t.Errorf("Divide by zero = %d, want saturation", got)
	}
	if got := MulDiv(-10, 3, 2); got != -15 {
		t.Errorf("MulDiv = %d, want -15", got)
	}
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		v    float32
		want fixed.Int26_6
	}{
		{0, 0},
		{1.5, 96},
		{0.012, 1},
		{0.007, 0},
		{-0.012, -1},
		{-2.499, -160},
		{-0.007, 0},
	}
	for _, tt := range tests {
		if got := FromFloat(tt.v); got != tt.want {
			t.Errorf("FromFloat(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestSmall(t *testing.T) {
	if !Small(fixed.Point26_6{X: 1, Y: -1}) {
		t.Error("(1,-1) should be small")
	}
	if Small(fixed.Point26_6{X: 2}) {
		t.Error("(2,0) should not be small")
	}
}

func TestInvertConcat(t *testing.T) {
	m := matrix.Matrix{2, 0.5, -1, 3, 10, -4}
	inv, ok := Invert(m)
	if !ok {
		t.Fatal("Invert reported singular matrix")
	}
	id := Concat(m, inv)
	want := matrix.Identity
	for i := range id {
		if d := id[i] - want[i]; d > 1e-9 || d < -1e-9 {
			t.Fatalf("m * inv = %v, want identity", id)
		}
	}
	if _, ok := Invert(matrix.Matrix{1, 2, 2, 4, 0, 0}); ok {
		t.Error("singular matrix should not invert")
	}
}

func TestTransform(t *testing.T) {
	m := matrix.Matrix{2, 0, 0, 2, 1, 1}
	got := Transform(vec.Vec2{X: 3, Y: 4}, m)
	want := fixed.Point26_6{X: 7 * 64, Y: 9 * 64}
	if got != want {
		t.Errorf("Transform = %v, want %v", got, want)
	}
}

func TestFlattenCubicEndsAtTarget(t *testing.T) {
	c := Cubic{
		{X: 0, Y: 0},
		{X: 0, Y: 64 * 50},
		{X: 64 * 50, Y: 64 * 50},
		{X: 64 * 50, Y: 0},
	}
	var pts []fixed.Point26_6
	FlattenCubic(c, 16, func(p fixed.Point26_6) { pts = append(pts, p) })
	if len(pts) < 2 {
		t.Fatalf("expected subdivision, got %d points", len(pts))
	}
	if pts[len(pts)-1] != c[3] {
		t.Errorf("last point = %v, want %v", pts[len(pts)-1], c[3])
	}
}

func TestFlattenCubicTerminatesOnHugeInput(t *testing.T) {
	c := Cubic{
		{X: -1 << 30, Y: 1 << 30},
		{X: 1 << 30, Y: -1 << 30},
		{X: -1 << 30, Y: -1 << 30},
		{X: 1 << 30, Y: 1 << 30},
	}
	n := 0
	FlattenCubic(c, 16, func(fixed.Point26_6) { n++ })
	if n == 0 || n > 1<<MaxSplitDepth {
		t.Errorf("unexpected segment count %d", n)
	}
}

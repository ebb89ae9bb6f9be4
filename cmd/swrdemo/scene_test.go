package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/swraster"
)

func TestLoadExampleScene(t *testing.T) {
	s, err := LoadScene("scene.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 320 || s.Height != 240 || len(s.Shapes) == 0 {
		t.Fatalf("scene = %dx%d with %d shapes", s.Width, s.Height, len(s.Shapes))
	}
	for i := range s.Shapes {
		if _, err := s.Shapes[i].Shape(); err != nil {
			t.Errorf("shape %d: %v", i, err)
		}
	}
	img, err := render(s, 2)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 320 {
		t.Errorf("image bounds = %v", img.Bounds())
	}
}

func TestShapeDefErrors(t *testing.T) {
	tests := []struct {
		name string
		def  ShapeDef
	}{
		{"no geometry", ShapeDef{}},
		{"short transform", ShapeDef{Rect: []float64{0, 0, 1, 1}, Transform: []float64{1, 0}}},
		{"bad spread", ShapeDef{Rect: []float64{0, 0, 1, 1}, Fill: &PaintDef{Linear: []float32{0, 0, 1, 0}, Spread: "mirror"}}},
		{"bad cap", ShapeDef{Rect: []float64{0, 0, 1, 1}, Stroke: &StrokeDef{Width: 1, Cap: "pointy"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.def.Shape(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStrokeDef(t *testing.T) {
	d := ShapeDef{
		Polygon: [][2]float64{{0, 0}, {10, 0}, {5, 8}},
		Stroke:  &StrokeDef{Width: 2, Cap: "round", Join: "bevel", Dash: []float64{3, 1}},
	}
	s, err := d.Shape()
	if err != nil {
		t.Fatal(err)
	}
	st := s.Stroke.Style
	if st.Width != 2 || st.Cap != swraster.CapRound || st.Join != swraster.JoinBevel || len(st.Dash) != 2 {
		t.Errorf("stroke style = %+v", st)
	}
}

func TestLoadSceneRejectsEmptySize(t *testing.T) {
	name := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(name, []byte("width: 0\nheight: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScene(name); err == nil {
		t.Error("zero width accepted")
	}
}

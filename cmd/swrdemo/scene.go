package main

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"github.com/gogpu/swraster"
)

// Scene is the YAML description of a picture.
type Scene struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Background [4]uint8   `yaml:"background"`
	Shapes     []ShapeDef `yaml:"shapes"`
}

// ShapeDef is one drawn shape. Exactly one of Rect, Circle and Polygon
// gives the geometry.
type ShapeDef struct {
	Rect      []float64    `yaml:"rect"`    // x, y, w, h
	Circle    []float64    `yaml:"circle"`  // cx, cy, r
	Polygon   [][2]float64 `yaml:"polygon"` // closed
	Transform []float64    `yaml:"transform"`
	EvenOdd   bool         `yaml:"evenOdd"`

	Fill   *PaintDef  `yaml:"fill"`
	Stroke *StrokeDef `yaml:"stroke"`

	Opacity *uint8 `yaml:"opacity"`
	Blend   string `yaml:"blend"`

	Blur   float32    `yaml:"blur"`
	Shadow *ShadowDef `yaml:"shadow"`

	Mask       *ShapeDef `yaml:"mask"`
	MaskMethod string    `yaml:"maskMethod"`
}

// PaintDef is a solid color or a gradient.
type PaintDef struct {
	Color  [4]uint8  `yaml:"color"`
	Linear []float32 `yaml:"linear"` // x1, y1, x2, y2
	Radial []float32 `yaml:"radial"` // cx, cy, r
	Stops  []StopDef `yaml:"stops"`
	Spread string    `yaml:"spread"`
}

// StopDef is a gradient stop.
type StopDef struct {
	Offset float32  `yaml:"offset"`
	Color  [4]uint8 `yaml:"color"`
}

// StrokeDef is a stroke style and paint.
type StrokeDef struct {
	PaintDef   `yaml:",inline"`
	Width      float64   `yaml:"width"`
	Cap        string    `yaml:"cap"`
	Join       string    `yaml:"join"`
	MiterLimit float64   `yaml:"miterLimit"`
	Dash       []float64 `yaml:"dash"`
	DashOffset float64   `yaml:"dashOffset"`
}

// ShadowDef is a drop shadow.
type ShadowDef struct {
	Color    [4]uint8 `yaml:"color"`
	Angle    float32  `yaml:"angle"`
	Distance float32  `yaml:"distance"`
	Sigma    float32  `yaml:"sigma"`
}

// LoadScene reads a scene file.
func LoadScene(name string) (*Scene, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%s: scene size %dx%d", name, s.Width, s.Height)
	}
	return &s, nil
}

func (d *ShapeDef) path() (*path.Data, error) {
	p := &path.Data{}
	switch {
	case len(d.Rect) == 4:
		x, y, w, h := d.Rect[0], d.Rect[1], d.Rect[2], d.Rect[3]
		p.MoveTo(vec.Vec2{X: x, Y: y}).
			LineTo(vec.Vec2{X: x + w, Y: y}).
			LineTo(vec.Vec2{X: x + w, Y: y + h}).
			LineTo(vec.Vec2{X: x, Y: y + h}).
			Close()
	case len(d.Circle) == 3:
		circle(p, d.Circle[0], d.Circle[1], d.Circle[2])
	case len(d.Polygon) >= 2:
		p.MoveTo(vec.Vec2{X: d.Polygon[0][0], Y: d.Polygon[0][1]})
		for _, q := range d.Polygon[1:] {
			p.LineTo(vec.Vec2{X: q[0], Y: q[1]})
		}
		p.Close()
	default:
		return nil, fmt.Errorf("shape has no geometry")
	}
	return p, nil
}

// circle appends a circle made of four cubic arcs.
func circle(p *path.Data, cx, cy, r float64) {
	k := r * 4 * (math.Sqrt2 - 1) / 3
	p.MoveTo(vec.Vec2{X: cx + r, Y: cy}).
		CubeTo(vec.Vec2{X: cx + r, Y: cy + k}, vec.Vec2{X: cx + k, Y: cy + r}, vec.Vec2{X: cx, Y: cy + r}).
		CubeTo(vec.Vec2{X: cx - k, Y: cy + r}, vec.Vec2{X: cx - r, Y: cy + k}, vec.Vec2{X: cx - r, Y: cy}).
		CubeTo(vec.Vec2{X: cx - r, Y: cy - k}, vec.Vec2{X: cx - k, Y: cy - r}, vec.Vec2{X: cx, Y: cy - r}).
		CubeTo(vec.Vec2{X: cx + k, Y: cy - r}, vec.Vec2{X: cx + r, Y: cy - k}, vec.Vec2{X: cx + r, Y: cy}).
		Close()
}

func (d *ShapeDef) transform() (matrix.Matrix, error) {
	switch len(d.Transform) {
	case 0:
		return matrix.Identity, nil
	case 6:
		var m matrix.Matrix
		copy(m[:], d.Transform)
		return m, nil
	}
	return matrix.Identity, fmt.Errorf("transform needs 6 values, got %d", len(d.Transform))
}

func (d *ShapeDef) opacity() uint8 {
	if d.Opacity == nil {
		return 255
	}
	return *d.Opacity
}

// Shape converts the definition for the renderer.
func (d *ShapeDef) Shape() (*swraster.Shape, error) {
	p, err := d.path()
	if err != nil {
		return nil, err
	}
	m, err := d.transform()
	if err != nil {
		return nil, err
	}
	s := &swraster.Shape{Path: p, Transform: m, FillRule: swraster.NonZero}
	if d.EvenOdd {
		s.FillRule = swraster.EvenOdd
	}
	if d.Fill != nil {
		if s.Fill, err = d.Fill.paint(); err != nil {
			return nil, err
		}
	}
	if d.Stroke != nil {
		st, err := d.Stroke.stroke()
		if err != nil {
			return nil, err
		}
		s.Stroke = st
	}
	return s, nil
}

func (d *PaintDef) paint() (*swraster.Paint, error) {
	c := swraster.RGBA(d.Color[0], d.Color[1], d.Color[2], d.Color[3])
	stops := make([]swraster.Stop, len(d.Stops))
	for i, s := range d.Stops {
		stops[i] = swraster.Stop{Offset: s.Offset, R: s.Color[0], G: s.Color[1], B: s.Color[2], A: s.Color[3]}
	}
	var g *swraster.Gradient
	switch {
	case len(d.Linear) == 4:
		g = swraster.NewLinearGradient(d.Linear[0], d.Linear[1], d.Linear[2], d.Linear[3], stops...)
	case len(d.Radial) == 3:
		g = swraster.NewRadialGradient(d.Radial[0], d.Radial[1], d.Radial[2], stops...)
	case len(d.Linear) != 0 || len(d.Radial) != 0:
		return nil, fmt.Errorf("gradient geometry: linear needs 4 values, radial 3")
	default:
		return swraster.Solid(c), nil
	}
	switch d.Spread {
	case "", "pad":
		g.Spread = swraster.SpreadPad
	case "repeat":
		g.Spread = swraster.SpreadRepeat
	case "reflect":
		g.Spread = swraster.SpreadReflect
	default:
		return nil, fmt.Errorf("unknown spread %q", d.Spread)
	}
	return &swraster.Paint{Gradient: g}, nil
}

var (
	caps = map[string]graphics.LineCapStyle{
		"butt": swraster.CapButt, "round": swraster.CapRound, "square": swraster.CapSquare,
	}
	joins = map[string]graphics.LineJoinStyle{
		"miter": swraster.JoinMiter, "round": swraster.JoinRound, "bevel": swraster.JoinBevel,
	}
)

func (d *StrokeDef) stroke() (*swraster.Stroke, error) {
	p, err := d.paint()
	if err != nil {
		return nil, err
	}
	st := swraster.DefaultStrokeStyle()
	st.Width = d.Width
	st.Dash = d.Dash
	st.DashOffset = d.DashOffset
	if d.MiterLimit > 0 {
		st.MiterLimit = d.MiterLimit
	}
	if d.Cap != "" {
		c, ok := caps[d.Cap]
		if !ok {
			return nil, fmt.Errorf("unknown cap %q", d.Cap)
		}
		st.Cap = c
	}
	if d.Join != "" {
		j, ok := joins[d.Join]
		if !ok {
			return nil, fmt.Errorf("unknown join %q", d.Join)
		}
		st.Join = j
	}
	return &swraster.Stroke{Style: st, Paint: *p}, nil
}

var maskMethods = map[string]swraster.CompositeMethod{
	"":         swraster.CompositeAlphaMask,
	"alpha":    swraster.CompositeAlphaMask,
	"invAlpha": swraster.CompositeInvAlphaMask,
	"luma":     swraster.CompositeLumaMask,
	"invLuma":  swraster.CompositeInvLumaMask,
}

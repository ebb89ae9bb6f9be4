package outline

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/gogpu/swraster/internal/fixed"
)

// Build replaces the content of o with the device-space outline of p under
// the transform m. Cubic segments are kept as control-tagged points;
// quadratic segments are elevated to cubics.
func Build(o *Outline, p *path.Data, m matrix.Matrix, rule FillRule) {
	o.Reset()
	o.FillRule = rule
	if p == nil {
		return
	}

	var cur, start vec.Vec2
	reopen := false
	idx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			cur = p.Coords[idx]
			start = cur
			idx++
			o.MoveTo(fixed.Transform(cur, m))
			reopen = false

		case path.CmdLineTo:
			if reopen {
				o.MoveTo(fixed.Transform(cur, m))
				reopen = false
			}
			cur = p.Coords[idx]
			idx++
			o.LineTo(fixed.Transform(cur, m))

		case path.CmdQuadTo:
			if reopen {
				o.MoveTo(fixed.Transform(cur, m))
				reopen = false
			}
			q, end := p.Coords[idx], p.Coords[idx+1]
			idx += 2
			c1 := vec.Vec2{X: cur.X + 2.0/3.0*(q.X-cur.X), Y: cur.Y + 2.0/3.0*(q.Y-cur.Y)}
			c2 := vec.Vec2{X: end.X + 2.0/3.0*(q.X-end.X), Y: end.Y + 2.0/3.0*(q.Y-end.Y)}
			o.CubicTo(fixed.Transform(c1, m), fixed.Transform(c2, m), fixed.Transform(end, m))
			cur = end

		case path.CmdCubeTo:
			if reopen {
				o.MoveTo(fixed.Transform(cur, m))
				reopen = false
			}
			c1, c2, end := p.Coords[idx], p.Coords[idx+1], p.Coords[idx+2]
			idx += 3
			o.CubicTo(fixed.Transform(c1, m), fixed.Transform(c2, m), fixed.Transform(end, m))
			cur = end

		case path.CmdClose:
			o.Close()
			cur = start
			reopen = true
		}
	}
	o.End()
}

// BuildRect replaces the content of o with the closed quad of the w×h
// rectangle at the origin under m. It is the clip outline of a
// transformed image.
func BuildRect(o *Outline, w, h float64, m matrix.Matrix) {
	o.Reset()
	o.MoveTo(fixed.Transform(vec.Vec2{X: 0, Y: 0}, m))
	o.LineTo(fixed.Transform(vec.Vec2{X: w, Y: 0}, m))
	o.LineTo(fixed.Transform(vec.Vec2{X: w, Y: h}, m))
	o.LineTo(fixed.Transform(vec.Vec2{X: 0, Y: h}, m))
	o.Close()
}

package swraster

import (
	"fmt"
	"image"
	"log/slog"

	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/swraster/internal/filter"
)

// Effect is a post effect applied to the content of a compositor.
type Effect interface {
	// Update resolves the effect under the scene transform. It reports
	// false when the effect has no visible result.
	Update(m matrix.Matrix) bool
	// Region returns how far the effect reaches past the content, as
	// offsets from the content bounds.
	Region() image.Rectangle
}

// Post effects.
type (
	GaussianBlur = filter.GaussianBlur
	DropShadow   = filter.DropShadow
	FillEffect   = filter.Fill
	Tint         = filter.Tint
	Tritone      = filter.Tritone
)

// Blur directions.
const (
	BlurBoth       = filter.BothDirections
	BlurHorizontal = filter.Horizontal
	BlurVertical   = filter.Vertical
)

// Blur border modes.
const (
	BorderExtend = filter.Extend
	BorderWrap   = filter.Wrap
)

// PrepareEffect updates e for the transform m.
func PrepareEffect(e Effect, m matrix.Matrix) bool {
	if e == nil {
		return false
	}
	return e.Update(m)
}

// EffectRegion grows bbox by the reach of a prepared effect. The result
// is the region a compositor needs for the effect to be unclipped.
func EffectRegion(e Effect, bbox image.Rectangle) image.Rectangle {
	if e == nil {
		return bbox
	}
	g := e.Region()
	if g == (image.Rectangle{}) {
		return bbox
	}
	return image.Rect(bbox.Min.X+g.Min.X, bbox.Min.Y+g.Min.Y, bbox.Max.X+g.Max.X, bbox.Max.Y+g.Max.Y)
}

// Effect applies a prepared effect to the content of c, which must be
// open and not yet ended. With direct set, effects that can do so blend
// their result straight into the parent canvas at the compositor
// opacity; c then reports the Direct state and EndComposite skips the
// merge. It reports whether the effect was applied.
//
// Effects need a format with alpha; on others they are skipped.
func (r *Renderer[P]) Effect(c *Compositor[P], e Effect, direct bool) (bool, error) {
	if r.surface == nil {
		return false, ErrNoTarget
	}
	if c == nil || e == nil {
		return false, ErrInvalidArgument
	}
	if c.state != Opened {
		return false, fmt.Errorf("swraster: effect on %s compositor: %w", c.state, ErrInvalidArgument)
	}
	if !r.ops.HasAlpha {
		Logger().Warn("effect skipped", slog.String("format", r.ops.Format.String()))
		return false, nil
	}
	region := c.bbox
	if region.Empty() {
		return false, nil
	}
	// a masked parent must see the merged content through its mask
	direct = direct && c.recover.mask == nil
	img := filter.Image[P]{Pix: c.image, Stride: c.stride}
	parent := filter.Image[P]{Pix: c.recover.buf, Stride: c.recover.stride}

	var resolved bool
	switch e := e.(type) {
	case *GaussianBlur:
		if !e.Valid() {
			return false, nil
		}
		filter.Blur(r.ops, img, region, e, &r.scratch)
	case *DropShadow:
		if !e.Valid() {
			return false, nil
		}
		filter.Shadow(r.ops, img, parent, region, e, c.opacity, direct, &r.scratch)
	case *FillEffect:
		resolved = filter.ApplyFill(r.ops, img, parent, region, e, c.opacity, direct)
	case *Tint:
		resolved = filter.ApplyTint(r.ops, img, parent, region, e, c.opacity, direct)
	case *Tritone:
		resolved = filter.ApplyTritone(r.ops, img, parent, region, e, c.opacity, direct)
	default:
		return false, fmt.Errorf("swraster: unsupported effect %T: %w", e, ErrInvalidArgument)
	}
	if resolved {
		c.state = Direct
	}
	Logger().Debug("effect",
		slog.String("type", fmt.Sprintf("%T", e)),
		slog.Any("region", region),
		slog.Bool("direct", resolved))
	return true, nil
}

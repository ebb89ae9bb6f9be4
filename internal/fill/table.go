package fill

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/swraster/internal/pixel"
)

// spreadT maps t into [0, 1] under the spread policy.
func (f *Fill[P]) spreadT(t float32) float32 {
	if t != t {
		return 0
	}
	switch f.spread {
	case Repeat:
		t -= math32.Floor(t)
	case Reflect:
		t = math32.Mod(math32.Abs(t), 2)
		if t > 1 {
			t = 2 - t
		}
	default:
		t = min(max(t, 0), 1)
	}
	return t
}

// index maps t to a color table entry under the spread policy.
func (f *Fill[P]) index(t float32) int {
	if t != t {
		return 0
	}
	// keep the conversion in range before the spread arithmetic
	t = min(max(t, -1<<20), 1<<20)
	pos := int(math32.Floor(t*(TableSize-1) + 0.5))
	switch f.spread {
	case Repeat:
		pos %= TableSize
		if pos < 0 {
			pos += TableSize
		}
	case Reflect:
		limit := TableSize * 2
		pos %= limit
		if pos < 0 {
			pos += limit
		}
		if pos >= TableSize {
			pos = limit - pos - 1
		}
	default:
		pos = min(max(pos, 0), TableSize-1)
	}
	return pos
}

// buildTable fills the color table, through cache when one is given.
func (f *Fill[P]) buildTable(cache *RampCache[P]) {
	if cache != nil {
		if r, ok := cache.Get(f.stops, f.opacity); ok {
			f.ctable, f.alpha = r.colors, r.alpha
			return
		}
	}
	for i := range TableSize {
		cr, cg, cb, ca := colorAt(f.stops, float32(i)/(TableSize-1))
		f.ctable[i], f.alpha[i] = f.ops.Color(cr, cg, cb, pixel.Mul(ca, f.opacity))
	}
	if cache != nil {
		cache.Put(f.stops, f.opacity, &ramp[P]{colors: f.ctable, alpha: f.alpha})
	}
}

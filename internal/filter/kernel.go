package filter

import "github.com/chewxy/math32"

// maxLevel is the longest box cascade.
const maxLevel = 3

// boxCascade holds the half widths of the box filters approximating one
// Gaussian.
type boxCascade struct {
	level   int
	kernel  [maxLevel]int
	extends int
}

// init computes the box sizes for the given variance. Quality in [1, 100]
// selects how many of the boxes are applied. It returns the total half
// width; zero means the blur has no effect.
func (c *boxCascade) init(variance float32, quality int) int {
	*c = boxCascade{}
	if variance < 1e-6 {
		return 0
	}
	quality = min(max(quality, 1), 100)
	c.level = int(maxLevel*(float32(quality-1)*0.01)) + 1

	// ideal averaging filter width for n boxes: sqrt(12*var/n + 1)
	n := float32(maxLevel)
	wl := int(math32.Sqrt(12*variance/n + 1))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2
	fwl := float32(wl)
	mi := (12*variance - n*fwl*fwl - 4*n*fwl - 3*n) / (-4*fwl - 4)
	m := int(mi + 0.5)

	for i := range c.level {
		w := wu
		if i < m {
			w = wl
		}
		c.kernel[i] = (w - 1) / 2
		c.extends += c.kernel[i]
	}
	return c.extends
}

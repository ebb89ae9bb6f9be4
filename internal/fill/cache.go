package fill

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/gogpu/swraster/internal/pixel"
)

// ramp is a cached color table.
type ramp[P pixel.Pixel] struct {
	colors [TableSize]P
	alpha  [TableSize]uint8
}

type rampEntry[P pixel.Pixel] struct {
	value *ramp[P]
	atime int64
}

// RampCache keeps color tables keyed by their stops and opacity, so shapes
// sharing a gradient build the table once. Oldest entries are evicted when
// the soft limit is exceeded.
//
// RampCache is safe for concurrent use and must not be copied.
type RampCache[P pixel.Pixel] struct {
	mu        sync.Mutex
	entries   map[string]*rampEntry[P]
	softLimit int
	tick      int64

	hits, misses uint64
	key          []byte
}

// NewRampCache creates a cache holding about softLimit tables. A softLimit
// of 0 means unlimited.
func NewRampCache[P pixel.Pixel](softLimit int) *RampCache[P] {
	return &RampCache[P]{
		entries:   make(map[string]*rampEntry[P]),
		softLimit: softLimit,
	}
}

// Get returns the table for stops at opacity.
func (c *RampCache[P]) Get(stops []Stop, opacity uint8) (*ramp[P], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[string(c.makeKey(stops, opacity))]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.tick++
	e.atime = c.tick
	return e.value, true
}

// Put stores r for stops at opacity.
func (c *RampCache[P]) Put(stops []Stop, opacity uint8, r *ramp[P]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[string(c.makeKey(stops, opacity))] = &rampEntry[P]{value: r, atime: c.tick}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
}

// Len returns the number of cached tables.
func (c *RampCache[P]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the number of hits and misses so far.
func (c *RampCache[P]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear drops every table.
func (c *RampCache[P]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*rampEntry[P])
	c.tick = 0
}

// makeKey encodes stops and opacity into the scratch key. Caller must hold
// c.mu.
func (c *RampCache[P]) makeKey(stops []Stop, opacity uint8) []byte {
	k := c.key[:0]
	k = append(k, opacity)
	for _, s := range stops {
		k = binary.LittleEndian.AppendUint32(k, math.Float32bits(s.Offset))
		k = append(k, s.R, s.G, s.B, s.A)
	}
	c.key = k
	return k
}

// evictOldest removes the least recently used quarter. Caller must hold
// c.mu.
func (c *RampCache[P]) evictOldest() {
	target := max(c.softLimit*3/4, 1)
	for len(c.entries) > target {
		var oldest string
		var atime int64 = math.MaxInt64
		for k, e := range c.entries {
			if e.atime < atime {
				oldest, atime = k, e.atime
			}
		}
		delete(c.entries, oldest)
	}
}

// Package mpool keeps per-worker outline buffers so that concurrent tile
// rendering reuses the same storage frame after frame without locking.
//
// Each worker owns one slot, addressed by its thread id. A slot holds one
// outline for each purpose: shape fill, stroke result and dash result.
// Releasing an outline resets it but keeps its backing arrays.
package mpool

import (
	"fmt"

	"github.com/gogpu/swraster/internal/outline"
)

type slot struct {
	fill   *outline.Outline
	stroke *outline.Outline
	dash   *outline.Outline
}

// Pool is a fixed-capacity array of per-thread outline slots.
//
// Thread safety: distinct thread ids may be used concurrently; a single
// thread id must not.
type Pool struct {
	slots []slot
}

// New creates a pool with one slot per worker thread. threads < 1 is
// treated as 1.
func New(threads int) *Pool {
	if threads < 1 {
		threads = 1
	}
	p := &Pool{slots: make([]slot, threads)}
	for i := range p.slots {
		p.slots[i] = slot{
			fill:   outline.New(),
			stroke: outline.New(),
			dash:   outline.New(),
		}
	}
	return p
}

// Threads returns the slot count.
func (p *Pool) Threads() int {
	return len(p.slots)
}

func (p *Pool) slot(tid int) *slot {
	if tid < 0 || tid >= len(p.slots) {
		panic(fmt.Sprintf("mpool: thread id %d out of range [0,%d)", tid, len(p.slots)))
	}
	s := &p.slots[tid]
	if s.fill == nil {
		panic("mpool: use after Term")
	}
	return s
}

// Outline returns the reset fill outline of thread tid.
func (p *Pool) Outline(tid int) *outline.Outline {
	o := p.slot(tid).fill
	o.Reset()
	return o
}

// ReleaseOutline returns the fill outline of thread tid to the pool.
func (p *Pool) ReleaseOutline(tid int) {
	p.slot(tid).fill.Reset()
}

// StrokeOutline returns the reset stroke outline of thread tid.
func (p *Pool) StrokeOutline(tid int) *outline.Outline {
	o := p.slot(tid).stroke
	o.Reset()
	return o
}

// ReleaseStrokeOutline returns the stroke outline of thread tid to the pool.
func (p *Pool) ReleaseStrokeOutline(tid int) {
	p.slot(tid).stroke.Reset()
}

// DashOutline returns the reset dash outline of thread tid.
func (p *Pool) DashOutline(tid int) *outline.Outline {
	o := p.slot(tid).dash
	o.Reset()
	return o
}

// ReleaseDashOutline returns the dash outline of thread tid to the pool.
func (p *Pool) ReleaseDashOutline(tid int) {
	p.slot(tid).dash.Reset()
}

// Clear resets every slot, keeping storage.
func (p *Pool) Clear() {
	for i := range p.slots {
		s := &p.slots[i]
		if s.fill == nil {
			continue
		}
		s.fill.Reset()
		s.stroke.Reset()
		s.dash.Reset()
	}
}

// Term drops every buffer. The pool must not be used afterwards.
func (p *Pool) Term() {
	for i := range p.slots {
		p.slots[i] = slot{}
	}
}

// Package stats holds the bounded resource pools and attributes shared by
// characters, effects and skillchecks.
package stats

// Pool is a bounded current/max pair.
//
// Invariant: 0 <= Current() <= Max() for any pool with Max() >= 0.
type Pool struct {
	current int
	max     int
}

// NewPool returns a full pool of size max. Negative sizes are clamped to 0.
func NewPool(max int) Pool {
	if max < 0 {
		max = 0
	}
	return Pool{current: max, max: max}
}

// Current returns the pool's current value.
func (p *Pool) Current() int { return p.current }

// Max returns the pool's capacity.
func (p *Pool) Max() int { return p.max }

// Add changes the current value by delta, clamped to [0, Max()], and
// returns the amount actually applied.
func (p *Pool) Add(delta int) int {
	before := p.current
	p.Set(p.current + delta)
	return p.current - before
}

// Set assigns the current value clamped to [0, Max()].
func (p *Pool) Set(v int) {
	switch {
	case v < 0:
		p.current = 0
	case v > p.max:
		p.current = p.max
	default:
		p.current = v
	}
}

// SetMax resizes the pool, clamping the current value into the new bound.
func (p *Pool) SetMax(max int) {
	if max < 0 {
		max = 0
	}
	p.max = max
	p.Set(p.current)
}

// Empty reports whether the pool is exhausted.
func (p *Pool) Empty() bool { return p.current <= 0 }

// Fraction returns Current/Max in [0,1]; 0 for a zero-capacity pool.
func (p *Pool) Fraction() float64 {
	if p.max == 0 {
		return 0
	}
	return float64(p.current) / float64(p.max)
}

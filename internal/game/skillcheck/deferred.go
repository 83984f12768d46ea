package skillcheck

import "sync"

// Deferred is an Oracle that holds requests until an external party, such
// as a UI showing the dice, resolves them.
type Deferred struct {
	mu      sync.Mutex
	pending []deferredCheck
}

type deferredCheck struct {
	req Request
	cb  Callback
}

// NewDeferred returns an empty deferred oracle.
func NewDeferred() *Deferred {
	return &Deferred{}
}

// StartContested queues the request.
func (d *Deferred) StartContested(req Request, cb Callback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, deferredCheck{req: req, cb: cb})
}

// Pending returns the number of unresolved requests.
func (d *Deferred) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Request returns the oldest unresolved request.
func (d *Deferred) Request() (Request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return Request{}, false
	}
	return d.pending[0].req, true
}

// Resolve delivers outcomes for the oldest request. It reports false when
// nothing is pending. The callback runs outside the oracle's lock.
func (d *Deferred) Resolve(hostile, friendly []Outcome) bool {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return false
	}
	next := d.pending[0]
	d.pending = d.pending[1:]
	d.mu.Unlock()
	next.cb(hostile, friendly)
	return true
}

// ResolveAll answers every pending request through inner, oldest first.
func (d *Deferred) ResolveAll(inner Oracle) int {
	n := 0
	for {
		d.mu.Lock()
		if len(d.pending) == 0 {
			d.mu.Unlock()
			return n
		}
		next := d.pending[0]
		d.pending = d.pending[1:]
		d.mu.Unlock()
		inner.StartContested(next.req, next.cb)
		n++
	}
}

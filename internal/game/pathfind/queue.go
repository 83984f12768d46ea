package pathfind

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/corsair/internal/game/grid"
)

// Queue is an integer-bucketed priority queue of cells keyed by
// Cell.SearchPriority. Cells sharing a priority are chained through their
// NextWithSamePriority field, so the queue itself only stores bucket heads.
//
// Invariant: every bucket below minimum is empty.
type Queue struct {
	grid    *grid.Grid
	buckets []grid.CellID
	count   int
	minimum int
}

// NewQueue returns an empty queue over g's cells.
func NewQueue(g *grid.Grid) *Queue {
	return &Queue{grid: g, minimum: math.MaxInt}
}

// Count returns the number of queued cells.
func (q *Queue) Count() int { return q.count }

// Enqueue adds c at its current search priority.
//
// Precondition: c.SearchPriority() >= 0 and c is not already queued.
func (q *Queue) Enqueue(c *grid.Cell) {
	p := c.SearchPriority()
	if p < 0 {
		panic(fmt.Sprintf("pathfind.Queue.Enqueue: negative priority %d", p))
	}
	q.count++
	if p < q.minimum {
		q.minimum = p
	}
	for p >= len(q.buckets) {
		q.buckets = append(q.buckets, grid.NoCell)
	}
	c.NextWithSamePriority = q.buckets[p]
	q.buckets[p] = c.ID()
}

// Dequeue removes and returns a cell of the lowest priority, or nil when
// the queue is empty.
func (q *Queue) Dequeue() *grid.Cell {
	if q.count == 0 {
		return nil
	}
	q.count--
	for ; q.minimum < len(q.buckets); q.minimum++ {
		if id := q.buckets[q.minimum]; id != grid.NoCell {
			c := q.grid.Cell(id)
			q.buckets[q.minimum] = c.NextWithSamePriority
			c.NextWithSamePriority = grid.NoCell
			return c
		}
	}
	return nil
}

// Change moves c from the bucket for oldPriority to its current priority.
//
// Precondition: c was enqueued with oldPriority and has not been dequeued.
func (q *Queue) Change(c *grid.Cell, oldPriority int) {
	if oldPriority < 0 || oldPriority >= len(q.buckets) {
		panic(fmt.Sprintf("pathfind.Queue.Change: priority %d out of range", oldPriority))
	}
	head := q.buckets[oldPriority]
	if head == c.ID() {
		q.buckets[oldPriority] = c.NextWithSamePriority
	} else {
		current := q.grid.Cell(head)
		for current != nil && current.NextWithSamePriority != c.ID() {
			current = q.grid.Cell(current.NextWithSamePriority)
		}
		if current == nil {
			panic(fmt.Sprintf("pathfind.Queue.Change: cell %v not in bucket %d", c.Coordinate(), oldPriority))
		}
		current.NextWithSamePriority = c.NextWithSamePriority
	}
	q.Enqueue(c)
	q.count--
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.buckets = q.buckets[:0]
	q.count = 0
	q.minimum = math.MaxInt
}

package combat

import "slices"

// DefaultLogLimit is how many messages a combat log keeps.
const DefaultLogLimit = 6

// Log keeps the most recent combat messages, oldest first.
type Log struct {
	limit int
	lines []string
}

// NewLog returns an empty log holding at most limit lines. A non-positive
// limit selects DefaultLogLimit.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return &Log{limit: limit}
}

// Add appends line, dropping the oldest line once the log is full.
func (l *Log) Add(line string) {
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.limit; over > 0 {
		l.lines = slices.Delete(l.lines, 0, over)
	}
}

// Lines returns the retained lines, oldest first.
func (l *Log) Lines() []string { return slices.Clone(l.lines) }

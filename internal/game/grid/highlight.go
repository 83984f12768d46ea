package grid

import "github.com/cory-johannsen/corsair/internal/game/hex"

// HighlightKind names the purpose of a cell highlight.
type HighlightKind int

const (
	HighlightActiveCell HighlightKind = iota
	HighlightTarget
	HighlightPathfindingEnd
	HighlightAbilityAffected
	HighlightValidMove
	HighlightValidCombat
	HighlightPathStep
)

var highlightNames = map[HighlightKind]string{
	HighlightActiveCell:      "active_cell",
	HighlightTarget:          "target",
	HighlightPathfindingEnd:  "pathfinding_end",
	HighlightAbilityAffected: "ability_affected",
	HighlightValidMove:       "valid_move",
	HighlightValidCombat:     "valid_combat",
	HighlightPathStep:        "path_step",
}

func (k HighlightKind) String() string {
	if n, ok := highlightNames[k]; ok {
		return n
	}
	return "unknown"
}

// HighlightSink receives purely visual cell decorations. Nothing it does
// feeds back into simulation state.
type HighlightSink interface {
	ShowHighlight(at hex.Coordinate, kind HighlightKind)
	ClearHighlights()
}

// NopHighlighter discards every highlight.
type NopHighlighter struct{}

func (NopHighlighter) ShowHighlight(hex.Coordinate, HighlightKind) {}
func (NopHighlighter) ClearHighlights()                            {}

// Recorder keeps the highlights shown since the last clear.
type Recorder struct {
	Marks  map[hex.Coordinate][]HighlightKind
	Clears int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Marks: make(map[hex.Coordinate][]HighlightKind)}
}

func (r *Recorder) ShowHighlight(at hex.Coordinate, kind HighlightKind) {
	r.Marks[at] = append(r.Marks[at], kind)
}

func (r *Recorder) ClearHighlights() {
	r.Marks = make(map[hex.Coordinate][]HighlightKind)
	r.Clears++
}

// Has reports whether at currently carries a highlight of kind.
func (r *Recorder) Has(at hex.Coordinate, kind HighlightKind) bool {
	for _, k := range r.Marks[at] {
		if k == kind {
			return true
		}
	}
	return false
}

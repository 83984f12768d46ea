// Package dice provides the randomness source behind skillchecks and the
// roll results the combat log and debug logging report.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Source draws the integers behind every die. Implementations are safe
// for concurrent use.
type Source interface {
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// RollResult is one evaluated expression: the faces rolled and the flat
// modifier added to them.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Sum adds the faces without the modifier.
func (r RollResult) Sum() int {
	sum := 0
	for _, face := range r.Dice {
		sum += face
	}
	return sum
}

// Total is Sum plus Modifier.
func (r RollResult) Total() int { return r.Sum() + r.Modifier }

// String renders the roll as "2d6+3: 4+5+3 = 12" or "1d4-1: 2-1 = 1".
func (r RollResult) String() string {
	faces := make([]string, len(r.Dice))
	for i, face := range r.Dice {
		faces[i] = strconv.Itoa(face)
	}
	sum := strings.Join(faces, "+")
	switch {
	case r.Modifier != 0 && sum != "":
		sum += fmt.Sprintf("%+d", r.Modifier)
	case sum == "":
		sum = strconv.Itoa(r.Modifier)
	}
	return fmt.Sprintf("%s: %s = %d", r.Expression, sum, r.Total())
}

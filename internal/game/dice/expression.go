package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed "NdS+M" dice expression.
//
// Invariant: Count >= 1 and Sides >= 2 for expressions returned by Parse.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Parse accepts "d20", "3d6", "2d8+2" and "1d4-1" (case-insensitive).
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	countPart, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice.Parse: %q: missing 'd'", expr)
	}

	count := 1
	if countPart != "" {
		n, err := strconv.Atoi(countPart)
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice.Parse: %q: invalid die count", expr)
		}
		count = n
	}

	sidesPart, modPart := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesPart, modPart = rest[:i], rest[i:]
	}
	sides, err := strconv.Atoi(sidesPart)
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice.Parse: %q: invalid die sides", expr)
	}

	mod := 0
	if modPart != "" {
		if mod, err = strconv.Atoi(modPart); err != nil {
			return Expression{}, fmt.Errorf("dice.Parse: %q: invalid modifier: %w", expr, err)
		}
	}
	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: mod}, nil
}

// MustParse is Parse for expressions known at compile time.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// Roll evaluates e against src.
//
// Postcondition: len(result.Dice) == e.Count and each die is in [1, e.Sides].
func (e Expression) Roll(src Source) RollResult {
	rolled := make([]int, e.Count)
	for i := range rolled {
		rolled[i] = src.Intn(e.Sides) + 1
	}
	return RollResult{Expression: e.Raw, Dice: rolled, Modifier: e.Modifier}
}

// Package hex provides coordinate math for a row-staggered hexagonal grid.
//
// Coordinates are stored in axial form (X, Y) where Y is the row; the third
// cube component Z is derived so that X+Y+Z == 0 always holds.
package hex

import (
	"fmt"
	"math"
)

// OuterRadius is the distance from a cell centre to any of its corners in
// world units.
const OuterRadius = 10.0

// InnerRadius is the distance from a cell centre to the middle of any edge.
const InnerRadius = OuterRadius * 0.866025404

// Coordinate is an immutable axial hex coordinate.
type Coordinate struct {
	X int
	Y int
}

// Point is a position in the flat world plane the grid is laid out on.
type Point struct {
	X float64
	Y float64
}

// New returns the coordinate with axial components x and y.
func New(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// Z returns the derived third cube component.
//
// Postcondition: c.X + c.Y + c.Z() == 0.
func (c Coordinate) Z() int {
	return -c.X - c.Y
}

// Add returns c moved by delta.
func (c Coordinate) Add(delta Coordinate) Coordinate {
	return Coordinate{X: c.X + delta.X, Y: c.Y + delta.Y}
}

// Sub returns the offset that moves other onto c.
func (c Coordinate) Sub(other Coordinate) Coordinate {
	return Coordinate{X: c.X - other.X, Y: c.Y - other.Y}
}

// Step returns the neighbouring coordinate in direction d.
func (c Coordinate) Step(d Direction) Coordinate {
	return c.Add(d.Delta())
}

// DistanceTo returns the number of single-cell steps between c and other.
//
// Postcondition: result == max(|dx|, |dy|, |dz|) and is symmetric.
func (c Coordinate) DistanceTo(other Coordinate) int {
	d := c.Sub(other)
	return max(abs(d.X), abs(d.Y), abs(d.Z()))
}

// DirectionTo returns the direction of other when it lies on one of the six
// straight lines through c, and false otherwise (including other == c).
func (c Coordinate) DirectionTo(other Coordinate) (Direction, bool) {
	d := other.Sub(c)
	n := max(abs(d.X), abs(d.Y), abs(d.Z()))
	if n == 0 {
		return 0, false
	}
	for _, dir := range Directions {
		delta := dir.Delta()
		if delta.X*n == d.X && delta.Y*n == d.Y {
			return dir, true
		}
	}
	return 0, false
}

// FromOffset converts storage (column, row) indices to an axial coordinate.
//
// Odd rows are shifted half a cell east of even rows.
func FromOffset(col, row int) Coordinate {
	return Coordinate{X: col - floorDiv(row, 2), Y: row}
}

// ToOffset converts c back to storage (column, row) indices.
//
// Postcondition: FromOffset(c.ToOffset()) == c.
func (c Coordinate) ToOffset() (col, row int) {
	return c.X + floorDiv(c.Y, 2), c.Y
}

// Position returns the world-plane centre of the cell at c.
func (c Coordinate) Position() Point {
	return Point{
		X: (float64(c.X) + float64(c.Y)*0.5) * InnerRadius * 2,
		Y: float64(c.Y) * OuterRadius * 1.5,
	}
}

// FromPosition returns the coordinate of the cell whose hexagon contains p.
func FromPosition(p Point) Coordinate {
	x := p.X / (InnerRadius * 2)
	y := -x
	offset := p.Y / (OuterRadius * 3)
	x -= offset
	y -= offset

	iX := int(math.Round(x))
	iY := int(math.Round(y))
	iZ := int(math.Round(-x - y))

	if iX+iY+iZ != 0 {
		dX := math.Abs(x - float64(iX))
		dY := math.Abs(y - float64(iY))
		dZ := math.Abs(-x - y - float64(iZ))
		if dX > dY && dX > dZ {
			iX = -iY - iZ
		} else if dZ > dY {
			iZ = -iX - iY
		}
	}
	return Coordinate{X: iX, Y: iZ}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

package hex

// Direction is one of the six neighbour directions of a hex cell.
//
// The numeric order is significant: neighbour slots, connection masks and
// saved connectivity are all indexed by it.
type Direction int

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// DirectionCount is the number of neighbour directions.
const DirectionCount = 6

// Directions lists every direction in index order.
var Directions = [DirectionCount]Direction{NE, E, SE, SW, W, NW}

var directionNames = [DirectionCount]string{"NE", "E", "SE", "SW", "W", "NW"}

// deltas holds the axial offset of the neighbour in each direction.
var deltas = [DirectionCount]Coordinate{
	NE: {X: 0, Y: 1},
	E:  {X: 1, Y: 0},
	SE: {X: 1, Y: -1},
	SW: {X: 0, Y: -1},
	W:  {X: -1, Y: 0},
	NW: {X: -1, Y: 1},
}

// Valid reports whether d names one of the six directions.
func (d Direction) Valid() bool {
	return d >= NE && d <= NW
}

// Opposite returns the direction pointing back the way d came.
//
// Precondition: d.Valid().
func (d Direction) Opposite() Direction {
	return (d + 3) % DirectionCount
}

// Previous returns the direction counter-clockwise of d.
func (d Direction) Previous() Direction {
	if d == NE {
		return NW
	}
	return d - 1
}

// Next returns the direction clockwise of d.
func (d Direction) Next() Direction {
	if d == NW {
		return NE
	}
	return d + 1
}

// Delta returns the axial offset of one step in direction d.
func (d Direction) Delta() Coordinate {
	return deltas[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "invalid"
	}
	return directionNames[d]
}

// ParseDirection maps a direction name ("NE", "E", ...) to its Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return 0, false
}

package game

import "fmt"

// Direction is one of the eight unit vectors a tank or shell can face.
type Direction struct {
	DX int
	DY int
}

var (
	Right     = Direction{DX: 1, DY: 0}
	DownRight = Direction{DX: 1, DY: 1}
	Down      = Direction{DX: 0, DY: 1}
	DownLeft  = Direction{DX: -1, DY: 1}
	Left      = Direction{DX: -1, DY: 0}
	UpLeft    = Direction{DX: -1, DY: -1}
	Up        = Direction{DX: 0, DY: -1}
	UpRight   = Direction{DX: 1, DY: -1}
)

// Directions lists the canonical vectors clockwise starting at Right.
// Rotating right moves forward through the table.
var Directions = [8]Direction{Right, DownRight, Down, DownLeft, Left, UpLeft, Up, UpRight}

// Index returns the position of d in Directions. An unknown vector is a
// programming error.
func (d Direction) Index() int {
	for i, c := range Directions {
		if c == d {
			return i
		}
	}
	panic(fmt.Sprintf("game: invalid direction %+v", d))
}

// Rotate returns d turned by steps of 45 degrees; positive is clockwise.
func (d Direction) Rotate(steps int) Direction {
	return Directions[mod(d.Index()+steps, len(Directions))]
}

// Opposite returns the reversed vector.
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "R"
	case DownRight:
		return "DR"
	case Down:
		return "D"
	case DownLeft:
		return "DL"
	case Left:
		return "L"
	case UpLeft:
		return "UL"
	case Up:
		return "U"
	case UpRight:
		return "UR"
	}
	return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
}

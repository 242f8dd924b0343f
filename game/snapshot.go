package game

// SatelliteView is the read-only board query handed to strategies.
// Coordinates outside the board return OutOfBound, so a caller can discover
// the dimensions by probing.
type SatelliteView interface {
	GetObjectAt(x, y int) byte
}

// Snapshot is an immutable copy of the board taken at the start of a round.
type Snapshot struct {
	Round int
	board *Board
	// sides maps an occupied cell to the side of its lowest-id living tank.
	sides map[Point]int
}

// TakeSnapshot copies the board and tank occupancy of s.
func TakeSnapshot(s *State) *Snapshot {
	snap := &Snapshot{
		Round: s.Round,
		board: s.Board.Clone(),
		sides: make(map[Point]int, len(s.Tanks)),
	}
	for _, t := range s.Tanks {
		if !t.Alive {
			continue
		}
		if _, ok := snap.sides[t.Pos]; !ok {
			snap.sides[t.Pos] = t.Side
		}
	}
	return snap
}

func (s *Snapshot) Width() int  { return s.board.Width }
func (s *Snapshot) Height() int { return s.board.Height }

// Raw returns the stored code at p without view mapping.
func (s *Snapshot) Raw(p Point) byte {
	return s.board.At(p)
}

// ViewFor binds the snapshot to the tank standing at self.
func (s *Snapshot) ViewFor(self Point) SatelliteView {
	return &satelliteView{snap: s, self: self}
}

type satelliteView struct {
	snap *Snapshot
	self Point
}

func (v *satelliteView) GetObjectAt(x, y int) byte {
	p := Point{X: x, Y: y}
	if !v.snap.board.Contains(p) {
		return OutOfBound
	}
	if p == v.self {
		return Requesting
	}
	switch c := v.snap.board.At(p); c {
	case Wall, DamagedWall:
		return Wall
	case Tank1, Tank2, Mine, Empty:
		return c
	case ShellCode, MineAndShell:
		return ShellCode
	case MultipleTanks, MineAndTank:
		if side, ok := v.snap.sides[p]; ok {
			return TankCode(side)
		}
		if c == MineAndTank {
			return Mine
		}
		return Empty
	default:
		return Empty
	}
}

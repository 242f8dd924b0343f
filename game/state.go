// Package game defines the core state types for a two-sided tank battle.
//
// The board is a torus: every coordinate wraps in both axes. State is owned by
// the orchestrator and mutated only by the rules package; strategies only ever
// see a Snapshot taken at the start of a round.
package game

// Point is a board coordinate. (0,0) is the top-left cell, x grows to the
// right and y grows downward, matching the row order of a board file.
type Point struct {
	X int
	Y int
}

// Board is the authoritative grid of cell codes.
type Board struct {
	Width  int
	Height int
	cells  []byte
}

// NewBoard returns a width x height board filled with Empty.
func NewBoard(width, height int) *Board {
	cells := make([]byte, width*height)
	for i := range cells {
		cells[i] = Empty
	}
	return &Board{Width: width, Height: height, cells: cells}
}

// BoardFromRows builds a board from rows of cell codes. Every row must have
// the same length.
func BoardFromRows(rows []string) *Board {
	if len(rows) == 0 {
		return NewBoard(0, 0)
	}
	b := NewBoard(len(rows[0]), len(rows))
	for y, row := range rows {
		for x := 0; x < b.Width && x < len(row); x++ {
			b.cells[y*b.Width+x] = row[x]
		}
	}
	return b
}

// Wrap maps any integer coordinate onto the torus.
func (b *Board) Wrap(p Point) Point {
	return Point{X: mod(p.X, b.Width), Y: mod(p.Y, b.Height)}
}

// Contains reports whether p lies on the board without wrapping.
func (b *Board) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// At returns the code at p, wrapping p onto the torus first.
func (b *Board) At(p Point) byte {
	p = b.Wrap(p)
	return b.cells[p.Y*b.Width+p.X]
}

// Set writes c at p, wrapped like At.
func (b *Board) Set(p Point, c byte) {
	p = b.Wrap(p)
	b.cells[p.Y*b.Width+p.X] = c
}

// Rows renders the board one string per row.
func (b *Board) Rows() []string {
	out := make([]string, b.Height)
	for y := 0; y < b.Height; y++ {
		out[y] = string(b.cells[y*b.Width : (y+1)*b.Width])
	}
	return out
}

// Clone performs a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := &Board{Width: b.Width, Height: b.Height, cells: make([]byte, len(b.cells))}
	copy(out.cells, b.cells)
	return out
}

// Rules holds the tunable constants of the battle.
type Rules struct {
	ShootCooldown int
	// BackwardDelay is the number of waiting rounds before a backward move is
	// committed on the following tick.
	BackwardDelay int
	NoAmmoRounds  int
	MaxSteps      int
	NumShells     int
}

// DefaultRules matches the standard game: 4 round cooldown, a backward move
// taking effect on its third tick and a 40 round limit once ammo runs out.
func DefaultRules() Rules {
	return Rules{
		ShootCooldown: 4,
		BackwardDelay: 2,
		NoAmmoRounds:  40,
		MaxSteps:      1000,
		NumShells:     16,
	}
}

// State is the complete mutable battle state.
type State struct {
	Board  *Board
	Tanks  []*Tank
	Shells []Shell
	Round  int
	Rules  Rules
}

// NewState scans the board for tanks and creates them in creation order: all
// side 1 tanks first, then side 2, each group in raster order.
func NewState(board *Board, rules Rules) *State {
	s := &State{Board: board, Rules: rules}
	for _, side := range []int{1, 2} {
		code := TankCode(side)
		for y := 0; y < board.Height; y++ {
			for x := 0; x < board.Width; x++ {
				p := Point{X: x, Y: y}
				if board.At(p) != code {
					continue
				}
				s.Tanks = append(s.Tanks, NewTank(len(s.Tanks), side, p, rules.NumShells))
			}
		}
	}
	return s
}

// AliveCounts returns the number of living tanks for side 1 and side 2.
func (s *State) AliveCounts() (int, int) {
	var p1, p2 int
	for _, t := range s.Tanks {
		if !t.Alive {
			continue
		}
		if t.Side == 1 {
			p1++
		} else {
			p2++
		}
	}
	return p1, p2
}

// TanksAt returns the living tanks at p in creation order.
func (s *State) TanksAt(p Point) []*Tank {
	var out []*Tank
	for _, t := range s.Tanks {
		if t.Alive && t.Pos == p {
			out = append(out, t)
		}
	}
	return out
}

// ShellAt returns the index of the first shell at p, or -1.
func (s *State) ShellAt(p Point) int {
	for i := range s.Shells {
		if s.Shells[i].Pos == p {
			return i
		}
	}
	return -1
}

func mod(a, n int) int {
	if n == 0 {
		return 0
	}
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

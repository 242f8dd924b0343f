package game

// Movable is the position and heading shared by tanks and shells.
type Movable struct {
	Pos Point
	Dir Direction
}

// Ahead returns the cell one step along Dir, wrapped onto b.
func (m *Movable) Ahead(b *Board) Point {
	return b.Wrap(Point{X: m.Pos.X + m.Dir.DX, Y: m.Pos.Y + m.Dir.DY})
}

// Behind returns the cell one step against Dir, wrapped onto b.
func (m *Movable) Behind(b *Board) Point {
	return b.Wrap(Point{X: m.Pos.X - m.Dir.DX, Y: m.Pos.Y - m.Dir.DY})
}

// Rotate turns the heading by steps of 45 degrees, positive clockwise.
func (m *Movable) Rotate(steps int) {
	m.Dir = m.Dir.Rotate(steps)
}

// Shell is a projectile. It keeps the direction of the tank that fired it.
type Shell struct {
	Movable
}

// NewShell starts a shell on the firing tank's own cell. It leaves that
// cell on the next shell sub-phase.
func NewShell(pos Point, dir Direction) Shell {
	return Shell{Movable: Movable{Pos: pos, Dir: dir}}
}

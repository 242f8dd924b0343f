package game

// Cell codes. Composite codes describe simultaneous occupancy by more than
// one kind of object.
const (
	Empty       byte = ' '
	Wall        byte = '#'
	DamagedWall byte = '-'
	Mine        byte = '@'
	Tank1       byte = '1'
	Tank2       byte = '2'
	ShellCode   byte = '*'

	// View-only codes.
	Requesting byte = '%'
	OutOfBound byte = '&'

	WallAndShell            byte = 'W'
	DamagedWallAndShell     byte = 'D'
	WallAndTank             byte = 'X'
	DamagedWallAndTank      byte = 'Z'
	MineAndShell            byte = '+'
	MineAndTank             byte = 'M'
	MineShellAndTank        byte = 'S'
	MultipleTanks           byte = 'T'
	WallShellAndTank        byte = 'U'
	DamagedWallShellAndTank byte = 'Y'
	ShellAndShell           byte = 'O'
	MultipleTanksAndShell   byte = 'P'
	ShellAndTank            byte = 'Q'
)

// TankCode returns the cell code of a lone tank of the given side.
func TankCode(side int) byte {
	if side == 1 {
		return Tank1
	}
	return Tank2
}

// IsWall reports whether c blocks tank movement.
func IsWall(c byte) bool {
	return c == Wall || c == DamagedWall
}

// HasMine reports whether c contains a mine.
func HasMine(c byte) bool {
	return c == Mine || c == MineAndShell || c == MineAndTank || c == MineShellAndTank
}

// HasShell reports whether c shows a shell that is not hidden under a tank.
func HasShell(c byte) bool {
	return c == ShellCode || c == MineAndShell
}

// HasTank reports whether c contains at least one tank.
func HasTank(c byte) bool {
	switch c {
	case Tank1, Tank2, MultipleTanks, MineAndTank:
		return true
	}
	return false
}

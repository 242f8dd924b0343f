package algorithms

import "github.com/brensch/tankwar/game"

// dangerRadius is how many cells around the tank are scanned for shells.
const dangerRadius = 2

// shotSpacing is the minimum number of requested actions between shots.
const shotSpacing = 5

// Defensive dodges nearby shells and otherwise sweeps the board clockwise,
// firing when no ally stands in the line of fire.
type Defensive struct {
	tracker
	nextShot int
}

func NewDefensive() *Defensive { return &Defensive{} }

func (d *Defensive) UpdateBattleInfo(info BattleInfo) { d.update(info) }

func (d *Defensive) GetAction() game.Action {
	if d.dueForInfo() {
		return d.emit(game.GetBattleInfo)
	}

	if d.inDanger() {
		switch d.info.At(d.ahead()) {
		case game.Mine, game.Wall, game.ShellCode:
			return d.emit(game.RotateRight90)
		default:
			return d.emit(game.MoveForward)
		}
	}

	if !d.allyInLine() && d.turn >= d.nextShot {
		d.nextShot = d.turn + shotSpacing
		return d.emit(game.Shoot)
	}
	return d.emit(game.RotateRight45)
}

// inDanger looks dangerRadius cells out along each direction, stopping at walls.
func (d *Defensive) inDanger() bool {
	for _, dir := range game.Directions {
		for dist := 1; dist <= dangerRadius; dist++ {
			c := d.info.At(game.Point{X: d.pos.X + dir.DX*dist, Y: d.pos.Y + dir.DY*dist})
			if c == game.ShellCode {
				return true
			}
			if c == game.Wall {
				break
			}
		}
	}
	return false
}

func (d *Defensive) allyInLine() bool {
	ally := d.info.AllyCode()
	reach := max(d.info.Width, d.info.Height)
	for dist := 1; dist <= reach; dist++ {
		c := d.info.At(game.Point{X: d.pos.X + d.dir.DX*dist, Y: d.pos.Y + d.dir.DY*dist})
		if c == ally {
			return true
		}
		if c == game.Wall {
			return false
		}
	}
	return false
}

package algorithms

import "github.com/brensch/tankwar/game"

// Offensive hunts the closest enemy along a breadth-first path, shooting
// through walls in the way and firing once the enemy is in a straight line.
type Offensive struct {
	tracker
	path []game.Point
}

func NewOffensive() *Offensive { return &Offensive{} }

func (o *Offensive) UpdateBattleInfo(info BattleInfo) {
	o.update(info)
	if !o.ready() {
		o.path = nil
		return
	}

	var best []game.Point
	enemy := o.info.EnemyCode()
	for y := 0; y < o.info.Height; y++ {
		for x := 0; x < o.info.Width; x++ {
			p := game.Point{X: x, Y: y}
			if o.info.At(p) != enemy {
				continue
			}
			if path := FindPath(&o.info, o.pos, p); path != nil && (best == nil || len(path) < len(best)) {
				best = path
			}
		}
	}
	o.path = best
}

func (o *Offensive) GetAction() game.Action {
	if o.dueForInfo() || len(o.path) < 2 {
		return o.emit(game.GetBattleInfo)
	}

	want := StepDirection(o.path[0], o.path[1])
	if want != o.dir {
		return o.emit(turnToward(o.dir, want))
	}
	if straight(o.path) {
		return o.emit(game.Shoot)
	}

	switch o.info.At(o.ahead()) {
	case game.Wall:
		return o.emit(game.Shoot)
	case game.Empty:
		o.path = o.path[1:]
		return o.emit(game.MoveForward)
	default:
		return o.emit(game.GetBattleInfo)
	}
}

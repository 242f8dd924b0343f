package algorithms

import "github.com/brensch/tankwar/game"

// infoInterval is how often, in requested actions, a strategy refreshes its
// battle info.
const infoInterval = 4

// tracker dead-reckons the tank between battle info refreshes. It only knows
// what it asked for, so an ignored move leaves it wrong until the next refresh.
type tracker struct {
	info   BattleInfo
	pos    game.Point
	dir    game.Direction
	dirSet bool
	turn   int
}

func (t *tracker) update(info BattleInfo) {
	t.info = info
	if info.Located {
		t.pos = info.Self
	}
	if !t.dirSet {
		t.dir = game.InitialDirection(info.PlayerIndex)
		t.dirSet = true
	}
}

func (t *tracker) ready() bool {
	return !t.info.Empty() && t.info.Located
}

func (t *tracker) dueForInfo() bool {
	return t.turn%infoInterval == 0 || !t.ready()
}

func (t *tracker) ahead() game.Point {
	return t.info.Wrap(game.Point{X: t.pos.X + t.dir.DX, Y: t.pos.Y + t.dir.DY})
}

// emit records the believed effect of a and returns it.
func (t *tracker) emit(a game.Action) game.Action {
	if steps, ok := a.RotationSteps(); ok {
		t.dir = t.dir.Rotate(steps)
	}
	if a == game.MoveForward && t.ready() {
		next := t.ahead()
		t.info.set(t.pos, game.Empty)
		t.info.set(next, game.Requesting)
		t.pos = next
	}
	t.turn++
	return a
}

// turnToward picks the rotation that brings from closest to to.
func turnToward(from, to game.Direction) game.Action {
	delta := to.Index() - from.Index()
	if delta > 4 {
		delta -= 8
	}
	if delta < -4 {
		delta += 8
	}
	switch delta {
	case 0:
		return game.DoNothing
	case 1:
		return game.RotateRight45
	case -1:
		return game.RotateLeft45
	case -2, -3:
		return game.RotateLeft90
	default:
		return game.RotateRight90
	}
}

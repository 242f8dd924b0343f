package battle

import (
	"github.com/brensch/tankwar/game"
	"github.com/brensch/tankwar/rules"
)

// TankRecord is one tank's state and outcome at the end of a round.
type TankRecord struct {
	ID           int
	Side         int
	Pos          game.Point
	Dir          game.Direction
	Alive        bool
	Ammo         int
	Cooldown     int
	AliveAtStart bool
	Action       game.Action
	Ignored      bool
	Killed       bool
}

// Frame is an immutable record of one finished round. Board holds the grid
// rows as they stand after the round.
type Frame struct {
	BattleID string
	Round    int
	Tanks    []TankRecord
	Shells   int
	Board    []string
	Verdict  rules.Verdict
}

func newFrame(id string, s *game.State, v rules.Verdict) Frame {
	f := Frame{
		BattleID: id,
		Round:    s.Round,
		Tanks:    make([]TankRecord, len(s.Tanks)),
		Shells:   len(s.Shells),
		Board:    s.Board.Rows(),
		Verdict:  v,
	}
	for i, t := range s.Tanks {
		f.Tanks[i] = TankRecord{
			ID:           t.ID,
			Side:         t.Side,
			Pos:          t.Pos,
			Dir:          t.Dir,
			Alive:        t.Alive,
			Ammo:         t.Ammo,
			Cooldown:     t.Cooldown,
			AliveAtStart: t.Round.AliveAtStart,
			Action:       t.Round.Action,
			Ignored:      t.Round.Ignored,
			Killed:       t.Round.Killed,
		}
	}
	return f
}

// Observer receives every frame after the end-of-round check.
type Observer interface {
	ObserveRound(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) ObserveRound(f Frame) { fn(f) }

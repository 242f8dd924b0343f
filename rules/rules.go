// Package rules resolves one round of a tank battle against a game.State.
//
// Every function here is deterministic and single threaded. The orchestrator
// calls them in a fixed order: BeginRound, MoveShells twice, ApplyAction for
// each tank in creation order, DetectSwaps, ResolveStacks, then
// Referee.Check.
package rules

import (
	"github.com/brensch/tankwar/game"
)

// BeginRound advances the round counter and ticks every tank's counters.
func BeginRound(s *game.State) {
	s.Round++
	for _, t := range s.Tanks {
		t.BeginRound()
	}
}

// settle rewrites the code at p from what actually occupies it. Terrain other
// than a mine never shares a cell with a tank or resting shell, so the only
// terrain fact needed is whether a mine lies underneath.
func settle(s *game.State, p game.Point, mine bool) {
	tanks := s.TanksAt(p)
	shell := s.ShellAt(p) >= 0

	var c byte
	switch {
	case len(tanks) > 0 && mine:
		c = game.MineAndTank
	case len(tanks) > 1:
		c = game.MultipleTanks
	case len(tanks) == 1:
		c = game.TankCode(tanks[0].Side)
	case shell && mine:
		c = game.MineAndShell
	case shell:
		c = game.ShellCode
	case mine:
		c = game.Mine
	default:
		c = game.Empty
	}
	s.Board.Set(p, c)
}

// killAt destroys every living tank at p and returns the ones that died.
func killAt(s *game.State, p game.Point) []*game.Tank {
	var killed []*game.Tank
	for _, t := range s.TanksAt(p) {
		if t.Kill() {
			killed = append(killed, t)
		}
	}
	return killed
}

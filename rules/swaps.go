package rules

import (
	"github.com/brensch/tankwar/game"
)

// DetectSwaps destroys pairs of tanks that ended the round in each other's
// starting cells. Sequential movement never puts two arrivals on the same
// cell in that case, so the composite rules alone would miss it.
func DetectSwaps(s *game.State) []*game.Tank {
	marked := make([]bool, len(s.Tanks))
	for i, a := range s.Tanks {
		if !a.Alive || a.Prev == a.Pos {
			continue
		}
		for j := i + 1; j < len(s.Tanks); j++ {
			b := s.Tanks[j]
			if !b.Alive || b.Prev == b.Pos {
				continue
			}
			if a.Prev == b.Pos && b.Prev == a.Pos {
				marked[i] = true
				marked[j] = true
			}
		}
	}

	var killed []*game.Tank
	for i, t := range s.Tanks {
		if !marked[i] {
			continue
		}
		mine := game.HasMine(s.Board.At(t.Pos))
		if t.Kill() {
			killed = append(killed, t)
		}
		settle(s, t.Pos, mine)
	}
	return killed
}

// ResolveStacks destroys every living tank that still shares its cell with
// another one once all actions are applied. Stacked cells are re-settled, so
// a mine underneath survives.
func ResolveStacks(s *game.State) []*game.Tank {
	var killed []*game.Tank
	for _, t := range s.Tanks {
		if !t.Alive {
			continue
		}
		p := t.Pos
		if len(s.TanksAt(p)) < 2 {
			continue
		}
		mine := game.HasMine(s.Board.At(p))
		killed = append(killed, killAt(s, p)...)
		settle(s, p, mine)
	}
	return killed
}

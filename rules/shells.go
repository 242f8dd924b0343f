package rules

import (
	"fmt"

	"github.com/brensch/tankwar/game"
)

// MoveShells advances every shell by one cell and resolves what it hits. It
// runs twice per round. The returned tanks died during this sub-phase.
func MoveShells(s *game.State) []*game.Tank {
	b := s.Board
	n := len(s.Shells)
	if n == 0 {
		return nil
	}

	dest := make([]game.Point, n)
	for i := range s.Shells {
		dest[i] = s.Shells[i].Ahead(b)
	}

	// 1. Head-on crossings: two shells trading cells both disappear without
	// touching anything else.
	crossed := make([]bool, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if dest[i] == s.Shells[j].Pos && dest[j] == s.Shells[i].Pos {
				crossed[i] = true
				crossed[j] = true
			}
		}
	}

	// 2. Lift every shell off its current cell. A shell still under the tank
	// that fired it leaves the tank code alone.
	for i := range s.Shells {
		p := s.Shells[i].Pos
		switch b.At(p) {
		case game.ShellCode:
			b.Set(p, game.Empty)
		case game.MineAndShell:
			b.Set(p, game.Mine)
		}
	}

	// 3 + 4. Group the remaining shells by destination, in first-seen order.
	groups := make(map[game.Point][]int, n)
	order := make([]game.Point, 0, n)
	for i := 0; i < n; i++ {
		if crossed[i] {
			continue
		}
		if _, ok := groups[dest[i]]; !ok {
			order = append(order, dest[i])
		}
		groups[dest[i]] = append(groups[dest[i]], i)
	}

	var killed []*game.Tank
	survivors := make([]game.Shell, 0, n)
	for _, p := range order {
		idx := groups[p]
		c := b.At(p)

		// Multi-impact destroys whatever stands there, terrain included.
		if len(idx) > 1 {
			killed = append(killed, killAt(s, p)...)
			b.Set(p, game.Empty)
			continue
		}

		sh := s.Shells[idx[0]]
		switch {
		case game.HasTank(c):
			killed = append(killed, killAt(s, p)...)
			if game.HasMine(c) {
				b.Set(p, game.Mine)
			} else {
				b.Set(p, game.Empty)
			}
		case c == game.Wall:
			b.Set(p, game.DamagedWall)
		case c == game.DamagedWall:
			b.Set(p, game.Empty)
		case c == game.Mine:
			b.Set(p, game.MineAndShell)
			sh.Pos = p
			survivors = append(survivors, sh)
		case c == game.Empty:
			b.Set(p, game.ShellCode)
			sh.Pos = p
			survivors = append(survivors, sh)
		default:
			panic(fmt.Sprintf("rules: shell destination %v holds unexpected code %q", p, c))
		}
	}

	// 5. Only shells that came to rest on empty ground or a mine fly on.
	s.Shells = survivors
	return killed
}

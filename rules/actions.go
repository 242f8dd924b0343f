package rules

import (
	"fmt"

	"github.com/brensch/tankwar/game"
)

// Outcome is what applying one action did.
type Outcome struct {
	Ignored bool
	// BattleInfo is set when the tank is entitled to the round snapshot.
	BattleInfo bool
	Moved      bool
}

// ApplyAction resolves one tank's action against the live board. Illegal
// requests are never errors: they come back as Ignored. The tank's round
// record is updated on every path.
func ApplyAction(s *game.State, t *game.Tank, a game.Action) Outcome {
	out := applyAction(s, t, a)
	t.Round.Action = a
	t.Round.Ignored = out.Ignored
	return out
}

func applyAction(s *game.State, t *game.Tank, a game.Action) Outcome {
	if !t.Alive {
		return Outcome{Ignored: true}
	}

	if t.Backward.Active {
		return continueBackward(s, t, a)
	}

	switch a {
	case game.MoveForward:
		if !moveTo(s, t, t.Ahead(s.Board)) {
			return Outcome{Ignored: true}
		}
		return Outcome{Moved: true}

	case game.MoveBackward:
		t.ArmBackward()
		if s.Rules.BackwardDelay <= 0 {
			return commitBackward(s, t, false)
		}
		return Outcome{}

	case game.RotateLeft90, game.RotateRight90, game.RotateLeft45, game.RotateRight45:
		steps, _ := a.RotationSteps()
		t.Rotate(steps)
		return Outcome{}

	case game.Shoot:
		if !t.CanShoot() {
			return Outcome{Ignored: true}
		}
		s.Shells = append(s.Shells, game.NewShell(t.Pos, t.Dir))
		t.Ammo--
		t.Cooldown = s.Rules.ShootCooldown
		return Outcome{}

	case game.GetBattleInfo:
		return Outcome{BattleInfo: true}

	case game.DoNothing:
		return Outcome{}
	}

	// Unknown values from a strategy are treated like any other bad request.
	return Outcome{Ignored: true}
}

// continueBackward handles a tank that is waiting on a backward move. Only
// MoveForward is honoured, and it cancels the move outright.
func continueBackward(s *game.State, t *game.Tank, a game.Action) Outcome {
	if a == game.MoveForward {
		t.CancelBackward()
		return Outcome{}
	}
	ignored := a != game.MoveBackward
	if t.Backward.Ticks < s.Rules.BackwardDelay {
		return Outcome{Ignored: ignored}
	}
	return commitBackward(s, t, ignored)
}

func commitBackward(s *game.State, t *game.Tank, ignored bool) Outcome {
	t.CancelBackward()
	if !moveTo(s, t, t.Behind(s.Board)) {
		return Outcome{Ignored: true}
	}
	return Outcome{Ignored: ignored, Moved: true}
}

// moveTo displaces t onto dest using the movement collision table. It
// reports false, leaving everything untouched, when dest is a wall.
func moveTo(s *game.State, t *game.Tank, dest game.Point) bool {
	b := s.Board
	c := b.At(dest)
	if game.IsWall(c) {
		return false
	}
	switch c {
	case game.Empty, game.Mine, game.ShellCode, game.MineAndShell,
		game.Tank1, game.Tank2, game.MultipleTanks, game.MineAndTank:
	default:
		panic(fmt.Sprintf("rules: tank %d moving onto %v with unexpected code %q", t.ID, dest, c))
	}

	origin := t.Pos
	originMine := game.HasMine(b.At(origin))
	t.Pos = dest
	settle(s, origin, originMine)

	// Driving into a shell is as lethal as being hit by one. The shell is
	// spent and the cell keeps only its mine, if any.
	if game.HasShell(c) {
		if i := s.ShellAt(dest); i >= 0 {
			s.Shells = append(s.Shells[:i], s.Shells[i+1:]...)
		}
		t.Kill()
	}
	settle(s, dest, game.HasMine(c))
	return true
}

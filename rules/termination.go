package rules

import (
	"fmt"

	"github.com/brensch/tankwar/game"
)

// Reason says why a battle ended, or Ongoing while it has not.
type Reason int

const (
	Ongoing Reason = iota
	// Eliminated means at least one side has no tanks left.
	Eliminated
	NoAmmo
	MaxSteps
)

func (r Reason) String() string {
	switch r {
	case Ongoing:
		return "ongoing"
	case Eliminated:
		return "eliminated"
	case NoAmmo:
		return "no_ammo"
	case MaxSteps:
		return "max_steps"
	}
	return "unknown"
}

// Verdict is the result of one termination check. Winner is 0 for a tie.
type Verdict struct {
	Over   bool
	Reason Reason
	Winner int
	Round  int
	P1     int
	P2     int
}

// Summary renders the final output line for a finished battle.
func (v Verdict) Summary(noAmmoRounds int) string {
	switch v.Reason {
	case Eliminated:
		if v.Winner == 0 {
			return "Tie, both players have zero tanks"
		}
		remaining := v.P1
		if v.Winner == 2 {
			remaining = v.P2
		}
		return fmt.Sprintf("Player %d won with %d tanks still alive", v.Winner, remaining)
	case NoAmmo:
		return fmt.Sprintf("Tie, both players have zero shells for %d steps", noAmmoRounds)
	case MaxSteps:
		return fmt.Sprintf("Tie, reached max steps = %d, player 1 has %d tanks, player 2 has %d tanks", v.Round, v.P1, v.P2)
	}
	return ""
}

// Referee evaluates the end-of-game predicates. It carries the consecutive
// zero-ammo counter between checks, so one Referee serves one battle.
type Referee struct {
	counting bool
	dryRuns  int
}

// DryRounds returns how many consecutive checks after the first have seen
// every remaining tank without ammo.
func (r *Referee) DryRounds() int {
	return r.dryRuns
}

// Check runs at game start and after every round.
func (r *Referee) Check(s *game.State) Verdict {
	p1, p2 := s.AliveCounts()
	v := Verdict{Round: s.Round, P1: p1, P2: p2}

	// 1. Elimination.
	if p1 == 0 || p2 == 0 {
		v.Over = true
		v.Reason = Eliminated
		switch {
		case p1 > 0:
			v.Winner = 1
		case p2 > 0:
			v.Winner = 2
		}
		return v
	}

	// 2. Every remaining tank out of ammo. The first check that sees it starts
	// the count; the limit is reached that many rounds later.
	dry := true
	for _, t := range s.Tanks {
		if t.Alive && t.Ammo > 0 {
			dry = false
			break
		}
	}
	if dry {
		if r.counting {
			r.dryRuns++
		} else {
			r.counting = true
			r.dryRuns = 0
		}
		if r.dryRuns >= s.Rules.NoAmmoRounds {
			v.Over = true
			v.Reason = NoAmmo
			return v
		}
	} else {
		r.counting = false
		r.dryRuns = 0
	}

	// 3. Step limit. A limit of 0 is already reached by the start check.
	if s.Round >= s.Rules.MaxSteps {
		v.Over = true
		v.Reason = MaxSteps
		return v
	}
	return v
}

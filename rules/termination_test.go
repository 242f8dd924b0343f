package rules

import (
	"testing"

	"github.com/brensch/tankwar/game"
)

func TestReferee_Elimination(t *testing.T) {
	cases := []struct {
		name    string
		kill    []int
		winner  int
		summary string
	}{
		{"side 1 wins", []int{2}, 1, "Player 1 won with 2 tanks still alive"},
		{"side 2 wins", []int{0, 1}, 2, "Player 2 won with 1 tanks still alive"},
		{"tie", []int{0, 1, 2}, 0, "Tie, both players have zero tanks"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newState([]string{"1 1 2"}, 1)
			for _, id := range tc.kill {
				s.Tanks[id].Kill()
			}
			var r Referee
			v := r.Check(s)
			if !v.Over || v.Reason != Eliminated || v.Winner != tc.winner {
				t.Fatalf("verdict=%+v", v)
			}
			if got := v.Summary(s.Rules.NoAmmoRounds); got != tc.summary {
				t.Fatalf("summary=%q want=%q", got, tc.summary)
			}
		})
	}
}

func TestReferee_MaxStepsTie(t *testing.T) {
	rows := make([]string, 10)
	for i := range rows {
		rows[i] = "          "
	}
	rows[0] = "1         "
	rows[9] = "         2"
	s := newState(rows, 0)
	s.Rules.MaxSteps = 50
	s.Rules.NoAmmoRounds = 1000

	var r Referee
	if v := r.Check(s); v.Over {
		t.Fatalf("over at start: %+v", v)
	}
	var v Verdict
	for !v.Over {
		playRound(s, nil)
		v = r.Check(s)
		if s.Round > 50 {
			t.Fatalf("did not stop at max steps")
		}
	}
	if v.Reason != MaxSteps || s.Round != 50 || v.P1 != 1 || v.P2 != 1 {
		t.Fatalf("verdict=%+v round=%d", v, s.Round)
	}
	want := "Tie, reached max steps = 50, player 1 has 1 tanks, player 2 has 1 tanks"
	if got := v.Summary(s.Rules.NoAmmoRounds); got != want {
		t.Fatalf("summary=%q want=%q", got, want)
	}
}

func TestReferee_ZeroMaxStepsEndsAtStart(t *testing.T) {
	s := newState([]string{"1   2"}, 3)
	s.Rules.MaxSteps = 0
	var r Referee
	v := r.Check(s)
	if !v.Over || v.Reason != MaxSteps || v.Round != 0 {
		t.Fatalf("verdict=%+v want max_steps at round 0", v)
	}
	want := "Tie, reached max steps = 0, player 1 has 1 tanks, player 2 has 1 tanks"
	if got := v.Summary(s.Rules.NoAmmoRounds); got != want {
		t.Fatalf("summary=%q want=%q", got, want)
	}
}

func TestReferee_NoAmmoEndsExactlyFortyRoundsLater(t *testing.T) {
	// Walls absorb both shots so nothing is destroyed afterwards.
	s := newState([]string{
		"1       ",
		"       #",
		"#      2",
	}, 1)
	t1, t2 := s.Tanks[0], s.Tanks[1]
	t1.Dir = game.Up
	t2.Dir = game.Up

	var r Referee
	r.Check(s)
	playRound(s, map[int]game.Action{t1.ID: game.Shoot})
	if v := r.Check(s); v.Over {
		t.Fatalf("over while side 2 has ammo: %+v", v)
	}
	playRound(s, map[int]game.Action{t2.ID: game.Shoot})
	emptyAt := s.Round
	if v := r.Check(s); v.Over || r.DryRounds() != 0 {
		t.Fatalf("verdict=%+v dry=%d", v, r.DryRounds())
	}

	var v Verdict
	for !v.Over {
		playRound(s, nil)
		v = r.Check(s)
		if s.Round > emptyAt+41 {
			t.Fatalf("no-ammo tie never declared\n%s", dumpState(s))
		}
	}
	if v.Reason != NoAmmo {
		t.Fatalf("reason=%s want=no_ammo\n%s", v.Reason, dumpState(s))
	}
	if s.Round != emptyAt+40 {
		t.Fatalf("ended at round %d want=%d", s.Round, emptyAt+40)
	}
	if got, want := v.Summary(s.Rules.NoAmmoRounds), "Tie, both players have zero shells for 40 steps"; got != want {
		t.Fatalf("summary=%q want=%q", got, want)
	}
}

func TestReferee_NoAmmoCounterResets(t *testing.T) {
	s := newState([]string{"1  2"}, 0)
	var r Referee
	for i := 0; i < 5; i++ {
		r.Check(s)
	}
	if r.DryRounds() != 4 {
		t.Fatalf("dry=%d want=4", r.DryRounds())
	}
	s.Tanks[0].Ammo = 1
	r.Check(s)
	if r.DryRounds() != 0 {
		t.Fatalf("dry=%d want=0 after ammo regained", r.DryRounds())
	}
}

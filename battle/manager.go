// Package battle drives a tank battle round by round: it snapshots the board,
// runs the shell and action phases through package rules, asks each tank's
// strategy for its action and reports every finished round to observers.
package battle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brensch/tankwar/algorithms"
	"github.com/brensch/tankwar/game"
	"github.com/brensch/tankwar/rules"
)

// Config describes one battle.
type Config struct {
	// ID names the battle in logs and archives. Empty means a random UUID.
	ID    string
	Board *game.Board
	Rules game.Rules

	// Nil factories fall back to the algorithms package defaults.
	Players algorithms.PlayerFactory
	Tanks   algorithms.TankAlgorithmFactory

	Observers []Observer
	// Logger receives per-phase debug records. Nil discards them.
	Logger *slog.Logger
}

// Result is the outcome of a battle. History holds every round in order.
type Result struct {
	ID      string
	Initial []string
	Verdict rules.Verdict
	Summary string
	History []Frame
}

// Manager runs a single battle round by round.
type Manager struct {
	id      string
	state   *game.State
	referee rules.Referee
	players map[int]algorithms.Player
	algs    []algorithms.TankAlgorithm
	obs     []Observer
	log     *slog.Logger
	phase   Phase

	initial []string
	history []Frame
	verdict rules.Verdict
}

// New places the tanks found on cfg.Board and creates their strategies. The
// board is copied, so the caller's board is never mutated.
func New(cfg Config) (*Manager, error) {
	if cfg.Board == nil || cfg.Board.Width <= 0 || cfg.Board.Height <= 0 {
		return nil, fmt.Errorf("battle needs a non-empty board")
	}
	if cfg.Players == nil {
		cfg.Players = algorithms.DefaultPlayers
	}
	if cfg.Tanks == nil {
		cfg.Tanks = algorithms.DefaultTankAlgorithms
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	s := game.NewState(cfg.Board.Clone(), cfg.Rules)
	m := &Manager{
		id:      id,
		state:   s,
		players: make(map[int]algorithms.Player, 2),
		algs:    make([]algorithms.TankAlgorithm, len(s.Tanks)),
		obs:     cfg.Observers,
		log:     log.With("battle", id),
		initial: s.Board.Rows(),
	}
	w, h := s.Board.Width, s.Board.Height
	for side := 1; side <= 2; side++ {
		m.players[side] = cfg.Players(side, w, h, cfg.Rules.MaxSteps, cfg.Rules.NumShells)
	}
	perSide := map[int]int{}
	for i, t := range s.Tanks {
		m.algs[i] = cfg.Tanks(t.Side, perSide[t.Side])
		perSide[t.Side]++
	}

	m.log.Info("battle created",
		"width", w,
		"height", h,
		"tanks", len(s.Tanks),
		"max_steps", cfg.Rules.MaxSteps,
		"num_shells", cfg.Rules.NumShells,
	)
	return m, nil
}

func (m *Manager) ID() string { return m.id }

func (m *Manager) Phase() Phase { return m.phase }

// Run checks for an immediate end, then plays rounds until a termination
// predicate holds. Cancellation is honoured between rounds; the partial
// result is returned with the context error.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	m.verdict = m.referee.Check(m.state)
	for !m.verdict.Over {
		if err := ctx.Err(); err != nil {
			m.log.Warn("battle interrupted", "round", m.state.Round, "error", err)
			return m.result(), fmt.Errorf("battle %s stopped after round %d: %w", m.id, m.state.Round, err)
		}
		m.Step()
	}
	m.phase = Terminated

	res := m.result()
	m.log.Info("battle finished",
		"rounds", m.state.Round,
		"reason", m.verdict.Reason.String(),
		"winner", m.verdict.Winner,
		"player1_tanks", m.verdict.P1,
		"player2_tanks", m.verdict.P2,
	)
	return res, nil
}

// Step plays exactly one round and returns its frame. Calling Step after the
// battle is over plays a round anyway.
func (m *Manager) Step() Frame {
	s := m.state

	m.enter(RoundStart)
	rules.BeginRound(s)
	snap := game.TakeSnapshot(s)

	m.enter(ShellPhase1)
	m.logKills("shell", rules.MoveShells(s))
	m.enter(ShellPhase2)
	m.logKills("shell", rules.MoveShells(s))

	m.enter(ActionPhase)
	for i, t := range s.Tanks {
		if !t.Round.AliveAtStart {
			continue
		}
		// Shell phase casualties are not consulted; their turn is lost.
		if !t.Alive {
			t.Round.Ignored = true
			continue
		}
		alg := m.algs[i]
		a := alg.GetAction()
		out := rules.ApplyAction(s, t, a)
		if out.BattleInfo {
			m.players[t.Side].UpdateTankWithBattleInfo(alg, snap.ViewFor(t.Prev))
		}
		m.log.Debug("action",
			"round", s.Round,
			"tank", t.ID,
			"side", t.Side,
			"action", a.String(),
			"ignored", out.Ignored,
		)
	}

	m.enter(SwapCheck)
	m.logKills("swap", rules.DetectSwaps(s))
	m.logKills("stack", rules.ResolveStacks(s))

	m.enter(EndCheck)
	m.verdict = m.referee.Check(s)
	if m.verdict.Over {
		m.phase = Terminated
	}

	f := newFrame(m.id, s, m.verdict)
	m.history = append(m.history, f)
	for _, o := range m.obs {
		o.ObserveRound(f)
	}
	return f
}

func (m *Manager) enter(p Phase) {
	m.phase = p
	m.log.Debug("phase", "round", m.state.Round, "phase", p.String())
}

func (m *Manager) logKills(cause string, dead []*game.Tank) {
	for _, t := range dead {
		m.log.Debug("tank destroyed",
			"round", m.state.Round,
			"tank", t.ID,
			"side", t.Side,
			"cause", cause,
			"x", t.Pos.X,
			"y", t.Pos.Y,
		)
	}
}

func (m *Manager) result() Result {
	return Result{
		ID:      m.id,
		Initial: m.initial,
		Verdict: m.verdict,
		Summary: m.verdict.Summary(m.state.Rules.NoAmmoRounds),
		History: m.history,
	}
}

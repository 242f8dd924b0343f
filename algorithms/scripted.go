package algorithms

import "github.com/brensch/tankwar/game"

// Scripted replays a fixed list of actions and then does nothing. It keeps
// every battle info it receives.
type Scripted struct {
	Actions []game.Action
	Infos   []BattleInfo
	next    int
}

func NewScripted(actions ...game.Action) *Scripted {
	return &Scripted{Actions: actions}
}

func (s *Scripted) GetAction() game.Action {
	if s.next >= len(s.Actions) {
		return game.DoNothing
	}
	a := s.Actions[s.next]
	s.next++
	return a
}

func (s *Scripted) UpdateBattleInfo(info BattleInfo) {
	s.Infos = append(s.Infos, info)
}

// ScriptedFactory hands out scripts by player and per-player tank index.
// Tanks without a script do nothing.
func ScriptedFactory(scripts map[int][][]game.Action) (TankAlgorithmFactory, map[[2]int]*Scripted) {
	made := map[[2]int]*Scripted{}
	return func(playerIndex, tankIndex int) TankAlgorithm {
		var actions []game.Action
		if list := scripts[playerIndex]; tankIndex < len(list) {
			actions = list[tankIndex]
		}
		s := NewScripted(actions...)
		made[[2]int{playerIndex, tankIndex}] = s
		return s
	}, made
}

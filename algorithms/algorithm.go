// Package algorithms holds the tank strategies and the players that feed them
// satellite battle info.
package algorithms

import "github.com/brensch/tankwar/game"

// TankAlgorithm decides one action per round for a single tank.
type TankAlgorithm interface {
	GetAction() game.Action
	UpdateBattleInfo(info BattleInfo)
}

// Player turns a satellite view into battle info for one of its tanks.
type Player interface {
	UpdateTankWithBattleInfo(tank TankAlgorithm, view game.SatelliteView)
}

// TankAlgorithmFactory creates the strategy for the tankIndex-th tank of a
// player, counting from zero within that player.
type TankAlgorithmFactory func(playerIndex, tankIndex int) TankAlgorithm

// PlayerFactory creates the player for side playerIndex (1 or 2).
type PlayerFactory func(playerIndex, width, height, maxSteps, numShells int) Player

// DefaultTankAlgorithms alternates defensive and offensive tanks.
func DefaultTankAlgorithms(_ int, tankIndex int) TankAlgorithm {
	if tankIndex%2 == 0 {
		return NewDefensive()
	}
	return NewOffensive()
}

// DefaultPlayers builds a SatellitePlayer for each side.
func DefaultPlayers(playerIndex, width, height, maxSteps, numShells int) Player {
	return &SatellitePlayer{
		Index:     playerIndex,
		Width:     width,
		Height:    height,
		MaxSteps:  maxSteps,
		NumShells: numShells,
	}
}

// SatellitePlayer reads the whole view into a BattleInfo on every request.
type SatellitePlayer struct {
	Index     int
	Width     int
	Height    int
	MaxSteps  int
	NumShells int
}

func (p *SatellitePlayer) UpdateTankWithBattleInfo(tank TankAlgorithm, view game.SatelliteView) {
	tank.UpdateBattleInfo(NewBattleInfo(view, p.Index))
}

package algorithms

import (
	"strings"

	"github.com/brensch/tankwar/game"
)

// BattleInfo is a private copy of a satellite view. Dimensions are found by
// probing for out-of-bound cells, so the view never has to expose them.
type BattleInfo struct {
	Width       int
	Height      int
	PlayerIndex int
	// Self is the requesting tank. Located is false when the view had no
	// requesting marker.
	Self    game.Point
	Located bool

	cells []byte
}

func NewBattleInfo(view game.SatelliteView, playerIndex int) BattleInfo {
	info := BattleInfo{PlayerIndex: playerIndex, Self: game.Point{X: -1, Y: -1}}
	for view.GetObjectAt(info.Width, 0) != game.OutOfBound {
		info.Width++
	}
	if info.Width == 0 {
		return info
	}
	for view.GetObjectAt(0, info.Height) != game.OutOfBound {
		info.Height++
	}

	info.cells = make([]byte, info.Width*info.Height)
	for y := 0; y < info.Height; y++ {
		for x := 0; x < info.Width; x++ {
			c := view.GetObjectAt(x, y)
			info.cells[y*info.Width+x] = c
			if c == game.Requesting && !info.Located {
				info.Self = game.Point{X: x, Y: y}
				info.Located = true
			}
		}
	}
	return info
}

func (b *BattleInfo) Empty() bool { return len(b.cells) == 0 }

func (b *BattleInfo) Wrap(p game.Point) game.Point {
	x := p.X % b.Width
	if x < 0 {
		x += b.Width
	}
	y := p.Y % b.Height
	if y < 0 {
		y += b.Height
	}
	return game.Point{X: x, Y: y}
}

// At wraps p onto the board before reading it.
func (b *BattleInfo) At(p game.Point) byte {
	p = b.Wrap(p)
	return b.cells[p.Y*b.Width+p.X]
}

func (b *BattleInfo) set(p game.Point, c byte) {
	p = b.Wrap(p)
	b.cells[p.Y*b.Width+p.X] = c
}

// EnemyCode is the tank code of the opposing side.
func (b *BattleInfo) EnemyCode() byte {
	if b.PlayerIndex == 1 {
		return game.Tank2
	}
	return game.Tank1
}

// AllyCode is the tank code of this player's other tanks.
func (b *BattleInfo) AllyCode() byte {
	return game.TankCode(b.PlayerIndex)
}

func (b *BattleInfo) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		sb.Write(b.cells[y*b.Width : (y+1)*b.Width])
		sb.WriteByte('\n')
	}
	return sb.String()
}

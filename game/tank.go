package game

// RoundInfo is the per-round outcome of one tank.
type RoundInfo struct {
	AliveAtStart bool
	Action       Action
	Ignored      bool
	Killed       bool
}

// Backward tracks a pending backward move. Ticks counts the rounds elapsed
// since the sequence was armed.
type Backward struct {
	Active bool
	Ticks  int
}

// Tank is one side's tank. ID is its creation order and never changes.
type Tank struct {
	Movable
	ID       int
	Side     int
	Alive    bool
	Ammo     int
	Cooldown int
	Backward Backward
	// Prev is the position at the start of the current round.
	Prev  Point
	Round RoundInfo
}

// InitialDirection is the heading a side starts with: side 1 faces left and
// side 2 faces right.
func InitialDirection(side int) Direction {
	if side == 1 {
		return Left
	}
	return Right
}

// NewTank returns a live tank facing its side's initial direction.
func NewTank(id, side int, pos Point, ammo int) *Tank {
	return &Tank{
		Movable: Movable{Pos: pos, Dir: InitialDirection(side)},
		ID:      id,
		Side:    side,
		Alive:   true,
		Ammo:    ammo,
		Prev:    pos,
		Round:   RoundInfo{AliveAtStart: true, Action: DoNothing},
	}
}

// BeginRound clears the round record and ticks the per-round counters. It
// runs for every tank, dead or alive.
func (t *Tank) BeginRound() {
	t.Round = RoundInfo{AliveAtStart: t.Alive, Action: DoNothing}
	if t.Cooldown > 0 {
		t.Cooldown--
	}
	if t.Backward.Active {
		t.Backward.Ticks++
	}
	t.Prev = t.Pos
}

// Kill marks the tank dead. It reports whether the tank was alive, so a
// death is only counted once.
func (t *Tank) Kill() bool {
	if !t.Alive {
		return false
	}
	t.Alive = false
	t.Round.Killed = true
	return true
}

// CanShoot reports whether a Shoot this round would fire.
func (t *Tank) CanShoot() bool {
	return t.Alive && t.Cooldown == 0 && t.Ammo > 0
}

func (t *Tank) ArmBackward() {
	t.Backward = Backward{Active: true}
}

func (t *Tank) CancelBackward() {
	t.Backward = Backward{}
}

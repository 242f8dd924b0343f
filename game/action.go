package game

// Action is one request a tank may make per round.
type Action uint8

const (
	MoveForward Action = iota
	MoveBackward
	RotateLeft90
	RotateRight90
	RotateLeft45
	RotateRight45
	Shoot
	GetBattleInfo
	DoNothing
)

var actionNames = [...]string{
	MoveForward:   "MoveForward",
	MoveBackward:  "MoveBackward",
	RotateLeft90:  "RotateLeft90",
	RotateRight90: "RotateRight90",
	RotateLeft45:  "RotateLeft45",
	RotateRight45: "RotateRight45",
	Shoot:         "Shoot",
	GetBattleInfo: "GetBattleInfo",
	DoNothing:     "DoNothing",
}

// Actions lists every action in declaration order.
var Actions = []Action{
	MoveForward, MoveBackward, RotateLeft90, RotateRight90,
	RotateLeft45, RotateRight45, Shoot, GetBattleInfo, DoNothing,
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// ParseAction resolves an action by its label.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), true
		}
	}
	return DoNothing, false
}

// RotationSteps returns the 45 degree step count for a rotate action.
func (a Action) RotationSteps() (int, bool) {
	switch a {
	case RotateLeft90:
		return -2, true
	case RotateRight90:
		return 2, true
	case RotateLeft45:
		return -1, true
	case RotateRight45:
		return 1, true
	}
	return 0, false
}

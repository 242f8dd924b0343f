package battle

// Phase is a step of the round state machine.
type Phase int

const (
	RoundStart Phase = iota
	ShellPhase1
	ShellPhase2
	ActionPhase
	SwapCheck
	EndCheck
	Terminated
)

var phaseNames = [...]string{
	RoundStart:  "round_start",
	ShellPhase1: "shell_phase_1",
	ShellPhase2: "shell_phase_2",
	ActionPhase: "action_phase",
	SwapCheck:   "swap_check",
	EndCheck:    "end_check",
	Terminated:  "terminated",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

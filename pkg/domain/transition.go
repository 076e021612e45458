package domain

import "fmt"

// Operation names one of the four lifecycle operations of a table.
type Operation string

const (
	OpRegisterPlayer Operation = "register_player"
	OpBeginPlay      Operation = "begin_play"
	OpEndPlay        Operation = "end_play"
	OpResetGame      Operation = "reset_game"
)

// Transition is one legal move of the lifecycle state machine.
type Transition struct {
	From Progress  `json:"from"`
	Op   Operation `json:"op"`
	To   Progress  `json:"to"`
}

// Transitions is the complete table of legal moves.
// RegisterPlayer is a self-loop on Starting; any pair not listed here is rejected.
var Transitions = []Transition{
	{From: ProgressStarting, Op: OpRegisterPlayer, To: ProgressStarting},
	{From: ProgressStarting, Op: OpBeginPlay, To: ProgressPlaying},
	{From: ProgressPlaying, Op: OpEndPlay, To: ProgressDone},
	{From: ProgressDone, Op: OpResetGame, To: ProgressStarting},
}

// Operations lists every operation in the order they are normally applied.
var Operations = []Operation{OpRegisterPlayer, OpBeginPlay, OpEndPlay, OpResetGame}

// ParseOperation accepts the canonical snake_case name and the short aliases used by the
// command line ("register", "begin", "end", "reset").
func ParseOperation(s string) (Operation, error) {
	switch s {
	case string(OpRegisterPlayer), "register":
		return OpRegisterPlayer, nil
	case string(OpBeginPlay), "begin":
		return OpBeginPlay, nil
	case string(OpEndPlay), "end":
		return OpEndPlay, nil
	case string(OpResetGame), "reset":
		return OpResetGame, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// Next returns the progress reached by applying op in from.
// When the move is not in Transitions it returns an *InvalidTransitionError carrying from.
func Next(from Progress, op Operation) (Progress, error) {
	for _, t := range Transitions {
		if t.From == from && t.Op == op {
			return t.To, nil
		}
	}
	return from, &InvalidTransitionError{Op: op, Current: from}
}

// Allowed returns the operations that are legal in the given progress.
func Allowed(from Progress) []Operation {
	var ops []Operation
	for _, t := range Transitions {
		if t.From == from {
			ops = append(ops, t.Op)
		}
	}
	return ops
}

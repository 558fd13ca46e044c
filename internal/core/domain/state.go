package domain

import "strings"

// TargetState is the lifecycle state of one target's build.
type TargetState string

const (
	// StatePending indicates the target has not started.
	StatePending TargetState = "pending"
	// StatePatching indicates vendor patches are being applied.
	StatePatching TargetState = "patching"
	// StateBuilding indicates dependency steps are running.
	StateBuilding TargetState = "building"
	// StateAssembling indicates the target binary is being staged.
	StateAssembling TargetState = "assembling"
	// StateReverting indicates patches are being reverted.
	StateReverting TargetState = "reverting"
	// StateComplete indicates the target finished successfully.
	StateComplete TargetState = "complete"
	// StateCached indicates the target was skipped because its build record matched.
	StateCached TargetState = "cached"
	// StateFailed indicates the target failed.
	StateFailed TargetState = "failed"
)

// transitions lists the legal successors of each non-terminal state.
var transitions = map[TargetState][]TargetState{
	StatePending:    {StatePatching, StateCached, StateFailed},
	StatePatching:   {StateBuilding, StateReverting, StateFailed},
	StateBuilding:   {StateAssembling, StateReverting, StateFailed},
	StateAssembling: {StateReverting, StateFailed},
	StateReverting:  {StateComplete, StateFailed},
}

// IsTerminal checks if a state is a terminal state (Complete, Cached, Failed).
func (s TargetState) IsTerminal() bool {
	switch s {
	case StateComplete, StateCached, StateFailed:
		return true
	default:
		return false
	}
}

// Succeeded reports whether the state is a successful terminal state.
func (s TargetState) Succeeded() bool {
	return s == StateComplete || s == StateCached
}

// CanTransition reports whether moving from s to next is legal.
func (s TargetState) CanTransition(next TargetState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NormalizeTargetState converts a string to a TargetState, defaulting to pending if unknown.
func NormalizeTargetState(s string) TargetState {
	switch st := TargetState(strings.ToLower(s)); st {
	case StatePending, StatePatching, StateBuilding, StateAssembling,
		StateReverting, StateComplete, StateCached, StateFailed:
		return st
	default:
		return StatePending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

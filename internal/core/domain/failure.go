package domain

import (
	"errors"
	"fmt"
)

// BuildFailure describes where a target's build stopped.
type BuildFailure struct {
	Target     TargetID
	Step       string
	SubCommand CommandKind
	ExitCode   int
	// Tail is the end of the failing process output.
	Tail string
	// Kind is the sentinel classifying the failure.
	Kind error
	Err  error
}

func (f *BuildFailure) Error() string {
	msg := fmt.Sprintf("%s: %s", f.Target, f.Kind)
	if f.Step != "" {
		msg += fmt.Sprintf(" (step %s", f.Step)
		if f.SubCommand != "" {
			msg += fmt.Sprintf(", %s", f.SubCommand)
		}
		if f.ExitCode != 0 {
			msg += fmt.Sprintf(", exit %d", f.ExitCode)
		}
		msg += ")"
	}
	return msg
}

// Unwrap exposes the underlying error.
func (f *BuildFailure) Unwrap() error {
	return f.Err
}

// Is matches the failure's kind so errors.Is(err, ErrTimeout) works.
func (f *BuildFailure) Is(target error) bool {
	return f.Kind != nil && target == f.Kind
}

// AsBuildFailure extracts a *BuildFailure from err.
func AsBuildFailure(err error) (*BuildFailure, bool) {
	var f *BuildFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

package emitter

import (
	"errors"
	"fmt"
)

// ErrMalformedGraph is wrapped by every error caused by an input graph that
// violates a structural expectation of the emitter.
var ErrMalformedGraph = errors.New("malformed input graph")

// MalformedGraphError aborts generation of one class.
type MalformedGraphError struct {
	Class  string
	Path   string
	Reason string
}

func (e *MalformedGraphError) Error() string {
	msg := "malformed input graph"
	if e.Class != "" {
		msg += " in " + e.Class
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg + ": " + e.Reason
}

func (e *MalformedGraphError) Unwrap() error { return ErrMalformedGraph }

// malformed unwinds the current session; GenerateClass recovers it.
func malformed(path, format string, args ...any) {
	panic(&MalformedGraphError{Path: path, Reason: fmt.Sprintf(format, args...)})
}

// recoverMalformed converts a MalformedGraphError panic into err. Any other
// panic is propagated.
func recoverMalformed(class string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	mge, ok := r.(*MalformedGraphError)
	if !ok {
		panic(r)
	}
	if mge.Class == "" {
		mge.Class = class
	}
	*err = mge
}

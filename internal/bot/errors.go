package bot

import (
	"context"
	"errors"

	"jordanella.com/autojump-go/internal/cv"
)

// ErrorType represents the category of a failed cycle
type ErrorType int

const (
	ErrorCommunication ErrorType = iota // Screenshot or press failed on the device
	ErrorNoObject                       // Object not found with enough confidence
	ErrorNoEdge                         // Nothing to land on inside the scan band
	ErrorCancelled                      // Shutdown requested
	ErrorUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrorCommunication:
		return "communication"
	case ErrorNoObject:
		return "no_object"
	case ErrorNoEdge:
		return "no_edge"
	case ErrorCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrorAction tells the runner what to do after a failed cycle
type ErrorAction int

const (
	ActionSkipCycle ErrorAction = iota // Log, wait the cycle delay, try again
	ActionStop                         // Stop the bot entirely
)

func (a ErrorAction) String() string {
	if a == ActionStop {
		return "stop"
	}
	return "skip"
}

// CycleError classifies a cycle failure
type CycleError struct {
	Type   ErrorType
	Action ErrorAction
	Err    error
}

func (e *CycleError) Error() string {
	return e.Type.String() + ": " + e.Err.Error()
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// classifyCycleError maps a cycle failure to its category and follow-up.
// Only shutdown stops the loop; everything else is retried next cycle.
func classifyCycleError(err error) *CycleError {
	var (
		unavailable *cv.CaptureUnavailableError
		degenerate  *cv.DegenerateMatchError
		pressErr    *pressError
	)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &CycleError{Type: ErrorCancelled, Action: ActionStop, Err: err}
	case errors.As(err, &unavailable), errors.As(err, &pressErr):
		return &CycleError{Type: ErrorCommunication, Action: ActionSkipCycle, Err: err}
	case errors.As(err, &degenerate), errors.Is(err, cv.ErrTemplateTooLarge), errors.Is(err, cv.ErrEmptyImage):
		return &CycleError{Type: ErrorNoObject, Action: ActionSkipCycle, Err: err}
	case errors.Is(err, cv.ErrMissingEdge):
		return &CycleError{Type: ErrorNoEdge, Action: ActionSkipCycle, Err: err}
	default:
		return &CycleError{Type: ErrorUnknown, Action: ActionSkipCycle, Err: err}
	}
}

// pressError marks a failed gesture dispatch
type pressError struct {
	err error
}

func (e *pressError) Error() string {
	return "press failed: " + e.err.Error()
}

func (e *pressError) Unwrap() error {
	return e.err
}

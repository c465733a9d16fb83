package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInFlight      = errors.New("generation already in progress")
	ErrStale         = errors.New("session moved while generating; result discarded")
	ErrCompleted     = errors.New("pipeline already completed")
	ErrAtStart       = errors.New("already at the first step")
	ErrNotDrafting   = errors.New("not in a drafting phase")
	ErrNotReached    = errors.New("target not reached yet")
	ErrUnknownTarget = errors.New("unknown generation target")
)

// ValidationError reports the fields a stage still needs. No state
// changed.
type ValidationError struct {
	Stage   string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Stage, strings.Join(e.Missing, ", "))
}

// GenerationError wraps a failed call to the generative text service.
// No state changed; calling the same operation again retries.
type GenerationError struct {
	Target Target
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s: %v", e.Target, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

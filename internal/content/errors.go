package content

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResult means the provider answered but produced nothing usable.
	ErrEmptyResult = errors.New("provider returned no content")

	// ErrMalformed means the provider's structured output broke an invariant
	// the schema cannot express.
	ErrMalformed = errors.New("malformed content")

	// ErrInvalidArgument means the request was rejected before any call.
	ErrInvalidArgument = errors.New("invalid argument")
)

// GenerationError wraps every failure of a content operation. Op is one of
// "roadmap", "lesson" or "questions".
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func genErr(op string, err error) error {
	return &GenerationError{Op: op, Err: err}
}

package session

import "fmt"

// ValidationError rejects an operation before it has any effect.
type ValidationError struct {
	Op  string
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func invalid(op, format string, args ...any) error {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// StaleResponseError reports a delivery whose request was abandoned. The
// delivery has not been applied.
type StaleResponseError struct {
	Kind   Kind
	Epoch  uint64
	TaskID string
}

func (e *StaleResponseError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("stale %s response (epoch %d)", e.Kind, e.Epoch)
	}
	return fmt.Sprintf("stale %s response for task %s (epoch %d)", e.Kind, e.TaskID, e.Epoch)
}

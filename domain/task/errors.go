package task

import (
	"errors"
	"fmt"
)

// Validation failures. Match them with errors.Is against a *ValidationError.
var (
	ErrEmptySummary    = errors.New("summary is required")
	ErrMissingDeadline = errors.New("deadline is required")
	ErrDeadlinePassed  = errors.New("deadline is in the past")
	ErrUnknownTask     = errors.New("task is not in the local list")
	ErrNotPending      = errors.New("task is not pending")
	ErrNotCompleted    = errors.New("task is not completed")
)

// ValidationError is returned when an action is rejected before any remote call.
type ValidationError struct {
	Field  string
	TaskID int64
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.TaskID != 0:
		return fmt.Sprintf("invalid task %d: %v", e.TaskID, e.Err)
	case e.Field != "":
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("invalid task: %v", e.Err)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalidField(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// InvalidTask reports a precondition failure on an existing task.
func InvalidTask(id int64, err error) *ValidationError {
	return &ValidationError{TaskID: id, Err: err}
}

// ErrorKind classifies a remote store failure.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindTimeout    ErrorKind = "timeout"
	KindPermission ErrorKind = "permission"
	KindNotFound   ErrorKind = "not-found"
	KindInvalid    ErrorKind = "invalid"
	KindServer     ErrorKind = "server"
)

// RemoteError is the only failure a Store adapter returns.
type RemoteError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewRemoteError wraps err for operation op.
func NewRemoteError(op string, kind ErrorKind, err error) *RemoteError {
	return &RemoteError{Op: op, Kind: kind, Err: err}
}

// IsNotFound reports whether err is a remote not-found failure.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == KindNotFound
}

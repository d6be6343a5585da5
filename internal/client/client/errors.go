package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the request never produced a response: DNS,
	// connection refused, timeout, cancelled context.
	ErrUnavailable = errors.New("server unavailable")

	// ErrBadResponse means a response arrived but could not be understood.
	ErrBadResponse = errors.New("bad response")

	// ErrRejected means the service answered and refused the operation.
	// The concrete error is *RejectedError.
	ErrRejected = errors.New("rejected by server")
)

// RejectedError carries the service's own explanation of a refusal.
// Message may be empty when the service gave none.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", ErrRejected, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", ErrRejected, e.StatusCode, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// ServerMessage returns the service-supplied reason behind err, if any.
func ServerMessage(err error) (string, bool) {
	var re *RejectedError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message, true
	}
	return "", false
}

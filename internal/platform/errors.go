package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWindow means nothing currently holds focus. It is a normal state.
	ErrNoWindow = errors.New("no focused window")
	// ErrDisplayUnavailable means the windowing display could not be reached.
	ErrDisplayUnavailable = errors.New("display unavailable")
	// ErrUnsupportedPlatform is returned where no backend exists.
	ErrUnsupportedPlatform = errors.New("active window query not supported on this platform")
	// ErrQueryFailed matches every *QueryError via errors.Is.
	ErrQueryFailed = errors.New("window query failed")
	// ErrInvariant marks a result that would violate the WindowInfo contract.
	ErrInvariant = errors.New("inconsistent window info")
	// ErrAccessDenied means a process handle could not be opened.
	ErrAccessDenied = errors.New("process access denied")
)

// Sub-query names used in QueryError.Op.
const (
	OpFocus    = "focus"
	OpTitle    = "title"
	OpBounds   = "bounds"
	OpOwner    = "owner"
	OpValidate = "validate"
)

// QueryError reports which mandatory sub-query failed.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s query failed", e.Op)
	}
	return fmt.Sprintf("%s query failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is makes every QueryError match ErrQueryFailed.
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}

func queryErr(op string, err error) error {
	return &QueryError{Op: op, Err: err}
}

// IsAbsent reports whether err is the ordinary "nothing focused" outcome.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNoWindow)
}

// Reason classifies a query outcome. Callers that diff successive polls
// compare it so that a broken display is never mistaken for an empty one.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNoWindow            Reason = "no_window"
	ReasonDisplayUnavailable  Reason = "display_unavailable"
	ReasonUnsupportedPlatform Reason = "unsupported_platform"
	ReasonQueryFailed         Reason = "query_failed"
)

// ReasonOf maps a query error to its Reason. A nil error is ReasonNone.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case IsAbsent(err):
		return ReasonNoWindow
	case errors.Is(err, ErrDisplayUnavailable):
		return ReasonDisplayUnavailable
	case errors.Is(err, ErrUnsupportedPlatform):
		return ReasonUnsupportedPlatform
	default:
		return ReasonQueryFailed
	}
}

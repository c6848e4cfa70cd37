package collector

import "errors"

// Sentinel errors for the fixed conditions the collector distinguishes.
// Simulator-internal conditions (collision, game-over, line clear) are
// normal state transitions, never errors.
var (
	ErrInvalidArgument = errors.New("collector: invalid argument")
	ErrPolicyNotSet    = errors.New("collector: policy not set")
	ErrClosed          = errors.New("collector: closed")
)

// ErrorKind classifies a CollectorError.
type ErrorKind int

const (
	KindInvalidArgument ErrorKind = iota
	KindPolicyNotSet
	KindClosed
	KindPolicyFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindPolicyNotSet:
		return "policy_not_set"
	case KindClosed:
		return "closed"
	case KindPolicyFailure:
		return "policy_failure"
	default:
		return "unknown"
	}
}

// CollectorError wraps a policy failure (the callback raised, returned a
// malformed tuple, or panicked) so callers can recover the underlying cause
// with errors.As while still getting a stable Kind to branch on.
type CollectorError struct {
	Kind  ErrorKind
	Cause error
}

func (e *CollectorError) Error() string {
	if e.Cause != nil {
		return "collector: " + e.Kind.String() + ": " + e.Cause.Error()
	}
	return "collector: " + e.Kind.String()
}

func (e *CollectorError) Unwrap() error { return e.Cause }

package domain

import "errors"

var (
	ErrUserExists  = errors.New("user already exists")
	ErrNoEffect    = errors.New("statement affected no rows")
	ErrNotFound    = errors.New("record not found")
	ErrTimeout     = errors.New("operation timed out")
	ErrUnavailable = errors.New("persistence temporarily unavailable")
	ErrPersistence = errors.New("persistence failure")
)

// Kind classifies a failure for response mapping.
type Kind int

const (
	KindMalformedInput Kind = iota + 1
	KindPolicy
	KindConflict
	KindNotFound
	KindExecution
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed_input"
	case KindPolicy:
		return "policy"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

package approval

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownEntityKind = errors.New("unknown entity kind")
	ErrNotFound          = errors.New("not found")
	ErrRuleConflict      = errors.New("rule cannot both auto-approve and auto-reject")
	ErrImmutableLog      = errors.New("approval log entries are immutable")
)

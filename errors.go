package imbridge

import "errors"

// Precondition failures reported by the bridge. Callers see them wrapped,
// so compare with errors.Is.
var (
	ErrNoContext          = errors.New("imbridge: no GUI context")
	ErrInvalidViewport    = errors.New("imbridge: invalid viewport")
	ErrAlreadyInitialized = errors.New("imbridge: GUI context already initialized")
	ErrExecutorClosed     = errors.New("imbridge: executor closed")
)

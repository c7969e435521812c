package library

import "errors"

// Lookup failures.
var (
	ErrItemNotFound   = errors.New("item not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrLoanNotFound   = errors.New("loan not found")
)

// Precondition violations of the checkout/return state machine.
var (
	ErrItemUnavailable     = errors.New("item is already checked out")
	ErrLoanAlreadyReturned = errors.New("loan is already returned")
)

// Persistence failures. Stores wrap the underlying cause with errors.Join,
// so callers match with errors.Is. ErrLoadFailed is recoverable: the
// documented caller behavior is to start with an empty aggregate.
var (
	ErrSaveFailed = errors.New("saving library failed")
	ErrLoadFailed = errors.New("loading library failed")
)

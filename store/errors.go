package store

import "errors"

var (
	// ErrBadInput indicates a malformed enqueue payload: a missing
	// required field or an unparseable value.
	ErrBadInput = errors.New("bad input")

	// ErrNotFound indicates that the referenced job id is absent from
	// the relevant collection.
	ErrNotFound = errors.New("not found")

	// ErrJobLost indicates that a state transition found the job in an
	// unexpected state, typically because another actor transitioned or
	// removed it concurrently.
	ErrJobLost = errors.New("job lost")

	// ErrBadState indicates that an invalid job state was supplied to
	// Clean. Deletion is restricted to terminal states; supplying a
	// non-terminal state such as pending or processing is rejected.
	ErrBadState = errors.New("bad job state")
)

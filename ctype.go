package go_scratch_buffer_pool

import "errors"

type bufferState byte

const (
	stateFree bufferState = iota
	stateInUse
)

// Code is the status value the boundary shim reports to callers.
type Code byte

const (
	CodeOK Code = iota
	CodeNoBufferAvailable
	CodeSizeTooBig
	CodeInvalidHandle
)

type CustomError struct {
	error
	code Code
}

var (
	// ErrNoBufferAvailable the budget cannot satisfy the request, even after
	// evicting every free buffer.
	ErrNoBufferAvailable = CustomError{
		error: errors.New("no buffer available"),
		code:  CodeNoBufferAvailable,
	}
	// ErrSizeTooBig the request exceeds the per-buffer ceiling.
	ErrSizeTooBig = CustomError{
		error: errors.New("size too big"),
		code:  CodeSizeTooBig,
	}
	// ErrInvalidHandle the handle does not refer to a currently checked-out buffer.
	ErrInvalidHandle = CustomError{
		error: errors.New("invalid handle"),
		code:  CodeInvalidHandle,
	}

	// ErrCorruptedState marks a broken internal invariant. It is fatal to the
	// pool and must not be caught and retried.
	ErrCorruptedState = errors.New("corrupted pool state")
)

func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var custom CustomError
	if errors.As(err, &custom) {
		return custom.code
	}
	// only the three sentinel errors above ever cross the boundary shim;
	// anything else is reported as the generic allocation failure
	return CodeNoBufferAvailable
}

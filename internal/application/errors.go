package application

import "errors"

var (
	// ErrResultAlreadySet is returned when a task result is assigned twice.
	ErrResultAlreadySet = errors.New("result already set for this task")
	ErrPoolClosed       = errors.New("dispatcher is closed")
	ErrOperationPanic   = errors.New("operation panicked")
	ErrUnexpectedResult = errors.New("unexpected operation result type")
	ErrInvalidArgument  = errors.New("invalid argument")
)

package ports

import "context"

// Operator runs named ticket operations over one server session. An Operator
// is owned by a single worker and is never used concurrently.
type Operator interface {
	// Login authenticates the session. It reports false when the session was
	// already logged in.
	Login(ctx context.Context) (bool, error)
	// Logout ends the session. It reports false when there was no session.
	Logout(ctx context.Context) (bool, error)
	LoggedIn() bool
	// Perform runs operation with positional and keyword arguments. A
	// rejected or expired session is reported as a protocol authentication
	// error.
	Perform(ctx context.Context, operation string, args []any, kwargs map[string]any) (any, error)
}

// OperatorFactory builds a fresh Operator with its own session.
type OperatorFactory func() (Operator, error)

package producer

import "github.com/vango-dev/reflex/internal/errors"

var (
	// ErrUnknownAction is returned by Dispatch for a name with no registered
	// action. Match it with errors.Is.
	ErrUnknownAction = errors.New("E201")

	// ErrDestroyed is returned by Dispatch after Destroy.
	ErrDestroyed = errors.New("E202")
)

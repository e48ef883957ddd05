package sessions

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/fault"
)

var (
	ErrNotFound  = fmt.Errorf("session %w", fault.ErrNotFound)
	ErrStale     = fmt.Errorf("session changed since it was loaded: %w", fault.ErrConflict)
	ErrAbandoned = fmt.Errorf("session was reset and can no longer change: %w", fault.ErrConflict)
	ErrNoSession = fmt.Errorf("snapshot carries no session: %w", fault.ErrValidation)
)

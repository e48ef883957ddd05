package workflow

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/fault"
)

// Controller errors. Guard failures are fault.ValidationError values.
var (
	ErrWrongStep   = fmt.Errorf("action not available in the current step: %w", fault.ErrConflict)
	ErrStaleResult = fmt.Errorf("result belongs to a superseded session or generation: %w", fault.ErrConflict)
	ErrInvalidStep = fmt.Errorf("unknown workflow step: %w", fault.ErrValidation)
)

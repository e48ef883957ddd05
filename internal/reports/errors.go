package reports

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/fault"
)

var (
	ErrNotFound    = fmt.Errorf("report %w", fault.ErrNotFound)
	ErrNotDraft    = fmt.Errorf("report is no longer a draft: %w", fault.ErrConflict)
	ErrNoSelection = fmt.Errorf("session has no single selected diagnosis: %w", fault.ErrValidation)
	ErrRender      = fmt.Errorf("render report: %w", fault.ErrPersistence)
)

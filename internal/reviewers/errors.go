package reviewers

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/fault"
)

var (
	ErrNotFound = fmt.Errorf("reviewer %w", fault.ErrNotFound)
	ErrInactive = fmt.Errorf("reviewer is not accepting submissions: %w", fault.ErrValidation)
)

package submissions

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/fault"
)

var (
	ErrNotFound         = fmt.Errorf("submission %w", fault.ErrNotFound)
	ErrReviewed         = fmt.Errorf("submission has already been reviewed: %w", fault.ErrConflict)
	ErrAlreadySubmitted = fmt.Errorf("report has already been submitted: %w", fault.ErrConflict)
)

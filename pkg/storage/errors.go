package storage

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/fault"
)

var (
	// ErrNotFound indicates the requested blob does not exist.
	ErrNotFound = fmt.Errorf("blob %w", fault.ErrNotFound)
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = fmt.Errorf("storage key must not be empty: %w", fault.ErrValidation)
	// ErrInvalidKey indicates the storage key contains a path traversal segment.
	ErrInvalidKey = fmt.Errorf("storage key contains invalid path segment: %w", fault.ErrValidation)
)

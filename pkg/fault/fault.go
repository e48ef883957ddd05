// Package fault defines the error kinds shared by every domain system:
// validation, generation, persistence, not-found, and conflict. Domain
// packages declare their own sentinel errors that wrap one of these kinds so
// callers can branch on the kind while messages stay specific.
package fault

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error kinds.
var (
	ErrValidation  = errors.New("validation failed")
	ErrGeneration  = errors.New("generation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
)

// ValidationError names the fields or conditions that blocked an operation.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Fields.Error())
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Messages flattens the field errors into a field -> message map.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for field, err := range e.Fields {
		if err != nil {
			out[field] = err.Error()
		}
	}
	return out
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	err, ok := e.Fields[field]
	return ok && err != nil
}

// Validate converts an ozzo-validation result into a ValidationError.
// A nil input returns nil. Internal rule errors are returned unchanged.
func Validate(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var errs validation.Errors
	if errors.As(err, &errs) {
		if filtered := errs.Filter(); filtered == nil {
			return nil
		}
		return &ValidationError{Fields: errs}
	}

	return &ValidationError{Fields: validation.Errors{"request": err}}
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) error {
	return &ValidationError{Fields: validation.Errors{field: errors.New(message)}}
}

// Generation wraps err as a GenerationError.
func Generation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrGeneration) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}

// Persistence wraps a storage failure as a PersistenceError. Errors that
// already carry a kind (not found, conflict, validation) pass through.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if IsKind(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// IsKind reports whether err already wraps one of the error kinds.
func IsKind(err error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

var kinds = []error{ErrValidation, ErrGeneration, ErrPersistence, ErrNotFound, ErrConflict}

// MapHTTPStatus maps an error kind to an HTTP status code.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Fields returns the sorted names of the fields that failed, or nil when err
// is not a ValidationError.
func Fields(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, 0, len(verr.Fields))
	for name, e := range verr.Fields {
		if e != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

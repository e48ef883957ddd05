// Package reviewers serves the instructors and attending physicians a
// learner can submit a report to.
package reviewers

import "github.com/google/uuid"

// Reviewer is an instructor eligible to review submitted reports.
type Reviewer struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Specialty   string    `json:"specialty"`
	Active      bool      `json:"active"`
}

// Eligible reports whether the reviewer may be chosen for a new submission.
func (r Reviewer) Eligible() error {
	if !r.Active {
		return ErrInactive
	}
	return nil
}

// Package reports composes SOAP reports from completed analysis sessions,
// stores them, and renders them to PDF for export. Composition is pure and
// deterministic; persistence and export are separate explicit operations.
package reports

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/pkg/fault"
)

// Status is the review state of a report.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusSubmitted         Status = "submitted"
	StatusUnderReview       Status = "under_review"
	StatusApproved          Status = "approved"
	StatusRevisionRequested Status = "revision_requested"
)

// SOAP holds the four clinical note sections.
type SOAP struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// Report is a learner's composed clinical analysis.
type Report struct {
	ID            uuid.UUID         `json:"id"`
	SessionID     uuid.UUID         `json:"session_id"`
	LearnerID     uuid.UUID         `json:"learner_id"`
	Title         string            `json:"title"`
	DiagnosisName string            `json:"diagnosis_name"`
	Region        string            `json:"region"`
	SOAP          SOAP              `json:"soap"`
	Content       diagnosis.Content `json:"content"`
	Notes         string            `json:"notes"`
	Status        Status            `json:"status"`
	ExportKey     *string           `json:"export_key"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	SubmittedAt   *time.Time        `json:"submitted_at"`
}

// Validate checks that the report is complete enough to submit: a named
// diagnosis and all four SOAP sections.
func (r *Report) Validate() error {
	errs := validation.Errors{
		"diagnosis_name": validation.Validate(r.DiagnosisName, notBlank),
	}

	if err := validation.ValidateStruct(&r.SOAP,
		validation.Field(&r.SOAP.Subjective, notBlank),
		validation.Field(&r.SOAP.Objective, notBlank),
		validation.Field(&r.SOAP.Assessment, notBlank),
		validation.Field(&r.SOAP.Plan, notBlank),
	); err != nil {
		var fields validation.Errors
		if !errors.As(err, &fields) {
			return err
		}
		for name, ferr := range fields {
			errs["soap."+name] = ferr
		}
	}

	return fault.Validate(errs.Filter())
}

// Editable returns ErrNotDraft once the report has left draft.
func (r *Report) Editable() error {
	if r.Status != StatusDraft {
		return ErrNotDraft
	}
	return nil
}

var notBlank = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// Export is a rendered report document.
type Export struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
	Data     []byte `json:"-"`
}

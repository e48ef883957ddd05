// Package submissions hands finished reports to reviewers and records their
// verdicts. A submission is written once when a learner submits and once
// more when the reviewer decides; it is never overwritten afterwards.
package submissions

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/reports"
	"github.com/JaimeStill/casebook/internal/reviewers"
	"github.com/JaimeStill/casebook/pkg/fault"
)

// Status is the reviewer-side state of a submission.
type Status string

const (
	StatusAssigned Status = "assigned"
	StatusReviewed Status = "reviewed"
)

// Outcome is a reviewer's verdict.
type Outcome string

const (
	OutcomeApproved          Outcome = "approved"
	OutcomeRevisionRequested Outcome = "revision_requested"
)

// ReportStatus returns the report status an outcome leads to.
func (o Outcome) ReportStatus() reports.Status {
	if o == OutcomeApproved {
		return reports.StatusApproved
	}
	return reports.StatusRevisionRequested
}

// Feedback is the reviewer's written assessment.
type Feedback struct {
	Text               string `json:"text"`
	AlternateDiagnosis string `json:"alternate_diagnosis,omitempty"`
	AlternateReasoning string `json:"alternate_reasoning,omitempty"`
	Grade              string `json:"grade,omitempty"`
	Strengths          string `json:"strengths,omitempty"`
	Improvements       string `json:"improvements,omitempty"`
	RevisionNotes      string `json:"revision_notes,omitempty"`
}

// Submission links a submitted report to its reviewer.
type Submission struct {
	ID            uuid.UUID  `json:"id"`
	ReportID      uuid.UUID  `json:"report_id"`
	ReviewerID    uuid.UUID  `json:"reviewer_id"`
	LearnerID     uuid.UUID  `json:"learner_id"`
	Notes         string     `json:"notes"`
	Status        Status     `json:"status"`
	Outcome       *Outcome   `json:"outcome"`
	Feedback      *Feedback  `json:"feedback"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	ReviewerName  string     `json:"reviewer_name"`
	ReportTitle   string     `json:"report_title"`
	DiagnosisName string     `json:"diagnosis_name"`
}

// Reviewable returns ErrReviewed once a verdict has been recorded.
func (s *Submission) Reviewable() error {
	if s.Status == StatusReviewed {
		return ErrReviewed
	}
	return nil
}

// Assignable checks that rep can be submitted to rev: the report is still a
// draft with every section written and the reviewer accepts submissions.
func Assignable(rep *reports.Report, rev *reviewers.Reviewer) error {
	if err := rep.Editable(); err != nil {
		return err
	}
	if err := rep.Validate(); err != nil {
		return err
	}
	if err := rev.Eligible(); err != nil {
		return fault.Invalid("reviewer_id", "reviewer is not accepting submissions")
	}
	return nil
}

// ReviewCommand is a reviewer's verdict on an assigned submission.
type ReviewCommand struct {
	Outcome  Outcome  `json:"outcome"`
	Feedback Feedback `json:"feedback"`
}

// Normalize trims surrounding whitespace from every text field.
func (c *ReviewCommand) Normalize() {
	f := &c.Feedback
	for _, s := range []*string{
		&f.Text, &f.AlternateDiagnosis, &f.AlternateReasoning,
		&f.Grade, &f.Strengths, &f.Improvements, &f.RevisionNotes,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks the verdict. Approval requires feedback text; a revision
// request also requires revision notes.
func (c ReviewCommand) Validate() error {
	c.Normalize()
	f := c.Feedback

	errs := validation.Errors{
		"outcome": validation.Validate(c.Outcome,
			validation.Required,
			validation.In(OutcomeApproved, OutcomeRevisionRequested).Error("must be approved or revision_requested"),
		),
		"feedback.text": validation.Validate(f.Text,
			validation.Required.Error("feedback is required"),
			validation.RuneLength(0, 8000),
		),
		"feedback.revision_notes": validation.Validate(f.RevisionNotes,
			validation.When(c.Outcome == OutcomeRevisionRequested,
				validation.Required.Error("required when requesting a revision"),
			),
		),
		"feedback.alternate_reasoning": validation.Validate(f.AlternateReasoning,
			validation.When(f.AlternateDiagnosis != "",
				validation.Required.Error("required with an alternate diagnosis"),
			),
		),
		"feedback.grade": validation.Validate(f.Grade, validation.RuneLength(0, 16)),
	}

	return fault.Validate(errs.Filter())
}

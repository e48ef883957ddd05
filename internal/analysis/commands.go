// Package analysis drives clinical analysis sessions over HTTP. Each request
// restores a workflow controller from the session store, applies one learner
// action, calls the generator, report composer, or submission gateway at the
// step boundary that needs it, and saves the result under the session's
// revision check.
package analysis

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/reports"
	"github.com/JaimeStill/casebook/internal/sessions"
	"github.com/JaimeStill/casebook/internal/submissions"
	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/fault"
)

// View is a session with its report and latest submission.
type View struct {
	Session    *sessions.Record        `json:"session"`
	Next       workflow.Event          `json:"next,omitempty"`
	Report     *reports.Report         `json:"report"`
	Submission *submissions.Submission `json:"submission"`
}

// NotesResult reports whether learner notes were stored. A storage failure
// leaves Saved false without failing the request.
type NotesResult struct {
	Saved  bool            `json:"saved"`
	Error  string          `json:"error,omitempty"`
	Report *reports.Report `json:"report,omitempty"`
}

// ResetResult describes the outcome of a reset.
type ResetResult struct {
	Abandoned  *uuid.UUID    `json:"abandoned"`
	Step       workflow.Step `json:"step"`
	Generation int64         `json:"generation"`
}

type StartCommand struct {
	LearnerID uuid.UUID `json:"learner_id"`
	RegionID  string    `json:"region_id"`
}

func (c StartCommand) Validate() error {
	return fault.Validate(validation.Errors{
		"learner_id": validation.Validate(c.LearnerID, requiredID),
		"region_id":  validation.Validate(c.RegionID, validation.Required),
	}.Filter())
}

type RegionCommand struct {
	RegionID string `json:"region_id"`
}

func (c RegionCommand) Validate() error {
	return fault.Validate(validation.Errors{
		"region_id": validation.Validate(c.RegionID, validation.Required),
	}.Filter())
}

type SymptomsCommand struct {
	SymptomIDs []string `json:"symptom_ids"`
}

func (c SymptomsCommand) Validate() error {
	return fault.Validate(validation.Errors{
		"symptom_ids": validation.Validate(c.SymptomIDs, validation.Each(validation.Required)),
	}.Filter())
}

type SelectCommand struct {
	Rank int `json:"rank"`
}

func (c SelectCommand) Validate() error {
	return fault.Validate(validation.Errors{
		"rank": validation.Validate(c.Rank, validation.Required, validation.Min(1)),
	}.Filter())
}

type ReviewerCommand struct {
	ReviewerID uuid.UUID `json:"reviewer_id"`
}

func (c ReviewerCommand) Validate() error {
	return fault.Validate(validation.Errors{
		"reviewer_id": validation.Validate(c.ReviewerID, requiredID),
	}.Filter())
}

type NotesCommand struct {
	Notes string `json:"notes"`
}

func (c NotesCommand) Validate() error {
	return fault.Validate(validation.Errors{
		"notes": validation.Validate(c.Notes, validation.RuneLength(0, 10000)),
	}.Filter())
}

// AdvanceCommand carries the optional cover note sent with a submission.
type AdvanceCommand struct {
	Notes string `json:"notes"`
}

var requiredID = validation.By(func(value any) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return errors.New("cannot be blank")
	}
	return nil
})

// Package sessions persists analysis sessions: the workflow snapshot of each
// learner attempt, its step, and the optimistic revision that serializes
// writers. Abandoned sessions are kept for history but no longer writable.
package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/internal/workflow"
)

// Record is a stored session.
type Record struct {
	ID          uuid.UUID             `json:"id"`
	LearnerID   uuid.UUID             `json:"learner_id"`
	Step        workflow.Step         `json:"step"`
	Generation  int64                 `json:"generation"`
	Revision    int64                 `json:"revision"`
	Region      workflow.Region       `json:"region"`
	Symptoms    []workflow.Symptom    `json:"symptoms"`
	Transcript  []diagnosis.Exchange  `json:"transcript"`
	Diagnoses   []diagnosis.Candidate `json:"diagnoses"`
	ReviewerID  *uuid.UUID            `json:"reviewer_id"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt *time.Time            `json:"completed_at"`
	AbandonedAt *time.Time            `json:"abandoned_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// Abandoned reports whether the session was reset away from.
func (r *Record) Abandoned() bool {
	return r.AbandonedAt != nil
}

// Snapshot converts the record into controller state.
func (r *Record) Snapshot() workflow.Snapshot {
	region := r.Region
	s := workflow.Snapshot{
		Step:       r.Step,
		Generation: r.Generation,
		LearnerID:  r.LearnerID,
		ReviewerID: r.ReviewerID,
		Session: &workflow.Session{
			ID:          r.ID,
			LearnerID:   r.LearnerID,
			Region:      &region,
			Symptoms:    r.Symptoms,
			Transcript:  r.Transcript,
			Diagnoses:   r.Diagnoses,
			StartedAt:   r.StartedAt,
			CompletedAt: r.CompletedAt,
		},
	}
	return s
}

// Filters contains optional filtering criteria for session queries.
type Filters struct {
	LearnerID *uuid.UUID `json:"learner_id,omitempty"`
	Step      *string    `json:"step,omitempty"`
	RegionID  *string    `json:"region_id,omitempty"`
	Abandoned *bool      `json:"abandoned,omitempty"`
}

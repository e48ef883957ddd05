package submissions

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "submissions", "sb").
	Project("id", "ID").
	Project("report_id", "ReportID").
	Project("reviewer_id", "ReviewerID").
	Project("learner_id", "LearnerID").
	Project("notes", "Notes").
	Project("status", "Status").
	Project("outcome", "Outcome").
	Project("feedback", "Feedback").
	Project("submitted_at", "SubmittedAt").
	Project("reviewed_at", "ReviewedAt").
	Join("public", "reviewers", "rv", "JOIN", "rv.id = sb.reviewer_id").
	Project("display_name", "ReviewerName").
	Join("public", "reports", "rp", "JOIN", "rp.id = sb.report_id").
	Project("title", "ReportTitle").
	Project("diagnosis_name", "DiagnosisName")

var defaultSort = query.SortField{
	Field:      "SubmittedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for submission queries.
type Filters struct {
	ReportID   *uuid.UUID `json:"report_id,omitempty"`
	ReviewerID *uuid.UUID `json:"reviewer_id,omitempty"`
	LearnerID  *uuid.UUID `json:"learner_id,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Outcome    *string    `json:"outcome,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ReportID", f.ReportID).
		WhereEquals("ReviewerID", f.ReviewerID).
		WhereEquals("LearnerID", f.LearnerID).
		WhereEquals("Status", f.Status).
		WhereEquals("Outcome", f.Outcome)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed UUIDs are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	f.ReportID = parseID(values.Get("report_id"))
	f.ReviewerID = parseID(values.Get("reviewer_id"))
	f.LearnerID = parseID(values.Get("learner_id"))

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if o := values.Get("outcome"); o != "" {
		f.Outcome = &o
	}

	return f
}

func parseID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func scanSubmission(s repository.Scanner) (Submission, error) {
	var (
		sub      Submission
		outcome  *string
		feedback []byte
	)

	err := s.Scan(
		&sub.ID,
		&sub.ReportID,
		&sub.ReviewerID,
		&sub.LearnerID,
		&sub.Notes,
		&sub.Status,
		&outcome,
		&feedback,
		&sub.SubmittedAt,
		&sub.ReviewedAt,
		&sub.ReviewerName,
		&sub.ReportTitle,
		&sub.DiagnosisName,
	)
	if err != nil {
		return sub, err
	}

	if outcome != nil {
		o := Outcome(*outcome)
		sub.Outcome = &o
	}

	if len(feedback) > 0 {
		var f Feedback
		if err := json.Unmarshal(feedback, &f); err != nil {
			return sub, fmt.Errorf("decode feedback: %w", err)
		}
		sub.Feedback = &f
	}

	return sub, nil
}

package reports

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reports", "rp").
	Project("id", "ID").
	Project("session_id", "SessionID").
	Project("learner_id", "LearnerID").
	Project("title", "Title").
	Project("diagnosis_name", "DiagnosisName").
	Project("region", "Region").
	Project("soap", "SOAP").
	Project("content", "Content").
	Project("notes", "Notes").
	Project("status", "Status").
	Project("export_key", "ExportKey").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("submitted_at", "SubmittedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for report queries.
// DiagnosisName uses case-insensitive contains matching.
type Filters struct {
	LearnerID     *uuid.UUID `json:"learner_id,omitempty"`
	SessionID     *uuid.UUID `json:"session_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	DiagnosisName *string    `json:"diagnosis_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("LearnerID", f.LearnerID).
		WhereEquals("SessionID", f.SessionID).
		WhereEquals("Status", f.Status).
		WhereContains("DiagnosisName", f.DiagnosisName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("learner_id"); l != "" {
		if id, err := uuid.Parse(l); err == nil {
			f.LearnerID = &id
		}
	}

	if s := values.Get("session_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.SessionID = &id
		}
	}

	if st := values.Get("status"); st != "" {
		f.Status = &st
	}

	if d := values.Get("diagnosis_name"); d != "" {
		f.DiagnosisName = &d
	}

	return f
}

func scanReport(s repository.Scanner) (Report, error) {
	var (
		r             Report
		soap, content []byte
	)

	err := s.Scan(
		&r.ID,
		&r.SessionID,
		&r.LearnerID,
		&r.Title,
		&r.DiagnosisName,
		&r.Region,
		&soap,
		&content,
		&r.Notes,
		&r.Status,
		&r.ExportKey,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.SubmittedAt,
	)
	if err != nil {
		return r, err
	}

	if err := json.Unmarshal(soap, &r.SOAP); err != nil {
		return r, fmt.Errorf("decode soap: %w", err)
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &r.Content); err != nil {
			return r, fmt.Errorf("decode content: %w", err)
		}
	}

	return r, nil
}

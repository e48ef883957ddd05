package sessions

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "sessions", "s").
	Project("id", "ID").
	Project("learner_id", "LearnerID").
	Project("step", "Step").
	Project("generation", "Generation").
	Project("revision", "Revision").
	Project("region_id", "RegionID").
	Project("symptoms", "Symptoms").
	Project("transcript", "Transcript").
	Project("diagnoses", "Diagnoses").
	Project("reviewer_id", "ReviewerID").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt").
	Project("abandoned_at", "AbandonedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "regions", "r", "JOIN", "r.id = s.region_id").
	Project("name", "RegionName")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("LearnerID", f.LearnerID).
		WhereEquals("Step", f.Step).
		WhereEquals("RegionID", f.RegionID).
		WhereIsNull("AbandonedAt", invert(f.Abandoned))
}

func invert(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := !*b
	return &v
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("learner_id"); l != "" {
		if id, err := uuid.Parse(l); err == nil {
			f.LearnerID = &id
		}
	}

	if s := values.Get("step"); s != "" {
		f.Step = &s
	}

	if r := values.Get("region_id"); r != "" {
		f.RegionID = &r
	}

	if a := values.Get("abandoned"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Abandoned = &v
		}
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		r                               Record
		symptoms, transcript, diagnoses []byte
	)

	err := s.Scan(
		&r.ID,
		&r.LearnerID,
		&r.Step,
		&r.Generation,
		&r.Revision,
		&r.Region.ID,
		&symptoms,
		&transcript,
		&diagnoses,
		&r.ReviewerID,
		&r.StartedAt,
		&r.CompletedAt,
		&r.AbandonedAt,
		&r.UpdatedAt,
		&r.Region.Name,
	)
	if err != nil {
		return r, err
	}

	if err := decode(symptoms, &r.Symptoms); err != nil {
		return r, fmt.Errorf("decode symptoms: %w", err)
	}
	if err := decode(transcript, &r.Transcript); err != nil {
		return r, fmt.Errorf("decode transcript: %w", err)
	}
	if err := decode(diagnoses, &r.Diagnoses); err != nil {
		return r, fmt.Errorf("decode diagnoses: %w", err)
	}

	return r, nil
}

func decode[T any](data []byte, dest *[]T) error {
	*dest = []T{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return err
	}
	if *dest == nil {
		*dest = []T{}
	}
	return nil
}

func encode[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

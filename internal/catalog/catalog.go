// Package catalog serves the reference data learners choose from: body
// regions and the symptoms that belong to each region. The catalog is
// read-only at runtime; it is seeded by migrations.
package catalog

import "github.com/JaimeStill/casebook/internal/workflow"

// Region is a body region learners can examine.
type Region struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// Choice converts the region into the form held by a session.
func (r Region) Choice() workflow.Region {
	return workflow.Region{ID: r.ID, Name: r.Name}
}

// Symptom is a finding a learner can select for a region.
// RedFlag marks findings that warrant urgent attention.
type Symptom struct {
	ID          string `json:"id"`
	RegionID    string `json:"region_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RedFlag     bool   `json:"red_flag"`
	SortOrder   int    `json:"sort_order"`
}

func (s Symptom) Choice() workflow.Symptom {
	return workflow.Symptom{
		ID:       s.ID,
		RegionID: s.RegionID,
		Name:     s.Name,
		RedFlag:  s.RedFlag,
	}
}

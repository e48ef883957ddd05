package workflow

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/diagnosis"
)

// Region is a body region as chosen by the learner.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Symptom is a catalog finding selected into a session.
type Symptom struct {
	ID       string `json:"id"`
	RegionID string `json:"region_id"`
	Name     string `json:"name"`
	RedFlag  bool   `json:"red_flag"`
}

// Session is one learner's attempt at the diagnostic exercise.
type Session struct {
	ID          uuid.UUID             `json:"id"`
	LearnerID   uuid.UUID             `json:"learner_id"`
	Region      *Region               `json:"region"`
	Symptoms    []Symptom             `json:"symptoms"`
	Transcript  []diagnosis.Exchange  `json:"transcript"`
	Diagnoses   []diagnosis.Candidate `json:"diagnoses"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt *time.Time            `json:"completed_at"`
}

// Primary returns the selected working diagnosis when exactly one
// candidate is selected.
func (s *Session) Primary() (diagnosis.Candidate, bool) {
	var found diagnosis.Candidate
	count := 0
	for _, c := range s.Diagnoses {
		if c.Selected {
			found = c
			count++
		}
	}
	return found, count == 1
}

// SelectedCount returns the number of candidates marked selected.
func (s *Session) SelectedCount() int {
	n := 0
	for _, c := range s.Diagnoses {
		if c.Selected {
			n++
		}
	}
	return n
}

// Differentials returns the unselected candidates in rank order.
func (s *Session) Differentials() []diagnosis.Candidate {
	out := make([]diagnosis.Candidate, 0, len(s.Diagnoses))
	for _, c := range s.Diagnoses {
		if !c.Selected {
			out = append(out, c)
		}
	}
	return out
}

// RedFlags returns the names of selected symptoms flagged as urgent.
func (s *Session) RedFlags() []string {
	var out []string
	for _, sym := range s.Symptoms {
		if sym.RedFlag {
			out = append(out, sym.Name)
		}
	}
	return out
}

// Request builds the generator input from the session facts.
func (s *Session) Request() diagnosis.Request {
	req := diagnosis.Request{
		Symptoms:   make([]diagnosis.Finding, 0, len(s.Symptoms)),
		Transcript: slices.Clone(s.Transcript),
	}
	if s.Region != nil {
		req.Region = s.Region.Name
		if req.Region == "" {
			req.Region = s.Region.ID
		}
	}
	for _, sym := range s.Symptoms {
		req.Symptoms = append(req.Symptoms, diagnosis.Finding{Name: sym.Name, RedFlag: sym.RedFlag})
	}
	if req.Transcript == nil {
		req.Transcript = []diagnosis.Exchange{}
	}
	return req
}

// Clone returns a deep copy safe to hand to readers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Region != nil {
		r := *s.Region
		out.Region = &r
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	out.Symptoms = cloneOrEmpty(s.Symptoms)
	out.Transcript = cloneOrEmpty(s.Transcript)
	out.Diagnoses = make([]diagnosis.Candidate, len(s.Diagnoses))
	for i, c := range s.Diagnoses {
		c.SupportingFindings = cloneOrEmpty(c.SupportingFindings)
		c.ContradictingFindings = cloneOrEmpty(c.ContradictingFindings)
		c.RedFlags = cloneOrEmpty(c.RedFlags)
		c.NextSteps = cloneOrEmpty(c.NextSteps)
		out.Diagnoses[i] = c
	}
	return &out
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

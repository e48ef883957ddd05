package reports

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/internal/workflow"
)

// Compose builds a draft report from a session with exactly one selected
// diagnosis. The result depends only on its inputs; identity and timestamps
// are assigned when the report is saved.
func Compose(s *workflow.Session, content diagnosis.Content) (Report, error) {
	if s == nil || s.Region == nil {
		return Report{}, ErrNoSelection
	}
	primary, ok := s.Primary()
	if !ok {
		return Report{}, ErrNoSelection
	}

	region := regionName(s.Region)

	r := Report{
		SessionID:     s.ID,
		LearnerID:     s.LearnerID,
		Title:         fmt.Sprintf("Clinical Analysis: %s (%s)", primary.Name, region),
		DiagnosisName: primary.Name,
		Region:        region,
		SOAP: SOAP{
			Subjective: subjective(s, region),
			Objective:  objective(primary),
			Assessment: assessment(primary, s.Differentials()),
			Plan:       plan(primary),
		},
		Content: content,
		Status:  StatusDraft,
	}

	return r, r.Validate()
}

func regionName(r *workflow.Region) string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.ReplaceAll(r.ID, "-", " ")
	}
	return cases.Title(language.English).String(name)
}

func subjective(s *workflow.Session, region string) string {
	names := make([]string, 0, len(s.Symptoms))
	for _, sym := range s.Symptoms {
		names = append(names, strings.ToLower(sym.Name))
	}

	var b strings.Builder
	if len(names) == 0 {
		fmt.Fprintf(&b, "Patient presents with a complaint involving the %s region.", strings.ToLower(region))
	} else {
		fmt.Fprintf(&b, "Patient presents with %s involving the %s region.", joinList(names), strings.ToLower(region))
	}

	if flags := s.RedFlags(); len(flags) > 0 {
		fmt.Fprintf(&b, " Red-flag symptoms reported: %s.", joinList(flags))
	}

	for _, ex := range s.Transcript {
		q := strings.TrimSpace(ex.Question)
		a := strings.TrimSpace(ex.Answer)
		if q == "" || a == "" {
			continue
		}
		fmt.Fprintf(&b, " Asked %q, the patient answered: %s.", q, strings.TrimRight(a, "."))
	}

	return b.String()
}

func objective(c diagnosis.Candidate) string {
	var parts []string
	if len(c.SupportingFindings) > 0 {
		parts = append(parts, fmt.Sprintf("Findings supporting %s: %s.", c.Name, joinList(c.SupportingFindings)))
	}
	if len(c.ContradictingFindings) > 0 {
		parts = append(parts, fmt.Sprintf("Findings against: %s.", joinList(c.ContradictingFindings)))
	}
	if len(c.RedFlags) > 0 {
		parts = append(parts, fmt.Sprintf("Red flags to monitor: %s.", joinList(c.RedFlags)))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("No objective findings were recorded for %s.", c.Name)
	}
	return strings.Join(parts, " ")
}

func assessment(primary diagnosis.Candidate, others []diagnosis.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Working diagnosis: %s (%s probability, %s confidence).",
		primary.Name, primary.Tier, percent(primary.Confidence))

	if len(others) > 0 {
		items := make([]string, 0, len(others))
		for _, c := range others {
			items = append(items, fmt.Sprintf("%d. %s (%s, %s)", c.Rank, c.Name, c.Tier, percent(c.Confidence)))
		}
		fmt.Fprintf(&b, " Differential diagnoses considered: %s.", strings.Join(items, "; "))
	}

	return b.String()
}

func plan(c diagnosis.Candidate) string {
	steps := make([]string, 0, len(c.NextSteps))
	for _, s := range c.NextSteps {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}

	if len(steps) == 0 {
		return fmt.Sprintf(
			"Confirm the working diagnosis of %s with targeted history and first-line investigations. Reassess and revisit the differential if findings do not fit.",
			c.Name,
		)
	}

	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

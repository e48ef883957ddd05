// Package diagnosis is the boundary to the external diagnosis and content
// generator. It sends symptom facts out, and turns the generator's loosely
// shaped JSON back into canonical Candidate and Content values. Key-name and
// magnitude inconsistencies in the payload are normalized here and never
// leave this package.
package diagnosis

// Tier is the categorical probability of a differential.
type Tier string

// Probability tiers. TierLow is the default for missing or unknown values.
const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

// Candidate is one normalized differential diagnosis.
// Confidence is always within [0,1] and list fields are never nil.
type Candidate struct {
	Rank                  int      `json:"rank"`
	Name                  string   `json:"name"`
	Tier                  Tier     `json:"probability"`
	Confidence            float64  `json:"confidence"`
	SupportingFindings    []string `json:"supporting_findings"`
	ContradictingFindings []string `json:"contradicting_findings"`
	RedFlags              []string `json:"red_flags"`
	NextSteps             []string `json:"next_steps"`
	Selected              bool     `json:"selected"`
}

// Finding is a symptom as sent to the generator.
type Finding struct {
	Name    string `json:"name"`
	RedFlag bool   `json:"red_flag"`
}

// Exchange is one question/answer turn collected before generation.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Request carries the facts a differential is generated from.
type Request struct {
	Region     string     `json:"region"`
	Symptoms   []Finding  `json:"symptoms"`
	Transcript []Exchange `json:"transcript"`
}

// Content is the educational block attached to a report, keyed by
// diagnosis name.
type Content struct {
	Pathophysiology    string   `json:"pathophysiology"`
	RiskFactors        []string `json:"risk_factors"`
	DiagnosticCriteria []string `json:"diagnostic_criteria"`
	Treatment          []string `json:"treatment"`
	Complications      []string `json:"complications"`
	Prognosis          string   `json:"prognosis"`
	Pearls             []string `json:"pearls"`
	References         []string `json:"references"`
}

// Empty reports whether no section of the content block has text.
func (c Content) Empty() bool {
	return c.Pathophysiology == "" &&
		c.Prognosis == "" &&
		len(c.RiskFactors) == 0 &&
		len(c.DiagnosticCriteria) == 0 &&
		len(c.Treatment) == 0 &&
		len(c.Complications) == 0 &&
		len(c.Pearls) == 0 &&
		len(c.References) == 0
}

// Package workflow implements the clinical analysis step controller: a pure
// finite-state machine that owns one Session aggregate and moves it through
// region selection, symptom selection, diagnosis, review, report composition,
// and submission. Every forward transition is guarded; a failed guard returns
// a validation error and leaves the controller unchanged. The controller does
// no I/O, so callers persist its Snapshot and restore it per request.
package workflow

// Step is one state of the analysis workflow.
type Step string

// Workflow steps in order. StepSubmitted is terminal.
const (
	StepSelectingRegion   Step = "selecting_region"
	StepSelectingSymptoms Step = "selecting_symptoms"
	StepAwaitingDiagnosis Step = "awaiting_diagnosis"
	StepReviewingResults  Step = "reviewing_results"
	StepComposingReport   Step = "composing_report"
	StepSubmitted         Step = "submitted"
)

// Steps lists every step in workflow order.
var Steps = []Step{
	StepSelectingRegion,
	StepSelectingSymptoms,
	StepAwaitingDiagnosis,
	StepReviewingResults,
	StepComposingReport,
	StepSubmitted,
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s.index() >= 0
}

// Terminal reports whether s is the final step.
func (s Step) Terminal() bool {
	return s == StepSubmitted
}

// Predecessor returns the step Back leads to. The initial and terminal
// steps have none.
func (s Step) Predecessor() (Step, bool) {
	i := s.index()
	if i <= 0 || s.Terminal() {
		return "", false
	}
	return Steps[i-1], true
}

func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Event names a forward transition.
type Event string

// Forward transition events.
const (
	EventConfirmRegion   Event = "confirm_region"
	EventConfirmSymptoms Event = "confirm_symptoms"
	EventDiagnose        Event = "diagnose"
	EventCompose         Event = "compose"
	EventSubmit          Event = "submit"
)

type transition struct {
	from   Step
	event  Event
	to     Step
	guard  func(*Controller) error
	effect func(*Controller)
}

var transitions = []transition{
	{from: StepSelectingRegion, event: EventConfirmRegion, to: StepSelectingSymptoms, guard: requireRegion, effect: confirmRegion},
	{from: StepSelectingSymptoms, event: EventConfirmSymptoms, to: StepAwaitingDiagnosis, guard: requireSymptoms},
	{from: StepAwaitingDiagnosis, event: EventDiagnose, to: StepReviewingResults, guard: requireCandidates},
	{from: StepReviewingResults, event: EventCompose, to: StepComposingReport, guard: requireSelection, effect: markComplete},
	{from: StepComposingReport, event: EventSubmit, to: StepSubmitted, guard: requireSubmittable},
}

func lookup(from Step, event Event) (transition, bool) {
	for _, t := range transitions {
		if t.from == from && t.event == event {
			return t, true
		}
	}
	return transition{}, false
}

// ForwardEvent returns the event that advances from s, if any.
func ForwardEvent(s Step) (Event, bool) {
	for _, t := range transitions {
		if t.from == s {
			return t.event, true
		}
	}
	return "", false
}

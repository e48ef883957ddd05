package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/pkg/fault"
)

// Draft is the composed report as seen by the submit guard.
type Draft interface {
	Validate() error
}

// Ticket identifies one diagnosis generation request. Results carrying a
// ticket from an earlier session or generation are discarded.
type Ticket struct {
	SessionID  uuid.UUID `json:"session_id"`
	Generation int64     `json:"generation"`
}

// Snapshot is the persisted form of a controller.
type Snapshot struct {
	Step       Step       `json:"step"`
	Generation int64      `json:"generation"`
	LearnerID  uuid.UUID  `json:"learner_id"`
	ReviewerID *uuid.UUID `json:"reviewer_id"`
	Session    *Session   `json:"session"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller drives one learner's session through the workflow. It is not
// safe for concurrent use; callers serialize access per session.
type Controller struct {
	step       Step
	generation int64
	learnerID  uuid.UUID
	region     *Region
	reviewerID *uuid.UUID
	draft      Draft
	session    *Session
	now        func() time.Time
}

// New returns a controller at the initial step with no session.
func New(learnerID uuid.UUID, opts ...Option) *Controller {
	c := &Controller{
		step:      StepSelectingRegion,
		learnerID: learnerID,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore rebuilds a controller from a snapshot and the session's current
// report draft, if any.
func Restore(s Snapshot, draft Draft, opts ...Option) (*Controller, error) {
	if !s.Step.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStep, s.Step)
	}
	if s.Session == nil && s.Step != StepSelectingRegion {
		return nil, fmt.Errorf("%w: step %s requires a session", ErrInvalidStep, s.Step)
	}

	c := New(s.LearnerID, opts...)
	c.step = s.Step
	c.generation = s.Generation
	c.session = s.Session.Clone()
	c.draft = draft

	if s.ReviewerID != nil {
		id := *s.ReviewerID
		c.reviewerID = &id
	}
	if c.session != nil && c.session.Region != nil {
		r := *c.session.Region
		c.region = &r
	}

	return c, nil
}

// Snapshot captures the controller state for persistence.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Step:       c.step,
		Generation: c.generation,
		LearnerID:  c.learnerID,
		Session:    c.session.Clone(),
	}
	if c.reviewerID != nil {
		id := *c.reviewerID
		s.ReviewerID = &id
	}
	return s
}

func (c *Controller) Step() Step {
	return c.step
}

// Generation increments on every Back and Reset.
func (c *Controller) Generation() int64 {
	return c.generation
}

func (c *Controller) LearnerID() uuid.UUID {
	return c.learnerID
}

// Session returns a copy of the current session, or nil before the first
// region is confirmed.
func (c *Controller) Session() *Session {
	return c.session.Clone()
}

// ReviewerID returns the chosen reviewer, if any.
func (c *Controller) ReviewerID() (uuid.UUID, bool) {
	if c.reviewerID == nil {
		return uuid.Nil, false
	}
	return *c.reviewerID, true
}

// ChooseRegion records the region to confirm. Confirming a different
// region than the session already holds clears its symptoms.
func (c *Controller) ChooseRegion(region Region) error {
	if err := c.require(StepSelectingRegion, "choose region"); err != nil {
		return err
	}
	region.ID = strings.TrimSpace(region.ID)
	c.region = &region
	return nil
}

// SetSymptoms replaces the selected symptoms. Every symptom must belong to
// the session region; duplicates collapse to their first occurrence.
func (c *Controller) SetSymptoms(symptoms []Symptom) error {
	if err := c.require(StepSelectingSymptoms, "set symptoms"); err != nil {
		return err
	}

	regionID := c.session.Region.ID
	seen := make(map[string]bool, len(symptoms))
	out := make([]Symptom, 0, len(symptoms))

	for _, s := range symptoms {
		if s.RegionID != regionID {
			return fault.Invalid("symptoms", fmt.Sprintf("symptom %q does not belong to region %q", s.ID, regionID))
		}
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}

	c.session.Symptoms = out
	return nil
}

// RecordExchange appends a follow-up question and answer to the transcript.
func (c *Controller) RecordExchange(ex diagnosis.Exchange) error {
	if err := c.require(StepAwaitingDiagnosis, "record exchange"); err != nil {
		return err
	}
	if strings.TrimSpace(ex.Question) == "" {
		return fault.Invalid("question", "cannot be blank")
	}
	c.session.Transcript = append(c.session.Transcript, ex)
	return nil
}

// BeginDiagnosis issues a ticket for one generation request along with the
// request built from the session facts.
func (c *Controller) BeginDiagnosis() (Ticket, diagnosis.Request, error) {
	if err := c.require(StepAwaitingDiagnosis, "begin diagnosis"); err != nil {
		return Ticket{}, diagnosis.Request{}, err
	}
	t := Ticket{SessionID: c.session.ID, Generation: c.generation}
	return t, c.session.Request(), nil
}

// CompleteDiagnosis attaches generated candidates and advances to review.
// A result for a superseded ticket returns ErrStaleResult and changes
// nothing. An empty result fails the guard and the step stays put.
func (c *Controller) CompleteDiagnosis(t Ticket, candidates []diagnosis.Candidate) error {
	if !c.Current(t) {
		return ErrStaleResult
	}
	if err := c.require(StepAwaitingDiagnosis, "complete diagnosis"); err != nil {
		return err
	}

	prev := c.session.Diagnoses
	attached := make([]diagnosis.Candidate, len(candidates))
	for i, cand := range candidates {
		cand.Selected = false
		attached[i] = cand
	}
	c.session.Diagnoses = attached

	if err := c.Fire(EventDiagnose); err != nil {
		c.session.Diagnoses = prev
		return err
	}
	return nil
}

// Current reports whether t still belongs to the live session and
// generation.
func (c *Controller) Current(t Ticket) bool {
	return c.session != nil &&
		c.session.ID == t.SessionID &&
		c.generation == t.Generation
}

// Select marks the candidate with the given rank as the working diagnosis
// and clears any other selection.
func (c *Controller) Select(rank int) error {
	if err := c.require(StepReviewingResults, "select diagnosis"); err != nil {
		return err
	}

	found := false
	for _, cand := range c.session.Diagnoses {
		if cand.Rank == rank {
			found = true
			break
		}
	}
	if !found {
		return fault.Invalid("rank", fmt.Sprintf("no candidate with rank %d", rank))
	}

	for i := range c.session.Diagnoses {
		c.session.Diagnoses[i].Selected = c.session.Diagnoses[i].Rank == rank
	}
	return nil
}

// Compose advances to report composition with the given draft attached.
func (c *Controller) Compose(draft Draft) error {
	if err := c.Check(EventCompose); err != nil {
		return err
	}
	c.draft = draft
	return c.Fire(EventCompose)
}

// AttachDraft replaces the draft evaluated by the submit guard.
func (c *Controller) AttachDraft(draft Draft) error {
	if err := c.require(StepComposingReport, "attach draft"); err != nil {
		return err
	}
	c.draft = draft
	return nil
}

// ChooseReviewer records the reviewer the report will be submitted to.
func (c *Controller) ChooseReviewer(id uuid.UUID) error {
	if err := c.require(StepComposingReport, "choose reviewer"); err != nil {
		return err
	}
	if id == uuid.Nil {
		return fault.Invalid("reviewer_id", "cannot be blank")
	}
	c.reviewerID = &id
	return nil
}

// Submit advances to the terminal step once the draft is complete and a
// reviewer is chosen.
func (c *Controller) Submit() error {
	return c.Fire(EventSubmit)
}

// Check evaluates the guard for event from the current step without
// transitioning.
func (c *Controller) Check(event Event) error {
	t, ok := lookup(c.step, event)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrWrongStep, event, c.step)
	}
	if t.guard != nil {
		return t.guard(c)
	}
	return nil
}

// Fire performs the forward transition for event if its guard passes.
func (c *Controller) Fire(event Event) error {
	if err := c.Check(event); err != nil {
		return err
	}
	t, _ := lookup(c.step, event)
	if t.effect != nil {
		t.effect(c)
	}
	c.step = t.to
	return nil
}

// Back returns to the previous step. Diagnoses are discarded when leaving
// review, and the draft, reviewer, and completion time when leaving
// composition. Earlier data is kept. In-flight generation results are
// invalidated.
func (c *Controller) Back() error {
	prev, ok := c.step.Predecessor()
	if !ok {
		return fmt.Errorf("%w: back from %s", ErrWrongStep, c.step)
	}

	switch c.step {
	case StepReviewingResults:
		c.session.Diagnoses = []diagnosis.Candidate{}
	case StepComposingReport:
		c.draft = nil
		c.reviewerID = nil
		c.session.CompletedAt = nil
	}

	c.step = prev
	c.generation++
	return nil
}

// Reset abandons the current session and returns to the initial step from
// any step. The abandoned session is returned; pending generation results
// for it are invalidated.
func (c *Controller) Reset() *Session {
	abandoned := c.session
	c.step = StepSelectingRegion
	c.session = nil
	c.region = nil
	c.reviewerID = nil
	c.draft = nil
	c.generation++
	return abandoned
}

func (c *Controller) require(step Step, action string) error {
	if c.step != step {
		return fmt.Errorf("%w: %s in %s", ErrWrongStep, action, c.step)
	}
	return nil
}

func requireRegion(c *Controller) error {
	if c.region == nil || c.region.ID == "" {
		return fault.Invalid("region", "select a body region")
	}
	return nil
}

func confirmRegion(c *Controller) {
	region := *c.region
	if c.session == nil {
		c.session = &Session{
			ID:         uuid.New(),
			LearnerID:  c.learnerID,
			Symptoms:   []Symptom{},
			Transcript: []diagnosis.Exchange{},
			Diagnoses:  []diagnosis.Candidate{},
			StartedAt:  c.now(),
		}
	} else if c.session.Region == nil || c.session.Region.ID != region.ID {
		c.session.Symptoms = []Symptom{}
		c.session.Transcript = []diagnosis.Exchange{}
	}
	c.session.Region = &region
}

func requireSymptoms(c *Controller) error {
	if len(c.session.Symptoms) == 0 {
		return fault.Invalid("symptoms", "select at least one symptom")
	}
	return nil
}

func requireCandidates(c *Controller) error {
	if len(c.session.Diagnoses) == 0 {
		return fault.Invalid("diagnoses", "no usable diagnosis candidates were generated; retry")
	}
	return nil
}

func requireSelection(c *Controller) error {
	switch n := c.session.SelectedCount(); n {
	case 1:
		return nil
	case 0:
		return fault.Invalid("selection", "select a working diagnosis")
	default:
		return fault.Invalid("selection", fmt.Sprintf("exactly one diagnosis must be selected, found %d", n))
	}
}

func markComplete(c *Controller) {
	now := c.now()
	c.session.CompletedAt = &now
}

func requireSubmittable(c *Controller) error {
	errs := validation.Errors{}

	if c.draft == nil {
		errs["report"] = errors.New("no report has been composed")
	} else if err := c.draft.Validate(); err != nil {
		var verr *fault.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for field, ferr := range verr.Fields {
			errs[field] = ferr
		}
	}

	if c.reviewerID == nil {
		errs["reviewer_id"] = errors.New("choose a reviewer")
	}

	if len(errs) == 0 {
		return nil
	}
	return &fault.ValidationError{Fields: errs}
}

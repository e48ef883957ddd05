package analysis_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/catalog"
	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/internal/reports"
	"github.com/JaimeStill/casebook/internal/reviewers"
	"github.com/JaimeStill/casebook/internal/sessions"
	"github.com/JaimeStill/casebook/internal/submissions"
	"github.com/JaimeStill/casebook/internal/workflow"
)

// sessionStore keeps records in memory with the same revision and
// abandonment rules as the database repository.
type sessionStore struct {
	sessions.System
	mu      sync.Mutex
	records map[uuid.UUID]sessions.Record
}

func newSessionStore() *sessionStore {
	return &sessionStore{records: make(map[uuid.UUID]sessions.Record)}
}

func recordOf(snap workflow.Snapshot) sessions.Record {
	s := snap.Session
	return sessions.Record{
		ID:          s.ID,
		LearnerID:   s.LearnerID,
		Step:        snap.Step,
		Generation:  snap.Generation,
		Region:      *s.Region,
		Symptoms:    s.Symptoms,
		Transcript:  s.Transcript,
		Diagnoses:   s.Diagnoses,
		ReviewerID:  snap.ReviewerID,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		UpdatedAt:   time.Now(),
	}
}

func (s *sessionStore) Find(_ context.Context, id uuid.UUID) (*sessions.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, sessions.ErrNotFound
	}
	return &rec, nil
}

func (s *sessionStore) Create(_ context.Context, snap workflow.Snapshot) (*sessions.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := recordOf(snap)
	rec.Revision = 1
	s.records[rec.ID] = rec
	return &rec, nil
}

func (s *sessionStore) Save(_ context.Context, snap workflow.Snapshot, revision int64) (*sessions.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[snap.Session.ID]
	switch {
	case !ok:
		return nil, sessions.ErrNotFound
	case cur.Abandoned():
		return nil, sessions.ErrAbandoned
	case cur.Revision != revision:
		return nil, sessions.ErrStale
	}
	rec := recordOf(snap)
	rec.Revision = revision + 1
	s.records[rec.ID] = rec
	return &rec, nil
}

func (s *sessionStore) Abandon(_ context.Context, id uuid.UUID, generation, revision int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[id]
	switch {
	case !ok:
		return sessions.ErrNotFound
	case cur.Abandoned():
		return sessions.ErrAbandoned
	case cur.Revision != revision:
		return sessions.ErrStale
	}
	now := time.Now()
	cur.Generation = generation
	cur.AbandonedAt = &now
	cur.Revision++
	s.records[id] = cur
	return nil
}

type catalogStub struct {
	catalog.System
	regions  map[string]catalog.Region
	symptoms []catalog.Symptom
}

func newCatalog() *catalogStub {
	return &catalogStub{
		regions: map[string]catalog.Region{
			"chest":   {ID: "chest", Name: "Chest"},
			"abdomen": {ID: "abdomen", Name: "Abdomen"},
		},
		symptoms: []catalog.Symptom{
			{ID: "chest-pain", RegionID: "chest", Name: "Chest pain", RedFlag: true},
			{ID: "dyspnea", RegionID: "chest", Name: "Shortness of breath"},
			{ID: "rlq-pain", RegionID: "abdomen", Name: "Right lower quadrant pain"},
		},
	}
}

func (c *catalogStub) Region(_ context.Context, id string) (*catalog.Region, error) {
	r, ok := c.regions[id]
	if !ok {
		return nil, catalog.ErrRegionNotFound
	}
	return &r, nil
}

func (c *catalogStub) Resolve(_ context.Context, regionID string, ids []string) ([]workflow.Symptom, error) {
	return catalog.Match(c.symptoms, regionID, ids)
}

type directoryStub struct {
	reviewers.System
	byID map[uuid.UUID]reviewers.Reviewer
}

func (d *directoryStub) Find(_ context.Context, id uuid.UUID) (*reviewers.Reviewer, error) {
	r, ok := d.byID[id]
	if !ok {
		return nil, reviewers.ErrNotFound
	}
	return &r, nil
}

type reportStore struct {
	reports.System
	mu        sync.Mutex
	bySession map[uuid.UUID]*reports.Report
	notesErr  error
}

func (s *reportStore) Draft(_ context.Context, sess *workflow.Session) (*reports.Report, error) {
	rep, err := reports.Compose(sess, diagnosis.Content{})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.bySession[sess.ID]; ok {
		rep.ID = cur.ID
	} else {
		rep.ID = uuid.New()
	}
	s.bySession[sess.ID] = &rep
	out := rep
	return &out, nil
}

func (s *reportStore) FindBySession(_ context.Context, id uuid.UUID) (*reports.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.bySession[id]
	if !ok {
		return nil, reports.ErrNotFound
	}
	out := *rep
	return &out, nil
}

func (s *reportStore) byID(id uuid.UUID) *reports.Report {
	for _, rep := range s.bySession {
		if rep.ID == id {
			return rep
		}
	}
	return nil
}

func (s *reportStore) UpdateNotes(_ context.Context, id uuid.UUID, notes string) (*reports.Report, error) {
	if s.notesErr != nil {
		return nil, s.notesErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep := s.byID(id)
	if rep == nil {
		return nil, reports.ErrNotFound
	}
	if err := rep.Editable(); err != nil {
		return nil, err
	}
	rep.Notes = notes
	out := *rep
	return &out, nil
}

type gatewayStub struct {
	submissions.System
	reports   *reportStore
	directory *directoryStub
	submitted []submissions.Submission
}

func (g *gatewayStub) Submit(ctx context.Context, reportID, reviewerID uuid.UUID, notes string) (*submissions.Submission, error) {
	rev, err := g.directory.Find(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	g.reports.mu.Lock()
	defer g.reports.mu.Unlock()
	rep := g.reports.byID(reportID)
	if rep == nil {
		return nil, reports.ErrNotFound
	}
	if err := submissions.Assignable(rep, rev); err != nil {
		return nil, err
	}
	rep.Status = reports.StatusSubmitted

	sub := submissions.Submission{
		ID:         uuid.New(),
		ReportID:   reportID,
		ReviewerID: reviewerID,
		LearnerID:  rep.LearnerID,
		Notes:      notes,
		Status:     submissions.StatusAssigned,
	}
	g.submitted = append(g.submitted, sub)
	return &sub, nil
}

func (g *gatewayStub) Latest(_ context.Context, reportID uuid.UUID) (*submissions.Submission, error) {
	for i := len(g.submitted) - 1; i >= 0; i-- {
		if g.submitted[i].ReportID == reportID {
			sub := g.submitted[i]
			return &sub, nil
		}
	}
	return nil, submissions.ErrNotFound
}

// generatorStub answers with a raw payload normalized the same way the HTTP
// client does. before runs while the request is in flight.
type generatorStub struct {
	body   string
	err    error
	before func()
	calls  int
}

func (g *generatorStub) Generate(_ context.Context, req diagnosis.Request) ([]diagnosis.Candidate, error) {
	g.calls++
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g.before != nil {
		g.before()
	}
	if g.err != nil {
		return nil, g.err
	}
	return diagnosis.Candidates(g.body)
}

func (g *generatorStub) Content(context.Context, string) (diagnosis.Content, error) {
	return diagnosis.Content{}, nil
}

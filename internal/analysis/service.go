package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/casebook/internal/catalog"
	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/internal/reports"
	"github.com/JaimeStill/casebook/internal/reviewers"
	"github.com/JaimeStill/casebook/internal/sessions"
	"github.com/JaimeStill/casebook/internal/submissions"
	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/fault"
)

// Deps holds the systems the analysis service coordinates.
type Deps struct {
	Sessions    sessions.System
	Catalog     catalog.System
	Reviewers   reviewers.System
	Reports     reports.System
	Submissions submissions.System
	Generator   diagnosis.Generator
}

type service struct {
	Deps
	logger *slog.Logger
	opts   []workflow.Option
}

// New creates the analysis service. Controller options apply to every
// restored controller.
func New(deps Deps, logger *slog.Logger, opts ...workflow.Option) System {
	return &service{
		Deps:   deps,
		logger: logger.With("system", "analysis"),
		opts:   opts,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// state is one loaded session: the stored record, its report, and a
// controller restored from both.
type state struct {
	record *sessions.Record
	report *reports.Report
	ctrl   *workflow.Controller
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*state, error) {
	rec, err := s.Sessions.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Abandoned() {
		return nil, sessions.ErrAbandoned
	}

	st := &state{record: rec}
	snap := rec.Snapshot()

	if rec.Step == workflow.StepComposingReport || rec.Step == workflow.StepSubmitted {
		st.report, err = s.findReport(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	var draft workflow.Draft
	if st.report != nil {
		draft = st.report
		if reconcile(rec, st.report) {
			snap.Step = workflow.StepSubmitted
		}
	}

	st.ctrl, err = workflow.Restore(snap, draft, s.opts...)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// reconcile reports whether a session left in composing_report already has
// a submitted report, which happens when the session save after a
// successful submit failed.
func reconcile(rec *sessions.Record, rep *reports.Report) bool {
	return rec.Step == workflow.StepComposingReport && rep.Status != reports.StatusDraft
}

func (s *service) findReport(ctx context.Context, sessionID uuid.UUID) (*reports.Report, error) {
	rep, err := s.Reports.FindBySession(ctx, sessionID)
	if errors.Is(err, fault.ErrNotFound) {
		return nil, nil
	}
	return rep, err
}

func (s *service) save(ctx context.Context, st *state) (*View, error) {
	rec, err := s.Sessions.Save(ctx, st.ctrl.Snapshot(), st.record.Revision)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, rec, st.report)
}

func (s *service) view(ctx context.Context, rec *sessions.Record, rep *reports.Report) (*View, error) {
	if rep != nil && rec.Step != workflow.StepComposingReport && rec.Step != workflow.StepSubmitted {
		rep = nil
	}
	v := &View{Session: rec, Report: rep}

	if rep != nil {
		if reconcile(rec, rep) {
			rec.Step = workflow.StepSubmitted
		}
		if rep.Status != reports.StatusDraft {
			sub, err := s.Submissions.Latest(ctx, rep.ID)
			if err != nil && !errors.Is(err, fault.ErrNotFound) {
				return nil, err
			}
			v.Submission = sub
		}
	}

	if !rec.Abandoned() {
		v.Next, _ = workflow.ForwardEvent(rec.Step)
	}
	return v, nil
}

func (s *service) Start(ctx context.Context, cmd StartCommand) (*View, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	region, err := s.Catalog.Region(ctx, cmd.RegionID)
	if err != nil {
		return nil, err
	}

	ctrl := workflow.New(cmd.LearnerID, s.opts...)
	if err := ctrl.ChooseRegion(region.Choice()); err != nil {
		return nil, err
	}
	if err := ctrl.Fire(workflow.EventConfirmRegion); err != nil {
		return nil, err
	}

	rec, err := s.Sessions.Create(ctx, ctrl.Snapshot())
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session started", "id", rec.ID, "learner_id", rec.LearnerID, "region", rec.Region.ID)
	return s.view(ctx, rec, nil)
}

// View returns a session with its report and latest submission. Abandoned
// sessions remain viewable.
func (s *service) View(ctx context.Context, id uuid.UUID) (*View, error) {
	var (
		rec *sessions.Record
		rep *reports.Report
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rec, err = s.Sessions.Find(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		rep, err = s.findReport(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.view(ctx, rec, rep)
}

func (s *service) ChooseRegion(ctx context.Context, id uuid.UUID, regionID string) (*View, error) {
	if err := (RegionCommand{RegionID: regionID}).Validate(); err != nil {
		return nil, err
	}

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	region, err := s.Catalog.Region(ctx, regionID)
	if err != nil {
		return nil, err
	}

	if err := st.ctrl.ChooseRegion(region.Choice()); err != nil {
		return nil, err
	}
	if err := st.ctrl.Fire(workflow.EventConfirmRegion); err != nil {
		return nil, err
	}
	return s.save(ctx, st)
}

func (s *service) SetSymptoms(ctx context.Context, id uuid.UUID, symptomIDs []string) (*View, error) {
	if err := (SymptomsCommand{SymptomIDs: symptomIDs}).Validate(); err != nil {
		return nil, err
	}

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.ctrl.Step() != workflow.StepSelectingSymptoms {
		return nil, fmt.Errorf("%w: set symptoms in %s", workflow.ErrWrongStep, st.ctrl.Step())
	}

	symptoms, err := s.Catalog.Resolve(ctx, st.record.Region.ID, symptomIDs)
	if err != nil {
		return nil, err
	}

	if err := st.ctrl.SetSymptoms(symptoms); err != nil {
		return nil, err
	}
	return s.save(ctx, st)
}

func (s *service) RecordExchange(ctx context.Context, id uuid.UUID, ex diagnosis.Exchange) (*View, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.ctrl.RecordExchange(ex); err != nil {
		return nil, err
	}
	return s.save(ctx, st)
}

func (s *service) Select(ctx context.Context, id uuid.UUID, rank int) (*View, error) {
	if err := (SelectCommand{Rank: rank}).Validate(); err != nil {
		return nil, err
	}

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.ctrl.Select(rank); err != nil {
		return nil, err
	}
	return s.save(ctx, st)
}

func (s *service) ChooseReviewer(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) (*View, error) {
	if err := (ReviewerCommand{ReviewerID: reviewerID}).Validate(); err != nil {
		return nil, err
	}

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewer, err := s.Reviewers.Find(ctx, reviewerID)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil, fault.Invalid("reviewer_id", "unknown reviewer")
		}
		return nil, err
	}
	if err := reviewer.Eligible(); err != nil {
		return nil, fault.Invalid("reviewer_id", "reviewer is not accepting submissions")
	}

	if err := st.ctrl.ChooseReviewer(reviewer.ID); err != nil {
		return nil, err
	}
	return s.save(ctx, st)
}

// UpdateNotes stores learner notes on the draft report. Storage failures are
// reported in the result instead of failing the workflow.
func (s *service) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*NotesResult, error) {
	if err := (NotesCommand{Notes: notes}).Validate(); err != nil {
		return nil, err
	}

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.ctrl.Step() != workflow.StepComposingReport || st.report == nil {
		return nil, fmt.Errorf("%w: update notes in %s", workflow.ErrWrongStep, st.ctrl.Step())
	}

	rep, err := s.Reports.UpdateNotes(ctx, st.report.ID, notes)
	if err != nil {
		if errors.Is(err, fault.ErrPersistence) {
			s.logger.WarnContext(ctx, "notes not saved", "session_id", id, "report_id", st.report.ID, "error", err)
			return &NotesResult{Saved: false, Error: "notes could not be saved; keep a copy and retry"}, nil
		}
		return nil, err
	}

	return &NotesResult{Saved: true, Report: rep}, nil
}

func (s *service) Advance(ctx context.Context, id uuid.UUID, cmd AdvanceCommand) (*View, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch st.ctrl.Step() {
	case workflow.StepSelectingRegion:
		err = st.ctrl.Fire(workflow.EventConfirmRegion)
	case workflow.StepSelectingSymptoms:
		err = st.ctrl.Fire(workflow.EventConfirmSymptoms)
	case workflow.StepAwaitingDiagnosis:
		err = s.diagnose(ctx, st)
	case workflow.StepReviewingResults:
		err = s.compose(ctx, st)
	case workflow.StepComposingReport:
		return s.submit(ctx, st, cmd.Notes)
	default:
		err = fmt.Errorf("%w: session is already %s", workflow.ErrWrongStep, st.ctrl.Step())
	}
	if err != nil {
		return nil, err
	}

	return s.save(ctx, st)
}

// diagnose requests a differential and attaches it. The save that follows
// is rejected if the session moved on while the generator was running.
func (s *service) diagnose(ctx context.Context, st *state) error {
	ticket, req, err := st.ctrl.BeginDiagnosis()
	if err != nil {
		return err
	}

	candidates, err := s.Generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "differential generated",
		"session_id", ticket.SessionID,
		"generation", ticket.Generation,
		"candidates", len(candidates),
	)
	return st.ctrl.CompleteDiagnosis(ticket, candidates)
}

func (s *service) compose(ctx context.Context, st *state) error {
	if err := st.ctrl.Check(workflow.EventCompose); err != nil {
		return err
	}

	rep, err := s.Reports.Draft(ctx, st.ctrl.Session())
	if err != nil {
		return err
	}

	if err := st.ctrl.Compose(rep); err != nil {
		return err
	}
	st.report = rep
	return nil
}

// submit hands the report to the gateway, then records the terminal step.
// A failed session save after a successful submit is reconciled on the
// next load.
func (s *service) submit(ctx context.Context, st *state, notes string) (*View, error) {
	if err := st.ctrl.Check(workflow.EventSubmit); err != nil {
		return nil, err
	}
	reviewerID, _ := st.ctrl.ReviewerID()

	sub, err := s.Submissions.Submit(ctx, st.report.ID, reviewerID, notes)
	if err != nil {
		return nil, err
	}

	if err := st.ctrl.Submit(); err != nil {
		return nil, err
	}

	submitted := *st.report
	submitted.Status = reports.StatusSubmitted
	st.report = &submitted

	rec, err := s.Sessions.Save(ctx, st.ctrl.Snapshot(), st.record.Revision)
	if err != nil {
		s.logger.WarnContext(ctx, "session save after submit failed", "session_id", st.record.ID, "submission_id", sub.ID, "error", err)
		rec = st.record
	}

	v, err := s.view(ctx, rec, st.report)
	if err != nil {
		return nil, err
	}
	v.Submission = sub
	return v, nil
}

func (s *service) Back(ctx context.Context, id uuid.UUID) (*View, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.ctrl.Back(); err != nil {
		return nil, err
	}
	if st.ctrl.Step() != workflow.StepComposingReport {
		st.report = nil
	}
	return s.save(ctx, st)
}

// Reset abandons the session and returns the learner to region selection.
// Submitted sessions are kept as they are.
func (s *service) Reset(ctx context.Context, id uuid.UUID) (*ResetResult, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if st.ctrl.Step() == workflow.StepSubmitted {
		st.ctrl.Reset()
		return &ResetResult{Step: st.ctrl.Step(), Generation: st.ctrl.Generation()}, nil
	}

	st.ctrl.Reset()
	if err := s.Sessions.Abandon(ctx, id, st.ctrl.Generation(), st.record.Revision); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session reset", "id", id, "generation", st.ctrl.Generation())
	return &ResetResult{Abandoned: &id, Step: st.ctrl.Step(), Generation: st.ctrl.Generation()}, nil
}

package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/internal/analysis"
	"github.com/JaimeStill/casebook/internal/sessions"
	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/handlers"
)

type mockSystem struct {
	analysis.System
	startFn   func(ctx context.Context, cmd analysis.StartCommand) (*analysis.View, error)
	advanceFn func(ctx context.Context, id uuid.UUID, cmd analysis.AdvanceCommand) (*analysis.View, error)
	notesFn   func(ctx context.Context, id uuid.UUID, notes string) (*analysis.NotesResult, error)
	resetFn   func(ctx context.Context, id uuid.UUID) (*analysis.ResetResult, error)
}

func (m *mockSystem) Start(ctx context.Context, cmd analysis.StartCommand) (*analysis.View, error) {
	return m.startFn(ctx, cmd)
}

func (m *mockSystem) Advance(ctx context.Context, id uuid.UUID, cmd analysis.AdvanceCommand) (*analysis.View, error) {
	return m.advanceFn(ctx, id, cmd)
}

func (m *mockSystem) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*analysis.NotesResult, error) {
	return m.notesFn(ctx, id, notes)
}

func (m *mockSystem) Reset(ctx context.Context, id uuid.UUID) (*analysis.ResetResult, error) {
	return m.resetFn(ctx, id)
}

func setupMux(sys analysis.System) *http.ServeMux {
	h := analysis.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerStart(t *testing.T) {
	learner := uuid.New()
	sys := &mockSystem{
		startFn: func(_ context.Context, cmd analysis.StartCommand) (*analysis.View, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			return &analysis.View{
				Session: &sessions.Record{ID: uuid.New(), LearnerID: cmd.LearnerID, Step: workflow.StepSelectingSymptoms},
				Next:    workflow.EventConfirmSymptoms,
			}, nil
		},
	}
	mux := setupMux(sys)

	body := `{"learner_id":"` + learner.String() + `","region_id":"chest"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var v analysis.View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Equal(t, learner, v.Session.LearnerID)
	assert.Equal(t, workflow.EventConfirmSymptoms, v.Next)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions", strings.NewReader(`{"region_id":""}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Fields, "learner_id")
	assert.Contains(t, resp.Fields, "region_id")
}

func TestHandlerAdvanceStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"guard", fault.Invalid("symptoms", "select at least one symptom"), http.StatusBadRequest},
		{"generator", fault.Generation(errors.New("timeout")), http.StatusBadGateway},
		{"stale", sessions.ErrStale, http.StatusConflict},
		{"wrong step", workflow.ErrWrongStep, http.StatusConflict},
		{"missing", sessions.ErrNotFound, http.StatusNotFound},
		{"storage", fault.Persistence(errors.New("disk full")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				advanceFn: func(_ context.Context, id uuid.UUID, _ analysis.AdvanceCommand) (*analysis.View, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &analysis.View{Session: &sessions.Record{ID: id}}, nil
				},
			}

			rec := httptest.NewRecorder()
			setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+uuid.NewString()+"/advance", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandlerAdvancePassesNotes(t *testing.T) {
	var got analysis.AdvanceCommand
	sys := &mockSystem{
		advanceFn: func(_ context.Context, id uuid.UUID, cmd analysis.AdvanceCommand) (*analysis.View, error) {
			got = cmd
			return &analysis.View{Session: &sessions.Record{ID: id}}, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/"+uuid.NewString()+"/advance", strings.NewReader(`{"notes":"please review"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "please review", got.Notes)
}

func TestHandlerNotesDegrade(t *testing.T) {
	sys := &mockSystem{
		notesFn: func(context.Context, uuid.UUID, string) (*analysis.NotesResult, error) {
			return &analysis.NotesResult{Saved: false, Error: "notes could not be saved"}, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("PUT", "/sessions/"+uuid.NewString()+"/notes", strings.NewReader(`{"notes":"x"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result analysis.NotesResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.False(t, result.Saved)
}

func TestHandlerRejectsMalformedID(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("POST", "/sessions/nope/reset", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

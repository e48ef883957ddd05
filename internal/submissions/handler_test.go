package submissions_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/internal/submissions"
	"github.com/JaimeStill/casebook/pkg/handlers"
	"github.com/JaimeStill/casebook/pkg/pagination"
)

type mockSystem struct {
	submissions.System
	findFn   func(ctx context.Context, id uuid.UUID) (*submissions.Submission, error)
	openFn   func(ctx context.Context, id uuid.UUID) (*submissions.Submission, error)
	reviewFn func(ctx context.Context, id uuid.UUID, cmd submissions.ReviewCommand) (*submissions.Submission, error)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*submissions.Submission, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Open(ctx context.Context, id uuid.UUID) (*submissions.Submission, error) {
	return m.openFn(ctx, id)
}

func (m *mockSystem) Review(ctx context.Context, id uuid.UUID, cmd submissions.ReviewCommand) (*submissions.Submission, error) {
	return m.reviewFn(ctx, id, cmd)
}

func setupMux(sys submissions.System) *http.ServeMux {
	h := submissions.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)

	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerReviewValidation(t *testing.T) {
	assigned := &submissions.Submission{Status: submissions.StatusAssigned}
	sys := &mockSystem{
		reviewFn: func(_ context.Context, _ uuid.UUID, cmd submissions.ReviewCommand) (*submissions.Submission, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			assigned.Status = submissions.StatusReviewed
			return assigned, nil
		},
	}

	body := `{"outcome":"revision_requested","feedback":{"text":"Reconsider","revision_notes":""}}`
	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/submissions/"+uuid.NewString()+"/review", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Fields, "feedback.revision_notes")
	assert.Equal(t, submissions.StatusAssigned, assigned.Status)
}

func TestHandlerReviewMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("POST", "/submissions/"+uuid.NewString()+"/review", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerOpenReviewedIsConflict(t *testing.T) {
	sys := &mockSystem{
		openFn: func(context.Context, uuid.UUID) (*submissions.Submission, error) {
			return nil, submissions.ErrReviewed
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/submissions/"+uuid.NewString()+"/open", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerFind(t *testing.T) {
	id := uuid.New()
	sys := &mockSystem{
		findFn: func(_ context.Context, got uuid.UUID) (*submissions.Submission, error) {
			if got != id {
				return nil, submissions.ErrNotFound
			}
			return &submissions.Submission{ID: id, Status: submissions.StatusAssigned}, nil
		},
	}
	mux := setupMux(sys)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/submissions/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sub submissions.Submission
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sub))
	assert.Equal(t, id, sub.ID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/submissions/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

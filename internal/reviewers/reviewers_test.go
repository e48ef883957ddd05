package reviewers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/internal/reviewers"
	"github.com/JaimeStill/casebook/pkg/fault"
)

var roster = []reviewers.Reviewer{
	{ID: uuid.MustParse("4a1f0c52-9b8e-4d2a-a3f1-6c7d8e9f0a1b"), DisplayName: "Dr. Amara Osei", Specialty: "Cardiology", Active: true},
	{ID: uuid.MustParse("5b2e1d63-0c9f-4e3b-b4a2-7d8e9f0a1b2c"), DisplayName: "Dr. Lucas Brandt", Specialty: "Emergency Medicine", Active: true},
}

type mockSystem struct {
	listFn func(ctx context.Context, specialty string) ([]reviewers.Reviewer, error)
	findFn func(ctx context.Context, id uuid.UUID) (*reviewers.Reviewer, error)
}

func (m *mockSystem) Handler() *reviewers.Handler {
	return reviewers.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) List(ctx context.Context, specialty string) ([]reviewers.Reviewer, error) {
	return m.listFn(ctx, specialty)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*reviewers.Reviewer, error) {
	return m.findFn(ctx, id)
}

func setupMux(h *reviewers.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestBySpecialty(t *testing.T) {
	assert.Len(t, reviewers.BySpecialty(roster, ""), 2)

	got := reviewers.BySpecialty(roster, "cardiology")
	require.Len(t, got, 1)
	assert.Equal(t, "Dr. Amara Osei", got[0].DisplayName)

	assert.Empty(t, reviewers.BySpecialty(roster, "dermatology"))
}

func TestEligible(t *testing.T) {
	assert.NoError(t, roster[0].Eligible())

	retired := reviewers.Reviewer{DisplayName: "Dr. Retired"}
	err := retired.Eligible()
	assert.ErrorIs(t, err, reviewers.ErrInactive)
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestHandlerList(t *testing.T) {
	var captured string
	sys := &mockSystem{
		listFn: func(_ context.Context, specialty string) ([]reviewers.Reviewer, error) {
			captured = specialty
			return reviewers.BySpecialty(roster, specialty), nil
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/reviewers?specialty=cardiology", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cardiology", captured)

	var got []reviewers.Reviewer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 1)
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*reviewers.Reviewer, error) {
			for _, rv := range roster {
				if rv.ID == id {
					return &rv, nil
				}
			}
			return nil, reviewers.ErrNotFound
		},
	}
	mux := setupMux(sys.Handler())

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/reviewers/" + roster[1].ID.String(), http.StatusOK},
		{"missing", "/reviewers/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", "/reviewers/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

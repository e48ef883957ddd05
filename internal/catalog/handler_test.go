package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/internal/catalog"
	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/fault"
)

type mockSystem struct {
	regionsFn  func(ctx context.Context) ([]catalog.Region, error)
	regionFn   func(ctx context.Context, id string) (*catalog.Region, error)
	symptomsFn func(ctx context.Context, regionID string) ([]catalog.Symptom, error)
}

func (m *mockSystem) Handler() *catalog.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) Regions(ctx context.Context) ([]catalog.Region, error) {
	return m.regionsFn(ctx)
}

func (m *mockSystem) Region(ctx context.Context, id string) (*catalog.Region, error) {
	return m.regionFn(ctx, id)
}

func (m *mockSystem) Symptoms(ctx context.Context, regionID string) ([]catalog.Symptom, error) {
	return m.symptomsFn(ctx, regionID)
}

func (m *mockSystem) Resolve(ctx context.Context, regionID string, ids []string) ([]workflow.Symptom, error) {
	symptoms, err := m.symptomsFn(ctx, regionID)
	if err != nil {
		return nil, err
	}
	return catalog.Match(symptoms, regionID, ids)
}

func newTestHandler(sys catalog.System) *catalog.Handler {
	return catalog.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupMux(h *catalog.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerRegions(t *testing.T) {
	sys := &mockSystem{
		regionsFn: func(context.Context) ([]catalog.Region, error) {
			return []catalog.Region{{ID: "head", Name: "Head"}, {ID: "chest", Name: "Chest"}}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/regions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []catalog.Region
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 2)
	assert.Equal(t, "chest", got[1].ID)
}

func TestHandlerRegionNotFound(t *testing.T) {
	sys := &mockSystem{
		regionFn: func(_ context.Context, id string) (*catalog.Region, error) {
			assert.Equal(t, "spleen", id)
			return nil, catalog.ErrRegionNotFound
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/regions/spleen", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerSymptoms(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "listed", wantStatus: http.StatusOK},
		{name: "unknown region", err: catalog.ErrRegionNotFound, wantStatus: http.StatusNotFound},
		{name: "database down", err: fault.Persistence(io.ErrUnexpectedEOF), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				symptomsFn: func(_ context.Context, regionID string) ([]catalog.Symptom, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return chestSymptoms, nil
				},
			}
			mux := setupMux(newTestHandler(sys))

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", "/regions/chest/symptoms", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

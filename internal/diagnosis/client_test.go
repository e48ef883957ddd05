package diagnosis_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/pkg/fault"
)

func newClient(t *testing.T, handler http.HandlerFunc) *diagnosis.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &diagnosis.Config{BaseURL: srv.URL, Token: "secret"}
	require.NoError(t, cfg.Finalize(nil))

	return diagnosis.NewClient(cfg, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func chestRequest() diagnosis.Request {
	return diagnosis.Request{
		Region:   "chest",
		Symptoms: []diagnosis.Finding{{Name: "chest pain", RedFlag: true}},
	}
}

func TestGenerateNormalizesPayload(t *testing.T) {
	var received diagnosis.Request
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/diagnoses", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"diagnoses": [{"diagnosisName": "Myocardial Infarction", "confidence": 87, "probability": "high"}]}`))
	})

	got, err := client.Generate(context.Background(), chestRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Myocardial Infarction", got[0].Name)
	assert.InDelta(t, 0.87, got[0].Confidence, 1e-9)
	assert.Equal(t, diagnosis.TierHigh, got[0].Tier)
	assert.Equal(t, 1, got[0].Rank)

	assert.Equal(t, "chest", received.Region)
	assert.True(t, received.Symptoms[0].RedFlag)
	assert.NotNil(t, received.Transcript)
}

func TestGenerateAcceptsFencedArray(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Here you go:\n```json\n[{\"name\": \"Pericarditis\"}, {\"name\": \"\"}]\n```"))
	})

	got, err := client.Generate(context.Background(), chestRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pericarditis", got[0].Name)
}

func TestGenerateEmptyListIsSuccess(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"differentials": []}`))
	})

	got, err := client.Generate(context.Background(), chestRequest())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGenerateFailuresAreGenerationErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		cause   error
	}{
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			cause: diagnosis.ErrUpstreamStatus,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("I am unable to help with that."))
			},
			cause: diagnosis.ErrMalformedResponse,
		},
		{
			name: "list key holds an object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"diagnoses": {"name": "x"}}`))
			},
			cause: diagnosis.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, tt.handler)

			_, err := client.Generate(context.Background(), chestRequest())
			require.Error(t, err)
			assert.True(t, errors.Is(err, fault.ErrGeneration))
			assert.True(t, errors.Is(err, tt.cause))
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := &diagnosis.Config{BaseURL: url}
	require.NoError(t, cfg.Finalize(nil))
	client := diagnosis.NewClient(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Generate(context.Background(), chestRequest())
	assert.ErrorIs(t, err, fault.ErrGeneration)
	assert.ErrorIs(t, err, diagnosis.ErrUpstream)
}

func TestGenerateValidatesInput(t *testing.T) {
	calls := 0
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := client.Generate(context.Background(), diagnosis.Request{Region: "chest"})
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrValidation)
	assert.Equal(t, []string{"symptoms"}, fault.Fields(err))
	assert.Zero(t, calls)
}

func TestContent(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Asthma", body["diagnosis"])

		w.Write([]byte(`{"content": {"pathophysiology": "Airway hyperresponsiveness.", "risk_factors": ["atopy"]}}`))
	})

	c, err := client.Content(context.Background(), "Asthma")
	require.NoError(t, err)
	assert.Equal(t, "Airway hyperresponsiveness.", c.Pathophysiology)
	assert.Equal(t, []string{"atopy"}, c.RiskFactors)

	_, err = client.Content(context.Background(), " ")
	assert.ErrorIs(t, err, fault.ErrValidation)
}

package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/pkg/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func corsConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://casebook.local"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *middleware.CORSConfig
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"disabled", &middleware.CORSConfig{Enabled: false}, "GET", "http://casebook.local", "", http.StatusOK},
		{"allowed origin", corsConfig(), "GET", "http://casebook.local", "http://casebook.local", http.StatusOK},
		{"disallowed origin", corsConfig(), "GET", "http://evil.example", "", http.StatusOK},
		{"preflight", corsConfig(), "OPTIONS", "http://casebook.local", "http://casebook.local", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.CORS(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/sessions", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.method != "OPTIONS" || !tt.cfg.Enabled, called)
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	cfg := corsConfig()
	cfg.AllowCredentials = true

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://casebook.local")
	rec := httptest.NewRecorder()
	middleware.CORS(cfg)(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/sessions/1/advance?x=1", nil))

	out := buf.String()
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "uri=\"/sessions/1/advance?x=1\"")
	assert.Contains(t, out, "status=409")
}

func TestMaxBytes(t *testing.T) {
	read := func(limit int64, body string) error {
		var readErr error
		handler := middleware.MaxBytes(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PUT", "/", strings.NewReader(body)))
		return readErr
	}

	assert.NoError(t, read(16, `{"notes":"ok"}`))
	assert.Error(t, read(4, `{"notes":"too long"}`))
	assert.NoError(t, read(0, strings.Repeat("x", 1024)))
}

func TestCORSConfigFinalizeDefaults(t *testing.T) {
	cfg := &middleware.CORSConfig{}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}, cfg.AllowedMethods)
	assert.Equal(t, []string{"Content-Type", "Authorization"}, cfg.AllowedHeaders)
	assert.Equal(t, 3600, cfg.MaxAge)
}

func TestCORSConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.local, http://b.local,")
	t.Setenv("TEST_CORS_MAX_AGE", "60")

	cfg := &middleware.CORSConfig{}
	require.NoError(t, cfg.Finalize(&middleware.CORSEnv{
		Enabled: "TEST_CORS_ENABLED",
		Origins: "TEST_CORS_ORIGINS",
		MaxAge:  "TEST_CORS_MAX_AGE",
	}))

	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Origins)
	assert.Equal(t, 60, cfg.MaxAge)
}

func TestCORSConfigMerge(t *testing.T) {
	base := corsConfig()
	base.Merge(&middleware.CORSConfig{Enabled: false, Origins: []string{"http://c.local"}})

	assert.False(t, base.Enabled)
	assert.Equal(t, []string{"http://c.local"}, base.Origins)
	assert.Equal(t, []string{"GET", "POST"}, base.AllowedMethods)
}

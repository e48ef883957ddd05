// Package handlers provides JSON response helpers shared by domain HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/casebook/pkg/fault"
)

// ErrorResponse is the body written for every failed request.
// Fields is populated for validation failures only.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as an ErrorResponse.
// Server errors log at error level, client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}

	body := ErrorResponse{Error: err.Error()}

	var verr *fault.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Messages()
	}

	RespondJSON(w, status, body)
}

// RespondFault writes err with the status derived from its fault kind.
func RespondFault(w http.ResponseWriter, logger *slog.Logger, err error) {
	RespondError(w, logger, fault.MapHTTPStatus(err), err)
}

// DecodeJSON decodes the request body into T. Decode failures are
// returned as validation errors on the request body.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, fault.Invalid("body", "malformed JSON: "+err.Error())
	}
	return v, nil
}

// DecodeOptionalJSON decodes the request body into T, returning the zero
// value when the body is empty.
func DecodeOptionalJSON[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return v, fault.Invalid("body", "malformed JSON: "+err.Error())
	}
	return v, nil
}

package analysis

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/handlers"
	"github.com/JaimeStill/casebook/pkg/routes"
)

// Handler exposes the session workflow actions.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the workflow routes. They share the /sessions prefix with
// the session listing.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Tags:   []string{"Sessions"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Start, OpenAPI: Spec.Start},
			{Method: "GET", Pattern: "/{id}", Handler: h.View, OpenAPI: Spec.View},
			{Method: "PUT", Pattern: "/{id}/region", Handler: h.ChooseRegion, OpenAPI: Spec.ChooseRegion},
			{Method: "PUT", Pattern: "/{id}/symptoms", Handler: h.SetSymptoms, OpenAPI: Spec.SetSymptoms},
			{Method: "POST", Pattern: "/{id}/transcript", Handler: h.RecordExchange, OpenAPI: Spec.RecordExchange},
			{Method: "POST", Pattern: "/{id}/select", Handler: h.Select, OpenAPI: Spec.Select},
			{Method: "PUT", Pattern: "/{id}/reviewer", Handler: h.ChooseReviewer, OpenAPI: Spec.ChooseReviewer},
			{Method: "PUT", Pattern: "/{id}/notes", Handler: h.UpdateNotes, OpenAPI: Spec.UpdateNotes},
			{Method: "POST", Pattern: "/{id}/advance", Handler: h.Advance, OpenAPI: Spec.Advance},
			{Method: "POST", Pattern: "/{id}/back", Handler: h.Back, OpenAPI: Spec.Back},
			{Method: "POST", Pattern: "/{id}/reset", Handler: h.Reset, OpenAPI: Spec.Reset},
		},
	}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[StartCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	v, err := h.sys.Start(r.Context(), cmd)
	h.respond(w, http.StatusCreated, v, err)
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	v, err := h.sys.View(r.Context(), id)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) ChooseRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[RegionCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	v, err := h.sys.ChooseRegion(r.Context(), id, cmd.RegionID)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) SetSymptoms(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[SymptomsCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	v, err := h.sys.SetSymptoms(r.Context(), id, cmd.SymptomIDs)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) RecordExchange(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ex, err := handlers.DecodeJSON[diagnosis.Exchange](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	v, err := h.sys.RecordExchange(r.Context(), id, ex)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[SelectCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	v, err := h.sys.Select(r.Context(), id, cmd.Rank)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) ChooseReviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[ReviewerCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	v, err := h.sys.ChooseReviewer(r.Context(), id, cmd.ReviewerID)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[NotesCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	result, err := h.sys.UpdateNotes(r.Context(), id, cmd.Notes)
	h.respond(w, http.StatusOK, result, err)
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeOptionalJSON[AdvanceCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	v, err := h.sys.Advance(r.Context(), id, cmd)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	v, err := h.sys.Back(r.Context(), id)
	h.respond(w, http.StatusOK, v, err)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Reset(r.Context(), id)
	h.respond(w, http.StatusOK, result, err)
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any, err error) {
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}
	handlers.RespondJSON(w, status, body)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFault(w, h.logger, fault.Invalid("id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

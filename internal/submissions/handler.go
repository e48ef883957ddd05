package submissions

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/handlers"
	"github.com/JaimeStill/casebook/pkg/pagination"
	"github.com/JaimeStill/casebook/pkg/routes"
)

// Handler provides HTTP endpoints for submission history and reviewer
// actions.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "submissions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for submission endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/submissions",
		Tags:   []string{"Submissions"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "/{id}/open", Handler: h.Open, OpenAPI: Spec.Open},
			{Method: "POST", Pattern: "/{id}/review", Handler: h.Review, OpenAPI: Spec.Review},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	sub, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sub)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	sub, err := h.sys.Open(r.Context(), id)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sub)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[ReviewCommand](r)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	sub, err := h.sys.Review(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sub)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFault(w, h.logger, fault.Invalid("id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

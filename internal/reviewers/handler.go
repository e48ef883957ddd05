package reviewers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/handlers"
	"github.com/JaimeStill/casebook/pkg/routes"
)

// Handler provides HTTP endpoints for reviewer lookups.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "reviewers"),
	}
}

// Routes returns the route group definition for reviewer endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reviewers",
		Tags:   []string{"Reviewers"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
		},
	}
}

// List returns active reviewers. The specialty query parameter narrows the list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.List(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFault(w, h.logger, fault.Invalid("id", "must be a UUID"))
		return
	}

	rv, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, rv)
}

package sessions

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/casebook/pkg/handlers"
	"github.com/JaimeStill/casebook/pkg/pagination"
	"github.com/JaimeStill/casebook/pkg/routes"
)

// Handler lists stored sessions. Single-session views and workflow actions
// are served by the analysis handler under the same prefix.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "sessions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for session reads.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Tags:   []string{"Sessions"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
		},
	}
}

// List returns a paginated list of sessions with optional query parameter filters.
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

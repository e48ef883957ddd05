package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/handlers"
	"github.com/JaimeStill/casebook/pkg/pagination"
	"github.com/JaimeStill/casebook/pkg/routes"
)

// Handler provides HTTP endpoints for report reads and export.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "reports"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for report endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reports",
		Tags:   []string{"Reports"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export, OpenAPI: Spec.Export},
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
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFault(w, h.logger, fault.Invalid("id", "must be a UUID"))
		return
	}

	rep, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rep)
}

// Export streams the report as a PDF attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFault(w, h.logger, fault.Invalid("id", "must be a UUID"))
		return
	}

	export, err := h.sys.Export(r.Context(), id)
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.Header().Set("X-Page-Count", strconv.Itoa(export.Pages))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Data)
}

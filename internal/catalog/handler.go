package catalog

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/casebook/pkg/handlers"
	"github.com/JaimeStill/casebook/pkg/routes"
)

// Handler provides HTTP endpoints for catalog browsing.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "catalog"),
	}
}

// Routes returns the route group definition for catalog endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/regions",
		Tags:   []string{"Catalog"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Regions, OpenAPI: Spec.Regions},
			{Method: "GET", Pattern: "/{id}", Handler: h.Region, OpenAPI: Spec.Region},
			{Method: "GET", Pattern: "/{id}/symptoms", Handler: h.Symptoms, OpenAPI: Spec.Symptoms},
		},
	}
}

func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.sys.Regions(r.Context())
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, regions)
}

func (h *Handler) Region(w http.ResponseWriter, r *http.Request) {
	region, err := h.sys.Region(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, region)
}

// Symptoms lists the selectable symptoms for a region.
func (h *Handler) Symptoms(w http.ResponseWriter, r *http.Request) {
	symptoms, err := h.sys.Symptoms(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondFault(w, h.logger, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, symptoms)
}

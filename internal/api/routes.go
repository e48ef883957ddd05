package api

import (
	"net/http"

	"github.com/JaimeStill/casebook/internal/analysis"
	"github.com/JaimeStill/casebook/internal/catalog"
	"github.com/JaimeStill/casebook/internal/config"
	"github.com/JaimeStill/casebook/internal/reports"
	"github.com/JaimeStill/casebook/internal/reviewers"
	"github.com/JaimeStill/casebook/internal/sessions"
	"github.com/JaimeStill/casebook/internal/submissions"
	"github.com/JaimeStill/casebook/pkg/openapi"
	"github.com/JaimeStill/casebook/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) error {
	groups := domain.Groups()
	routes.Register(mux, groups...)

	spec, err := openapi.MarshalJSON(NewSpec(cfg, groups...))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
	return nil
}

// NewSpec describes the API document for the given route groups.
func NewSpec(cfg *config.Config, groups ...routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	for _, schemas := range []map[string]*openapi.Schema{
		catalog.Spec.Schemas,
		reviewers.Spec.Schemas,
		sessions.Spec.Schemas,
		analysis.Spec.Schemas,
		reports.Spec.Schemas,
		submissions.Spec.Schemas,
	} {
		spec.Components.AddSchemas(schemas)
	}

	routes.Describe(spec, groups...)
	return spec
}

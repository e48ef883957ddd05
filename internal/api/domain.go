package api

import (
	"github.com/JaimeStill/casebook/internal/analysis"
	"github.com/JaimeStill/casebook/internal/catalog"
	"github.com/JaimeStill/casebook/internal/reports"
	"github.com/JaimeStill/casebook/internal/reviewers"
	"github.com/JaimeStill/casebook/internal/sessions"
	"github.com/JaimeStill/casebook/internal/submissions"
	"github.com/JaimeStill/casebook/pkg/routes"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Catalog     catalog.System
	Reviewers   reviewers.System
	Sessions    sessions.System
	Reports     reports.System
	Submissions submissions.System
	Analysis    analysis.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	catalogSystem := catalog.New(db, runtime.Cache, runtime.Logger)
	reviewersSystem := reviewers.New(db, runtime.Cache, runtime.Logger)
	sessionsSystem := sessions.New(db, runtime.Logger, runtime.Pagination)

	reportsSystem := reports.New(
		db,
		runtime.Storage,
		runtime.Cache,
		runtime.Generator,
		runtime.Logger,
		runtime.Pagination,
	)

	submissionsSystem := submissions.New(
		db,
		reportsSystem,
		reviewersSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	analysisSystem := analysis.New(
		analysis.Deps{
			Sessions:    sessionsSystem,
			Catalog:     catalogSystem,
			Reviewers:   reviewersSystem,
			Reports:     reportsSystem,
			Submissions: submissionsSystem,
			Generator:   runtime.Generator,
		},
		runtime.Logger,
	)

	return &Domain{
		Catalog:     catalogSystem,
		Reviewers:   reviewersSystem,
		Sessions:    sessionsSystem,
		Reports:     reportsSystem,
		Submissions: submissionsSystem,
		Analysis:    analysisSystem,
	}
}

// Groups returns the route groups of every domain handler.
func (d *Domain) Groups() []routes.Group {
	return []routes.Group{
		d.Catalog.Handler().Routes(),
		d.Reviewers.Handler().Routes(),
		d.Sessions.Handler().Routes(),
		d.Analysis.Handler().Routes(),
		d.Reports.Handler().Routes(),
		d.Submissions.Handler().Routes(),
	}
}

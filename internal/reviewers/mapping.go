package reviewers

import (
	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reviewers", "rv").
	Project("id", "ID").
	Project("display_name", "DisplayName").
	Project("email", "Email").
	Project("specialty", "Specialty").
	Project("active", "Active")

var defaultSort = query.SortField{Field: "DisplayName"}

func scanReviewer(s repository.Scanner) (Reviewer, error) {
	var r Reviewer
	err := s.Scan(&r.ID, &r.DisplayName, &r.Email, &r.Specialty, &r.Active)
	return r, err
}

package catalog

import (
	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

var regionProjection = query.
	NewProjectionMap("public", "regions", "r").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("sort_order", "SortOrder")

var symptomProjection = query.
	NewProjectionMap("public", "symptoms", "s").
	Project("id", "ID").
	Project("region_id", "RegionID").
	Project("name", "Name").
	Project("description", "Description").
	Project("red_flag", "RedFlag").
	Project("sort_order", "SortOrder")

var defaultSort = []query.SortField{
	{Field: "SortOrder"},
	{Field: "Name"},
}

func scanRegion(s repository.Scanner) (Region, error) {
	var r Region
	err := s.Scan(&r.ID, &r.Name, &r.Description, &r.SortOrder)
	return r, err
}

func scanSymptom(s repository.Scanner) (Symptom, error) {
	var sym Symptom
	err := s.Scan(
		&sym.ID,
		&sym.RegionID,
		&sym.Name,
		&sym.Description,
		&sym.RedFlag,
		&sym.SortOrder,
	)
	return sym, err
}

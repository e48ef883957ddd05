package sessions

import "github.com/JaimeStill/casebook/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Schemas map[string]*openapi.Schema
}

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List sessions",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search by region name", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -UpdatedAt", false),
			openapi.QueryParam("learner_id", "string", "Filter by learner", false),
			openapi.QueryParam("step", "string", "Filter by workflow step", false),
			openapi.QueryParam("region_id", "string", "Filter by region", false),
			openapi.QueryParam("abandoned", "boolean", "Filter by abandoned state", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated sessions", "SessionPage"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"learner_id":   {Type: "string", Format: "uuid"},
				"step":         {Type: "string", Enum: []any{"selecting_region", "selecting_symptoms", "awaiting_diagnosis", "reviewing_results", "composing_report", "submitted"}},
				"generation":   {Type: "integer"},
				"revision":     {Type: "integer", Description: "Optimistic concurrency counter"},
				"region":       {Type: "object"},
				"symptoms":     {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"transcript":   {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"diagnoses":    {Type: "array", Items: openapi.SchemaRef("Candidate")},
				"reviewer_id":  {Type: "string", Format: "uuid"},
				"started_at":   {Type: "string", Format: "date-time"},
				"completed_at": {Type: "string", Format: "date-time"},
				"abandoned_at": {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"SessionPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Session")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"Candidate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"rank":                   {Type: "integer"},
				"name":                   {Type: "string", Example: "Myocardial Infarction"},
				"probability":            {Type: "string", Enum: []any{"low", "moderate", "high"}},
				"confidence":             {Type: "number", Description: "Fraction in [0, 1]"},
				"supporting_findings":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"contradicting_findings": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"red_flags":              {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"next_steps":             {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"selected":               {Type: "boolean"},
			},
		},
	},
}

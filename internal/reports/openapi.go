package reports

import "github.com/JaimeStill/casebook/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Export  *openapi.Operation
	Schemas map[string]*openapi.Schema
}

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List reports",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search title and diagnosis", false),
			openapi.QueryParam("learner_id", "string", "Filter by learner", false),
			openapi.QueryParam("session_id", "string", "Filter by session", false),
			openapi.QueryParam("status", "string", "Filter by status", false),
			openapi.QueryParam("diagnosis_name", "string", "Diagnosis name contains", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated reports", "ReportPage"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a report",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Report UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Report", "Report"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Export: &openapi.Operation{
		Summary:     "Export a report as PDF",
		Description: "Renders the report on first request and stores the document in blob storage.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Report UUID")},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "PDF document",
				Content: map[string]*openapi.MediaType{
					"application/pdf": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Report": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"session_id":     {Type: "string", Format: "uuid"},
				"learner_id":     {Type: "string", Format: "uuid"},
				"title":          {Type: "string", Example: "Clinical Analysis: Myocardial Infarction (Chest)"},
				"diagnosis_name": {Type: "string"},
				"region":         {Type: "string"},
				"soap": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"subjective": {Type: "string"},
						"objective":  {Type: "string"},
						"assessment": {Type: "string"},
						"plan":       {Type: "string"},
					},
				},
				"content":      {Type: "object", Description: "Educational content for the diagnosis"},
				"notes":        {Type: "string"},
				"status":       {Type: "string", Enum: []any{"draft", "submitted", "under_review", "approved", "revision_requested"}},
				"export_key":   {Type: "string"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
				"submitted_at": {Type: "string", Format: "date-time"},
			},
		},
		"ReportPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Report")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	},
}

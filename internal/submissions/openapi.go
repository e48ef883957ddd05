package submissions

import "github.com/JaimeStill/casebook/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Open    *openapi.Operation
	Review  *openapi.Operation
	Schemas map[string]*openapi.Schema
}

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List submissions",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search report title, diagnosis and reviewer", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields, prefix - for descending", false),
			openapi.QueryParam("report_id", "string", "Filter by report", false),
			openapi.QueryParam("reviewer_id", "string", "Filter by reviewer", false),
			openapi.QueryParam("learner_id", "string", "Filter by learner", false),
			openapi.QueryParam("status", "string", "assigned or reviewed", false),
			openapi.QueryParam("outcome", "string", "approved or revision_requested", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated submissions", "SubmissionPage"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a submission",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Submission UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Submission", "Submission"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Open: &openapi.Operation{
		Summary:     "Open a submission for review",
		Description: "Moves the report to under_review. Opening a reviewed submission is a conflict.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Submission UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Opened submission", "Submission"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Review: &openapi.Operation{
		Summary:     "Record a review verdict",
		Description: "Approval requires feedback text. A revision request also requires revision notes.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Submission UUID")},
		RequestBody: openapi.RequestBodyJSON("ReviewCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Reviewed submission", "Submission"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Feedback": {
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*openapi.Schema{
				"text":                {Type: "string"},
				"alternate_diagnosis": {Type: "string"},
				"alternate_reasoning": {Type: "string"},
				"grade":               {Type: "string", Example: "B+"},
				"strengths":           {Type: "string"},
				"improvements":        {Type: "string"},
				"revision_notes":      {Type: "string"},
			},
		},
		"ReviewCommand": {
			Type:     "object",
			Required: []string{"outcome", "feedback"},
			Properties: map[string]*openapi.Schema{
				"outcome":  {Type: "string", Enum: []any{"approved", "revision_requested"}},
				"feedback": openapi.SchemaRef("Feedback"),
			},
		},
		"Submission": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"report_id":      {Type: "string", Format: "uuid"},
				"reviewer_id":    {Type: "string", Format: "uuid"},
				"learner_id":     {Type: "string", Format: "uuid"},
				"notes":          {Type: "string"},
				"status":         {Type: "string", Enum: []any{"assigned", "reviewed"}},
				"outcome":        {Type: "string", Enum: []any{"approved", "revision_requested"}},
				"feedback":       openapi.SchemaRef("Feedback"),
				"submitted_at":   {Type: "string", Format: "date-time"},
				"reviewed_at":    {Type: "string", Format: "date-time"},
				"reviewer_name":  {Type: "string"},
				"report_title":   {Type: "string"},
				"diagnosis_name": {Type: "string"},
			},
		},
		"SubmissionPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Submission")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	},
}

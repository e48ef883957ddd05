package reviewers

import "github.com/JaimeStill/casebook/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Spec holds the OpenAPI operations and schemas for reviewer endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List active reviewers",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("specialty", "string", "Case-insensitive specialty filter", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSONArray("Active reviewers", "Reviewer"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a reviewer",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Reviewer UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Reviewer", "Reviewer"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Reviewer": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"display_name": {Type: "string", Example: "Dr. Amara Osei"},
				"email":        {Type: "string", Format: "email"},
				"specialty":    {Type: "string", Example: "cardiology"},
				"active":       {Type: "boolean"},
			},
		},
	},
}

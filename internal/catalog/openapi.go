package catalog

import "github.com/JaimeStill/casebook/pkg/openapi"

type spec struct {
	Regions  *openapi.Operation
	Region   *openapi.Operation
	Symptoms *openapi.Operation
	Schemas  map[string]*openapi.Schema
}

// Spec holds the OpenAPI operations and schemas for catalog endpoints.
var Spec = spec{
	Regions: &openapi.Operation{
		Summary: "List body regions",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSONArray("Regions in display order", "Region"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Region: &openapi.Operation{
		Summary:    "Get a body region",
		Parameters: []*openapi.Parameter{openapi.SlugParam("id", "Region identifier")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Region", "Region"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Symptoms: &openapi.Operation{
		Summary:    "List symptoms for a region",
		Parameters: []*openapi.Parameter{openapi.SlugParam("id", "Region identifier")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSONArray("Symptoms in display order", "Symptom"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Region": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Example: "chest"},
				"name":        {Type: "string", Example: "Chest"},
				"description": {Type: "string"},
				"sort_order":  {Type: "integer"},
			},
		},
		"Symptom": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Example: "chest-pain"},
				"region_id":   {Type: "string", Example: "chest"},
				"name":        {Type: "string", Example: "Chest pain"},
				"description": {Type: "string"},
				"red_flag":    {Type: "boolean"},
				"sort_order":  {Type: "integer"},
			},
		},
	},
}

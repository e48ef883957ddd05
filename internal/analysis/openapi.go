package analysis

import "github.com/JaimeStill/casebook/pkg/openapi"

type spec struct {
	Start          *openapi.Operation
	View           *openapi.Operation
	ChooseRegion   *openapi.Operation
	SetSymptoms    *openapi.Operation
	RecordExchange *openapi.Operation
	Select         *openapi.Operation
	ChooseReviewer *openapi.Operation
	UpdateNotes    *openapi.Operation
	Advance        *openapi.Operation
	Back           *openapi.Operation
	Reset          *openapi.Operation
	Schemas        map[string]*openapi.Schema
}

var idParam = []*openapi.Parameter{openapi.PathParam("id", "Session UUID")}

var actionResponses = map[int]*openapi.Response{
	200: openapi.ResponseJSON("Session view", "SessionView"),
	400: openapi.ResponseRef("BadRequest"),
	404: openapi.ResponseRef("NotFound"),
	409: openapi.ResponseRef("Conflict"),
	500: openapi.ResponseRef("InternalError"),
}

var Spec = spec{
	Start: &openapi.Operation{
		Summary:     "Start a session",
		Description: "Confirms the first body region and creates the session in selecting_symptoms.",
		RequestBody: openapi.RequestBodyJSON("StartCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created session", "SessionView"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	View: &openapi.Operation{
		Summary:     "Get a session",
		Description: "Returns the session with its report and latest submission.",
		Parameters:  idParam,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session view", "SessionView"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	ChooseRegion: &openapi.Operation{
		Summary:     "Confirm a body region",
		Description: "Available in selecting_region. A different region clears the selected symptoms.",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("RegionCommand", true),
		Responses:   actionResponses,
	},
	SetSymptoms: &openapi.Operation{
		Summary:     "Replace selected symptoms",
		Description: "Every symptom must belong to the session region.",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("SymptomsCommand", true),
		Responses:   actionResponses,
	},
	RecordExchange: &openapi.Operation{
		Summary:     "Record a follow-up question and answer",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("Exchange", true),
		Responses:   actionResponses,
	},
	Select: &openapi.Operation{
		Summary:     "Select the working diagnosis",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("SelectCommand", true),
		Responses:   actionResponses,
	},
	ChooseReviewer: &openapi.Operation{
		Summary:     "Choose the reviewer",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("ReviewerCommand", true),
		Responses:   actionResponses,
	},
	UpdateNotes: &openapi.Operation{
		Summary:     "Update learner notes",
		Description: "Storage failures return saved=false instead of an error.",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("NotesCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Notes result", "NotesResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Advance: &openapi.Operation{
		Summary:     "Advance to the next step",
		Description: "Generates the differential, composes the report, or submits it, depending on the current step.",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("AdvanceCommand", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session view", "SessionView"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			500: openapi.ResponseRef("InternalError"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Back: &openapi.Operation{
		Summary:    "Return to the previous step",
		Parameters: idParam,
		Responses:  actionResponses,
	},
	Reset: &openapi.Operation{
		Summary:     "Reset the session",
		Description: "Abandons the session unless it was submitted and returns to region selection.",
		Parameters:  idParam,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Reset result", "ResetResult"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"SessionView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"session":    openapi.SchemaRef("Session"),
				"next":       {Type: "string", Enum: []any{"confirm_region", "confirm_symptoms", "diagnose", "compose", "submit"}},
				"report":     openapi.SchemaRef("Report"),
				"submission": openapi.SchemaRef("Submission"),
			},
		},
		"StartCommand": {
			Type:     "object",
			Required: []string{"learner_id", "region_id"},
			Properties: map[string]*openapi.Schema{
				"learner_id": {Type: "string", Format: "uuid"},
				"region_id":  {Type: "string", Example: "chest"},
			},
		},
		"RegionCommand": {
			Type:       "object",
			Required:   []string{"region_id"},
			Properties: map[string]*openapi.Schema{"region_id": {Type: "string"}},
		},
		"SymptomsCommand": {
			Type:     "object",
			Required: []string{"symptom_ids"},
			Properties: map[string]*openapi.Schema{
				"symptom_ids": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Exchange": {
			Type:     "object",
			Required: []string{"question"},
			Properties: map[string]*openapi.Schema{
				"question": {Type: "string"},
				"answer":   {Type: "string"},
			},
		},
		"SelectCommand": {
			Type:       "object",
			Required:   []string{"rank"},
			Properties: map[string]*openapi.Schema{"rank": {Type: "integer"}},
		},
		"ReviewerCommand": {
			Type:       "object",
			Required:   []string{"reviewer_id"},
			Properties: map[string]*openapi.Schema{"reviewer_id": {Type: "string", Format: "uuid"}},
		},
		"NotesCommand": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"notes": {Type: "string"}},
		},
		"AdvanceCommand": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"notes": {Type: "string", Description: "Cover note for the reviewer when submitting"}},
		},
		"NotesResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"saved":  {Type: "boolean"},
				"error":  {Type: "string"},
				"report": openapi.SchemaRef("Report"),
			},
		},
		"ResetResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"abandoned":  {Type: "string", Format: "uuid"},
				"step":       {Type: "string"},
				"generation": {Type: "integer"},
			},
		},
	},
}

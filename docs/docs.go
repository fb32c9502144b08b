// Package docs holds the OpenAPI document served at /swagger/. Keep it in step with the swag annotations in internal/api.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/exams": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Exams"],
                "summary": "List exams",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/store.ExamSummary"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "description": "Validate an exam document and add it to the catalog. Every question is checked at import time.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Exams"],
                "summary": "Import an exam",
                "parameters": [
                    {"type": "string", "description": "Title overriding the document title", "name": "title", "in": "query"},
                    {"description": "Exam document", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.ImportExamResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/exams/{examID}": {
            "get": {
                "description": "Returns parts, instructions, audio references and questions. Answer keys are stripped.",
                "produces": ["application/json"],
                "tags": ["Exams"],
                "summary": "Get an exam",
                "parameters": [
                    {"type": "string", "description": "Exam ID", "name": "examID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/exam.Exam"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "tags": ["Exams"],
                "summary": "Delete an exam",
                "parameters": [
                    {"type": "string", "description": "Exam ID", "name": "examID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/exams/{examID}/score": {
            "post": {
                "description": "Answers are keyed by question id. A value is a string (fill-in, single choice), an array (multi choice) or an object (diagram label id or matching item → value). Add format=text for the plain-text report.",
                "consumes": ["application/json"],
                "produces": ["application/json", "text/plain"],
                "tags": ["Scoring"],
                "summary": "Score answers",
                "parameters": [
                    {"type": "string", "description": "Exam ID", "name": "examID", "in": "path", "required": true},
                    {"type": "string", "description": "json (default) or text", "name": "format", "in": "query"},
                    {"description": "Answers", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scoring.Report"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/exams/{examID}/score/batch": {
            "post": {
                "description": "Each submission is scored on its own; a bad submission gets an error entry and the rest still score.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "Score a batch",
                "parameters": [
                    {"type": "string", "description": "Exam ID", "name": "examID", "in": "path", "required": true},
                    {"description": "Submissions", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.BatchScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.BatchScoreResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sheets": {
            "post": {
                "description": "Sheets live in memory until submitted. Nothing about an attempt is stored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sheets"],
                "summary": "Open an answer sheet",
                "parameters": [
                    {"description": "Exam to answer", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateSheetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.SheetView"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sheets/{sheetID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sheets"],
                "summary": "Get an answer sheet",
                "parameters": [
                    {"type": "string", "description": "Sheet ID", "name": "sheetID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SheetView"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "already submitted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sheets/{sheetID}/answers": {
            "put": {
                "description": "Merges the given answers into the sheet. Diagram and matching objects merge key by key.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sheets"],
                "summary": "Save answers",
                "parameters": [
                    {"type": "string", "description": "Sheet ID", "name": "sheetID", "in": "path", "required": true},
                    {"description": "Answers", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.SaveAnswersRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SheetView"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "already submitted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sheets/{sheetID}/submit": {
            "post": {
                "produces": ["application/json", "text/plain"],
                "tags": ["Sheets"],
                "summary": "Submit an answer sheet",
                "parameters": [
                    {"type": "string", "description": "Sheet ID", "name": "sheetID", "in": "path", "required": true},
                    {"type": "string", "description": "json (default) or text", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scoring.Report"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "already submitted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "api.BatchScoreRequest": {
            "type": "object",
            "properties": {
                "submissions": {"type": "array", "items": {"$ref": "#/definitions/service.Submission"}}
            }
        },
        "api.BatchScoreResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/service.BatchResult"}}
            }
        },
        "api.CreateSheetRequest": {
            "type": "object",
            "properties": {
                "exam_id": {"type": "string", "example": "3f9c2a71b4d84e10"}
            }
        },
        "api.ImportExamResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3f9c2a71b4d84e10"},
                "parts": {"type": "integer", "example": 4},
                "questions": {"type": "integer", "example": 12},
                "title": {"type": "string", "example": "Listening Practice Test 2"},
                "units": {"type": "integer", "example": 17}
            }
        },
        "api.SaveAnswersRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "object"}
            }
        },
        "api.ScoreRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "object"}
            }
        },
        "exam.Exam": {
            "type": "object",
            "properties": {
                "audio": {"type": "string"},
                "id": {"type": "string"},
                "parts": {"type": "array", "items": {"$ref": "#/definitions/exam.Part"}},
                "title": {"type": "string"}
            }
        },
        "exam.Label": {
            "type": "object",
            "properties": {
                "correct": {"type": "string"},
                "id": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}}
            }
        },
        "exam.MatchKind": {
            "type": "object",
            "properties": {
                "left_field": {"type": "string"},
                "right_field": {"type": "string"}
            }
        },
        "exam.MatchPair": {
            "type": "object",
            "properties": {
                "left": {"type": "string"},
                "right": {"type": "string"}
            }
        },
        "exam.Part": {
            "type": "object",
            "properties": {
                "audio": {"type": "string"},
                "instructions": {"type": "string"},
                "name": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/exam.Question"}}
            }
        },
        "exam.Question": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "answers": {"type": "array", "items": {"type": "string"}},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "kind": {"type": "string", "enum": ["single_choice", "multi_choice", "fill_blank", "diagram", "matching"]},
                "labels": {"type": "array", "items": {"$ref": "#/definitions/exam.Label"}},
                "match": {"$ref": "#/definitions/exam.MatchKind"},
                "options": {"type": "array", "items": {"type": "string"}},
                "pairs": {"type": "array", "items": {"$ref": "#/definitions/exam.MatchPair"}},
                "prompt": {"type": "string"}
            }
        },
        "scoring.Feedback": {
            "type": "object",
            "properties": {
                "correct_answer": {"type": "array", "items": {"type": "string"}},
                "part": {"type": "string"},
                "prompt": {"type": "string"},
                "question_id": {"type": "string"},
                "status": {"type": "string", "enum": ["correct", "incorrect", "unanswered"]},
                "user_answer": {"type": "array", "items": {"type": "string"}}
            }
        },
        "scoring.PartSummary": {
            "type": "object",
            "properties": {
                "correct": {"type": "integer"},
                "incorrect": {"type": "integer"},
                "name": {"type": "string"},
                "total": {"type": "integer"},
                "unanswered": {"type": "integer"}
            }
        },
        "scoring.Report": {
            "type": "object",
            "properties": {
                "band": {"type": "integer"},
                "correct": {"type": "integer"},
                "description": {"type": "string"},
                "exam_id": {"type": "string"},
                "feedback": {"type": "array", "items": {"$ref": "#/definitions/scoring.Feedback"}},
                "incorrect": {"type": "integer"},
                "parts": {"type": "array", "items": {"$ref": "#/definitions/scoring.PartSummary"}},
                "percentage": {"type": "number"},
                "skill_level": {"type": "string"},
                "total": {"type": "integer"},
                "unanswered": {"type": "integer"}
            }
        },
        "service.BatchResult": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "id": {"type": "string"},
                "report": {"$ref": "#/definitions/scoring.Report"}
            }
        },
        "service.SheetView": {
            "type": "object",
            "properties": {
                "answered": {"type": "integer"},
                "answers": {"type": "object"},
                "created_at": {"type": "string"},
                "exam_id": {"type": "string"},
                "id": {"type": "string"},
                "questions": {"type": "integer"}
            }
        },
        "service.Submission": {
            "type": "object",
            "properties": {
                "answers": {"type": "object"},
                "id": {"type": "string"}
            }
        },
        "store.ExamSummary": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "questions": {"type": "integer"},
                "title": {"type": "string"},
                "units": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Listening Band API",
	Description:      "Score IELTS listening exams: import exam documents, collect answers and get band scores with per-question feedback.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

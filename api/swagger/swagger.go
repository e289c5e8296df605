package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Compliance Report API",
        "description": "Tabulates syllabus evaluation periods into compliance reports",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reports", "description": "Compliance report generation and download"},
        {"name": "Operations", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "All dependencies reachable"},
                    "503": {"description": "A dependency is degraded"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Metrics in the Prometheus exposition format"}
                }
            }
        },
        "/api/v1/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Generate a compliance report",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"], "required": false},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ReportDescriptorEnvelope"}},
                    "400": {"description": "Inconsistent data", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Render failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/preview": {
            "post": {
                "tags": ["Reports"],
                "summary": "Preview a report layout",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Inconsistent data", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/download/{folder}/{documentName}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a stored report",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "folder", "in": "path", "type": "string", "required": true},
                    {"name": "documentName", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Document", "schema": {"type": "file"}},
                    "403": {"description": "Invalid path", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/files/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a report through a signed link",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Document", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateReportRequest": {
            "type": "object",
            "required": ["period"],
            "properties": {
                "period": {"$ref": "#/definitions/Period"}
            }
        },
        "Period": {
            "type": "object",
            "required": ["stage", "degree", "questions", "alternatives", "evaluationGrades"],
            "properties": {
                "stage": {"type": "string"},
                "degree": {"type": "string"},
                "initDate": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/Label"}},
                "alternatives": {"type": "array", "items": {"$ref": "#/definitions/Label"}},
                "evaluationGrades": {"type": "array", "items": {"$ref": "#/definitions/Grade"}}
            }
        },
        "Label": {
            "type": "object",
            "properties": {
                "persistenceId": {"type": "integer"},
                "description": {"type": "string"}
            }
        },
        "Grade": {
            "type": "object",
            "properties": {
                "number": {"type": "integer", "minimum": 1, "maximum": 10},
                "parallel": {"type": "string"},
                "syllabuses": {"type": "array", "items": {"$ref": "#/definitions/Syllabus"}}
            }
        },
        "Syllabus": {
            "type": "object",
            "properties": {
                "denomination": {"type": "string"},
                "teacher": {"type": "object", "properties": {"name": {"type": "string"}}},
                "sheets": {
                    "type": "array",
                    "items": {"type": "array", "items": {"$ref": "#/definitions/Sheet"}}
                }
            }
        },
        "Sheet": {
            "type": "object",
            "properties": {
                "answers": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "question": {"type": "string"},
                            "alternative": {"type": "string"}
                        }
                    }
                }
            }
        },
        "ReportStats": {
            "type": "object",
            "properties": {
                "grades": {"type": "integer"},
                "indicators": {"type": "integer"},
                "alternatives": {"type": "integer"},
                "sheets": {"type": "integer"},
                "droppedAnswers": {"type": "integer"},
                "unmatchedVotes": {"type": "integer"}
            }
        },
        "ReportDescriptor": {
            "type": "object",
            "properties": {
                "documentName": {"type": "string"},
                "folder": {"type": "string"},
                "format": {"type": "string", "enum": ["pdf", "csv"]},
                "downloadUrl": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"},
                "stats": {"$ref": "#/definitions/ReportStats"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "ReportDescriptorEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ReportDescriptor"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

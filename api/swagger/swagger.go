package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Canvas KPI API",
        "description": "KPI aggregation service over a replicated Canvas dataset",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Client credential token exchange"},
        {"name": "KPIs", "description": "Per-KPI semester queries"},
        {"name": "Dashboard", "description": "Composed overview and interactive page"},
        {"name": "Reports", "description": "CSV/PDF exports with signed downloads"},
        {"name": "Sync", "description": "Canvas table replication"}
    ],
    "paths": {
        "/auth/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Issue an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/kpis/availability": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Course availability counts",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid semester selector"}
                }
            }
        },
        "/kpis/availability/monthly": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Monthly course availability series",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/retention": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Student retention rate",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/retention/term": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Term-scoped retention with activity band",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/completion": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Assignment completion rate",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/scores": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Score overview with distribution histogram",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/scores/by-course": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Average submission score per course",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/feedback/time": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Feedback latency versus submission volume",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/feedback/days": {
            "get": {
                "tags": ["KPIs"],
                "summary": "First-comment feedback days per course",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/mastery": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Learning objective completion per course",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/modules/progress": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Module requirement progress per course",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/modules/completion": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Course completion by module requirements",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/kpis/system": {
            "get": {
                "tags": ["KPIs"],
                "summary": "Instrumentation snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Interactive dashboard page",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Rendered dashboard"}
                }
            }
        },
        "/dashboard/overview": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Composed KPI overview",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Generate a KPI report",
                "parameters": [
                    {"name": "kpi", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid bearer token"}
                }
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a generated report",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Report file"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/sync": {
            "post": {
                "tags": ["Sync"],
                "summary": "Trigger replication of every configured table",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Sync disabled"}
                }
            }
        },
        "/sync/tables/{table}": {
            "post": {
                "tags": ["Sync"],
                "summary": "Trigger replication of one table",
                "parameters": [
                    {"name": "table", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sync/runs": {
            "get": {
                "tags": ["Sync"],
                "summary": "List recent replication runs",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sync/runs/{id}": {
            "get": {
                "tags": ["Sync"],
                "summary": "Fetch one replication run",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Run not found"}
                }
            }
        }
    },
    "definitions": {
        "TokenRequest": {
            "type": "object",
            "required": ["client_id", "client_secret"],
            "properties": {
                "client_id": {"type": "string"},
                "client_secret": {"type": "string"}
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

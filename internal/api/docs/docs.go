// Package docs holds the generated Swagger spec for the control-plane
// API. It is normally produced by `swag init` from the @-annotations on
// the handlers in internal/api/handlers; committed here so the module
// builds without a generation step.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "description": "Returns server health, uptime, and host resource usage",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check and runtime statistics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/records": {
            "get": {
                "description": "Returns a paginated list of records",
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List records",
                "parameters": [
                    {"type": "integer", "description": "page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size (default 50, max 1000)", "name": "per_page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            },
            "post": {
                "description": "Creates a new DNS record",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Create a record",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/records/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Get a record",
                "parameters": [
                    {"type": "string", "description": "record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Update a record",
                "parameters": [
                    {"type": "string", "description": "record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "tags": ["records"],
                "summary": "Delete a record",
                "parameters": [
                    {"type": "string", "description": "record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/update": {
            "post": {
                "description": "Fire-and-forget upsert preserved for backward compatibility; returns 200 immediately without waiting for the upsert. Only an unparseable body is rejected (400).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Legacy record upsert",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger metadata, matching the package-level
// @-annotations in internal/api/handlers/base.go.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Rind DNS Management API",
	Description:      "REST API for managing DNS records served by the resolver.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

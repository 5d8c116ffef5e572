// Package docs registers the OpenAPI description served under /swagger.
// Keep it in step with the @Router annotations in internal/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/form": {
            "get": {
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Current form",
                "responses": {
                    "200": {"description": "Snapshot"},
                    "503": {"description": "Console unavailable"}
                }
            }
        },
        "/api/v1/form/events": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Dispatch a browser event",
                "parameters": [
                    {
                        "name": "event",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/event"}
                    }
                ],
                "responses": {
                    "200": {"description": "Snapshot after the event"},
                    "400": {"description": "Invalid event or value"},
                    "401": {"description": "Missing or invalid token when auth is enabled"},
                    "409": {"description": "Engine not initialised yet"},
                    "500": {"description": "Wiring error"},
                    "503": {"description": "Event loop stopped"}
                }
            }
        },
        "/api/v1/request": {
            "get": {
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Assembled simulation request",
                "responses": {
                    "200": {"description": "SimulationRequest"},
                    "409": {"description": "Engine not initialised yet"}
                }
            }
        },
        "/api/v1/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Range metadata of every supported catalyst",
                "responses": {"200": {"description": "count, catalysts"}}
            }
        },
        "/api/v1/catalog/{catalyst}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Range metadata of one catalyst",
                "parameters": [
                    {"name": "catalyst", "in": "path", "required": true, "type": "string", "enum": ["KMIR", "FN"]}
                ],
                "responses": {
                    "200": {"description": "RangeCatalogEntry"},
                    "404": {"description": "Unknown catalyst"}
                }
            }
        },
        "/api/v1/canvas/{file}": {
            "get": {
                "produces": ["image/png"],
                "tags": ["canvas"],
                "summary": "Last image drawn on a canvas",
                "parameters": [
                    {"name": "file", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PNG"},
                    "404": {"description": "No image for this canvas"}
                }
            }
        },
        "/api/v1/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in and receive a bearer token",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}
                ],
                "responses": {
                    "200": {"description": "token"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Add an operator",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}
                ],
                "responses": {
                    "201": {"description": "id"},
                    "400": {"description": "Blank username or password"},
                    "401": {"description": "Missing or invalid token"},
                    "409": {"description": "Operator already exists"}
                }
            }
        },
        "/api/v1/runs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List render runs",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "kind", "in": "query", "type": "string",
                     "enum": ["cbt", "toy", "concentration-balance", "temperature-over-yield"]}
                ],
                "responses": {
                    "200": {"description": "count, runs"},
                    "400": {"description": "Invalid filter"},
                    "500": {"description": "Storage failure"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "definitions": {
        "credentials": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "event": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string", "enum": ["input", "change", "toggle", "resize", "mousemove", "refresh"]},
                "control": {"type": "string", "example": "pressure_lhs"},
                "value": {"type": "string", "example": "205"},
                "width": {"type": "integer"},
                "height": {"type": "integer"},
                "offset_x": {"type": "number"},
                "offset_y": {"type": "number"},
                "displayed_width": {"type": "number"},
                "displayed_height": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Haber-Bosch scenario console API",
	Description:      "Form state, browser events and render history of the reactor scenario console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

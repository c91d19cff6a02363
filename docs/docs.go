// Package docs holds the OpenAPI description served on /swagger.
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
        "/resource/{id}": {
            "get": {
                "description": "Returns the stored user record with the given id. The password digest is never returned.",
                "produces": ["application/json"],
                "tags": ["resources"],
                "summary": "Get a resource",
                "parameters": [
                    {"type": "integer", "description": "Resource id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ResourceResponseDoc"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.EnvelopeDoc"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.EnvelopeDoc"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.EnvelopeDoc"}}
                }
            }
        },
        "/users": {
            "post": {
                "description": "Validates the registration document and stores the user with a SHA-256 password digest.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "Registration document", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handler.RegisterUserDoc"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CreatedUserResponseDoc"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.EnvelopeDoc"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.EnvelopeDoc"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.EnvelopeDoc"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ContactDoc": {
            "type": "object",
            "properties": {"email": {"type": "string", "example": "alice@example.com"}}
        },
        "handler.UserDataDoc": {
            "type": "object",
            "properties": {"contact": {"$ref": "#/definitions/handler.ContactDoc"}}
        },
        "handler.RegisterUserDoc": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "password": {"type": "string", "example": "Str0ng!Pass"},
                "role": {"type": "string", "example": "member"},
                "user_data": {"$ref": "#/definitions/handler.UserDataDoc"}
            }
        },
        "handler.EnvelopeDoc": {
            "type": "object",
            "properties": {
                "status": {"type": "integer", "example": -1},
                "status_message": {"type": "string", "example": "Failed to create a new user, invalid username"},
                "response": {"type": "string"}
            }
        },
        "handler.CreatedUserDoc": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "username": {"type": "string", "example": "alice"},
                "role": {"type": "string", "example": "member"}
            }
        },
        "handler.CreatedUserResponseDoc": {
            "type": "object",
            "properties": {
                "status": {"type": "integer", "example": 0},
                "status_message": {"type": "string", "example": "User created"},
                "response": {"$ref": "#/definitions/handler.CreatedUserDoc"}
            }
        },
        "handler.ResourceDoc": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "username": {"type": "string", "example": "alice"},
                "role": {"type": "string", "example": "member"},
                "user_data": {"type": "object"}
            }
        },
        "handler.ResourceResponseDoc": {
            "type": "object",
            "properties": {
                "status": {"type": "integer", "example": 0},
                "status_message": {"type": "string", "example": "Resource found"},
                "response": {"$ref": "#/definitions/handler.ResourceDoc"}
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
	Title:            "User registration API",
	Description:      "Registers users and serves stored records through a bounded worker pool.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

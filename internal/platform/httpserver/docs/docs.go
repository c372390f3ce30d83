// Package docs holds the OpenAPI document served at /swagger/doc.json.
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
        "/v1/users/track": {
            "post": {
                "tags": ["reputation"],
                "summary": "Register or refresh a tracked user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/users/{user_id}/profile": {
            "get": {
                "tags": ["reputation"],
                "summary": "User profile with rating breakdown",
                "parameters": [{"name": "user_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/users/{user_id}/counters/{field}": {
            "post": {
                "tags": ["reputation"],
                "summary": "Apply an activity counter delta",
                "parameters": [
                    {"name": "user_id", "in": "path", "required": true, "type": "string"},
                    {"name": "field", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/v1/leaderboard": {
            "get": {
                "tags": ["reputation"],
                "summary": "Cursor-paginated rating leaderboard",
                "parameters": [
                    {"name": "cursor", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/v1/admin/labels": {
            "get": {
                "tags": ["labels"],
                "summary": "List labels",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["labels"],
                "summary": "Create a label",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/moderation/requests": {
            "get": {
                "tags": ["moderation"],
                "summary": "List moderation requests",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "section", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["moderation"],
                "summary": "Submit a listing request",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/v1/moderation/requests/{request_id}/approve": {
            "post": {
                "tags": ["moderation"],
                "summary": "Approve a pending request",
                "parameters": [{"name": "request_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/moderation/requests/{request_id}/reject": {
            "post": {
                "tags": ["moderation"],
                "summary": "Reject a pending request",
                "parameters": [{"name": "request_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/users/{user_id}/publications": {
            "get": {
                "tags": ["moderation"],
                "summary": "Owner view of submitted listings",
                "parameters": [
                    {"name": "user_id", "in": "path", "required": true, "type": "string"},
                    {"name": "cursor", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tradepost Trust and Workflow API",
	Description:      "Activity ledger, rating engine, moderation workflow, labels, and leaderboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the Habitat OpenAPI document served under /swagger.
// It is maintained by hand in the layout swag init produces.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports service status, environment and version.",
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Healthcheck",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth": {
            "post": {
                "description": "Creates a student account. Emails listed in ADMIN_EMAILS become admins.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Registers a user",
                "responses": {"201": {"description": "User Saved Successfully"}, "400": {"description": "Validation failed or User Already Exists", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/auth/login": {
            "post": {
                "description": "Checks credentials and returns the profile with an access and a refresh token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Login",
                "responses": {"200": {"description": "Login Successful"}, "401": {"description": "Wrong password", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "404": {"description": "Unknown email", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/auth/refresh": {
            "post": {
                "description": "Validates the refresh token against the stored one and rotates both tokens.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Refresh authentication tokens",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Revokes the stored refresh token.",
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Logout",
                "responses": {"200": {"description": "Logout Success"}}
            }
        },
        "/venues": {
            "get": {
                "description": "Published venues, highest rated first, each with computedRating, totalReviews and generalSentiment.",
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "List published venues",
                "parameters": [
                    {"type": "string", "description": "PG or Mess", "name": "type", "in": "query"},
                    {"type": "number", "description": "Max distance from campus in km", "name": "distance", "in": "query"},
                    {"type": "number", "description": "Max starting price", "name": "price", "in": "query"},
                    {"type": "number", "description": "Min stored rating", "name": "rating", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Creates a PG or Mess listing in pending state. Text fields and up to 7 images as multipart form data.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "Submit a venue",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/venues/verify": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Pending venue submissions, newest first.",
                "produces": ["application/json"],
                "tags": ["verification"],
                "summary": "List pending venues",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/venues/verify/{venueID}": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Publishes a pending venue.",
                "produces": ["application/json"],
                "tags": ["verification"],
                "summary": "Approve a venue",
                "parameters": [{"type": "integer", "description": "Venue ID", "name": "venueID", "in": "path", "required": true}],
                "responses": {"200": {"description": "Venue verified and published"}, "404": {"description": "Venue not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "409": {"description": "Already decided", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Rejects a pending venue.",
                "produces": ["application/json"],
                "tags": ["verification"],
                "summary": "Reject a venue",
                "parameters": [{"type": "integer", "description": "Venue ID", "name": "venueID", "in": "path", "required": true}],
                "responses": {"200": {"description": "Venue rejected"}, "404": {"description": "Venue not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "409": {"description": "Already decided", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/venues/review": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Scores the review text, rejects toxic reviews, stores it and recomputes the venue rating. The AI summary refreshes in the background.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Submit a review",
                "responses": {"201": {"description": "Review added"}, "400": {"description": "Validation failed or Review contains toxic language", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "404": {"description": "Invalid venue", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/venues/compare/{venueID}": {
            "get": {
                "description": "Returns the venue and up to 3 published venues of the same type closest to it in distance from campus.",
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "Compare a venue",
                "parameters": [{"type": "integer", "description": "Venue ID", "name": "venueID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/venues/{venueID}": {
            "get": {
                "description": "Venue with its reviews (author names included) and the majority sentiment.",
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "Venue details",
                "parameters": [{"type": "integer", "description": "Venue ID", "name": "venueID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean", "example": false},
                "message": {"type": "string", "example": "Invalid venue"},
                "stack": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Habitat API",
	Description:      "PG hostel and mess listings near campus, with reviews and AI summaries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

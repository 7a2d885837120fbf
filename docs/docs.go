// Package docs holds the OpenAPI document served at /swagger/*.
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
        "/pdfs/years": {
            "get": {
                "produces": ["application/json"],
                "summary": "List year levels",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/pdfs/year/{year}": {
            "get": {
                "produces": ["application/json"],
                "summary": "List the PDFs of a year level",
                "parameters": [
                    {"type": "string", "description": "URL-encoded year level", "name": "year", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Upload a PDF (remote commit)",
                "parameters": [
                    {"type": "string", "description": "Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Subject", "name": "subject", "in": "formData", "required": true},
                    {"type": "string", "description": "Year level", "name": "year", "in": "formData", "required": true},
                    {"type": "file", "description": "PDF file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.UploadResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "model.Document": {
            "type": "object",
            "properties": {
                "file_url": {"type": "string"},
                "id": {"type": "string"},
                "subject": {"type": "string"},
                "title": {"type": "string"},
                "year_level": {"type": "string"}
            }
        },
        "service.UploadResult": {
            "type": "object",
            "properties": {
                "fileUrl": {"type": "string"},
                "id": {"type": "string"},
                "message": {"type": "string"},
                "subject": {"type": "string"},
                "success": {"type": "boolean"},
                "title": {"type": "string"},
                "year": {"type": "string"}
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
	Title:            "PDF Catalog API",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

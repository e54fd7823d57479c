// Package docs registers the OpenAPI description of the introspection API
// with swag, for the swagger UI build.
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
        "/channels": {
            "get": {
                "produces": ["application/json"],
                "tags": ["channels"],
                "summary": "List channels that have receivers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ChannelsResponse"}}
                }
            }
        },
        "/channels/{key}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["channels"],
                "summary": "Describe one channel",
                "parameters": [
                    {"type": "string", "description": "rendered channel key, percent-encoded", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Channel"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["channels"],
                "summary": "Disconnect every receiver of a channel",
                "parameters": [
                    {"type": "string", "description": "rendered channel key, percent-encoded", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/files": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Disk usage per file group",
                "parameters": [
                    {"enum": ["B", "KB", "MB", "GB", "TB"], "type": "string", "name": "units", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FilesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ChannelsResponse": {
            "type": "object",
            "properties": {
                "namespace": {"type": "string", "example": "default"},
                "channels": {"type": "array", "items": {"$ref": "#/definitions/types.Channel"}}
            }
        },
        "types.Channel": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "example": "post:pntools/internal/filemanager:Manager:Refresh"},
                "parts": {"$ref": "#/definitions/types.KeyParts"},
                "receivers": {"type": "array", "items": {"$ref": "#/definitions/types.Receiver"}}
            }
        },
        "types.KeyParts": {
            "type": "object",
            "properties": {
                "timing": {"type": "string", "example": "post"},
                "module": {"type": "string", "example": "pntools/internal/filemanager"},
                "class": {"type": "string", "example": "Manager"},
                "attr": {"type": "string", "example": "Refresh"},
                "kind": {"type": "string", "example": "method"},
                "instance": {"type": "string", "example": "lab-a"}
            }
        },
        "types.Receiver": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "function"},
                "name": {"type": "string", "example": "logRefresh"},
                "package": {"type": "string", "example": "main"}
            }
        },
        "types.FilesResponse": {
            "type": "object",
            "properties": {
                "base_dir": {"type": "string", "example": "/data/project"},
                "units": {"type": "string", "example": "MB"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/types.GroupReport"}}
            }
        },
        "types.GroupReport": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "video"},
                "files": {"type": "integer", "example": 12},
                "bytes": {"type": "integer", "example": 52428800},
                "size": {"type": "number", "example": 50},
                "human": {"type": "string", "example": "50 MiB"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "malformed channel key"},
                "code": {"type": "integer", "example": 400}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "pntools API",
	Description:      "Introspection of broadcast channels and managed file groups.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs embeds the swagger definition for the control plane,
// adapted from the teacher's docs/docs.go template: same swag.Register
// wiring, schema reshaped for ScanTask/CreateScanRequest/DeviceResult.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "description": "REST API for the lanscan network scanning engine.",
    "title": "lanscan API",
    "license": {
      "name": "MIT",
      "url": "https://opensource.org/licenses/MIT"
    },
    "version": "1.0"
  },
  "host": "localhost:8080",
  "basePath": "/api/v1",
  "schemes": [
    "http"
  ],
  "paths": {
    "/scans": {
      "post": {
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "summary": "Create a new scan task",
        "description": "Accepts a host/port target set, queues it for processing, and returns a task ID.",
        "operationId": "createScan",
        "tags": [
          "Scans"
        ],
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "parameters": [
          {
            "description": "Scan Request Parameters",
            "name": "scanRequest",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/CreateScanRequest"
            }
          }
        ],
        "responses": {
          "202": {
            "description": "Scan task accepted",
            "schema": {
              "$ref": "#/definitions/ScanAcceptedResponse"
            }
          },
          "400": {
            "description": "Invalid request payload",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "401": {
            "description": "Unauthorized",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "429": {
            "description": "Rate limit exceeded",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "500": {
            "description": "Internal server error",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    },
    "/scans/{id}": {
      "get": {
        "produces": [
          "application/json"
        ],
        "summary": "Get scan status and results",
        "description": "Retrieves the complete details of a scan task by its ID.",
        "operationId": "getScan",
        "tags": [
          "Scans"
        ],
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "parameters": [
          {
            "type": "string",
            "description": "Scan Task ID (UUID v4)",
            "name": "id",
            "in": "path",
            "required": true
          }
        ],
        "responses": {
          "200": {
            "description": "Full scan task object with results",
            "schema": {
              "$ref": "#/definitions/ScanTask"
            }
          },
          "400": {
            "description": "Invalid task id format",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "404": {
            "description": "Task not found",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "401": {
            "description": "Unauthorized",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "429": {
            "description": "Rate limit exceeded",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "500": {
            "description": "Internal server error",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    }
  },
  "securityDefinitions": {
    "ApiKeyAuth": {
      "type": "apiKey",
      "name": "Authorization",
      "in": "header"
    }
  },
  "definitions": {
    "ScanAcceptedResponse": {
      "type": "object",
      "properties": {
        "id": {
          "type": "string",
          "example": "a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"
        },
        "status": {
          "type": "string",
          "example": "pending"
        }
      },
      "additionalProperties": false
    },
    "CreateScanRequest": {
      "type": "object",
      "required": [
        "hosts",
        "mode"
      ],
      "properties": {
        "hosts": {
          "type": "array",
          "items": {
            "type": "string"
          },
          "example": [
            "192.168.1.0/24"
          ]
        },
        "mode": {
          "type": "string",
          "enum": [
            "arp",
            "syn",
            "full"
          ],
          "example": "full"
        },
        "ports": {
          "type": "string",
          "example": "1-1024"
        }
      },
      "additionalProperties": false
    },
    "ErrorResponse": {
      "type": "object",
      "properties": {
        "error": {
          "type": "string",
          "example": "failed to queue task"
        }
      },
      "additionalProperties": false
    },
    "PortResult": {
      "type": "object",
      "properties": {
        "id": {
          "type": "integer",
          "format": "int32",
          "example": 80
        },
        "service": {
          "type": "string",
          "example": "http"
        }
      },
      "additionalProperties": false
    },
    "DeviceResult": {
      "type": "object",
      "properties": {
        "ip": {
          "type": "string",
          "example": "192.168.1.3"
        },
        "mac": {
          "type": "string",
          "example": "02:00:00:00:00:03"
        },
        "hostname": {
          "type": "string"
        },
        "vendor": {
          "type": "string"
        },
        "is_current_host": {
          "type": "boolean"
        },
        "open_ports": {
          "type": "array",
          "items": {
            "$ref": "#/definitions/PortResult"
          }
        }
      },
      "additionalProperties": false
    },
    "ScanTask": {
      "type": "object",
      "properties": {
        "completed_at": {
          "type": "string",
          "format": "date-time"
        },
        "created_at": {
          "type": "string",
          "format": "date-time",
          "example": "2024-01-02T15:04:05Z"
        },
        "error": {
          "type": "string"
        },
        "hosts": {
          "type": "array",
          "items": {
            "type": "string"
          }
        },
        "id": {
          "type": "string",
          "example": "a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"
        },
        "mode": {
          "type": "string",
          "example": "full"
        },
        "ports": {
          "type": "string",
          "example": "1-1024"
        },
        "results": {
          "type": "array",
          "items": {
            "$ref": "#/definitions/DeviceResult"
          }
        },
        "status": {
          "type": "string",
          "example": "pending"
        }
      },
      "additionalProperties": false
    }
  }
}
`

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

type swaggerDoc struct{}

func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

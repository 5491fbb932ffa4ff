// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/sensor/data": {
            "post": {
                "description": "Accepts one telemetry reading, evaluates it against the alert rules, and returns the stored reading with its assessment.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sensor"],
                "summary": "Ingest a sensor reading",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/sensor/nodes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sensor"],
                "summary": "List monitoring nodes",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/sensor/node/{nodeID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sensor"],
                "summary": "Recent readings for a node",
                "parameters": [
                    {"type": "string", "name": "nodeID", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/sensor/node/{nodeID}/assessment": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sensor"],
                "summary": "Latest threshold assessment for a node",
                "parameters": [
                    {"type": "string", "name": "nodeID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/sensor/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sensor"],
                "summary": "Reset all monitoring state",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/alerts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "List alert history",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "string", "name": "nodeId", "in": "query"},
                    {"type": "string", "name": "severity", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/alerts/active": {
            "get": {
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "List active alerts",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/alerts/deliveries/{alertID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "Delivery records for an alert",
                "parameters": [
                    {"type": "string", "name": "alertID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/alerts/{alertID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "Fetch one alert",
                "parameters": [
                    {"type": "string", "name": "alertID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/ml/insights": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ml"],
                "summary": "Statistical insights for all nodes",
                "parameters": [
                    {"type": "integer", "name": "windowSize", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/ml/insights/{nodeID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ml"],
                "summary": "Statistical insight for a node",
                "parameters": [
                    {"type": "string", "name": "nodeID", "in": "path", "required": true},
                    {"type": "integer", "name": "windowSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/ml/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ml"],
                "summary": "Highest-risk node",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/analytics/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Fleet-wide analytics summary",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Current runtime settings",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/settings/thresholds": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update alert thresholds",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/settings/email": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update notification settings",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/settings/email/test": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Send a test notification",
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Authenticate and obtain a JWT",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Barfani GLOF Monitoring API",
	Description:      "Glacier lake outburst flood monitoring and early warning gateway.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

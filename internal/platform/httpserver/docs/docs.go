// Package docs provides the generated OpenAPI document served at /swagger/.
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
        "/v1/election": {
            "get": {
                "produces": ["application/json"],
                "tags": ["election"],
                "summary": "Current election details",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["election"],
                "summary": "Create a new election generation",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/election/end": {
            "post": {
                "produces": ["application/json"],
                "tags": ["election"],
                "summary": "End the active election and tally the winner",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "422": {"description": "Timing violation"}
                }
            }
        },
        "/v1/election/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["election"],
                "summary": "Published election results",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Results not published"}
                }
            }
        },
        "/v1/election/results/publish": {
            "post": {
                "produces": ["application/json"],
                "tags": ["election"],
                "summary": "Publish results of an ended election",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/election/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["election"],
                "summary": "Voter turnout statistics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/candidates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "All candidates of the current generation",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Register a candidate before voting opens",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "422": {"description": "Timing violation"}
                }
            }
        },
        "/v1/candidates/{candidate_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Candidate details",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "candidate_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/v1/voters": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["voters"],
                "summary": "Register a voter",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Already registered"}
                }
            }
        },
        "/v1/voters/{principal}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["voters"],
                "summary": "Voter registration and voting status",
                "parameters": [
                    {
                        "type": "string",
                        "name": "principal",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/votes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Cast the caller's vote",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Not registered"},
                    "409": {"description": "Already voted or voting closed"}
                }
            }
        },
        "/v1/commission/roster": {
            "get": {
                "produces": ["application/json"],
                "tags": ["commission"],
                "summary": "Authority and registrar roster",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/commission/registrars": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["commission"],
                "summary": "Grant registrar rights",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Already granted"}
                }
            }
        },
        "/v1/commission/registrars/revoke": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["commission"],
                "summary": "Revoke registrar rights",
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not granted"}
                }
            }
        },
        "/v1/commission/authority/transfer": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["commission"],
                "summary": "Transfer the authority role",
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden"}
                }
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
	Title:            "Electorate API",
	Description:      "Single-election lifecycle service: commission roster, candidate registry, voter registry, and vote tally.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

package script

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Per-kind required fields are checked when the action runs, so an invalid
// action fails on its own instead of rejecting the whole script.
const jsonSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"login": {
			"type": "object",
			"required": ["url"],
			"properties": {
				"url": {"type": "string", "minLength": 1},
				"username": {"type": "string"},
				"password": {"type": "string"},
				"selectors": {
					"type": "object",
					"properties": {
						"username": {"type": "string"},
						"password": {"type": "string"},
						"submit": {"type": "string"}
					}
				}
			}
		},
		"actions": {
			"type": "array",
			"items": {"$ref": "#/definitions/action"}
		}
	},
	"definitions": {
		"action": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {"type": "string"},
				"selector": {"type": "string"},
				"value": {"type": "string"},
				"url": {"type": "string"},
				"path": {"type": "string"},
				"fullPage": {"type": "boolean"},
				"timeout": {"type": "integer", "minimum": 0},
				"maxWidth": {"type": "integer", "minimum": 0},
				"wait": {"type": "integer", "minimum": 0}
			}
		}
	}
}`

// JSONSchema returns the schema every config document is validated against.
func JSONSchema() string {
	return jsonSchema
}

func validate(jsonData []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(jsonSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if !result.Valid() {
		var msg strings.Builder
		for _, desc := range result.Errors() {
			fmt.Fprintf(&msg, "- %s\n", desc)
		}
		return fmt.Errorf("schema validation failed:\n%s", msg.String())
	}
	return nil
}

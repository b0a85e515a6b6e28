package preferences

import "github.com/santhosh-tekuri/jsonschema/v5"

const layoutSchemaURL = "https://gogate.local/schemas/dashboard-layout.json"

const layoutSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["mode", "widgets"],
  "additionalProperties": false,
  "properties": {
    "mode": {"enum": ["default", "custom"]},
    "widgets": {
      "type": "array",
      "maxItems": 64,
      "items": {
        "type": "object",
        "required": ["id", "column", "order"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1, "maxLength": 64},
          "column": {"type": "integer", "minimum": 0, "maximum": 3},
          "order": {"type": "integer", "minimum": 0},
          "hidden": {"type": "boolean"}
        }
      }
    }
  }
}`

var compiledLayout = jsonschema.MustCompileString(layoutSchemaURL, layoutSchema)

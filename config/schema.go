package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/German-BioImaging/omero-rdf/errors"
)

// documentSchema is the JSON schema every config document is checked against
// before decoding, so typos in section or option names fail loudly instead
// of being silently ignored.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "server": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "base_url": {"type": "string"},
        "session_key": {"type": "string"},
        "timeout_seconds": {"type": "integer", "minimum": 0}
      }
    },
    "export": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"type": "string", "enum": ["ntriples", "turtle", "jsonld", "ro-crate"]},
        "descent": {"type": "string", "enum": ["recursive", "flat"]},
        "ellide": {"type": "boolean"},
        "trim_whitespace": {"type": "boolean"},
        "first_handler_wins": {"type": "boolean"},
        "idr": {"type": "boolean"},
        "wikidata_lookups": {"type": "boolean"}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "destination": {"type": "string"},
        "assume_yes": {"type": "boolean"}
      }
    },
    "nats": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "url": {"type": "string"},
        "subject": {"type": "string"}
      }
    },
    "metrics": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "port": {"type": "integer", "minimum": 0, "maximum": 65535}
      }
    }
  }
}`

// validateDocument checks a raw JSON config document against the schema.
func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errors.WrapInvalid(err, "config", "validateDocument", "schema check")
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return errors.WrapInvalid(
		fmt.Errorf("%w: %s", errors.ErrInvalidConfig, strings.Join(problems, "; ")),
		"config", "validateDocument", "schema check")
}

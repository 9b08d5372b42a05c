package types

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"
)

// recommendationSchema constrains recommendation payloads arriving over the
// HTTP surface before they are unmarshalled into Recommendation.
const recommendationSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "asset", "position", "entryPrice", "confidence", "targetExit", "stopLoss"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "asset": {"type": "string", "minLength": 1},
    "position": {"type": "string", "enum": ["YES", "NO", "yes", "no"]},
    "entryPrice": {"type": "integer", "minimum": 1, "maximum": 99},
    "confidence": {"type": "integer", "minimum": 0, "maximum": 100},
    "targetExit": {"type": "string", "pattern": "^[0-9]{1,2}\\s*-\\s*[0-9]{1,2}$"},
    "stopLoss": {"type": "integer", "minimum": 1, "maximum": 99}
  }
}`

var compiledRecommendationSchema = jsonschema.MustCompileString("recommendation.json", recommendationSchema)

// ValidateRecommendationJSON checks a raw payload against the schema and
// returns a ValidationError describing the first violation.
func ValidateRecommendationJSON(raw []byte) error {
	doc := strings.TrimSpace(string(raw))
	if doc == "" {
		return NewValidationError("recommendation", "empty payload")
	}
	value, err := jsonschemav6.UnmarshalJSON(strings.NewReader(doc))
	if err != nil {
		return NewValidationError("recommendation", "malformed json: %v", err)
	}
	if err := compiledRecommendationSchema.Validate(value); err != nil {
		return NewValidationError("recommendation", "%s", schemaErrorSummary(err))
	}
	return nil
}

func schemaErrorSummary(err error) string {
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if loc == "" {
			loc = "payload"
		}
		return fmt.Sprintf("%s: %s", loc, leaf.Message)
	}
	return err.Error()
}

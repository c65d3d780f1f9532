// internal/oracle/schema.go
package oracle

import "github.com/xeipuuv/gojsonschema"

// responseSchema is the strict contract for oracle batch responses. Any
// deviation (wrong shape, missing fields, out-of-range scores) is treated
// identically to a failed call by the caller.
const responseSchema = `{
	"type": "object",
	"required": ["scores"],
	"properties": {
		"scores": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["candidateId", "score", "reasoning"],
				"properties": {
					"candidateId": {"type": "string", "minLength": 1},
					"score": {"type": "number", "minimum": 0, "maximum": 100},
					"reasoning": {"type": "string"},
					"insights": {
						"type": "array",
						"items": {"type": "string"}
					}
				}
			}
		}
	}
}`

var compiledResponseSchema = gojsonschema.NewStringLoader(responseSchema)

// validateResponse runs the schema against a raw response body and returns
// human-readable violation descriptions.
func validateResponse(body []byte) ([]string, error) {
	result, err := gojsonschema.Validate(compiledResponseSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []string{err.Error()}, err
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}

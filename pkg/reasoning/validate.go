package reasoning

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateAgainstSchema checks a JSON payload against a Go-native schema
// definition. A non-conforming payload is an error, which callers treat the
// same as a transport failure.
func ValidateAgainstSchema(schema map[string]any, payload []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("response does not conform to schema: %s", strings.Join(details, "; "))
}

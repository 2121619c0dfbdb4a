package validation

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for input schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Format      string              `json:"format,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates a decoded JSON document against schema.
func ValidateInput(input interface{}, schema JSONSchema) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(e),
			Message: e.Description(),
			Code:    e.Type(),
		})
	}
	return out, nil
}

// fieldOf names the offending property; gojsonschema reports missing
// properties against their parent.
func fieldOf(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if prop, ok := e.Details()["property"]; ok {
			if e.Field() == "(root)" {
				return fmt.Sprint(prop)
			}
			return fmt.Sprintf("%s.%v", e.Field(), prop)
		}
	}
	return e.Field()
}

// GetErrorMessages formats validation errors as strings
func GetErrorMessages(result *ValidationResult) []string {
	messages := make([]string, 0, len(result.Errors))
	for _, err := range result.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return messages
}

// InvalidFields returns the distinct offending fields, sorted.
func InvalidFields(result *ValidationResult) []string {
	seen := map[string]bool{}
	fields := []string{}
	for _, err := range result.Errors {
		if !seen[err.Field] {
			seen[err.Field] = true
			fields = append(fields, err.Field)
		}
	}
	sort.Strings(fields)
	return fields
}

// RequiredStrings builds a schema requiring each named property to be a
// non-empty string. Other properties are allowed.
func RequiredStrings(fields ...string) JSONSchema {
	props := make(map[string]Property, len(fields))
	for _, f := range fields {
		props[f] = Property{Type: "string", MinLength: intPtr(1)}
	}
	return JSONSchema{
		Type:       "object",
		Properties: props,
		Required:   fields,
	}
}

func intPtr(i int) *int {
	return &i
}

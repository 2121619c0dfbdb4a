package reportdelivery

import "site-functions/internal/common/validation"

// GetInputSchema requires the four form fields. The assessment object is
// optional and only type-checked.
func GetInputSchema() validation.JSONSchema {
	schema := validation.RequiredStrings("name", "email", "subject", "message")

	schema.Properties["assessment"] = validation.Property{
		Type:        "object",
		Description: "Assessment result overrides",
		Properties: map[string]validation.Property{
			"assessmentDate": {
				Type:   "string",
				Format: "date-time",
			},
			"currentStage": {
				Type:        "string",
				Description: "Maturity stage name",
			},
			"scores": {
				Type: "object",
				Properties: map[string]validation.Property{
					"overallReadiness":  {Type: "number"},
					"twelveFactorScore": {Type: "number"},
					"doraScore":         {Type: "number"},
				},
			},
		},
	}

	return schema
}

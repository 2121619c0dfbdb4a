package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}

func TestValidateInput_RequiredStrings(t *testing.T) {
	schema := RequiredStrings("name", "email", "subject", "message")

	tests := []struct {
		name        string
		body        string
		wantValid   bool
		wantInvalid []string
	}{
		{
			name:      "all present",
			body:      `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello"}`,
			wantValid: true,
		},
		{
			name:      "extra fields allowed",
			body:      `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello","assessment":{}}`,
			wantValid: true,
		},
		{
			name:        "missing email",
			body:        `{"name":"Ada","subject":"Hi","message":"Hello"}`,
			wantInvalid: []string{"email"},
		},
		{
			name:        "empty subject",
			body:        `{"name":"Ada","email":"ada@example.com","subject":"","message":"Hello"}`,
			wantInvalid: []string{"subject"},
		},
		{
			name:        "null message",
			body:        `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":null}`,
			wantInvalid: []string{"message"},
		},
		{
			name:        "non-string name",
			body:        `{"name":0,"email":"ada@example.com","subject":"Hi","message":"Hello"}`,
			wantInvalid: []string{"name"},
		},
		{
			name:        "empty object",
			body:        `{}`,
			wantInvalid: []string{"email", "message", "name", "subject"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateInput(decode(t, tt.body), schema)
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, result.Valid)
			if !tt.wantValid {
				assert.Equal(t, tt.wantInvalid, InvalidFields(result))
				assert.NotEmpty(t, GetErrorMessages(result))
			}
		})
	}
}

func TestValidateInput_NestedObject(t *testing.T) {
	schema := RequiredStrings("name")
	schema.Properties["assessment"] = Property{
		Type: "object",
		Properties: map[string]Property{
			"currentStage": {Type: "string"},
		},
	}

	result, err := ValidateInput(decode(t, `{"name":"Ada","assessment":{"currentStage":3}}`), schema)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, []string{"assessment.currentStage"}, InvalidFields(result))
}

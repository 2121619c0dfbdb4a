package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError([]string{"email"}), http.StatusBadRequest},
		{"malformed body", NewMalformedBodyError(fmt.Errorf("unexpected EOF")), http.StatusBadRequest},
		{"rate limited", NewRateLimitError("/api/contact", 0), http.StatusTooManyRequests},
		{"pdf", NewPDFGenerationError(fmt.Errorf("boom")), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("unexpected"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("handler: %w", NewValidationError(nil)), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUpstreamErrors_MessageAndType(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	tests := []struct {
		name        string
		err         *StandardError
		wantMessage string
		wantType    string
		wantService string
	}{
		{"pdf", NewPDFGenerationError(cause), "PDF generation failed: connection refused", TypePDF, ServicePDF},
		{"storage", NewStorageError(cause), "S3 upload failed: connection refused", TypeS3, ServiceStorage},
		{"email", NewEmailError(cause), "Email sending error: connection refused", TypeEmail, ServiceEmail},
		{"lead", NewLeadGenerationError(cause), "Lead generation failed: connection refused", TypeLeadGeneration, ServiceCRM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ErrCodeUpstreamFailed, tt.err.Code)
			assert.Equal(t, tt.wantMessage, tt.err.Message)
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantService, tt.err.Service)
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

func TestNewStorageError_UsesAPIErrorCode(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}

	err := NewStorageError(fmt.Errorf("operation error S3: PutObject: %w", apiErr))

	assert.Equal(t, "NoSuchBucket", err.Type)
	assert.Contains(t, err.Message, "S3 upload failed")
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	validation := NewValidationError([]string{"name"})
	assert.Same(t, validation, Normalize(fmt.Errorf("wrapped: %w", validation)))

	plain := stderrors.New("kaboom")
	normalized := Normalize(plain)
	require.NotNil(t, normalized)
	assert.Equal(t, ErrCodeInternal, normalized.Code)
	assert.Equal(t, TypeInternal, normalized.Type)
	assert.ErrorIs(t, normalized, plain)
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewEmailError(fmt.Errorf("535 auth failed")))

	assert.Equal(t, "UPSTREAM_ERROR", bpmn.Code)
	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "UPSTREAM_ERROR", vars["errorCode"])
	assert.Equal(t, ServiceEmail, vars["errorService"])
	assert.Equal(t, TypeEmail, vars["errorType"])

	assert.True(t, IsBusinessError(ErrCodeValidationFailed))
	assert.False(t, IsBusinessError(ErrCodeUpstreamFailed))
	assert.Equal(t, "upstream", GetErrorCategory(ErrCodeUpstreamFailed))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NewRateLimitError("/x", 0))
	assert.True(t, IsCode(err, ErrCodeRateLimited))
	assert.False(t, IsCode(err, ErrCodeValidationFailed))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeInternal))
}

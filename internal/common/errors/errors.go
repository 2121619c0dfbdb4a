// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/smithy-go"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrCodeUpstreamFailed   ErrorCode = "UPSTREAM_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Upstream services a function talks to.
const (
	ServicePDF     = "pdf"
	ServiceStorage = "storage"
	ServiceEmail   = "email"
	ServiceCRM     = "crm"
)

// Type tags reported to clients in the error body.
const (
	TypePDF            = "pdfError"
	TypeS3             = "S3Error"
	TypeEmail          = "emailError"
	TypeLeadGeneration = "leadGenerationError"
	TypeInternal       = "internalError"
)

// MsgFieldsRequired is the client-facing validation message.
const MsgFieldsRequired = "All fields are required"

// StandardError is the tagged error every function returns. Code selects
// the variant; Service, Type and Cause are set for upstream failures and
// Fields for validation failures.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Service   string                 `json:"service,omitempty"`
	Type      string                 `json:"type,omitempty"`
	Fields    []string               `json:"fields,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error variant to a response status.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// BPMNError is the representation thrown back to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// --- Constructors ---

func NewValidationError(fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   MsgFieldsRequired,
		Details:   fmt.Sprintf("missing or empty fields: %v", fields),
		Fields:    fields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMalformedBodyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Invalid request body",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewRateLimitError(key string, retryAfter time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Details:   fmt.Sprintf("key: %s", key),
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfter": retryAfter.String()},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError wraps a failure of an external service. The message is
// prefix followed by the cause's own message.
func NewUpstreamError(service, errType, prefix string, cause error) *StandardError {
	msg := prefix
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", prefix, cause.Error())
	}
	return &StandardError{
		Code:      ErrCodeUpstreamFailed,
		Message:   msg,
		Service:   service,
		Type:      errType,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

func NewPDFGenerationError(cause error) *StandardError {
	return NewUpstreamError(ServicePDF, TypePDF, "PDF generation failed", cause)
}

// NewStorageError tags S3 failures with the SDK's API error code when one is
// available, S3Error otherwise.
func NewStorageError(cause error) *StandardError {
	return NewUpstreamError(ServiceStorage, apiErrorCode(cause, TypeS3), "S3 upload failed", cause)
}

func NewEmailError(cause error) *StandardError {
	return NewUpstreamError(ServiceEmail, apiErrorCode(cause, TypeEmail), "Email sending error", cause)
}

func NewLeadGenerationError(cause error) *StandardError {
	return NewUpstreamError(ServiceCRM, TypeLeadGeneration, "Lead generation failed", cause)
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Type:      TypeInternal,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func apiErrorCode(err error, fallback string) string {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		return apiErr.ErrorCode()
	}
	return fallback
}

// --- Inspection ---

// Normalize returns err as a StandardError, wrapping unknown errors as
// internal errors.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus returns the response status for any error.
func HTTPStatus(err error) int {
	return Normalize(err).HTTPStatus()
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// --- BPMN mapping ---

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed: "VALIDATION_ERROR",
	ErrCodeRateLimited:      "RATE_LIMITED",
	ErrCodeUpstreamFailed:   "UPSTREAM_ERROR",
	ErrCodeInternal:         "INTERNAL_ERROR",
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	vars := map[string]interface{}{}
	if stdErr.Service != "" {
		vars["errorService"] = stdErr.Service
	}
	if stdErr.Type != "" {
		vars["errorType"] = stdErr.Type
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		ErrorVariables: vars,
	}
}

// IsBusinessError reports whether the error should be thrown into the
// process as a BPMN error rather than failing the job.
func IsBusinessError(code ErrorCode) bool {
	return code == ErrCodeValidationFailed
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return "validation"
	case ErrCodeRateLimited:
		return "throttling"
	case ErrCodeUpstreamFailed:
		return "upstream"
	default:
		return "internal"
	}
}

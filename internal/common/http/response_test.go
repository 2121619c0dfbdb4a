package http

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"site-functions/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        errors.NewValidationError([]string{"email"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"All fields are required"}`,
		},
		{
			name:       "rate limited",
			err:        errors.NewRateLimitError("/api/contact", 30*time.Second),
			wantStatus: http.StatusTooManyRequests,
			wantBody:   `{"error":"Too many requests"}`,
		},
		{
			name:       "upstream",
			err:        errors.NewStorageError(stderrors.New("AccessDenied")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":{"message":"S3 upload failed: AccessDenied","type":"S3Error"}}`,
		},
		{
			name:       "untagged",
			err:        stderrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":{"message":"Internal server error","type":"internalError"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWriteError_RetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.NewRateLimitError("/api/contact", 42*time.Second))

	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"message": "ok"})

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["message"])
}

package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	commonhttp "site-functions/internal/common/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLead_Success(t *testing.T) {
	var got Lead
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/resource/CRM Lead", r.URL.Path)
		assert.Equal(t, "token key-1:secret-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"name":"CRM-LEAD-2026-00042"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "key-1", "secret-1", commonhttp.NewClient(5*time.Second))
	id, err := client.CreateLead(context.Background(), NewWebsiteLead("Ada", "ada@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "CRM-LEAD-2026-00042", id)
	assert.Equal(t, Lead{FirstName: "Ada", Email: "ada@example.com", Source: "Website", Status: "New"}, got)
}

func TestCreateLead_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "exception message",
			status:  http.StatusExpectationFailed,
			body:    `{"exc_type":"ValidationError","exception":"frappe.exceptions.ValidationError: Email is invalid"}`,
			wantErr: "frappe.exceptions.ValidationError: Email is invalid",
		},
		{
			name:    "exc_type only",
			status:  http.StatusOK,
			body:    `{"exc_type":"DuplicateEntryError"}`,
			wantErr: "DuplicateEntryError",
		},
		{
			name:    "non-json error page",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: "status 502",
		},
		{
			name:    "json error without exc_type",
			status:  http.StatusForbidden,
			body:    `{"message":"Not permitted"}`,
			wantErr: "status 403",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "k", "s", commonhttp.NewClient(5*time.Second))
			_, err := client.CreateLead(context.Background(), NewWebsiteLead("Ada", "ada@example.com"))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

package pdf

import (
	"context"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"site-functions/internal/common/config"
	commonhttp "site-functions/internal/common/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudflareRenderer_Success(t *testing.T) {
	var gotHTML, gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotHTML = body["html"]

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	r := NewCloudflareRenderer(server.URL+"/client/v4/", "acc-123", "tok-456", commonhttp.NewClient(5*time.Second))
	data, err := r.Render(context.Background(), "<html><body>report</body></html>")
	require.NoError(t, err)

	assert.Equal(t, "%PDF-1.7 fake", string(data))
	assert.Equal(t, "/client/v4/accounts/acc-123/browser-rendering/pdf", gotPath)
	assert.Equal(t, "Bearer tok-456", gotAuth)
	assert.Equal(t, "<html><body>report</body></html>", gotHTML)
}

func TestCloudflareRenderer_LargeDocumentIsNotTruncated(t *testing.T) {
	document := bytes.Repeat([]byte("P"), 20<<20+4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(document)
	}))
	defer server.Close()

	r := NewCloudflareRenderer(server.URL, "acc-123", "tok-456", commonhttp.NewClient(30*time.Second))
	data, err := r.Render(context.Background(), "<html><body>report</body></html>")
	require.NoError(t, err)

	assert.Len(t, data, len(document))
}

func TestCloudflareRenderer_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantText string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"errors":[{"code":10000}]}`, "Unauthorized"},
		{"rate limited", http.StatusTooManyRequests, "slow down", "Too Many Requests"},
		{"server error", http.StatusInternalServerError, "boom", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r := NewCloudflareRenderer(server.URL, "acc", "tok", commonhttp.NewClient(5*time.Second))
			_, err := r.Render(context.Background(), "<p>x</p>")
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.wantText+" - "+tt.body, err.Error())
		})
	}
}

func TestCloudflareRenderer_EmptyInputAndOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewCloudflareRenderer(server.URL, "acc", "tok", commonhttp.NewClient(5*time.Second))

	_, err := r.Render(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = r.Render(context.Background(), "<p>x</p>")
	assert.ErrorIs(t, err, ErrEmptyPDF)
}

func TestNew_SelectsDriver(t *testing.T) {
	r, err := New(config.PDFConfig{Driver: config.PDFDriverCloudflare, BaseURL: "https://api.example.com", Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &CloudflareRenderer{}, r)

	r, err = New(config.PDFConfig{Driver: config.PDFDriverChromium})
	require.NoError(t, err)
	assert.IsType(t, &ChromiumRenderer{}, r)

	_, err = New(config.PDFConfig{Driver: "wkhtmltopdf"})
	assert.Error(t, err)
}

func TestChromiumRenderer_RejectsEmptyDocument(t *testing.T) {
	_, err := NewChromiumRenderer("", time.Second).Render(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

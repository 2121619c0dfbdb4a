package contactform

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"site-functions/internal/common/config"
	"site-functions/internal/common/errors"
	"site-functions/internal/common/logger"
	leadcreate "site-functions/internal/functions/crm/lead-create"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockService struct {
	mock.Mock
}

func (m *MockService) Execute(ctx context.Context, input *Input) (*Output, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Output), args.Error(1)
}

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Execute(ctx context.Context, input *leadcreate.Input) (*leadcreate.Output, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leadcreate.Output), args.Error(1)
}

// ==========================
// Helpers
// ==========================

const validBody = `{"name":"Ada","email":"ada@example.com","subject":"Platform","message":"Hello"}`

func createValidConfig() *Config {
	return &Config{Enabled: true, Timeout: 5 * time.Second}
}

func newTestHandler(t *testing.T, opts HandlerOptions) *Handler {
	t.Helper()
	if opts.CustomConfig == nil {
		opts.CustomConfig = createValidConfig()
	}
	opts.Logger = logger.NewTestLogger(t)
	h, err := NewHandler(opts)
	require.NoError(t, err)
	return h
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: true}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")

	h, err := NewHandler(HandlerOptions{AppConfig: &config.Config{
		Functions: map[string]config.FunctionConfig{Name: {Enabled: false, Timeout: 2000}},
		Server:    config.ServerConfig{MaxBodyBytes: 4096},
	}})
	require.NoError(t, err)
	assert.False(t, h.IsEnabled())
	assert.Equal(t, 2*time.Second, h.GetConfig().Timeout)
	assert.Equal(t, int64(4096), h.GetConfig().MaxBodyBytes)
}

func TestHandler_Success(t *testing.T) {
	h := newTestHandler(t, HandlerOptions{})

	rec := post(h, validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"message": "Message sent successfully!",
		"data": {"name": "Ada", "email": "ada@example.com", "subject": "Platform"}
	}`, rec.Body.String())
}

func TestHandler_MissingFields(t *testing.T) {
	bodies := []string{
		`{"email":"ada@example.com","subject":"Platform","message":"Hello"}`,
		`{"name":"Ada","subject":"Platform","message":"Hello"}`,
		`{"name":"Ada","email":"ada@example.com","message":"Hello"}`,
		`{"name":"Ada","email":"ada@example.com","subject":"Platform"}`,
		`{"name":"Ada","email":"ada@example.com","subject":"Platform","message":""}`,
		`{"name":null,"email":"ada@example.com","subject":"Platform","message":"Hello"}`,
		`{}`,
	}

	service := new(MockService)
	h := newTestHandler(t, HandlerOptions{Service: service})

	for _, body := range bodies {
		rec := post(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"All fields are required"}`, rec.Body.String(), body)
	}
	service.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandler_MalformedBody(t *testing.T) {
	h := newTestHandler(t, HandlerOptions{})

	rec := post(h, `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestHandler_ServiceError(t *testing.T) {
	service := new(MockService)
	service.On("Execute", mock.Anything, mock.Anything).Return(nil, stderrors.New("unexpected"))
	h := newTestHandler(t, HandlerOptions{Service: service})

	rec := post(h, validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.TypeInternal, body["error"]["type"])
}

func TestHandler_CreatesLeadWhenWired(t *testing.T) {
	leads := new(MockLeadService)
	leads.On("Execute", mock.Anything, &leadcreate.Input{Name: "Ada", Email: "ada@example.com"}).
		Return(&leadcreate.Output{Created: true, LeadID: "CRM-LEAD-1"}, nil)
	h := newTestHandler(t, HandlerOptions{Leads: leads})

	rec := post(h, validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	leads.AssertExpectations(t)
}

func TestHandler_LeadFailure(t *testing.T) {
	leads := new(MockLeadService)
	leads.On("Execute", mock.Anything, mock.Anything).
		Return(nil, errors.NewLeadGenerationError(stderrors.New("DuplicateEntryError")))
	h := newTestHandler(t, HandlerOptions{Leads: leads})

	rec := post(h, validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"Lead generation failed: DuplicateEntryError","type":"leadGenerationError"}}`, rec.Body.String())
}

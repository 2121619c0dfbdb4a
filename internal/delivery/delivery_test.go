package delivery

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"site-functions/internal/common/config"
	"site-functions/internal/common/errors"
	"site-functions/internal/mail"
	"site-functions/internal/storage"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) PutPDF(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockStore) SignGet(ctx context.Context, key string, expiry time.Duration) (*storage.SignedLink, error) {
	args := m.Called(ctx, key, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.SignedLink), args.Error(1)
}

const from = "reports@example.com"

func createReport() *Report {
	return &Report{Name: "Ada", Email: "ada@example.com", PDF: []byte("%PDF-1.7")}
}

func TestAttachmentFilename(t *testing.T) {
	assert.Equal(t, "Platform_engineering_assessment_ada@example.com.pdf", AttachmentFilename("ada@example.com"))
	assert.Equal(t, "Platform_engineering_assessment_ada_lovelace@example.com.pdf", AttachmentFilename("ada \t lovelace@example.com"))
}

func TestNew(t *testing.T) {
	sender := new(MockSender)
	store := new(MockStore)

	tests := []struct {
		name     string
		opts     Options
		wantName string
		wantErr  string
	}{
		{"default is attachment", Options{Sender: sender}, config.DeliveryAttachment, ""},
		{"attachment", Options{Strategy: config.DeliveryAttachment, Sender: sender}, config.DeliveryAttachment, ""},
		{"link", Options{Strategy: config.DeliveryLink, Sender: sender, Store: store, LinkExpiry: time.Minute}, config.DeliveryLink, ""},
		{"link without store", Options{Strategy: config.DeliveryLink, Sender: sender, LinkExpiry: time.Minute}, "", "object store"},
		{"link without expiry", Options{Strategy: config.DeliveryLink, Sender: sender, Store: store}, "", "positive expiry"},
		{"no sender", Options{Strategy: config.DeliveryAttachment}, "", "mail sender"},
		{"unknown", Options{Strategy: "carrier-pigeon", Sender: sender}, "", "unknown delivery strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}

func TestAttachmentStrategy_Deliver(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m *mail.Message) bool {
		return m.From == from &&
			m.To == "ada@example.com" &&
			m.Subject == mail.ReportSubject &&
			len(m.Attachments) == 1 &&
			m.Attachments[0].Filename == "Platform_engineering_assessment_ada@example.com.pdf" &&
			string(m.Attachments[0].Content) == "%PDF-1.7"
	})).Return(nil)

	receipt, err := NewAttachmentStrategy(sender, from).Deliver(context.Background(), createReport())

	require.NoError(t, err)
	assert.Equal(t, config.DeliveryAttachment, receipt.Strategy)
	assert.Equal(t, "ada@example.com", receipt.Recipient)
	assert.Empty(t, receipt.DownloadURL)
	sender.AssertExpectations(t)
}

func TestAttachmentStrategy_EmailFailure(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(stderrors.New("535 authentication failed"))

	_, err := NewAttachmentStrategy(sender, from).Deliver(context.Background(), createReport())

	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeUpstreamFailed, stdErr.Code)
	assert.Equal(t, errors.TypeEmail, stdErr.Type)
	assert.Equal(t, "Email sending error: 535 authentication failed", stdErr.Message)
}

func TestLinkStrategy_Deliver(t *testing.T) {
	key := "Platform-Readiness-Assessment-ada@example.com.pdf"
	expiresAt := time.Date(2026, 1, 22, 7, 10, 19, 0, time.UTC)

	sender := new(MockSender)
	store := new(MockStore)
	store.On("PutPDF", mock.Anything, key, []byte("%PDF-1.7")).Return(nil)
	store.On("SignGet", mock.Anything, key, time.Minute).Return(&storage.SignedLink{
		Key:       key,
		URL:       "https://reports.example.com/signed",
		ExpiresAt: expiresAt,
	}, nil)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m *mail.Message) bool {
		return m.HTML == "" && len(m.Attachments) == 0 &&
			strings.Contains(m.Text, "https://reports.example.com/signed")
	})).Return(nil)

	receipt, err := NewLinkStrategy(sender, store, from, time.Minute).Deliver(context.Background(), createReport())

	require.NoError(t, err)
	assert.Equal(t, config.DeliveryLink, receipt.Strategy)
	assert.Equal(t, key, receipt.ObjectKey)
	assert.Equal(t, "https://reports.example.com/signed", receipt.DownloadURL)
	assert.Equal(t, expiresAt, receipt.ExpiresAt)
	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestLinkStrategy_UploadFailure(t *testing.T) {
	sender := new(MockSender)
	store := new(MockStore)
	store.On("PutPDF", mock.Anything, mock.Anything, mock.Anything).
		Return(&smithy.GenericAPIError{Code: "NoSuchBucket", Message: "bucket missing"})

	_, err := NewLinkStrategy(sender, store, from, time.Minute).Deliver(context.Background(), createReport())

	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ServiceStorage, stdErr.Service)
	assert.Equal(t, "NoSuchBucket", stdErr.Type)
	assert.Contains(t, stdErr.Message, "S3 upload failed")
	store.AssertNotCalled(t, "SignGet", mock.Anything, mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestLinkStrategy_SignFailure(t *testing.T) {
	sender := new(MockSender)
	store := new(MockStore)
	store.On("PutPDF", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("SignGet", mock.Anything, mock.Anything, mock.Anything).Return(nil, stderrors.New("no credentials"))

	_, err := NewLinkStrategy(sender, store, from, time.Minute).Deliver(context.Background(), createReport())

	assert.Equal(t, errors.TypeS3, errors.Normalize(err).Type)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestLinkStrategy_EmailFailureKeepsObject(t *testing.T) {
	sender := new(MockSender)
	store := new(MockStore)
	store.On("PutPDF", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("SignGet", mock.Anything, mock.Anything, mock.Anything).Return(&storage.SignedLink{
		URL:       "https://reports.example.com/signed",
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(stderrors.New("connection refused"))

	_, err := NewLinkStrategy(sender, store, from, time.Minute).Deliver(context.Background(), createReport())

	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.TypeEmail, stdErr.Type)
	assert.Equal(t, 500, stdErr.HTTPStatus())
	store.AssertNumberOfCalls(t, "PutPDF", 1)
}

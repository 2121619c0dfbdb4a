package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const pdfContentType = "application/pdf"

// S3API is the subset of *s3.Client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient the store uses.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// SignedLink is a time-limited download URL.
type SignedLink struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// Store writes report PDFs to a bucket and signs download links for them.
type Store struct {
	client    S3API
	presigner Presigner
	bucket    string
	now       func() time.Time
}

func NewStore(client S3API, presigner Presigner, bucket string) *Store {
	return &Store{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		now:       time.Now,
	}
}

// ReportKey is the object key for a recipient's report. The email is used
// verbatim, so a repeat submission overwrites the previous object.
func ReportKey(email string) string {
	return fmt.Sprintf("Platform-Readiness-Assessment-%s.pdf", email)
}

// PutPDF uploads data under key as a downloadable PDF attachment.
func (s *Store) PutPDF(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(pdfContentType),
		ContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="%s"`, key)),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// SignGet returns a presigned GET URL for key valid for expiry.
func (s *Store) SignGet(ctx context.Context, key string, expiry time.Duration) (*SignedLink, error) {
	issued := s.now()
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return nil, fmt.Errorf("presign object %s: %w", key, err)
	}

	return &SignedLink{
		Key:       key,
		URL:       req.URL,
		ExpiresAt: issued.Add(expiry),
	}, nil
}

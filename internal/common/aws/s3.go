// internal/common/aws/s3.go
package aws

import (
	appconfig "site-functions/internal/common/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client returns an S3 client and a presigner sharing its options. A
// custom endpoint targets S3-compatible stores such as R2 or MinIO.
func NewS3Client(awsCfg aws.Config, cfg appconfig.StorageConfig) (*s3.Client, *s3.PresignClient) {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return client, s3.NewPresignClient(client)
}

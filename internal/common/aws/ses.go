// internal/common/aws/ses.go
package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

func NewSESClient(awsCfg aws.Config) *ses.Client {
	return ses.NewFromConfig(awsCfg)
}

package aws

import (
	"context"
	"testing"

	appconfig "site-functions/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_StaticCredentials(t *testing.T) {
	awsCfg, err := LoadConfig(context.Background(), appconfig.AWSConfig{
		Region:          "eu-west-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}

func TestNewS3Client_CustomEndpoint(t *testing.T) {
	awsCfg, err := LoadConfig(context.Background(), appconfig.AWSConfig{
		Region:          "auto",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	client, presigner := NewS3Client(awsCfg, appconfig.StorageConfig{
		Endpoint:  "https://account.r2.cloudflarestorage.com",
		PathStyle: true,
	})

	require.NotNil(t, client)
	require.NotNil(t, presigner)
}

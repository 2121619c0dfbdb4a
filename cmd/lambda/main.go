// cmd/lambda/main.go
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"go.uber.org/zap"

	"site-functions/internal/app"
	"site-functions/internal/common/config"
	"site-functions/internal/common/logger"
)

// The same router as cmd/server, behind an API Gateway HTTP API (payload
// format 2.0) or a Lambda function URL. Configuration comes from the
// environment; a bundled configs/config.yaml is optional.
func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	application, err := app.Build(context.Background(), cfg, log)
	if err != nil {
		zapLog.Fatal("failed to build application", zap.Error(err))
	}

	handler, err := application.HTTPHandler()
	if err != nil {
		zapLog.Fatal("failed to build router", zap.Error(err))
	}

	adapter := httpadapter.NewV2(handler)
	zapLog.Info("Lambda handler ready", zap.String("environment", cfg.App.Environment))
	lambda.Start(adapter.ProxyWithContext)
}

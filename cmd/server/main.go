// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"site-functions/internal/app"
	"site-functions/internal/common/config"
	"site-functions/internal/common/logger"
)

func main() {
	configFile := pflag.String("config", "", "path to a config file (defaults to ./configs/config.yaml)")
	pflag.String("server.address", "", "listen address, e.g. :8080")
	pflag.String("logging.level", "", "log level: debug, info, warn or error")
	pflag.String("delivery.strategy", "", "report delivery: attachment or link")
	pflag.Parse()

	v := viper.New()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}
	if *configFile != "" {
		v.SetConfigFile(*configFile)
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Build(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("failed to build application", zap.Error(err))
	}

	handler, err := application.HTTPHandler()
	if err != nil {
		zapLog.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLog.Info("HTTP server listening",
			zap.String("address", cfg.Server.Address),
			zap.String("environment", cfg.App.Environment),
			zap.String("deliveryStrategy", cfg.Delivery.Strategy),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := application.Close(shutdownCtx); err != nil {
		zapLog.Error("Error releasing resources", zap.Error(err))
	}

	zapLog.Info("Server stopped gracefully")
}

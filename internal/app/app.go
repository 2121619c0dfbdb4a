// Package app builds the function services from configuration. Every
// entrypoint shares it so the server, Lambda and worker behave the same.
package app

import (
	"context"
	"fmt"
	"net/http"

	"site-functions/internal/api"
	awsclients "site-functions/internal/common/aws"
	"site-functions/internal/common/config"
	"site-functions/internal/common/database"
	"site-functions/internal/common/logger"
	"site-functions/internal/common/observability"
	"site-functions/internal/common/ratelimit"
	"site-functions/internal/delivery"
	reportdelivery "site-functions/internal/functions/assessment/report-delivery"
	contactform "site-functions/internal/functions/communication/contact-form"
	leadcreate "site-functions/internal/functions/crm/lead-create"
	"site-functions/internal/mail"
	"site-functions/internal/pdf"
	"site-functions/internal/report"
	"site-functions/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// App holds the wired services. Close releases what Build opened.
type App struct {
	Config        *config.Config
	Logger        logger.Logger
	Observability *observability.Observability
	Redis         *database.RedisClient
	Reports       *reportdelivery.Service
	Leads         *leadcreate.Service
	Strategy      delivery.Strategy
}

// Build wires every service cfg enables. Nothing is dialled here; Redis and
// SMTP connect on first use.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		return nil, err
	}
	a.Observability = obs

	catalog, err := report.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("load stage catalog: %w", err)
	}

	renderer, err := pdf.New(cfg.PDF)
	if err != nil {
		return nil, err
	}

	var awsCfg *aws.Config
	if cfg.Mail.Driver == config.MailDriverSES || cfg.Delivery.Strategy == config.DeliveryLink || cfg.Delivery.EventsTopicARN != "" {
		loaded, err := awsclients.LoadConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		awsCfg = &loaded
	}

	var sesClient mail.SESAPI
	if cfg.Mail.Driver == config.MailDriverSES {
		sesClient = awsclients.NewSESClient(*awsCfg)
	}
	sender, err := mail.NewSender(cfg.Mail, sesClient)
	if err != nil {
		return nil, err
	}

	opts := delivery.Options{
		Strategy:   cfg.Delivery.Strategy,
		From:       cfg.Mail.From,
		LinkExpiry: cfg.Storage.LinkExpiry,
		Sender:     sender,
	}
	if cfg.Delivery.Strategy == config.DeliveryLink {
		client, presigner := awsclients.NewS3Client(*awsCfg, cfg.Storage)
		opts.Store = storage.NewStore(client, presigner, cfg.Storage.Bucket)

		if cfg.Storage.ShortLinkExpiry() {
			log.Warn("Signed report links expire quickly and may be dead before the email is opened", map[string]interface{}{
				"linkExpiry":       cfg.Storage.LinkExpiry.String(),
				"recommendedMin":   config.MinRecommendedLinkExpiry.String(),
				"deliveryStrategy": cfg.Delivery.Strategy,
			})
		}
	}
	strategy, err := delivery.New(opts)
	if err != nil {
		return nil, err
	}
	a.Strategy = strategy

	leadCfg := leadcreate.ConfigFromApp(cfg)
	if err := leadCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", leadcreate.Name, err)
	}
	if leadCfg.Enabled {
		a.Leads = leadcreate.NewService(leadcreate.ServiceDependencies{Logger: log}, leadCfg)
	}

	reportDeps := reportdelivery.ServiceDependencies{
		Logger:        log,
		Catalog:       catalog,
		Renderer:      renderer,
		Delivery:      strategy,
		Observability: obs,
	}
	if a.Leads != nil {
		reportDeps.Leads = a.Leads
	}
	if cfg.Delivery.EventsTopicARN != "" {
		reportDeps.Events = awsclients.NewSNSPublisher(awsclients.NewSNSClient(*awsCfg), cfg.Delivery.EventsTopicARN)
	}
	a.Reports = reportdelivery.NewService(reportDeps)

	if cfg.RateLimit.Enabled {
		a.Redis = database.NewRedis(cfg.Database.Redis)
	}

	log.Info("Services initialised", map[string]interface{}{
		"pdfDriver":   cfg.PDF.Driver,
		"mailDriver":  cfg.Mail.Driver,
		"delivery":    strategy.Name(),
		"crm":         leadCfg.Enabled,
		"events":      cfg.Delivery.EventsTopicARN != "",
		"rateLimiter": cfg.RateLimit.Enabled,
	})

	return a, nil
}

// HTTPHandler mounts the enabled functions on the router.
func (a *App) HTTPHandler() (http.Handler, error) {
	deps := api.Dependencies{
		Logger:          a.Logger,
		Gatherer:        a.Observability.Gatherer(),
		ReadinessChecks: map[string]api.ReadinessCheck{},
	}

	if config.IsFunctionEnabled(a.Config, contactform.Name) {
		contactOpts := contactform.HandlerOptions{AppConfig: a.Config, Logger: a.Logger}
		if a.Leads != nil {
			contactOpts.Leads = a.Leads
		}
		h, err := contactform.NewHandler(contactOpts)
		if err != nil {
			return nil, err
		}
		deps.Contact = h
	}

	if config.IsFunctionEnabled(a.Config, reportdelivery.Name) {
		h, err := reportdelivery.NewHandler(reportdelivery.HandlerOptions{
			AppConfig: a.Config,
			Logger:    a.Logger,
			Service:   a.Reports,
		})
		if err != nil {
			return nil, err
		}
		deps.Assessment = h
	}

	if a.Redis != nil {
		deps.Limiter = ratelimit.New(a.Redis.Client, a.Config.RateLimit)
		deps.ReadinessChecks["redis"] = a.Redis.Ping
	}

	return api.NewServer(api.Config{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		RequestTimeout: a.Config.Server.RequestTimeout,
		Version:        a.Config.App.Version,
	}, deps), nil
}

func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.Observability.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

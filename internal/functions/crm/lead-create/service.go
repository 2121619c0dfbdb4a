package leadcreate

import (
	"context"

	"site-functions/internal/common/crm"
	"site-functions/internal/common/errors"
	commonhttp "site-functions/internal/common/http"
	"site-functions/internal/common/logger"
)

// LeadClient is implemented by *crm.Client.
type LeadClient interface {
	CreateLead(ctx context.Context, lead *crm.Lead) (string, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	Client LeadClient
}

type Service struct {
	config *Config
	logger logger.Logger
	client LeadClient
}

// NewService builds the lead service. When deps.Client is nil and the
// function is enabled a Frappe CRM client is created from config.
func NewService(deps ServiceDependencies, config *Config) *Service {
	client := deps.Client
	if client == nil && config.Enabled {
		client = crm.NewClient(config.Host, config.APIKey, config.APISecret, commonhttp.NewClient(config.Timeout))
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Service{
		config: config,
		logger: log,
		client: client,
	}
}

// Execute creates a website lead. A disabled service does nothing.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !s.config.Enabled || s.client == nil {
		return &Output{Created: false}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	id, err := s.client.CreateLead(ctx, crm.NewWebsiteLead(input.Name, input.Email))
	if err != nil {
		s.logger.Error("Lead creation failed", map[string]interface{}{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, errors.NewLeadGenerationError(err)
	}

	s.logger.Info("Lead created", map[string]interface{}{
		"email":  input.Email,
		"leadId": id,
	})

	return &Output{Created: true, LeadID: id}, nil
}

func (s *Service) Enabled() bool {
	return s.config.Enabled
}

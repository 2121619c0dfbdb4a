package contactform

import (
	"context"

	"site-functions/internal/common/logger"
	leadcreate "site-functions/internal/functions/crm/lead-create"
)

// LeadService is implemented by *leadcreate.Service.
type LeadService interface {
	Execute(ctx context.Context, input *leadcreate.Input) (*leadcreate.Output, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	Leads  LeadService
}

type Service struct {
	logger logger.Logger
	leads  LeadService
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		logger: deps.Logger,
		leads:  deps.Leads,
	}
}

// Execute records the submission and, when a lead service is wired,
// creates a lead for the sender.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Contact form submission", map[string]interface{}{
		"name":    input.Name,
		"email":   input.Email,
		"subject": input.Subject,
		"message": input.Message,
	})

	if s.leads != nil {
		if _, err := s.leads.Execute(ctx, &leadcreate.Input{Name: input.Name, Email: input.Email}); err != nil {
			return nil, err
		}
	}

	return &Output{
		Message: SuccessMessage,
		Data: ContactData{
			Name:    input.Name,
			Email:   input.Email,
			Subject: input.Subject,
		},
	}, nil
}

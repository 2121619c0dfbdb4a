package reportdelivery

import (
	"context"
	"time"

	"site-functions/internal/common/errors"
	"site-functions/internal/common/logger"
	"site-functions/internal/common/observability"
	"site-functions/internal/delivery"
	leadcreate "site-functions/internal/functions/crm/lead-create"
	"site-functions/internal/pdf"
	"site-functions/internal/report"
)

// LeadService is implemented by *leadcreate.Service.
type LeadService interface {
	Execute(ctx context.Context, input *leadcreate.Input) (*leadcreate.Output, error)
}

// EventPublisher is implemented by *aws.SNSPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) (string, error)
}

// EventReportDelivered is published after each successful delivery.
const EventReportDelivered = "report.delivered"

// DeliveredEvent is the report.delivered payload.
type DeliveredEvent struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Strategy    string    `json:"strategy"`
	ObjectKey   string    `json:"objectKey,omitempty"`
	LeadID      string    `json:"leadId,omitempty"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Catalog       *report.Catalog
	Renderer      pdf.Renderer
	Delivery      delivery.Strategy
	Leads         LeadService
	Events        EventPublisher
	Observability *observability.Observability
	Now           func() time.Time
}

// Service renders the assessment report and delivers it. Each stage runs
// once; a failure ends the request and nothing already done is undone.
type Service struct {
	logger   logger.Logger
	catalog  *report.Catalog
	renderer pdf.Renderer
	delivery delivery.Strategy
	leads    LeadService
	events   EventPublisher
	obs      *observability.Observability
	now      func() time.Time
}

func NewService(deps ServiceDependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		logger:   deps.Logger,
		catalog:  deps.Catalog,
		renderer: deps.Renderer,
		delivery: deps.Delivery,
		leads:    deps.Leads,
		events:   deps.Events,
		obs:      deps.Observability,
		now:      now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Processing assessment report", map[string]interface{}{
		"email":    input.Email,
		"strategy": s.delivery.Name(),
	})

	html, err := s.renderHTML(ctx, input)
	if err != nil {
		return nil, err
	}

	document, err := s.renderPDF(ctx, html)
	if err != nil {
		return nil, err
	}

	receipt, err := s.deliver(ctx, input, document)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Message: SuccessMessage,
		Data: OutputData{
			Email:       receipt.Recipient,
			Strategy:    receipt.Strategy,
			DownloadURL: receipt.DownloadURL,
		},
	}
	if !receipt.ExpiresAt.IsZero() {
		expiresAt := receipt.ExpiresAt.UTC()
		output.Data.ExpiresAt = &expiresAt
	}

	if s.leads != nil {
		leadID, err := s.createLead(ctx, input)
		if err != nil {
			return nil, err
		}
		output.Data.LeadID = leadID
	}

	if s.events != nil {
		s.publishDelivered(ctx, input, receipt, output.Data.LeadID)
	}

	s.logger.Info("Assessment report delivered", map[string]interface{}{
		"email":     receipt.Recipient,
		"strategy":  receipt.Strategy,
		"objectKey": receipt.ObjectKey,
		"pdfBytes":  len(document),
	})

	return output, nil
}

// BuildResult turns the submission into a report result.
func (s *Service) BuildResult(input *Input) *report.Result {
	in := report.Input{
		UserName:       input.Name,
		UserEmail:      input.Email,
		AssessmentDate: s.now(),
		Scores:         &report.Scores{},
		StageName:      report.DefaultStage,
	}

	if a := input.Assessment; a != nil {
		if a.Scores != nil {
			in.Scores = a.Scores
		}
		if a.CurrentStage != "" {
			in.StageName = a.CurrentStage
		}
		if a.AssessmentDate != nil {
			in.AssessmentDate = *a.AssessmentDate
		}
	}

	return s.catalog.BuildResult(in)
}

func (s *Service) renderHTML(ctx context.Context, input *Input) (html string, err error) {
	_, end := s.obs.StartStage(ctx, "report.render")
	defer func() { end(err) }()

	html, err = report.Render(s.BuildResult(input))
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	return html, nil
}

func (s *Service) renderPDF(ctx context.Context, html string) (document []byte, err error) {
	ctx, end := s.obs.StartStage(ctx, "pdf.render")
	defer func() { end(err) }()

	document, err = s.renderer.Render(ctx, html)
	if err != nil {
		return nil, errors.NewPDFGenerationError(err)
	}
	return document, nil
}

func (s *Service) deliver(ctx context.Context, input *Input, document []byte) (receipt *delivery.Receipt, err error) {
	ctx, end := s.obs.StartStage(ctx, "report.deliver")
	defer func() { end(err) }()

	return s.delivery.Deliver(ctx, &delivery.Report{
		Name:  input.Name,
		Email: input.Email,
		PDF:   document,
	})
}

func (s *Service) createLead(ctx context.Context, input *Input) (leadID string, err error) {
	ctx, end := s.obs.StartStage(ctx, "crm.lead")
	defer func() { end(err) }()

	out, err := s.leads.Execute(ctx, &leadcreate.Input{Name: input.Name, Email: input.Email})
	if err != nil {
		return "", err
	}
	return out.LeadID, nil
}

// publishDelivered announces the delivery. Publish failures are logged,
// not returned.
func (s *Service) publishDelivered(ctx context.Context, input *Input, receipt *delivery.Receipt, leadID string) {
	var err error
	ctx, end := s.obs.StartStage(ctx, "events.publish")
	defer func() { end(err) }()

	_, err = s.events.Publish(ctx, EventReportDelivered, DeliveredEvent{
		Name:        input.Name,
		Email:       receipt.Recipient,
		Strategy:    receipt.Strategy,
		ObjectKey:   receipt.ObjectKey,
		LeadID:      leadID,
		DeliveredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Failed to publish delivery event", map[string]interface{}{
			"email": receipt.Recipient,
			"event": EventReportDelivered,
			"error": err.Error(),
		})
	}
}

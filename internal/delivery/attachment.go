package delivery

import (
	"context"

	"site-functions/internal/common/config"
	"site-functions/internal/common/errors"
	"site-functions/internal/mail"
)

// AttachmentStrategy mails the PDF as an attachment.
type AttachmentStrategy struct {
	sender mail.Sender
	from   string
}

func NewAttachmentStrategy(sender mail.Sender, from string) *AttachmentStrategy {
	return &AttachmentStrategy{sender: sender, from: from}
}

func (s *AttachmentStrategy) Name() string {
	return config.DeliveryAttachment
}

func (s *AttachmentStrategy) Deliver(ctx context.Context, r *Report) (*Receipt, error) {
	msg := mail.NewReportAttachedMessage(s.from, r.Email, AttachmentFilename(r.Email), r.PDF)
	if err := s.sender.Send(ctx, msg); err != nil {
		return nil, errors.NewEmailError(err)
	}

	return &Receipt{
		Strategy:  s.Name(),
		Recipient: r.Email,
	}, nil
}

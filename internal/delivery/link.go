package delivery

import (
	"context"
	"time"

	"site-functions/internal/common/config"
	"site-functions/internal/common/errors"
	"site-functions/internal/mail"
	"site-functions/internal/storage"
)

// LinkStrategy uploads the PDF and mails a presigned download link. An
// uploaded object is left in place when the email fails.
type LinkStrategy struct {
	sender mail.Sender
	store  ObjectStore
	from   string
	expiry time.Duration
}

func NewLinkStrategy(sender mail.Sender, store ObjectStore, from string, expiry time.Duration) *LinkStrategy {
	return &LinkStrategy{
		sender: sender,
		store:  store,
		from:   from,
		expiry: expiry,
	}
}

func (s *LinkStrategy) Name() string {
	return config.DeliveryLink
}

func (s *LinkStrategy) Deliver(ctx context.Context, r *Report) (*Receipt, error) {
	key := storage.ReportKey(r.Email)

	if err := s.store.PutPDF(ctx, key, r.PDF); err != nil {
		return nil, errors.NewStorageError(err)
	}

	link, err := s.store.SignGet(ctx, key, s.expiry)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}

	msg, err := mail.NewReportLinkMessage(s.from, r.Email, r.Name, link.URL, s.expiry, link.ExpiresAt)
	if err != nil {
		return nil, errors.NewEmailError(err)
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return nil, errors.NewEmailError(err)
	}

	return &Receipt{
		Strategy:    s.Name(),
		Recipient:   r.Email,
		ObjectKey:   key,
		DownloadURL: link.URL,
		ExpiresAt:   link.ExpiresAt,
	}, nil
}

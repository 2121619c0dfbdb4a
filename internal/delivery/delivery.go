package delivery

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"site-functions/internal/common/config"
	"site-functions/internal/mail"
	"site-functions/internal/storage"
)

// Report is a rendered PDF and its recipient.
type Report struct {
	Name  string
	Email string
	PDF   []byte
}

// Receipt describes what was delivered. DownloadURL and ExpiresAt are only
// set by the link strategy.
type Receipt struct {
	Strategy    string
	Recipient   string
	ObjectKey   string
	DownloadURL string
	ExpiresAt   time.Time
}

// Strategy hands a report to its recipient.
type Strategy interface {
	Name() string
	Deliver(ctx context.Context, r *Report) (*Receipt, error)
}

// ObjectStore is implemented by *storage.Store.
type ObjectStore interface {
	PutPDF(ctx context.Context, key string, data []byte) error
	SignGet(ctx context.Context, key string, expiry time.Duration) (*storage.SignedLink, error)
}

var whitespace = regexp.MustCompile(`\s+`)

// AttachmentFilename is the PDF filename used in the attachment email.
func AttachmentFilename(email string) string {
	return fmt.Sprintf("Platform_engineering_assessment_%s.pdf", whitespace.ReplaceAllString(email, "_"))
}

// Options selects and configures a strategy.
type Options struct {
	Strategy   string
	From       string
	LinkExpiry time.Duration
	Sender     mail.Sender
	Store      ObjectStore
}

// New returns the strategy named by opts.Strategy.
func New(opts Options) (Strategy, error) {
	if opts.Sender == nil {
		return nil, fmt.Errorf("delivery requires a mail sender")
	}

	switch opts.Strategy {
	case config.DeliveryAttachment, "":
		return NewAttachmentStrategy(opts.Sender, opts.From), nil
	case config.DeliveryLink:
		if opts.Store == nil {
			return nil, fmt.Errorf("link delivery requires an object store")
		}
		if opts.LinkExpiry <= 0 {
			return nil, fmt.Errorf("link delivery requires a positive expiry")
		}
		return NewLinkStrategy(opts.Sender, opts.Store, opts.From, opts.LinkExpiry), nil
	default:
		return nil, fmt.Errorf("unknown delivery strategy %q", opts.Strategy)
	}
}

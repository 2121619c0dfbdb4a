package mail

import (
	"fmt"

	"site-functions/internal/common/config"
)

// NewSender returns the transport selected by cfg.Driver. sesClient is only
// used by the ses driver.
func NewSender(cfg config.MailConfig, sesClient SESAPI) (Sender, error) {
	switch cfg.Driver {
	case config.MailDriverSMTP:
		return NewSMTPSender(cfg.SMTP), nil
	case config.MailDriverSES:
		if sesClient == nil {
			return nil, fmt.Errorf("ses driver selected without an ses client")
		}
		return NewSESSender(sesClient), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

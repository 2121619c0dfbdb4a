package mail

import (
	"context"
	"fmt"
	"strings"

	"site-functions/internal/common/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender opens one connection per message.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, m *Message) error {
	msg, err := Build(m)
	if err != nil {
		return err
	}

	opts, err := s.clientOptions()
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// clientOptions maps configuration onto go-mail options. secure means
// implicit TLS; otherwise STARTTLS is used when the server offers it.
func (s *SMTPSender) clientOptions() ([]gomail.Option, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(s.cfg.Timeout),
	}

	if s.cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	if s.cfg.Username != "" {
		authType, err := smtpAuthType(s.cfg.AuthType)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			gomail.WithSMTPAuth(authType),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	return opts, nil
}

func smtpAuthType(name string) (gomail.SMTPAuthType, error) {
	switch strings.ToLower(name) {
	case "", "login":
		return gomail.SMTPAuthLogin, nil
	case "plain":
		return gomail.SMTPAuthPlain, nil
	case "cram-md5":
		return gomail.SMTPAuthCramMD5, nil
	default:
		return "", fmt.Errorf("unsupported smtp auth type %q", name)
	}
}

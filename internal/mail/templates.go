package mail

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// ReportSubject is the subject of every report email.
const ReportSubject = "Your Assessment Report is Ready"

const reportAttachedHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .container { background: #ffffff; border-radius: 8px; padding: 30px; }
    .header { text-align: center; margin-bottom: 30px; }
    .header h1 { color: #141414; font-size: 24px; margin-bottom: 10px; }
    .content { margin-bottom: 30px; }
    .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 14px; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Your Platform Engineering Readiness Assessment Report</h1>
    </div>
    <div class="content">
      <p>Hello,</p>
      <p>Thank you for completing the Platform Engineering Readiness Assessment. Your comprehensive report has been generated and it is attached to this email.</p>
      <p>This report includes:</p>
      <ul>
        <li>Your current platform maturity score</li>
        <li>Analysis across all assessment categories</li>
        <li>Personalized recommendations for improvement</li>
      </ul>
    </div>
    <p>Best regards,<br>
    <strong>Improwised Technologies Pvt. Ltd.</strong></p>
    <div class="footer">
      <p>Need help with your platform engineering journey?</p>
      <p>Learn more about our <a href="https://www.improwised.com/services/platform-engineering/" style="color: #0066cc;">Platform Engineering services</a> or visit us at <a href="https://www.improwised.com" style="color: #0066cc;">improwised.com</a></p>
      <p style="margin-top: 20px; font-size: 12px; color: #999;">This is an automated email. Please do not reply to this message.</p>
    </div>
  </div>
</body>
</html>
`

const reportAttachedText = `Hello,

Thank you for completing the Platform Engineering Readiness Assessment. Your comprehensive report has been generated and it is attached to this email.

Best regards,
Improwised Technologies Pvt. Ltd.

Learn more about our Platform Engineering services at https://www.improwised.com/services/platform-engineering/
This is an automated email. Please do not reply to this message.
`

var reportLinkText = template.Must(template.New("report-link").Parse(`Hello {{.Name}},

Thank you for completing the Platform Engineering Readiness Assessment. Your report is ready to download:

{{.URL}}

This link expires in {{.Expiry}} (at {{.ExpiresAt}}).

Best regards,
Improwised Technologies Pvt. Ltd.

Learn more about our Platform Engineering services at https://www.improwised.com/services/platform-engineering/
This is an automated email. Please do not reply to this message.
`))

// NewReportAttachedMessage is the email that carries the report PDF.
func NewReportAttachedMessage(from, to, filename string, pdf []byte) *Message {
	return &Message{
		From:    from,
		To:      to,
		Subject: ReportSubject,
		HTML:    reportAttachedHTML,
		Text:    reportAttachedText,
		Attachments: []Attachment{{
			Filename:    filename,
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
}

// NewReportLinkMessage is the plain-text email carrying a signed link.
func NewReportLinkMessage(from, to, name, url string, expiry time.Duration, expiresAt time.Time) (*Message, error) {
	var buf bytes.Buffer
	err := reportLinkText.Execute(&buf, struct {
		Name      string
		URL       string
		Expiry    string
		ExpiresAt string
	}{
		Name:      name,
		URL:       url,
		Expiry:    expiry.String(),
		ExpiresAt: expiresAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render link email: %w", err)
	}

	return &Message{
		From:    from,
		To:      to,
		Subject: ReportSubject,
		Text:    buf.String(),
	}, nil
}

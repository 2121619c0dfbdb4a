package reportdelivery

import (
	"time"

	"site-functions/internal/report"
)

// SuccessMessage is returned once the report has been delivered.
const SuccessMessage = "Message sent successfully!"

type Input struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Subject    string           `json:"subject"`
	Message    string           `json:"message"`
	Assessment *AssessmentInput `json:"assessment,omitempty"`
}

// AssessmentInput overrides the baseline result: zero scores, the Initial
// stage and the current time.
type AssessmentInput struct {
	AssessmentDate *time.Time     `json:"assessmentDate,omitempty"`
	Scores         *report.Scores `json:"scores,omitempty"`
	CurrentStage   string         `json:"currentStage,omitempty"`
}

type Output struct {
	Message string     `json:"message"`
	Data    OutputData `json:"data"`
}

type OutputData struct {
	Email       string     `json:"email"`
	Strategy    string     `json:"strategy"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	LeadID      string     `json:"leadId,omitempty"`
}

// Variables flattens the output into job completion variables.
func (o *Output) Variables() map[string]interface{} {
	vars := map[string]interface{}{
		"reportDelivered": true,
		"reportEmail":     o.Data.Email,
		"reportStrategy":  o.Data.Strategy,
	}
	if o.Data.DownloadURL != "" {
		vars["reportDownloadUrl"] = o.Data.DownloadURL
	}
	if o.Data.ExpiresAt != nil {
		vars["reportExpiresAt"] = o.Data.ExpiresAt.Format(time.RFC3339)
	}
	if o.Data.LeadID != "" {
		vars["crmLeadId"] = o.Data.LeadID
	}
	return vars
}

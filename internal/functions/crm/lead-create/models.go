package leadcreate

type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Output struct {
	Created bool   `json:"created"`
	LeadID  string `json:"leadId,omitempty"`
}

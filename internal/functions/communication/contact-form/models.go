package contactform

// SuccessMessage is returned for every accepted submission.
const SuccessMessage = "Message sent successfully!"

type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Output struct {
	Message string      `json:"message"`
	Data    ContactData `json:"data"`
}

// ContactData echoes the submission without the message body.
type ContactData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

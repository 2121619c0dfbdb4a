package contactform

import "site-functions/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	schema := validation.RequiredStrings("name", "email", "subject", "message")

	descriptions := map[string]string{
		"name":    "Sender name",
		"email":   "Sender email address",
		"subject": "Message subject",
		"message": "Message body",
	}
	for field, desc := range descriptions {
		prop := schema.Properties[field]
		prop.Description = desc
		schema.Properties[field] = prop
	}

	return schema
}

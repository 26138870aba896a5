package mailrelay

// SendEmailRequest тело запроса POST /send-email
type SendEmailRequest struct {
	To                  string                 `json:"to"`
	TemplateID          string                 `json:"templateId"`
	DynamicTemplateData map[string]interface{} `json:"dynamicTemplateData"`
}

// SendEmailResponse ответ сервиса: {success: true} или {error: "..."}
type SendEmailResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

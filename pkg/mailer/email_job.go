package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects one of the known notification templates; Data feeds it.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"` // "welcome" or "password_changed"
	Data     map[string]any `json:"data,omitempty"`
}

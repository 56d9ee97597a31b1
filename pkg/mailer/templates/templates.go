package templates

import "fmt"

const (
	Welcome         = "welcome"
	PasswordChanged = "password_changed"
)

// Subject returns the subject line for a template.
func Subject(template string) string {
	switch template {
	case Welcome:
		return "Welcome to VidHub"
	case PasswordChanged:
		return "Your password was changed"
	default:
		return "Notification"
	}
}

// Render produces the text and HTML bodies for a template. Unknown templates
// fall back to a plain notification so no queued job is ever dropped for a
// rendering reason.
func Render(template string, data map[string]any) (text string, html string) {
	name, _ := data["Name"].(string)
	if name == "" {
		name = "there"
	}
	switch template {
	case Welcome:
		username, _ := data["Username"].(string)
		text = fmt.Sprintf("Hi %s,\n\nYour VidHub account @%s is ready. Happy watching!\n", name, username)
		html = fmt.Sprintf("<p>Hi %s,</p><p>Your VidHub account <b>@%s</b> is ready. Happy watching!</p>", name, username)
	case PasswordChanged:
		text = fmt.Sprintf("Hi %s,\n\nYour password was just changed. If this wasn't you, reset it immediately.\n", name)
		html = fmt.Sprintf("<p>Hi %s,</p><p>Your password was just changed. If this wasn't you, reset it immediately.</p>", name)
	default:
		text = fmt.Sprintf("Hi %s,\n\nYou have a new notification from VidHub.\n", name)
		html = ""
	}
	return text, html
}

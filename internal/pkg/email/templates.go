package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// templateDef pairs a subject line with an HTML body template.
// Subjects may reference template data too.
type templateDef struct {
	Subject string
	Body    string
}

const bodyWrapper = `<html><body><div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">%s<p>Best regards,<br>The Undergraduation Team</p></div></body></html>`

var templateDefs = map[string]templateDef{
	"welcome": {
		Subject: "Welcome to Undergraduation.com",
		Body: `<h2 style="color: #333;">Welcome aboard!</h2>
<p>Hello {{.name}},</p>
<p>Your Undergraduation.com profile is ready. Explore universities, track your applications and reach out to our counselors whenever you need guidance.</p>`,
	},
	"application_reminder": {
		Subject: "Your application is waiting",
		Body: `<h2 style="color: #333;">Don't lose momentum</h2>
<p>Hello {{.name}},</p>
<p>Your application is currently in the <strong>{{.application_status}}</strong> stage. Log in to pick up where you left off.</p>`,
	},
	"document_request": {
		Subject: "Documents needed for your application",
		Body: `<h2 style="color: #333;">We need a few documents</h2>
<p>Hello {{.name}},</p>
<p>To move your application forward, please upload the following: {{.documents}}.</p>`,
	},
	"status_update": {
		Subject: "Your application status changed",
		Body: `<h2 style="color: #333;">Status update</h2>
<p>Hello {{.name}},</p>
<p>Your application status is now <strong>{{.application_status}}</strong>.</p>`,
	},
	"followup": {
		Subject: "Checking in on your college journey",
		Body: `<h2 style="color: #333;">How is it going?</h2>
<p>Hello {{.name}},</p>
<p>It has been a while since your last visit. Our counselors are happy to help with essays, shortlists or anything in between.</p>`,
	},
	"interview_invitation": {
		Subject: "Interview invitation",
		Body: `<h2 style="color: #333;">You're invited to interview</h2>
<p>Hello {{.name}},</p>
<p>We would like to schedule an interview with you{{if .interview_date}} on <strong>{{.interview_date}}</strong>{{end}}. Please confirm your availability.</p>`,
	},
	"admission_decision": {
		Subject: "Your admission decision is available",
		Body: `<h2 style="color: #333;">Decision released</h2>
<p>Hello {{.name}},</p>
<p>A decision has been made on your application. Log in to your dashboard to view it.</p>`,
	},
}

// RenderTemplate produces the subject and HTML body for a named template.
// Unknown data keys render as empty strings; unknown templates are an error.
func RenderTemplate(name string, data map[string]interface{}) (subject, body string, err error) {
	def, ok := templateDefs[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}

	tmpl, err := template.New(name).Option("missingkey=zero").Parse(fmt.Sprintf(bodyWrapper, def.Body))
	if err != nil {
		return "", "", fmt.Errorf("parse template %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render template %q: %w", name, err)
	}

	return def.Subject, buf.String(), nil
}

// HasTemplate reports whether name is a known template
func HasTemplate(name string) bool {
	_, ok := templateDefs[name]
	return ok
}

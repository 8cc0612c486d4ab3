package models

import "time"

// EmailTemplate names a canned notification message
type EmailTemplate string

const (
	TemplateWelcome             EmailTemplate = "welcome"
	TemplateApplicationReminder EmailTemplate = "application_reminder"
	TemplateDocumentRequest     EmailTemplate = "document_request"
	TemplateStatusUpdate        EmailTemplate = "status_update"
	TemplateFollowup            EmailTemplate = "followup"
	TemplateInterviewInvitation EmailTemplate = "interview_invitation"
	TemplateAdmissionDecision   EmailTemplate = "admission_decision"
)

// ValidEmailTemplates lists every sendable template
var ValidEmailTemplates = []EmailTemplate{
	TemplateWelcome,
	TemplateApplicationReminder,
	TemplateDocumentRequest,
	TemplateStatusUpdate,
	TemplateFollowup,
	TemplateInterviewInvitation,
	TemplateAdmissionDecision,
}

// IsValidEmailTemplate reports whether t is a known template name
func IsValidEmailTemplate(t string) bool {
	for _, v := range ValidEmailTemplates {
		if string(v) == t {
			return true
		}
	}
	return false
}

// EmailStatus records the delivery outcome for one recipient
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// EmailLog defines one delivery attempt based on the 'email_logs' table
type EmailLog struct {
	ID           string        `json:"id" db:"id"`
	Recipient    string        `json:"recipient" db:"recipient"`
	StudentID    *string       `json:"student_id,omitempty" db:"student_id"`
	Template     EmailTemplate `json:"template" db:"template"`
	Subject      string        `json:"subject" db:"subject"`
	Status       EmailStatus   `json:"status" db:"status"`
	ErrorMessage *string       `json:"error_message,omitempty" db:"error_message"`
	SentBy       string        `json:"sent_by" db:"sent_by"`
	SentAt       time.Time     `json:"sent_at" db:"sent_at"`
}

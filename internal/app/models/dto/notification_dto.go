package dto

import (
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
)

// SendEmailRequest sends one template to explicit recipients
type SendEmailRequest struct {
	Template   string                 `json:"template" binding:"required"`
	Recipients []string               `json:"recipients" binding:"required"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// SendToStudentRequest sends one template to a student's address.
// Student fields are injected into the template data automatically.
type SendToStudentRequest struct {
	StudentID string                 `json:"student_id" binding:"required"`
	Template  string                 `json:"template" binding:"required"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// SendBulkRequest sends one template to many students
type SendBulkRequest struct {
	StudentIDs []string               `json:"student_ids" binding:"required"`
	Template   string                 `json:"template" binding:"required"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// SendResult reports per-recipient outcomes of a send
type SendResult struct {
	Requested int                `json:"requested"`
	Sent      int                `json:"sent"`
	Failed    int                `json:"failed"`
	Logs      []EmailLogResponse `json:"logs"`
}

// EmailLogResponse represents one delivery attempt
type EmailLogResponse struct {
	ID           string    `json:"id"`
	Recipient    string    `json:"recipient"`
	StudentID    *string   `json:"student_id,omitempty"`
	Template     string    `json:"template"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status" enums:"sent,failed"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	SentBy       string    `json:"sent_by"`
	SentAt       time.Time `json:"sent_at"`
}

// FromEmailLog converts a models.EmailLog to an EmailLogResponse
func FromEmailLog(l *models.EmailLog) EmailLogResponse {
	if l == nil {
		return EmailLogResponse{}
	}
	return EmailLogResponse{
		ID:           l.ID,
		Recipient:    l.Recipient,
		StudentID:    l.StudentID,
		Template:     string(l.Template),
		Subject:      l.Subject,
		Status:       string(l.Status),
		ErrorMessage: l.ErrorMessage,
		SentBy:       l.SentBy,
		SentAt:       l.SentAt,
	}
}

// EmailLogListResponse represents a page of delivery attempts
type EmailLogListResponse struct {
	Logs []EmailLogResponse `json:"logs"`
	PaginationInfo
}

// EmailLogFilters restricts an email log query
type EmailLogFilters struct {
	StudentID string
	Template  string
	Status    string
	From      *time.Time
	To        *time.Time
}

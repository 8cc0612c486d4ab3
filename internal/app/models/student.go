package models

import "time"

// ApplicationStatus tracks where an applicant is in the admissions funnel
type ApplicationStatus string

const (
	StatusExploring    ApplicationStatus = "Exploring"
	StatusShortlisting ApplicationStatus = "Shortlisting"
	StatusApplying     ApplicationStatus = "Applying"
	StatusSubmitted    ApplicationStatus = "Submitted"
	StatusAdmitted     ApplicationStatus = "Admitted"
	StatusRejected     ApplicationStatus = "Rejected"
	StatusDeferred     ApplicationStatus = "Deferred"
)

// DefaultApplicationStatus is assigned when a record is created without one
const DefaultApplicationStatus = StatusExploring

// ValidApplicationStatuses lists every status the API accepts
var ValidApplicationStatuses = []ApplicationStatus{
	StatusExploring,
	StatusShortlisting,
	StatusApplying,
	StatusSubmitted,
	StatusAdmitted,
	StatusRejected,
	StatusDeferred,
}

// IsValidApplicationStatus reports whether s is a known status value
func IsValidApplicationStatus(s string) bool {
	for _, v := range ValidApplicationStatuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Student defines the applicant model based on the 'students' table
type Student struct {
	ID                string            `json:"id" db:"id" example:"7d9f1a2b-3c4d-4e5f-8a9b-0c1d2e3f4a5b"` // Store-generated identifier, immutable
	Name              string            `json:"name" db:"name" example:"Aisha Patel"`
	Email             string            `json:"email" db:"email" example:"aisha.patel@example.com"`
	Phone             *string           `json:"phone,omitempty" db:"phone" example:"14155552671"`
	Country           string            `json:"country" db:"country" example:"IND"` // ISO 3166-1 alpha-3
	Grade             *string           `json:"grade,omitempty" db:"grade" example:"12"`
	ApplicationStatus ApplicationStatus `json:"application_status" db:"application_status" example:"Exploring"`
	LastActive        *time.Time        `json:"last_active,omitempty" db:"last_active" example:"2025-06-01T09:30:00Z"`
	AISummary         *string           `json:"ai_summary,omitempty" db:"ai_summary"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at" example:"2025-01-15T10:00:00Z"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at" example:"2025-01-20T15:30:00Z"`
}

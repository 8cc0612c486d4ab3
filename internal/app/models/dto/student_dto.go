package dto

import (
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
)

// CreateStudentRequest represents applicant creation data.
// Unknown fields are rejected at the service layer, not silently dropped.
type CreateStudentRequest struct {
	Name              string     `json:"name" binding:"required"`
	Email             string     `json:"email" binding:"required"`
	Phone             *string    `json:"phone,omitempty"`
	Country           string     `json:"country,omitempty"`
	Grade             *string    `json:"grade,omitempty"`
	ApplicationStatus string     `json:"application_status,omitempty"`
	LastActive        *time.Time `json:"last_active,omitempty"`
	AISummary         *string    `json:"ai_summary,omitempty"`
}

// UpdateStudentRequest represents a partial update. Only supplied fields are
// validated and written; pointers distinguish "absent" from "set to empty".
type UpdateStudentRequest struct {
	Name              *string    `json:"name,omitempty"`
	Email             *string    `json:"email,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	Country           *string    `json:"country,omitempty"`
	Grade             *string    `json:"grade,omitempty"`
	ApplicationStatus *string    `json:"application_status,omitempty"`
	LastActive        *time.Time `json:"last_active,omitempty"`
	AISummary         *string    `json:"ai_summary,omitempty"`
}

// IsEmpty reports whether the request carries no updatable fields
func (r *UpdateStudentRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Country == nil &&
		r.Grade == nil && r.ApplicationStatus == nil && r.LastActive == nil && r.AISummary == nil
}

// StudentResponse represents one applicant record
type StudentResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             *string    `json:"phone,omitempty"`
	Country           string     `json:"country"`
	Grade             *string    `json:"grade,omitempty"`
	ApplicationStatus string     `json:"application_status"`
	LastActive        *time.Time `json:"last_active,omitempty"`
	AISummary         *string    `json:"ai_summary,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(s *models.Student) StudentResponse {
	if s == nil {
		return StudentResponse{}
	}
	return StudentResponse{
		ID:                s.ID,
		Name:              s.Name,
		Email:             s.Email,
		Phone:             s.Phone,
		Country:           s.Country,
		Grade:             s.Grade,
		ApplicationStatus: string(s.ApplicationStatus),
		LastActive:        s.LastActive,
		AISummary:         s.AISummary,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// FromStudents converts a slice of models.Student
func FromStudents(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, FromStudent(s))
	}
	return out
}

// StudentListResponse represents a page of applicant records
type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
	PaginationInfo
}

// StudentListFilters carries the supported list filters
type StudentListFilters struct {
	Name           string
	Email          string
	Status         string
	OrderBy        string
	OrderDirection string
}

package dto

import (
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
)

// AuditLogResponse represents one audit trail entry
type AuditLogResponse struct {
	ID         int64                  `json:"id"`
	ActorID    string                 `json:"actor_id"`
	ActorEmail string                 `json:"actor_email"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   *string                `json:"target_id,omitempty"`
	Severity   string                 `json:"severity"`
	Success    bool                   `json:"success"`
	Details    map[string]interface{} `json:"details,omitempty"`
	IPAddress  *string                `json:"ip_address,omitempty"`
	UserAgent  *string                `json:"user_agent,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// FromAuditLogEntry converts a models.AuditLogEntry to an AuditLogResponse
func FromAuditLogEntry(e *models.AuditLogEntry) AuditLogResponse {
	if e == nil {
		return AuditLogResponse{}
	}
	return AuditLogResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		ActorEmail: e.ActorEmail,
		ActorRole:  string(e.ActorRole),
		Action:     string(e.Action),
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Severity:   string(e.Severity),
		Success:    e.Success,
		Details:    e.Details,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	}
}

// AuditLogListResponse represents a page of audit trail entries
type AuditLogListResponse struct {
	Logs []AuditLogResponse `json:"logs"`
	PaginationInfo
}

// AuditLogFilters restricts an audit trail query
type AuditLogFilters struct {
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
	From       *time.Time
	To         *time.Time
}
